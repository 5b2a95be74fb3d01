package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/masterdex/card-search-go/internal/cards"
	"github.com/masterdex/card-search-go/internal/config"
	logger "github.com/masterdex/card-search-go/internal/log"
	"github.com/masterdex/card-search-go/internal/pokemontcg"
	"github.com/masterdex/card-search-go/internal/stats"
	"github.com/masterdex/card-search-go/internal/storage"
	"github.com/masterdex/card-search-go/internal/timer"
	"github.com/masterdex/card-search-go/internal/web"
	"github.com/rs/zerolog/log"
)

const usage = `Usage: card-images-cli [options...]
  -c, --config path to the config file (default: ./configs/application.yaml)
  -m, --masterlist path to the masterlist json file (default: ./data/masterlist.json)
  -d, --concurrent number of concurrent downloads (default: 5)
  -v, --verify only verify existing downloads without downloading
  -h, --help prints help information
`

var cfg *config.Config
var masterlistPath string
var opts cards.DownloadOptions

func init() {
	logger.SetupConsoleLogger()

	var configPath string

	flag.StringVar(&configPath, "c", "./configs/application.yaml", "path to the config file")
	flag.StringVar(&configPath, "config", "./configs/application.yaml", "path to the config file")
	flag.StringVar(&masterlistPath, "m", "./data/masterlist.json", "path to the masterlist json file")
	flag.StringVar(&masterlistPath, "masterlist", "./data/masterlist.json", "path to the masterlist json file")
	flag.IntVar(&opts.Concurrent, "d", 5, "number of concurrent downloads")
	flag.IntVar(&opts.Concurrent, "concurrent", 5, "number of concurrent downloads")
	flag.BoolVar(&opts.VerifyOnly, "v", false, "only verify existing downloads")
	flag.BoolVar(&opts.VerifyOnly, "verify", false, "only verify existing downloads")
	flag.Usage = func() { fmt.Print(usage) }
	flag.Parse()

	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		panic(err)
	}

	if err = logger.SetLogLevel(cfg.Logging.LevelOrDefault()); err != nil {
		panic(err)
	}

	log.Info().Msgf("OS\t\t %s", runtime.GOOS)
	log.Info().Msgf("ARCH\t\t %s", runtime.GOARCH)
	log.Info().Msgf("CPUs\t\t %d", runtime.NumCPU())
	log.Info().Msgf("Starting with masterlist %s", masterlistPath)
}

func main() {
	defer timer.TimeTrack(time.Now(), "images")

	store, err := storage.NewLocalStorage(cfg.Storage)
	if err != nil {
		log.Error().Err(err).Msg("failed to create local storage")
		return
	}

	f, err := os.Open(masterlistPath)
	if err != nil {
		log.Error().Err(err).Msg("failed to open masterlist")
		return
	}
	defer f.Close()

	list, err := cards.ReadMasterlist(f)
	if err != nil {
		log.Error().Err(err).Msg("failed to read masterlist")
		return
	}

	httpClient := &http.Client{Timeout: cfg.Upstream.Client.TimeoutOrDefault()}
	client := pokemontcg.NewClient(cfg.Upstream, web.NewClient(cfg.Upstream.Client, httpClient))

	report, err := cards.NewImageImporter(store, client).Import(context.Background(), list, opts)
	if err != nil {
		log.Error().Err(err).Msg("image import failed")
		return
	}
	log.Info().Msgf("Report %#v", report)

	stats.LogMemUsage()
}
