package main

import (
	"flag"
	"net/http"
	"runtime"

	"github.com/masterdex/card-search-go/internal/config"
	logger "github.com/masterdex/card-search-go/internal/log"
	"github.com/masterdex/card-search-go/internal/pokemontcg"
	"github.com/masterdex/card-search-go/internal/proxy"
	"github.com/masterdex/card-search-go/internal/web"
	"github.com/rs/zerolog/log"
)

var cfg *config.Config

func init() {
	logger.SetupConsoleLogger()

	var configPath string

	flag.StringVar(&configPath, "c", "./configs/application.yaml", "path to the config file")
	flag.StringVar(&configPath, "config", "./configs/application.yaml", "path to the config file")
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
}

func main() {
	httpClient := &http.Client{Timeout: cfg.Upstream.Client.TimeoutOrDefault()}
	client := pokemontcg.NewClient(cfg.Upstream, web.NewClient(cfg.Upstream.Client.WithoutRetries(), httpClient))

	cache := proxy.NewRedisCache(cfg.Cache)
	if cache == nil {
		log.Info().Msg("response cache disabled")
	}

	srv := proxy.NewServer(cfg.Proxy, client, cache)

	log.Info().Msgf("Listening on %s", cfg.Proxy.AddrOrDefault())
	if err := srv.Run(); err != nil {
		log.Error().Err(err).Msg("proxy server failed")
	}
}
