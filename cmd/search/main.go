package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"time"

	"github.com/fatih/color"
	"github.com/masterdex/card-search-go/internal/cards"
	"github.com/masterdex/card-search-go/internal/config"
	logger "github.com/masterdex/card-search-go/internal/log"
	"github.com/masterdex/card-search-go/internal/pokemontcg"
	"github.com/masterdex/card-search-go/internal/timer"
	"github.com/masterdex/card-search-go/internal/web"
	"github.com/rs/zerolog/log"
)

const usage = `Usage: card-search-cli [options...]
  -c, --config path to the config file (default: ./configs/application.yaml)
  -n, --name card name, bare text or field:value syntax
  -a, --attack attack name, bare text or field:value syntax
  -i, --id fetch a single card by its ID instead of searching
  -h, --help prints help information
`

var cfg *config.Config
var name string
var attack string
var cardID string

func init() {
	logger.SetupConsoleLogger()

	var configPath string

	flag.StringVar(&configPath, "c", "./configs/application.yaml", "path to the config file")
	flag.StringVar(&configPath, "config", "./configs/application.yaml", "path to the config file")
	flag.StringVar(&name, "n", "", "card name to search for")
	flag.StringVar(&name, "name", "", "card name to search for")
	flag.StringVar(&attack, "a", "", "attack name to search for")
	flag.StringVar(&attack, "attack", "", "attack name to search for")
	flag.StringVar(&cardID, "i", "", "card ID to fetch")
	flag.StringVar(&cardID, "id", "", "card ID to fetch")
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
}

func main() {
	defer timer.TimeTrack(time.Now(), "search")

	httpClient := &http.Client{Timeout: cfg.Upstream.Client.TimeoutOrDefault()}
	client := pokemontcg.NewClient(cfg.Upstream, web.NewClient(cfg.Upstream.Client.WithoutRetries(), httpClient))

	ctx := context.Background()

	if cardID != "" {
		card, err := client.GetCard(ctx, cardID)
		if err != nil {
			log.Error().Err(err).Msg("card lookup failed")
			return
		}
		printCard(card)
		return
	}

	result, err := client.Search(ctx, cards.SearchFilter{Name: name, Attack: attack})
	if err != nil {
		log.Error().Err(err).Msg("search failed")
		return
	}
	printResult(result)
}

func printResult(result cards.SearchResult) {
	header := color.New(color.FgCyan, color.Bold)
	header.Printf("%d of %d cards (page %d)\n", result.Count, result.TotalCount, result.Page)

	bold := color.New(color.Bold)
	for _, c := range result.Data {
		bold.Printf("%-30s", c.Name)
		fmt.Printf(" %s #%s %s", c.Set.Name, c.Number, c.Rarity)
		if price, ok := c.MarketPrice(); ok {
			color.Green(" $%.2f", price)
		} else {
			fmt.Println()
		}
	}
}

func printCard(c cards.Card) {
	bold := color.New(color.Bold)
	bold.Println(c.Name)
	fmt.Printf("ID:     %s\n", c.ID)
	fmt.Printf("Set:    %s #%s\n", c.Set.Name, c.Number)
	fmt.Printf("Rarity: %s\n", c.Rarity)
	for _, a := range c.Attacks {
		fmt.Printf("Attack: %s %s\n", a.Name, a.Damage)
	}
	if price, ok := c.MarketPrice(); ok {
		color.Green("Market: $%.2f", price)
	}
	if img := c.Images.Best(); img != "" {
		fmt.Printf("Image:  %s\n", img)
	}
}
