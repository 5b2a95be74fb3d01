package cards

import (
	"fmt"
	"strings"
)

var ErrCardNotFound = fmt.Errorf("card not found")
var ErrImageNotFound = fmt.Errorf("card image not found")

// SearchFilter holds the user-entered search terms for a single search call.
// A value that contains a colon is treated as explicit field syntax and is
// not wrapped by the query builder.
type SearchFilter struct {
	Name   string
	Attack string
}

// SearchResult is one page of a card search as delivered by the upstream
// API. Count always equals len(Data) and is bound by TotalCount, both
// guaranteed by the upstream contract.
type SearchResult struct {
	Data       []Card `json:"data"`
	Page       int    `json:"page"`
	PageSize   int    `json:"pageSize"`
	Count      int    `json:"count"`
	TotalCount int    `json:"totalCount"`
}

// Card is a read-only record as returned by the upstream API. Price blocks
// and marketplace links are optional and stay nil when absent.
type Card struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Supertype  string      `json:"supertype,omitempty"`
	Subtypes   []string    `json:"subtypes,omitempty"`
	HP         string      `json:"hp,omitempty"`
	Types      []string    `json:"types,omitempty"`
	Number     string      `json:"number,omitempty"`
	Rarity     string      `json:"rarity,omitempty"`
	Attacks    []Attack    `json:"attacks,omitempty"`
	Set        Set         `json:"set,omitempty"`
	Images     Images      `json:"images,omitempty"`
	TCGPlayer  *TCGPlayer  `json:"tcgplayer,omitempty"`
	Cardmarket *Cardmarket `json:"cardmarket,omitempty"`
}

type Attack struct {
	Name                string   `json:"name"`
	Cost                []string `json:"cost,omitempty"`
	ConvertedEnergyCost int      `json:"convertedEnergyCost,omitempty"`
	Damage              string   `json:"damage,omitempty"`
	Text                string   `json:"text,omitempty"`
}

type Set struct {
	ID           string    `json:"id,omitempty"`
	Name         string    `json:"name,omitempty"`
	Series       string    `json:"series,omitempty"`
	PrintedTotal int       `json:"printedTotal,omitempty"`
	Total        int       `json:"total,omitempty"`
	ReleaseDate  string    `json:"releaseDate,omitempty"`
	Images       SetImages `json:"images,omitempty"`
}

type SetImages struct {
	Symbol string `json:"symbol,omitempty"`
	Logo   string `json:"logo,omitempty"`
}

type Images struct {
	Small string `json:"small,omitempty"`
	Large string `json:"large,omitempty"`
}

// Best returns the highest resolution image URL or an empty string if the
// card carries no image at all.
func (i Images) Best() string {
	if i.Large != "" {
		return i.Large
	}

	return i.Small
}

type TCGPlayer struct {
	URL       string                    `json:"url,omitempty"`
	UpdatedAt string                    `json:"updatedAt,omitempty"`
	Prices    map[string]TCGPlayerPrice `json:"prices,omitempty"`
}

type TCGPlayerPrice struct {
	Low       *float64 `json:"low,omitempty"`
	Mid       *float64 `json:"mid,omitempty"`
	High      *float64 `json:"high,omitempty"`
	Market    *float64 `json:"market,omitempty"`
	DirectLow *float64 `json:"directLow,omitempty"`
}

type Cardmarket struct {
	URL       string           `json:"url,omitempty"`
	UpdatedAt string           `json:"updatedAt,omitempty"`
	Prices    CardmarketPrices `json:"prices,omitempty"`
}

type CardmarketPrices struct {
	AverageSellPrice *float64 `json:"averageSellPrice,omitempty"`
	TrendPrice       *float64 `json:"trendPrice,omitempty"`
	Avg7             *float64 `json:"avg7,omitempty"`
	Avg30            *float64 `json:"avg30,omitempty"`
}

// MarketPrice returns the first known market price of the card. Cards
// without any price data return false.
func (c Card) MarketPrice() (float64, bool) {
	if c.TCGPlayer != nil {
		for _, variant := range []string{"normal", "holofoil", "reverseHolofoil"} {
			if p, ok := c.TCGPlayer.Prices[variant]; ok && p.Market != nil {
				return *p.Market, true
			}
		}
		for _, p := range c.TCGPlayer.Prices {
			if p.Market != nil {
				return *p.Market, true
			}
		}
	}

	if c.Cardmarket != nil && c.Cardmarket.Prices.TrendPrice != nil {
		return *c.Cardmarket.Prices.TrendPrice, true
	}

	return 0, false
}

// SafeFilename turns the card ID into a name that can be used as a file
// name on every platform.
func (c Card) SafeFilename() string {
	r := strings.NewReplacer("/", "_", "\\", "_")

	return r.Replace(c.ID)
}
