package cards_test

import (
	"testing"

	"github.com/masterdex/card-search-go/internal/cards"
	"github.com/stretchr/testify/assert"
)

func fptr(v float64) *float64 {
	return &v
}

func TestImagesBest(t *testing.T) {
	cases := []struct {
		name   string
		images cards.Images
		want   string
	}{
		{
			name:   "prefers large",
			images: cards.Images{Small: "small.png", Large: "large.png"},
			want:   "large.png",
		},
		{
			name:   "falls back to small",
			images: cards.Images{Small: "small.png"},
			want:   "small.png",
		},
		{
			name:   "no image",
			images: cards.Images{},
			want:   "",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.images.Best())
		})
	}
}

func TestMarketPrice(t *testing.T) {
	cases := []struct {
		name  string
		card  cards.Card
		want  float64
		known bool
	}{
		{
			name: "tcgplayer normal variant",
			card: cards.Card{TCGPlayer: &cards.TCGPlayer{Prices: map[string]cards.TCGPlayerPrice{
				"normal":   {Market: fptr(0.25)},
				"holofoil": {Market: fptr(1.5)},
			}}},
			want:  0.25,
			known: true,
		},
		{
			name: "tcgplayer holofoil only",
			card: cards.Card{TCGPlayer: &cards.TCGPlayer{Prices: map[string]cards.TCGPlayerPrice{
				"holofoil": {Market: fptr(1.5)},
			}}},
			want:  1.5,
			known: true,
		},
		{
			name: "cardmarket trend fallback",
			card: cards.Card{Cardmarket: &cards.Cardmarket{
				Prices: cards.CardmarketPrices{TrendPrice: fptr(0.42)},
			}},
			want:  0.42,
			known: true,
		},
		{
			name: "no price data",
			card: cards.Card{},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			price, ok := tc.card.MarketPrice()

			assert.Equal(t, tc.known, ok)
			assert.Equal(t, tc.want, price)
		})
	}
}

func TestSafeFilename(t *testing.T) {
	c := cards.Card{ID: `xy7/54\a`}

	assert.Equal(t, "xy7_54_a", c.SafeFilename())
}
