package services

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"etalase/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var (
	hundred      = decimal.NewFromInt(100)
	pricePrinter = message.NewPrinter(language.Indonesian)
)

// DiscountedPrice returns round(oldPrice * (1 - discount/100)), or 0 when the
// discount is 100% or more. Rounding is half away from zero.
func DiscountedPrice(oldPrice, discount float64) float64 {
	if discount >= 100 {
		return 0
	}
	old := decimal.NewFromFloat(oldPrice)
	cut := old.Mul(decimal.NewFromFloat(discount)).Div(hundred)
	return old.Sub(cut).Round(0).InexactFloat64()
}

// DiscountPercent is the badge value: round((old-new)/old*100).
func DiscountPercent(oldPrice, newPrice float64) int {
	if oldPrice <= 0 {
		return 0
	}
	old := decimal.NewFromFloat(oldPrice)
	pct := old.Sub(decimal.NewFromFloat(newPrice)).Div(old).Mul(hundred).Round(0)
	return int(pct.IntPart())
}

// FormatCountdown renders a remaining duration as HH:MM:SS, flooring to the second.
func FormatCountdown(left time.Duration) string {
	if left <= 0 {
		return "00:00:00"
	}
	total := int64(left / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}

// FormatPrice renders an amount with Indonesian digit grouping, e.g. 22.000.
func FormatPrice(amount float64) string {
	return pricePrinter.Sprint(number.Decimal(amount, number.MaxFractionDigits(3)))
}

// OrderMessage is the text pre-filled into the messaging link.
func OrderMessage(name string, price float64) string {
	return fmt.Sprintf("Halo kak saya mau order %s (Rp %s)", name, FormatPrice(price))
}

// OrderLink builds the wa.me link for recipient. Spaces are escaped as %20.
func OrderLink(recipient, name string, price float64) string {
	text := strings.ReplaceAll(url.QueryEscape(OrderMessage(name, price)), "+", "%20")
	return "https://wa.me/" + url.PathEscape(recipient) + "?text=" + text
}

// Card is everything the storefront shows for one product.
type Card struct {
	ID              string
	Name            string
	OldPrice        string
	NewPrice        string
	DiscountPercent int
	Countdown       string
	ButtonText      string
}

// HasDiscount reports whether the discount badge is shown.
func (c Card) HasDiscount() bool {
	return c.DiscountPercent > 0
}

// HasCountdown reports whether the countdown badge is shown.
func (c Card) HasCountdown() bool {
	return c.Countdown != ""
}

// CardFor derives the display values of p at now.
func CardFor(p models.Product, now time.Time) Card {
	name := p.Name
	if name == "" {
		name = "Produk"
	}
	card := Card{
		ID:              p.ID,
		Name:            name,
		OldPrice:        FormatPrice(p.OldPrice),
		NewPrice:        FormatPrice(p.NewPrice),
		DiscountPercent: DiscountPercent(p.OldPrice, p.NewPrice),
		ButtonText:      p.Label(),
	}
	if p.TimerEnd != nil {
		if left := p.TimerEnd.Sub(now); left > 0 {
			card.Countdown = FormatCountdown(left)
		}
	}
	return card
}

// CardsFor derives cards for a whole catalog.
func CardsFor(products []models.Product, now time.Time) []Card {
	cards := make([]Card, 0, len(products))
	for _, p := range products {
		if p.ID == "" {
			continue
		}
		cards = append(cards, CardFor(p, now))
	}
	return cards
}
