package models

import (
	"time"
)

// DefaultButtonText is the order button label used when none is set.
const DefaultButtonText = "[ ORDER ]"

// Product is one catalog entry. TimerEnd is nil when no discount countdown runs.
type Product struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	OldPrice   float64    `json:"oldPrice"`
	NewPrice   float64    `json:"newPrice"`
	Discount   float64    `json:"discount"`
	TimerEnd   *time.Time `json:"timerEnd"`
	ButtonText string     `json:"buttonText"`
}

// HasTimer reports whether a discount countdown is set.
func (p *Product) HasTimer() bool {
	return p.TimerEnd != nil
}

// Expired reports whether the countdown has reached now.
func (p *Product) Expired(now time.Time) bool {
	return p.TimerEnd != nil && !now.Before(*p.TimerEnd)
}

// Revert clears the discount and restores the base price.
func (p *Product) Revert() {
	p.TimerEnd = nil
	p.NewPrice = p.OldPrice
	p.Discount = 0
}

// Label returns the button text, falling back to DefaultButtonText.
func (p *Product) Label() string {
	if p.ButtonText == "" {
		return DefaultButtonText
	}
	return p.ButtonText
}

// Clone returns a deep copy, so callers can't mutate the timer through it.
func (p Product) Clone() Product {
	if p.TimerEnd != nil {
		t := *p.TimerEnd
		p.TimerEnd = &t
	}
	return p
}

// CloneAll deep-copies a catalog.
func CloneAll(products []Product) []Product {
	out := make([]Product, len(products))
	for i, p := range products {
		out[i] = p.Clone()
	}
	return out
}

var defaultProducts = []Product{
	{ID: "p1", Name: "HOLO ALL CHAR FFM", OldPrice: 22000, NewPrice: 22000, ButtonText: DefaultButtonText},
	{ID: "p2", Name: "HOLO SENJATA FFM", OldPrice: 18000, NewPrice: 18000, ButtonText: DefaultButtonText},
	{ID: "p3", Name: "HOLO SENJATA FFB", OldPrice: 15000, NewPrice: 15000, ButtonText: DefaultButtonText},
}

// DefaultProducts returns a fresh copy of the seed catalog.
func DefaultProducts() []Product {
	return CloneAll(defaultProducts)
}
