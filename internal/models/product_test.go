package models

import (
	"testing"
	"time"
)

func TestDefaultProductsAreFreshCopies(t *testing.T) {
	a := DefaultProducts()
	if len(a) != 3 {
		t.Fatalf("len = %d, want 3", len(a))
	}
	a[0].Name = "changed"
	b := DefaultProducts()
	if b[0].Name != "HOLO ALL CHAR FFM" {
		t.Fatalf("seed mutated through a copy: %q", b[0].Name)
	}
	for _, p := range b {
		if p.OldPrice != p.NewPrice || p.Discount != 0 || p.TimerEnd != nil || p.ButtonText != DefaultButtonText {
			t.Fatalf("seed product not at base state: %+v", p)
		}
	}
}

func TestExpiredIsInclusive(t *testing.T) {
	end := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	p := Product{TimerEnd: &end}
	if p.Expired(end.Add(-time.Nanosecond)) {
		t.Fatal("expired before deadline")
	}
	if !p.Expired(end) {
		t.Fatal("not expired at deadline")
	}
	if (&Product{}).Expired(end) {
		t.Fatal("product without timer reported expired")
	}
}

func TestCloneCopiesTimer(t *testing.T) {
	end := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	p := Product{ID: "p1", TimerEnd: &end}
	c := p.Clone()
	*c.TimerEnd = end.Add(time.Hour)
	if !p.TimerEnd.Equal(end) {
		t.Fatal("clone shares the timer pointer")
	}
}

func TestRevertAndLabel(t *testing.T) {
	end := time.Now()
	p := Product{OldPrice: 100, NewPrice: 50, Discount: 50, TimerEnd: &end}
	p.Revert()
	if p.NewPrice != 100 || p.Discount != 0 || p.TimerEnd != nil {
		t.Fatalf("revert left %+v", p)
	}
	if p.Label() != DefaultButtonText {
		t.Fatalf("label = %q", p.Label())
	}
	p.ButtonText = "BELI"
	if p.Label() != "BELI" {
		t.Fatalf("label = %q", p.Label())
	}
}
