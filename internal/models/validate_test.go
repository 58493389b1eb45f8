package models

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

var validateNow = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func TestValidateStoredAcceptsCompleteEntry(t *testing.T) {
	raw := json.RawMessage(`{"id":"p9","name":"X","oldPrice":10000,"newPrice":8000,"discount":20,"timerEnd":"2026-10-19T12:05:00Z","buttonText":"BELI"}`)

	p, err := ValidateStored(0, raw, validateNow)
	if err != nil {
		t.Fatalf("ValidateStored: %v", err)
	}
	if p.ID != "p9" || p.Name != "X" || p.OldPrice != 10000 || p.NewPrice != 8000 || p.Discount != 20 {
		t.Fatalf("unexpected product: %+v", p)
	}
	if p.TimerEnd == nil || !p.TimerEnd.Equal(validateNow.Add(5*time.Minute)) {
		t.Fatalf("timerEnd = %v", p.TimerEnd)
	}
	if p.ButtonText != "BELI" {
		t.Fatalf("buttonText = %q", p.ButtonText)
	}
}

func TestValidateStoredDefaultsButtonText(t *testing.T) {
	raw := json.RawMessage(`{"id":"p1","name":"A","oldPrice":1,"newPrice":1,"discount":0}`)
	p, err := ValidateStored(0, raw, validateNow)
	if err != nil {
		t.Fatalf("ValidateStored: %v", err)
	}
	if p.ButtonText != DefaultButtonText {
		t.Fatalf("buttonText = %q, want default", p.ButtonText)
	}
	if p.TimerEnd != nil {
		t.Fatalf("timerEnd = %v, want nil", p.TimerEnd)
	}
}

func TestValidateStoredRevertsPastTimer(t *testing.T) {
	raw := json.RawMessage(`{"id":"p1","name":"A","oldPrice":10000,"newPrice":5000,"discount":50,"timerEnd":"2026-10-19T11:00:00Z"}`)
	p, err := ValidateStored(0, raw, validateNow)
	if err != nil {
		t.Fatalf("ValidateStored: %v", err)
	}
	if p.TimerEnd != nil || p.Discount != 0 || p.NewPrice != 10000 {
		t.Fatalf("past timer not reverted: %+v", p)
	}
}

func TestValidateStoredRevertsUnreadableTimer(t *testing.T) {
	raw := json.RawMessage(`{"id":"p1","name":"A","oldPrice":10000,"newPrice":5000,"discount":50,"timerEnd":"besok"}`)
	p, err := ValidateStored(0, raw, validateNow)
	if err != nil {
		t.Fatalf("ValidateStored: %v", err)
	}
	if p.TimerEnd != nil || p.Discount != 0 || p.NewPrice != 10000 {
		t.Fatalf("unreadable timer not reverted: %+v", p)
	}
}

func TestValidateStoredKeepsPermanentDiscount(t *testing.T) {
	raw := json.RawMessage(`{"id":"p1","name":"A","oldPrice":10000,"newPrice":9000,"discount":10,"timerEnd":null}`)
	p, err := ValidateStored(0, raw, validateNow)
	if err != nil {
		t.Fatalf("ValidateStored: %v", err)
	}
	if p.Discount != 10 || p.NewPrice != 9000 {
		t.Fatalf("permanent discount lost: %+v", p)
	}
}

func TestValidateStoredRejects(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		field string
		want  error
	}{
		{"array", `[1,2]`, "", ErrNotObject},
		{"null", `null`, "", ErrNotObject},
		{"missing id", `{"name":"A","oldPrice":1,"newPrice":1,"discount":0}`, "id", ErrMissingField},
		{"numeric id", `{"id":1,"name":"A","oldPrice":1,"newPrice":1,"discount":0}`, "id", ErrWrongType},
		{"null name", `{"id":"p","name":null,"oldPrice":1,"newPrice":1,"discount":0}`, "name", ErrWrongType},
		{"string price", `{"id":"p","name":"A","oldPrice":"1","newPrice":1,"discount":0}`, "oldPrice", ErrWrongType},
		{"missing discount", `{"id":"p","name":"A","oldPrice":1,"newPrice":1}`, "discount", ErrMissingField},
		{"zero price", `{"id":"p","name":"A","oldPrice":0,"newPrice":0,"discount":0}`, "oldPrice", ErrNonPositivePrice},
		{"negative price", `{"id":"p","name":"A","oldPrice":-5,"newPrice":1,"discount":0}`, "oldPrice", ErrNonPositivePrice},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateStored(3, json.RawMessage(tt.raw), validateNow)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			var rej *Rejection
			if !errors.As(err, &rej) {
				t.Fatalf("err is not a *Rejection: %T", err)
			}
			if rej.Index != 3 || rej.Field != tt.field {
				t.Fatalf("rejection = %+v, want index 3 field %q", rej, tt.field)
			}
		})
	}
}
