package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Rejection reasons for stored entries.
var (
	ErrNotObject        = errors.New("entry is not an object")
	ErrMissingField     = errors.New("required field missing")
	ErrWrongType        = errors.New("field has wrong type")
	ErrNonPositivePrice = errors.New("oldPrice must be positive")
)

// Rejection explains why a stored entry was not accepted.
type Rejection struct {
	Index int
	Field string
	Err   error
}

func (r *Rejection) Error() string {
	if r.Field == "" {
		return fmt.Sprintf("entry %d: %v", r.Index, r.Err)
	}
	return fmt.Sprintf("entry %d: %s: %v", r.Index, r.Field, r.Err)
}

func (r *Rejection) Unwrap() error {
	return r.Err
}

// ValidateStored checks one raw stored entry and converts it into a Product.
// id and name must be strings; oldPrice, newPrice and discount must be numbers
// and oldPrice must be positive. timerEnd and buttonText are optional.
// The returned Product is normalised against now: a past or unreadable
// timerEnd is cleared together with the discount. Entries without a timer keep
// their discount as stored.
func ValidateStored(index int, raw json.RawMessage, now time.Time) (Product, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return Product{}, &Rejection{Index: index, Err: ErrNotObject}
	}

	var p Product
	if err := stringField(fields, "id", &p.ID); err != nil {
		return Product{}, reject(index, "id", err)
	}
	if err := stringField(fields, "name", &p.Name); err != nil {
		return Product{}, reject(index, "name", err)
	}
	if err := numberField(fields, "oldPrice", &p.OldPrice); err != nil {
		return Product{}, reject(index, "oldPrice", err)
	}
	if err := numberField(fields, "newPrice", &p.NewPrice); err != nil {
		return Product{}, reject(index, "newPrice", err)
	}
	if err := numberField(fields, "discount", &p.Discount); err != nil {
		return Product{}, reject(index, "discount", err)
	}
	if p.OldPrice <= 0 {
		return Product{}, reject(index, "oldPrice", ErrNonPositivePrice)
	}

	if rawText, ok := fields["buttonText"]; ok {
		var text string
		if json.Unmarshal(rawText, &text) == nil {
			p.ButtonText = text
		}
	}
	if p.ButtonText == "" {
		p.ButtonText = DefaultButtonText
	}

	if rawEnd, ok := fields["timerEnd"]; ok && string(rawEnd) != "null" {
		t, err := parseTimerEnd(rawEnd)
		if err != nil {
			// an unreadable deadline counts as already passed
			p.Revert()
			return p, nil
		}
		p.TimerEnd = &t
	}
	if p.Expired(now) {
		p.Revert()
	}
	return p, nil
}

func parseTimerEnd(raw json.RawMessage) (time.Time, error) {
	var end string
	if err := json.Unmarshal(raw, &end); err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339Nano, end)
}

func reject(index int, field string, err error) error {
	return &Rejection{Index: index, Field: field, Err: err}
}

func stringField(fields map[string]json.RawMessage, name string, dst *string) error {
	raw, ok := fields[name]
	if !ok {
		return ErrMissingField
	}
	if len(raw) == 0 || raw[0] != '"' {
		return ErrWrongType
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return ErrWrongType
	}
	return nil
}

func numberField(fields map[string]json.RawMessage, name string, dst *float64) error {
	raw, ok := fields[name]
	if !ok {
		return ErrMissingField
	}
	if len(raw) == 0 || !(raw[0] == '-' || (raw[0] >= '0' && raw[0] <= '9')) {
		return ErrWrongType
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return ErrWrongType
	}
	return nil
}
