package services

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"etalase/internal/errx"
	"etalase/pkg/logx"

	"github.com/rs/zerolog"
)

// MaxOffsetMinutes bounds the admin clock offset in both directions.
const MaxOffsetMinutes = 720

var (
	shortWeekdays = [...]string{"Min", "Sen", "Sel", "Rab", "Kam", "Jum", "Sab"}
	shortMonths   = [...]string{"Jan", "Feb", "Mar", "Apr", "Mei", "Jun", "Jul", "Agu", "Sep", "Okt", "Nov", "Des"}
)

// OffsetStore persists the clock offset.
type OffsetStore interface {
	LoadOffset() int
	SaveOffset(minutes int)
}

// ClockPublisher receives the formatted clock on every tick.
type ClockPublisher interface {
	Clock(view ClockView)
}

// ClockView is the formatted wall clock.
type ClockView struct {
	Time   string `json:"time"`
	Date   string `json:"date"`
	Offset int    `json:"offset"`
}

// Clock is the storefront wall clock, shifted by an admin-set offset.
// It shares no state with the catalog.
type Clock struct {
	offset    atomic.Int64
	store     OffsetStore
	publisher ClockPublisher
	now       func() time.Time
	loc       *time.Location
	log       zerolog.Logger
}

// NewClock restores the persisted offset. Times are shown in loc (local when nil).
func NewClock(store OffsetStore, publisher ClockPublisher, loc *time.Location, now func() time.Time) *Clock {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.Local
	}
	c := &Clock{
		store:     store,
		publisher: publisher,
		now:       now,
		loc:       loc,
		log:       logx.Component("clock"),
	}
	c.offset.Store(int64(store.LoadOffset()))
	return c
}

func (c *Clock) Offset() int {
	return int(c.offset.Load())
}

// SetOffset validates, applies and persists a new offset.
func (c *Clock) SetOffset(minutes int) error {
	if minutes < -MaxOffsetMinutes || minutes > MaxOffsetMinutes {
		return errx.BadRequest(fmt.Sprintf("offset harus antara -%d dan %d menit", MaxOffsetMinutes, MaxOffsetMinutes))
	}
	c.offset.Store(int64(minutes))
	c.store.SaveOffset(minutes)
	c.log.Info().Int("offset", minutes).Msg("clock offset changed")
	c.publish()
	return nil
}

// Now returns wall time shifted by the offset.
func (c *Clock) Now() time.Time {
	return c.now().Add(time.Duration(c.offset.Load()) * time.Minute).In(c.loc)
}

// Display formats Now as HH:MM:SS plus an Indonesian short date.
func (c *Clock) Display() ClockView {
	t := c.Now()
	return ClockView{
		Time:   t.Format("15:04:05"),
		Date:   FormatDate(t),
		Offset: c.Offset(),
	}
}

// FormatDate renders t like "Sen, 19 Okt 2026".
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%s, %d %s %d", shortWeekdays[t.Weekday()], t.Day(), shortMonths[t.Month()-1], t.Year())
}

// Run publishes the clock every interval until ctx is done.
func (c *Clock) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	c.publish()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.publish()
		}
	}
}

func (c *Clock) publish() {
	defer func() {
		if r := recover(); r != nil {
			c.log.Error().Interface("panic", r).Msg("clock tick failed")
		}
	}()
	if c.publisher != nil {
		c.publisher.Clock(c.Display())
	}
}
