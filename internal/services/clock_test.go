package services

import (
	"context"
	"net/http"
	"testing"
	"time"
)

func TestClockRestoresOffset(t *testing.T) {
	store := &memOffsetStore{minutes: 90}
	fc := newFakeClock()
	c := NewClock(store, nil, time.UTC, fc.Now)

	if c.Offset() != 90 {
		t.Fatalf("offset = %d, want 90", c.Offset())
	}
	if want := baseTime.Add(90 * time.Minute); !c.Now().Equal(want) {
		t.Fatalf("Now = %v, want %v", c.Now(), want)
	}
}

func TestSetOffsetBounds(t *testing.T) {
	store := &memOffsetStore{}
	pub := &recordingPublisher{}
	c := NewClock(store, pub, time.UTC, newFakeClock().Now)

	for _, m := range []int{721, -721, 10000} {
		err := c.SetOffset(m)
		if err == nil {
			t.Fatalf("SetOffset(%d) accepted", m)
		}
		wantStatus(t, err, http.StatusBadRequest)
	}
	if store.saves != 0 || c.Offset() != 0 {
		t.Fatalf("rejected offsets changed state: saves=%d offset=%d", store.saves, c.Offset())
	}

	for _, m := range []int{720, -720, 0, 15} {
		if err := c.SetOffset(m); err != nil {
			t.Fatalf("SetOffset(%d): %v", m, err)
		}
		if store.LoadOffset() != m || c.Offset() != m {
			t.Fatalf("offset %d not applied", m)
		}
	}
	if calls := pub.ClockCalls(); len(calls) != 4 || calls[3].Offset != 15 {
		t.Fatalf("clock publishes = %+v", calls)
	}
}

func TestDisplay(t *testing.T) {
	store := &memOffsetStore{minutes: -30}
	c := NewClock(store, nil, time.UTC, newFakeClock().Now)

	v := c.Display()
	if v.Time != "11:30:00" || v.Date != "Sen, 19 Okt 2026" || v.Offset != -30 {
		t.Fatalf("display = %+v", v)
	}
}

func TestDisplayCrossesDayBoundary(t *testing.T) {
	store := &memOffsetStore{minutes: -720}
	c := NewClock(store, nil, time.UTC, func() time.Time {
		return time.Date(2026, 10, 19, 5, 0, 0, 0, time.UTC)
	})
	if v := c.Display(); v.Date != "Min, 18 Okt 2026" || v.Time != "17:00:00" {
		t.Fatalf("display = %+v", v)
	}
}

func TestFormatDate(t *testing.T) {
	if got := FormatDate(time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)); got != "Jum, 1 Jan 2027" {
		t.Fatalf("FormatDate = %q", got)
	}
}

func TestRunPublishesUntilCancelled(t *testing.T) {
	pub := &recordingPublisher{}
	c := NewClock(&memOffsetStore{}, pub, time.UTC, newFakeClock().Now)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Run(ctx, 5*time.Millisecond)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for len(pub.ClockCalls()) < 2 {
		if time.Now().After(deadline) {
			t.Fatal("clock never published")
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
