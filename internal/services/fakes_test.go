package services

import (
	"sync"
	"time"

	"etalase/internal/models"
)

var baseTime = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

// fakeClock is a settable time source safe for use from the timer goroutine.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock { return &fakeClock{t: baseTime} }

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.t = f.t.Add(d)
	f.mu.Unlock()
}

type memPersister struct {
	mu      sync.Mutex
	initial []models.Product
	saved   []models.Product
	saves   int
}

func (m *memPersister) Load() []models.Product {
	if m.initial == nil {
		return models.DefaultProducts()
	}
	return models.CloneAll(m.initial)
}

func (m *memPersister) Save(products []models.Product) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = models.CloneAll(products)
	m.saves++
}

func (m *memPersister) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

func (m *memPersister) Saved() []models.Product {
	m.mu.Lock()
	defer m.mu.Unlock()
	return models.CloneAll(m.saved)
}

type countingNotifier struct {
	mu      sync.Mutex
	reloads int
}

func (n *countingNotifier) Reload() {
	n.mu.Lock()
	n.reloads++
	n.mu.Unlock()
}

func (n *countingNotifier) Count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.reloads
}

type recordingPublisher struct {
	mu         sync.Mutex
	countdowns [][]Countdown
	clocks     []ClockView
}

func (p *recordingPublisher) Countdowns(items []Countdown) {
	p.mu.Lock()
	p.countdowns = append(p.countdowns, items)
	p.mu.Unlock()
}

func (p *recordingPublisher) Clock(view ClockView) {
	p.mu.Lock()
	p.clocks = append(p.clocks, view)
	p.mu.Unlock()
}

func (p *recordingPublisher) CountdownCalls() [][]Countdown {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([][]Countdown(nil), p.countdowns...)
}

func (p *recordingPublisher) ClockCalls() []ClockView {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]ClockView(nil), p.clocks...)
}

type memOffsetStore struct {
	mu      sync.Mutex
	minutes int
	saves   int
}

func (s *memOffsetStore) LoadOffset() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.minutes
}

func (s *memOffsetStore) SaveOffset(minutes int) {
	s.mu.Lock()
	s.minutes = minutes
	s.saves++
	s.mu.Unlock()
}
