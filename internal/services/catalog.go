package services

import (
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"etalase/internal/errx"
	"etalase/internal/metrics"
	"etalase/internal/models"
	"etalase/pkg/logx"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// MaxDiscount is the largest accepted discount percentage.
const MaxDiscount = 100

// MaxDiscountTimer is the longest accepted discount countdown.
const MaxDiscountTimer = 365 * 24 * time.Hour

// Persister loads and saves the whole catalog. Both calls are best effort.
type Persister interface {
	Load() []models.Product
	Save(products []models.Product)
}

// Notifier is told when the storefront must be rebuilt from scratch.
type Notifier interface {
	Reload()
}

type nopNotifier struct{}

func (nopNotifier) Reload() {}

// Countdown is the remaining time of one running discount timer.
type Countdown struct {
	ID        string        `json:"id"`
	Remaining time.Duration `json:"-"`
	Text      string        `json:"text"`
	Expired   bool          `json:"expired"`
}

// Catalog is the in-memory product list and the single source of truth for
// rendering and editing. Every mutation is persisted before it returns.
type Catalog struct {
	mu       sync.RWMutex
	products []models.Product
	db       Persister
	notifier Notifier
	now      func() time.Time
	log      zerolog.Logger
}

// NewCatalog loads the catalog from db.
func NewCatalog(db Persister, now func() time.Time) *Catalog {
	if now == nil {
		now = time.Now
	}
	c := &Catalog{
		products: db.Load(),
		db:       db,
		notifier: nopNotifier{},
		now:      now,
		log:      logx.Component("catalog"),
	}
	metrics.CatalogSize.Set(float64(len(c.products)))
	return c
}

// SetNotifier installs the storefront re-render hook.
func (c *Catalog) SetNotifier(n Notifier) {
	if n == nil {
		n = nopNotifier{}
	}
	c.mu.Lock()
	c.notifier = n
	c.mu.Unlock()
}

// List returns a copy of the catalog in display order.
func (c *Catalog) List() []models.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return models.CloneAll(c.products)
}

func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.products)
}

// Get returns a copy of the product with id.
func (c *Catalog) Get(id string) (models.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i := c.indexOf(id)
	if i < 0 {
		return models.Product{}, errx.NotFound("produk tidak ditemukan")
	}
	return c.products[i].Clone(), nil
}

// Add appends a new undiscounted product with a fresh unique id.
func (c *Catalog) Add(name string, price float64, buttonText string) (models.Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Product{}, errx.BadRequest("nama produk wajib diisi")
	}
	if !validAmount(price) || price <= 0 {
		return models.Product{}, errx.BadRequest("harga harus angka lebih dari 0")
	}
	buttonText = strings.TrimSpace(buttonText)
	if buttonText == "" {
		buttonText = models.DefaultButtonText
	}

	c.mu.Lock()
	p := models.Product{
		ID:         c.newID(),
		Name:       name,
		OldPrice:   price,
		NewPrice:   price,
		ButtonText: buttonText,
	}
	c.products = append(c.products, p)
	c.commit("add")
	c.mu.Unlock()

	c.log.Info().Str("product_id", p.ID).Str("name", p.Name).Msg("product added")
	c.reload()
	return p.Clone(), nil
}

// Delete removes the product with id.
func (c *Catalog) Delete(id string) error {
	c.mu.Lock()
	i := c.indexOf(id)
	if i < 0 {
		c.mu.Unlock()
		return errx.NotFound("produk tidak ditemukan")
	}
	c.products = append(c.products[:i], c.products[i+1:]...)
	c.commit("delete")
	c.mu.Unlock()

	c.log.Info().Str("product_id", id).Msg("product deleted")
	c.reload()
	return nil
}

// ApplyDiscount sets the discount percentage and recomputes the price.
// A positive timer starts a countdown after which the product reverts;
// zero or negative clears any running countdown.
func (c *Catalog) ApplyDiscount(id string, discount float64, timer time.Duration) (models.Product, error) {
	if !validAmount(discount) || discount < 0 || discount > MaxDiscount {
		return models.Product{}, errx.BadRequest("diskon harus antara 0 dan 100")
	}
	if timer > MaxDiscountTimer {
		return models.Product{}, errx.BadRequest("timer diskon maksimal 365 hari")
	}

	c.mu.Lock()
	i := c.indexOf(id)
	if i < 0 {
		c.mu.Unlock()
		return models.Product{}, errx.NotFound("produk tidak ditemukan")
	}
	p := &c.products[i]
	p.Discount = discount
	p.NewPrice = DiscountedPrice(p.OldPrice, discount)
	if timer > 0 {
		end := c.now().Add(timer)
		p.TimerEnd = &end
	} else {
		p.TimerEnd = nil
	}
	out := p.Clone()
	c.commit("discount")
	c.mu.Unlock()

	c.log.Info().Str("product_id", id).Float64("discount", discount).Dur("timer", timer).Msg("discount applied")
	c.reload()
	return out, nil
}

// UpdatePrice changes the base price. The current price follows it only
// when no countdown is running.
func (c *Catalog) UpdatePrice(id string, price float64) error {
	if !validAmount(price) || price <= 0 {
		return errx.BadRequest("harga harus angka lebih dari 0")
	}
	return c.update(id, "price", func(p *models.Product) {
		p.OldPrice = price
		if p.TimerEnd == nil {
			p.NewPrice = price
		}
	})
}

// Rename sets the display name.
func (c *Catalog) Rename(id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errx.BadRequest("nama produk wajib diisi")
	}
	return c.update(id, "rename", func(p *models.Product) {
		p.Name = name
	})
}

// SetButtonText sets the order button label; empty restores the default.
func (c *Catalog) SetButtonText(id, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		text = models.DefaultButtonText
	}
	return c.update(id, "button", func(p *models.Product) {
		p.ButtonText = text
	})
}

// Reset replaces the catalog with the seed products.
func (c *Catalog) Reset() {
	c.mu.Lock()
	c.products = models.DefaultProducts()
	c.commit("reset")
	c.mu.Unlock()

	c.log.Info().Msg("catalog reset to default products")
	c.reload()
}

// EnsureSeeded repopulates an empty catalog with the seed products.
// It reports whether it did so.
func (c *Catalog) EnsureSeeded() bool {
	c.mu.Lock()
	if len(c.products) > 0 {
		c.mu.Unlock()
		return false
	}
	c.products = models.DefaultProducts()
	c.commit("seed")
	c.mu.Unlock()

	c.log.Warn().Msg("catalog was empty, restored default products")
	return true
}

// ExpireDue reverts every product whose countdown has reached now, persists
// once and triggers a storefront reload. It returns the reverted ids.
func (c *Catalog) ExpireDue(now time.Time) []string {
	c.mu.Lock()
	var reverted []string
	for i := range c.products {
		p := &c.products[i]
		if p.Expired(now) {
			p.Revert()
			reverted = append(reverted, p.ID)
		}
	}
	if len(reverted) > 0 {
		c.commit("expire")
	}
	c.mu.Unlock()

	if len(reverted) == 0 {
		return nil
	}
	metrics.DiscountExpirations.Add(float64(len(reverted)))
	c.log.Info().Strs("product_ids", reverted).Msg("discount timers expired")
	c.reload()
	return reverted
}

// Countdowns lists the running timers at now, in catalog order.
func (c *Catalog) Countdowns(now time.Time) []Countdown {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []Countdown
	for _, p := range c.products {
		if p.TimerEnd == nil {
			continue
		}
		left := p.TimerEnd.Sub(now)
		out = append(out, Countdown{
			ID:        p.ID,
			Remaining: left,
			Text:      FormatCountdown(left),
			Expired:   left <= 0,
		})
	}
	return out
}

func (c *Catalog) update(id, op string, mutate func(p *models.Product)) error {
	c.mu.Lock()
	i := c.indexOf(id)
	if i < 0 {
		c.mu.Unlock()
		return errx.NotFound("produk tidak ditemukan")
	}
	mutate(&c.products[i])
	c.commit(op)
	c.mu.Unlock()

	c.log.Info().Str("product_id", id).Str("op", op).Msg("product updated")
	c.reload()
	return nil
}

// commit persists the catalog. Callers hold c.mu.
func (c *Catalog) commit(op string) {
	c.db.Save(models.CloneAll(c.products))
	metrics.CatalogMutations.WithLabelValues(op).Inc()
	metrics.CatalogSize.Set(float64(len(c.products)))
}

func (c *Catalog) reload() {
	c.mu.RLock()
	n := c.notifier
	c.mu.RUnlock()
	n.Reload()
}

func (c *Catalog) indexOf(id string) int {
	for i := range c.products {
		if c.products[i].ID == id {
			return i
		}
	}
	return -1
}

// newID returns "p" + unix millis + a random suffix, unique in the catalog.
// Callers hold c.mu.
func (c *Catalog) newID() string {
	for {
		suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:4]
		id := "p" + strconv.FormatInt(c.now().UnixMilli(), 10) + suffix
		if c.indexOf(id) < 0 {
			return id
		}
	}
}

func validAmount(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
