package handlers

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"etalase/internal/errx"
	"etalase/internal/live"
	"etalase/internal/models"
	"etalase/internal/services"
	"etalase/pkg/logx"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const adminCookie = "admin_session"

// Bounds for the timer form fields; larger counts would overflow time.Duration.
const (
	maxTimerMinutes = int(services.MaxDiscountTimer / time.Minute)
	maxTimerSeconds = int(services.MaxDiscountTimer / time.Second)
)

// Handler serves the storefront and the admin panel.
type Handler struct {
	catalog      *services.Catalog
	clock        *services.Clock
	gate         *services.AdminGate
	hub          *live.Hub
	recipient    string
	secureCookie bool
	now          func() time.Time
	log          zerolog.Logger
}

// Options carries the handler settings that are not services.
type Options struct {
	OrderRecipient string
	SecureCookie   bool
	Now            func() time.Time
}

// NewHandler creates a Handler.
func NewHandler(catalog *services.Catalog, clock *services.Clock, gate *services.AdminGate, hub *live.Hub, opts Options) *Handler {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Handler{
		catalog:      catalog,
		clock:        clock,
		gate:         gate,
		hub:          hub,
		recipient:    opts.OrderRecipient,
		secureCookie: opts.SecureCookie,
		now:          opts.Now,
		log:          logx.Component("handlers"),
	}
}

// --- Storefront ---

// reconcile expires due timers and reseeds an empty catalog, so nothing
// shown or ordered carries a stale price.
func (h *Handler) reconcile(now time.Time) {
	h.catalog.ExpireDue(now)
	if h.catalog.EnsureSeeded() {
		h.log.Warn().Msg("catalog was empty, default products restored")
	}
}

func (h *Handler) storefrontCards() []services.Card {
	now := h.now()
	h.reconcile(now)
	return services.CardsFor(h.catalog.List(), now)
}

// HomePage renders the product grid.
func (h *Handler) HomePage(c *gin.Context) {
	cards := h.storefrontCards()
	c.HTML(http.StatusOK, "store.html", gin.H{
		"title":   "Etalase",
		"cards":   cards,
		"clock":   h.clock.Display(),
		"isAdmin": h.gate.State(h.sessionToken(c)) == services.Unlocked,
	})
}

// GridPartial renders only the cards; pages fetch it after a reload event.
func (h *Handler) GridPartial(c *gin.Context) {
	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.HTML(http.StatusOK, "grid.html", gin.H{
		"cards": h.storefrontCards(),
	})
}

// Order redirects to the messaging link for one product.
func (h *Handler) Order(c *gin.Context) {
	h.reconcile(h.now())
	p, err := h.catalog.Get(c.Param("id"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	link := services.OrderLink(h.recipient, p.Name, p.NewPrice)
	h.log.Info().Str("product_id", p.ID).Msg("order link opened")
	c.Redirect(http.StatusFound, link)
}

// productJSON is the read-only API view of one product.
type productJSON struct {
	models.Product
	DiscountPercent int    `json:"discountPercent"`
	Countdown       string `json:"countdown,omitempty"`
	OrderURL        string `json:"orderUrl"`
}

// ListProducts returns the catalog with derived display values.
func (h *Handler) ListProducts(c *gin.Context) {
	now := h.now()
	h.reconcile(now)
	products := h.catalog.List()
	out := make([]productJSON, 0, len(products))
	for _, p := range products {
		card := services.CardFor(p, now)
		out = append(out, productJSON{
			Product:         p,
			DiscountPercent: card.DiscountPercent,
			Countdown:       card.Countdown,
			OrderURL:        services.OrderLink(h.recipient, p.Name, p.NewPrice),
		})
	}
	c.JSON(http.StatusOK, gin.H{"products": out})
}

func (h *Handler) ClockJSON(c *gin.Context) {
	c.JSON(http.StatusOK, h.clock.Display())
}

func (h *Handler) Live(c *gin.Context) {
	h.hub.ServeWS(c.Writer, c.Request)
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "products": h.catalog.Len()})
}

// --- Admin gate ---

// AuthMiddleware redirects to the login page while the panel is locked.
func (h *Handler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.gate.State(h.sessionToken(c)) != services.Unlocked {
			c.Redirect(http.StatusSeeOther, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

func (h *Handler) AdminLoginPage(c *gin.Context) {
	if h.gate.State(h.sessionToken(c)) == services.Unlocked {
		c.Redirect(http.StatusSeeOther, "/admin")
		return
	}
	c.HTML(http.StatusOK, "admin_login.html", gin.H{
		"title": "Login Admin",
		"clock": h.clock.Display(),
	})
}

func (h *Handler) AdminLogin(c *gin.Context) {
	token, err := h.gate.Login(c.PostForm("username"), c.PostForm("password"), c.ClientIP())
	if err != nil {
		h.log.Info().Str("ip", c.ClientIP()).Msg("admin login failed")
		c.HTML(errx.StatusOf(err), "admin_login.html", gin.H{
			"title": "Login Admin",
			"clock": h.clock.Display(),
			"error": errx.MessageOf(err),
		})
		return
	}
	h.log.Info().Str("ip", c.ClientIP()).Msg("admin panel unlocked")
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(adminCookie, token, int(h.gate.TTL()/time.Second), "/", "", h.secureCookie, true)
	c.Redirect(http.StatusSeeOther, "/admin")
}

func (h *Handler) AdminLogout(c *gin.Context) {
	h.gate.Logout(c.ClientIP())
	c.SetCookie(adminCookie, "", -1, "/", "", h.secureCookie, true)
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *Handler) sessionToken(c *gin.Context) string {
	token, err := c.Cookie(adminCookie)
	if err != nil {
		return ""
	}
	return token
}

// --- Admin panel ---

// adminRow is one product as the panel edits it.
type adminRow struct {
	ID            string
	Name          string
	OldPrice      string
	OldPriceValue string
	Discount      float64
	ButtonText    string
}

func (h *Handler) adminData(errMsg string) gin.H {
	products := h.catalog.List()
	rows := make([]adminRow, 0, len(products))
	for _, p := range products {
		rows = append(rows, adminRow{
			ID:            p.ID,
			Name:          p.Name,
			OldPrice:      services.FormatPrice(p.OldPrice),
			OldPriceValue: strconv.FormatFloat(p.OldPrice, 'f', -1, 64),
			Discount:      p.Discount,
			ButtonText:    p.Label(),
		})
	}
	data := gin.H{
		"title":    "Admin Panel",
		"products": rows,
		"offset":   h.clock.Offset(),
		"clock":    h.clock.Display(),
	}
	if errMsg != "" {
		data["error"] = errMsg
	}
	return data
}

func (h *Handler) AdminPage(c *gin.Context) {
	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Header("Pragma", "no-cache")
	c.Header("Expires", "0")
	c.HTML(http.StatusOK, "admin.html", h.adminData(""))
}

// afterMutation re-renders the panel: a redirect on success, the panel with
// the error message otherwise. The storefront rules apply first, so deleting
// the last product brings the seeds back at once.
func (h *Handler) afterMutation(c *gin.Context, err error) {
	if err != nil {
		h.log.Info().Err(err).Str("path", c.Request.URL.Path).Msg("admin input rejected")
		c.HTML(errx.StatusOf(err), "admin.html", h.adminData(errx.MessageOf(err)))
		return
	}
	h.reconcile(h.now())
	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Redirect(http.StatusSeeOther, "/admin")
}

func (h *Handler) AddProduct(c *gin.Context) {
	price, err := parsePrice(c.PostForm("price"))
	if err == nil {
		_, err = h.catalog.Add(c.PostForm("name"), price, c.PostForm("buttonText"))
	}
	h.afterMutation(c, err)
}

func (h *Handler) DeleteProduct(c *gin.Context) {
	if c.PostForm("confirm") != "yes" {
		h.afterMutation(c, errx.BadRequest("hapus produk perlu konfirmasi"))
		return
	}
	h.afterMutation(c, h.catalog.Delete(c.Param("id")))
}

func (h *Handler) ApplyDiscount(c *gin.Context) {
	discount, err := strconv.ParseFloat(strings.TrimSpace(c.PostForm("discount")), 64)
	if err != nil {
		h.afterMutation(c, errx.BadRequest("diskon harus berupa angka"))
		return
	}
	minutes := parseCount(c.PostForm("minutes"))
	seconds := parseCount(c.PostForm("seconds"))
	if minutes > maxTimerMinutes || seconds > maxTimerSeconds {
		h.afterMutation(c, errx.BadRequest("timer diskon maksimal 365 hari"))
		return
	}
	timer := time.Duration(minutes)*time.Minute + time.Duration(seconds)*time.Second

	_, err = h.catalog.ApplyDiscount(c.Param("id"), discount, timer)
	h.afterMutation(c, err)
}

func (h *Handler) UpdatePrice(c *gin.Context) {
	price, err := parsePrice(c.PostForm("price"))
	if err == nil {
		err = h.catalog.UpdatePrice(c.Param("id"), price)
	}
	h.afterMutation(c, err)
}

func (h *Handler) RenameProduct(c *gin.Context) {
	h.afterMutation(c, h.catalog.Rename(c.Param("id"), c.PostForm("name")))
}

func (h *Handler) UpdateButtonText(c *gin.Context) {
	h.afterMutation(c, h.catalog.SetButtonText(c.Param("id"), c.PostForm("buttonText")))
}

func (h *Handler) UpdateOffset(c *gin.Context) {
	minutes, err := strconv.Atoi(strings.TrimSpace(c.PostForm("offset")))
	if err != nil {
		h.afterMutation(c, errx.BadRequest("offset harus berupa angka bulat"))
		return
	}
	h.afterMutation(c, h.clock.SetOffset(minutes))
}

func (h *Handler) ResetCatalog(c *gin.Context) {
	if c.PostForm("confirm") != "yes" {
		h.afterMutation(c, errx.BadRequest("reset perlu konfirmasi"))
		return
	}
	h.catalog.Reset()
	h.afterMutation(c, nil)
}

func (h *Handler) renderError(c *gin.Context, err error) {
	status := errx.StatusOf(err)
	c.HTML(status, "error.html", gin.H{
		"title":  "Etalase",
		"status": status,
		"error":  errx.MessageOf(err),
		"clock":  h.clock.Display(),
	})
}

// NotFound renders the error page for unknown routes.
func (h *Handler) NotFound(c *gin.Context) {
	h.renderError(c, errx.NotFound("halaman tidak ditemukan"))
}

// parsePrice accepts a positive number and drops any fraction.
func parsePrice(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errx.BadRequest("harga harus berupa angka")
	}
	v = math.Trunc(v)
	if v <= 0 {
		return 0, errx.BadRequest("harga harus angka lebih dari 0")
	}
	return v, nil
}

// parseCount reads a minutes or seconds field; blanks, junk and negatives are 0.
func parseCount(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
