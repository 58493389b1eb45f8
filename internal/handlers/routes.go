package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes mounts the storefront, the admin panel and the probes on r.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/", h.HomePage)
	r.GET("/partials/grid", h.GridPartial)
	r.GET("/order/:id", h.Order)
	r.GET("/ws", h.Live)

	api := r.Group("/api")
	{
		api.GET("/products", h.ListProducts)
		api.GET("/clock", h.ClockJSON)
	}

	r.GET("/healthz", h.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Admin login routes stay outside the gate.
	r.GET("/admin/login", h.AdminLoginPage)
	r.POST("/admin/login", h.AdminLogin)
	r.GET("/admin/logout", h.AdminLogout)

	admin := r.Group("/admin")
	admin.Use(h.AuthMiddleware())
	{
		admin.GET("", h.AdminPage)
		admin.POST("/products", h.AddProduct)
		admin.POST("/products/:id/delete", h.DeleteProduct)
		admin.POST("/products/:id/discount", h.ApplyDiscount)
		admin.POST("/products/:id/price", h.UpdatePrice)
		admin.POST("/products/:id/name", h.RenameProduct)
		admin.POST("/products/:id/button", h.UpdateButtonText)
		admin.POST("/offset", h.UpdateOffset)
		admin.POST("/reset", h.ResetCatalog)
	}

	r.NoRoute(h.NotFound)
}
