package httpapi

import (
	"github.com/gin-gonic/gin"
	"github.com/noshco/storefront/internal/config"
	"github.com/noshco/storefront/internal/logging"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(h *Handler, cfg *config.Config) *gin.Engine {
	if !cfg.Server.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery(), MetricsMiddleware(), RequestLogger(logging.New("http")))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.GET("/products", h.ListProducts)
		api.GET("/products/:id", h.GetProduct)
		api.POST("/orders", h.CreateOrder)
		api.GET("/orders/:id", h.GetOrder)
		api.POST("/payfast/notify", h.PayfastNotify)
		api.GET("/shop-status", h.GetShopStatus)
		api.POST("/auth/login", h.Login)

		admin := api.Group("", RequireAdmin(cfg))
		{
			admin.POST("/products", h.CreateProduct)
			admin.PATCH("/products/:id/stock", h.SetProductStock)
			admin.PATCH("/products/:id/special", h.SetProductSpecial)
			admin.PATCH("/products/:id/price", h.SetProductPrices)
			admin.GET("/orders", h.ListOrders)
			admin.PATCH("/shop-status", h.SetShopStatus)
		}
	}

	return r
}
