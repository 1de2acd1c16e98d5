// Package httpapi serves checkout configurations, the product catalog and the
// pricing helpers over HTTP.
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tbxark/checkoutbuilder/assist"
	"github.com/tbxark/checkoutbuilder/pricing"
	"github.com/tbxark/checkoutbuilder/selection"
	"github.com/tbxark/checkoutbuilder/store"
	"github.com/tbxark/checkoutbuilder/validation"
)

type Server struct {
	configs   *store.ConfigStore
	catalog   *store.Catalog
	coupons   *selection.CouponBook
	rates     pricing.Rates
	validator *validation.Validator
	assistant *assist.Assistant
	timeout   time.Duration
	logger    *zap.Logger

	router *gin.Engine
}

type Option func(*Server)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

func WithRates(rates pricing.Rates) Option {
	return func(s *Server) { s.rates = rates }
}

func WithCoupons(book *selection.CouponBook) Option {
	return func(s *Server) { s.coupons = book }
}

// WithAssistant enables POST /api/checkout-builder/assist.
func WithAssistant(a *assist.Assistant) Option {
	return func(s *Server) { s.assistant = a }
}

func WithRequestTimeout(d time.Duration) Option {
	return func(s *Server) { s.timeout = d }
}

func New(configs *store.ConfigStore, catalog *store.Catalog, opts ...Option) *Server {
	s := &Server{
		configs: configs,
		catalog: catalog,
		rates:   pricing.DefaultRates,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.coupons == nil {
		s.coupons = selection.NewCouponBook(nil, 0)
	}
	s.validator = validation.New(s.logger)
	s.router = s.routes()
	return s
}

func (s *Server) routes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestID(), accessLog(s.logger), tenant(), timeout(s.timeout))

	api := router.Group("/api")
	{
		api.GET("/products", s.handleProducts)
	}
	builder := api.Group("/checkout-builder")
	{
		builder.POST("/save", s.handleSave)
		builder.GET("/save", s.handleLoad)
		builder.PATCH("/config", s.handlePatch)
		builder.GET("/schema", s.handleSchema)
		builder.POST("/validate", s.handleValidate)
		builder.POST("/totals", s.handleTotals)
		builder.POST("/coupons/apply", s.handleApplyCoupon)
		builder.POST("/assist", s.handleAssist)
		builder.DELETE("/assist/history", s.handleClearHistory)
	}
	return router
}

func (s *Server) Handler() http.Handler {
	return s.router
}
