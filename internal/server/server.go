package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/pedalroom/pedalroom/internal/cart"
	cartdomain "github.com/pedalroom/pedalroom/internal/cart/domain"
	"github.com/pedalroom/pedalroom/internal/commission"
	"github.com/pedalroom/pedalroom/internal/config"
	"github.com/pedalroom/pedalroom/internal/listing"
	listingdomain "github.com/pedalroom/pedalroom/internal/listing/domain"
	obsmiddleware "github.com/pedalroom/pedalroom/internal/observability/logger"
	obsmetrics "github.com/pedalroom/pedalroom/internal/observability/metrics"
	obstracing "github.com/pedalroom/pedalroom/internal/observability/tracing"
	"github.com/pedalroom/pedalroom/internal/pricing"
	pricingdomain "github.com/pedalroom/pedalroom/internal/pricing/domain"
	"github.com/pedalroom/pedalroom/internal/providers"
	"github.com/pedalroom/pedalroom/internal/ratelimit"
	"github.com/pedalroom/pedalroom/internal/transaction"
	transactiondomain "github.com/pedalroom/pedalroom/internal/transaction/domain"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	commission.Module,
	pricing.Module,
	listing.Module,
	cart.Module,
	providers.Module,
	transaction.Module,
	ratelimit.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.EnsureRequestID())
	r.Use(obsmiddleware.RequestLogger(classifyErrorForLog))
	r.Use(obstracing.GinMiddleware())
	r.Use(httpMetrics.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server starting", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine         *gin.Engine
	cfg            config.Config
	pricingSvc     pricingdomain.Service
	listingSvc     listingdomain.Service
	cartSvc        cartdomain.Service
	transactionSvc transactiondomain.Service
	commissions    *commission.Holder
	previewLimiter *ratelimit.PreviewLimiter
	obsMetrics     *obsmetrics.Metrics
}

type ServerParams struct {
	fx.In

	Gin            *gin.Engine
	Cfg            config.Config
	PricingSvc     pricingdomain.Service
	ListingSvc     listingdomain.Service
	CartSvc        cartdomain.Service
	TransactionSvc transactiondomain.Service
	Commissions    *commission.Holder
	PreviewLimiter *ratelimit.PreviewLimiter `optional:"true"`
	ObsMetrics     *obsmetrics.Metrics       `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:         p.Gin,
		cfg:            p.Cfg,
		pricingSvc:     p.PricingSvc,
		listingSvc:     p.ListingSvc,
		cartSvc:        p.CartSvc,
		transactionSvc: p.TransactionSvc,
		commissions:    p.Commissions,
		previewLimiter: p.PreviewLimiter,
		obsMetrics:     p.ObsMetrics,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	// -------- Line item previews --------
	api.POST("/transaction-line-items", s.PreviewRateLimit(), s.PreviewTransactionLineItems)
	api.POST("/cart-transaction-line-items", s.PreviewRateLimit(), s.PreviewCartTransactionLineItems)

	// -------- Orders --------
	api.POST("/initiate-privileged", s.InitiatePrivileged)
	api.POST("/initiate-cart-privileged", s.InitiateCartPrivileged)
	api.GET("/transactions/:ref", s.GetTransaction)

	// -------- Cart --------
	api.GET("/cart", s.GetCart)
	api.POST("/cart/items", s.SetCartItem)
	api.POST("/cart/delivery-method", s.SetCartDeliveryMethod)
	api.DELETE("/cart", s.ClearCart)

	// -------- Listings --------
	api.GET("/listings", s.ListListings)
	api.POST("/listings", s.CreateListing)
	api.GET("/listings/:id", s.GetListing)
	api.GET("/listings/slug/:slug", s.GetListingBySlug)
	api.PATCH("/listings/:id", s.UpdateListing)
	api.POST("/listings/:id/close", s.CloseListing)
}
