package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/cotiza/internal/config"
	"github.com/smallbiznis/cotiza/internal/invoice"
	invoicedomain "github.com/smallbiznis/cotiza/internal/invoice/domain"
	"github.com/smallbiznis/cotiza/internal/observability"
	obsmiddleware "github.com/smallbiznis/cotiza/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/cotiza/internal/observability/metrics"
	obstracing "github.com/smallbiznis/cotiza/internal/observability/tracing"
	"github.com/smallbiznis/cotiza/internal/providers/pdf"
	"github.com/smallbiznis/cotiza/internal/quotation"
	quotationdomain "github.com/smallbiznis/cotiza/internal/quotation/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	quotation.Module,
	invoice.Module,
	pdf.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
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
	engine       *gin.Engine
	cfg          config.Config
	quotationSvc quotationdomain.Service
	invoiceSvc   invoicedomain.Service
	pdfProvider  pdf.Provider
	obsMetrics   *obsmetrics.Metrics
}

type ServerParams struct {
	fx.In

	Gin          *gin.Engine
	Cfg          config.Config
	QuotationSvc quotationdomain.Service
	InvoiceSvc   invoicedomain.Service
	PDFProvider  pdf.Provider
	ObsMetrics   *obsmetrics.Metrics `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		quotationSvc: p.QuotationSvc,
		invoiceSvc:   p.InvoiceSvc,
		pdfProvider:  p.PDFProvider,
		obsMetrics:   p.ObsMetrics,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api/v1")

	quotations := api.Group("/quotations")
	{
		quotations.POST("", s.CreateQuotation)
		quotations.GET("", s.ListQuotations)
		quotations.GET("/:id", s.GetQuotation)
		quotations.PUT("/:id", s.UpdateQuotation)
		quotations.DELETE("/:id", s.DeleteQuotation)
		quotations.GET("/:id/pdf", s.DownloadQuotationPDF)
		quotations.POST("/:id/invoice", s.GenerateInvoice)
	}

	invoices := api.Group("/invoices")
	{
		invoices.GET("", s.ListInvoices)
		invoices.GET("/:id", s.GetInvoice)
		invoices.GET("/:id/pdf", s.DownloadInvoicePDF)
	}
}
