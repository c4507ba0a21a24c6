// Package server exposes the HTTP surface: pricing preview, product
// authoring and recalculation job control.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/jewelleryos/aurum/internal/config"
	productservice "github.com/jewelleryos/aurum/internal/product/service"
	"github.com/jewelleryos/aurum/internal/recalc"
	recalcdomain "github.com/jewelleryos/aurum/internal/recalc/domain"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

type Server struct {
	engine     *gin.Engine
	log        *zap.Logger
	productSvc productservice.Service
	jobs       recalcdomain.Repository
	scheduler  *recalc.Scheduler
}

type ServerParams struct {
	fx.In

	Gin        *gin.Engine
	Log        *zap.Logger
	ProductSvc productservice.Service
	Jobs       recalcdomain.Repository
	Scheduler  *recalc.Scheduler
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		engine:     p.Gin,
		log:        p.Log.Named("http"),
		productSvc: p.ProductSvc,
		jobs:       p.Jobs,
		scheduler:  p.Scheduler,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	v1 := s.engine.Group("/v1")

	v1.POST("/pricing/preview", s.PreviewPricing)

	v1.POST("/products", s.CreateProduct)
	v1.GET("/products/:id", s.GetProduct)

	v1.POST("/recalculation/trigger", s.TriggerRecalculation)
	v1.GET("/recalculation/jobs", s.ListRecalculationJobs)
	v1.GET("/recalculation/jobs/:id", s.GetRecalculationJob)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
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

func parseID(raw string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(raw)
	if err != nil {
		return 0, ErrInvalidRequest
	}
	return id, nil
}
