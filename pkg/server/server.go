package server

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/yurifrl/pldash/pkg/csv"
	"github.com/yurifrl/pldash/pkg/parser"
	"github.com/yurifrl/pldash/pkg/service"
)

// Server exposes the P/L tree and comparison over HTTP.
type Server struct {
	logger    *log.Logger
	processor *service.Processor
	engine    *gin.Engine
}

// New creates a new HTTP server
func New(processor *service.Processor, logger *log.Logger) *Server {
	s := &Server{
		logger:    logger,
		processor: processor,
		engine:    gin.New(),
	}
	s.setupRoutes()
	return s
}

// Start starts the HTTP server
func (s *Server) Start(addr string) error {
	return s.engine.Run(addr)
}

// Handler returns the underlying http.Handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) setupRoutes() {
	s.engine.Use(s.withLogging())

	s.engine.GET("/healthz", s.handleHealth)

	api := s.engine.Group("/api/pl")
	api.GET("/sources", s.handleSources)
	api.GET("/tree", s.handleTree)
	api.GET("/compare", s.handleCompare)
	api.GET("/compare.csv", s.handleCompareCSV)
}

type treeQuery struct {
	Period string `form:"period" binding:"required"`
	Entity string `form:"entity" binding:"required"`
}

type compareQuery struct {
	PriorPeriod string `form:"prior_period" binding:"required"`
	PriorEntity string `form:"prior_entity" binding:"required"`
	Period      string `form:"period" binding:"required"`
	Entity      string `form:"entity" binding:"required"`
	Month       int    `form:"month" binding:"required,min=1,max=12"`
}

func (q compareQuery) request() service.CompareRequest {
	return service.CompareRequest{
		PriorPeriod: q.PriorPeriod,
		PriorEntity: q.PriorEntity,
		Period:      q.Period,
		Entity:      q.Entity,
		Month:       q.Month,
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type source struct {
	Period string `json:"period"`
	Entity string `json:"entity"`
	File   string `json:"file"`
}

// handleSources lists the (period, entity) pairs the manifest can serve.
func (s *Server) handleSources(c *gin.Context) {
	m := s.processor.Manifest()
	if m == nil {
		s.respondError(c, http.StatusInternalServerError, "no manifest configured", nil)
		return
	}

	all := m.All()
	sources := make([]source, len(all))
	for i, src := range all {
		sources[i] = source{Period: src.Period, Entity: src.Entity, File: filepath.Base(src.FilePath)}
	}
	c.JSON(http.StatusOK, gin.H{
		"status":   "success",
		"periods":  m.Periods,
		"entities": m.Entities,
		"sources":  sources,
	})
}

func (s *Server) handleTree(c *gin.Context) {
	var q treeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		s.respondError(c, http.StatusBadRequest, "period and entity are required", err)
		return
	}

	forest, err := s.processor.LoadTree(q.Period, q.Entity)
	if err != nil {
		s.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"period": q.Period,
		"entity": q.Entity,
		"tree":   forest,
	})
}

func (s *Server) handleCompare(c *gin.Context) {
	var q compareQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		s.respondError(c, http.StatusBadRequest, "invalid comparison query", err)
		return
	}

	result, err := s.processor.Compare(c.Request.Context(), q.request())
	if err != nil {
		s.respondServiceError(c, err)
		return
	}

	s.logger.Info("comparison served", "prior", q.PriorPeriod+"/"+q.PriorEntity, "current", q.Period+"/"+q.Entity, "rows", len(result.Rows))
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"month":   result.Month,
		"prior":   result.Prior,
		"current": result.Current,
		"rows":    result.Rows,
	})
}

func (s *Server) handleCompareCSV(c *gin.Context) {
	var q compareQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		s.respondError(c, http.StatusBadRequest, "invalid comparison query", err)
		return
	}

	result, err := s.processor.Compare(c.Request.Context(), q.request())
	if err != nil {
		s.respondServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("pl-%s-%s-vs-%s-%s-m%02d.csv", q.PriorPeriod, q.PriorEntity, q.Period, q.Entity, q.Month)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	c.Data(http.StatusOK, "text/csv", csv.Create(result.Rows, nil))
}

// --- helpers ---

// respondServiceError maps processor errors to status codes.
func (s *Server) respondServiceError(c *gin.Context, err error) {
	var loadErr *parser.LoadError
	switch {
	case errors.Is(err, service.ErrUnknownPeriod), errors.Is(err, service.ErrUnknownEntity), errors.Is(err, service.ErrInvalidMonth):
		s.respondError(c, http.StatusBadRequest, err.Error(), err)
	case errors.As(err, &loadErr):
		s.respondError(c, http.StatusUnprocessableEntity, loadErr.Error(), err)
	default:
		s.respondError(c, http.StatusInternalServerError, "internal server error", err)
	}
}

// respondError logs the error and returns a minimal JSON error body.
func (s *Server) respondError(c *gin.Context, status int, message string, err error) {
	r := c.Request
	if err != nil {
		s.logger.Warn("request error", "status", status, "msg", message, "err", err, "method", r.Method, "path", r.URL.Path)
	} else {
		s.logger.Warn("request error", "status", status, "msg", message, "method", r.Method, "path", r.URL.Path)
	}
	c.AbortWithStatusJSON(status, gin.H{
		"status": "error",
		"error":  message,
	})
}

// withLogging logs each request and recovers panics.
func (s *Server) withLogging() gin.HandlerFunc {
	return func(c *gin.Context) {
		r := c.Request
		s.logger.Debug("http request", "method", r.Method, "path", r.URL.Path, "remote", r.RemoteAddr)
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("panic recovered", "panic", rec, "method", r.Method, "path", r.URL.Path)
				s.respondError(c, http.StatusInternalServerError, "internal server error", fmt.Errorf("panic: %v", rec))
			}
		}()
		c.Next()
		s.logger.Debug("http response", "method", r.Method, "path", r.URL.Path, "status", c.Writer.Status())
	}
}
