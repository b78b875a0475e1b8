// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the clustering pipeline over HTTP. The surface is
// deliberately thin: it validates the request shape, calls the pipeline, and
// maps the failure taxonomy onto status codes. Rendering belongs to the
// frontend, which consumes the payload as-is.
package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pdiddy/heatmap-engine/internal/dataset"
	"github.com/pdiddy/heatmap-engine/internal/pipeline"
	"github.com/pdiddy/heatmap-engine/pkg/types"
)

// Server wires the pipeline into a gin engine.
type Server struct {
	store  *dataset.Store
	pipe   *pipeline.Pipeline
	engine *gin.Engine
	logw   io.Writer
}

// New builds the HTTP surface over a loaded store. Internal errors are
// logged in full to logw; callers only ever see a generic message for those.
func New(store *dataset.Store, pipe *pipeline.Pipeline, logw io.Writer) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{store: store, pipe: pipe, logw: logw}
	engine := gin.New()
	engine.Use(gin.Recovery(), cors())
	engine.GET("/api/health", s.health)
	engine.POST("/api/process-genes", s.processGenes)
	s.engine = engine
	return s
}

// Handler returns the http.Handler, for tests and custom servers.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves until the listener fails. The write timeout is the overall
// request bound; the core computation has no internal timeouts.
func (s *Server) Run(cfg types.ServerConfig) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.engine,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	fmt.Fprintf(s.logw, "listening on %s\n", cfg.Addr)
	return srv.ListenAndServe()
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":        "healthy",
		"stage_genes":   s.store.Stage().NumGenes(),
		"stage_loaded":  s.store.Stage().NumGenes() > 0,
		"tissue_genes":  s.store.Tissue().NumGenes(),
		"tissue_loaded": s.store.Tissue().NumGenes() > 0,
	})
}

// geneList accepts either a JSON array of strings or a single string with
// embedded delimiters; the resolver re-tokenizes either way.
type geneList []string

func (g *geneList) UnmarshalJSON(data []byte) error {
	var many []string
	if err := json.Unmarshal(data, &many); err == nil {
		*g = many
		return nil
	}
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*g = []string{one}
		return nil
	}
	return fmt.Errorf("genes must be a string or an array of strings")
}

type processRequest struct {
	Genes geneList `json:"genes"`
}

func (s *Server) processGenes(c *gin.Context) {
	var req processRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, &types.HeatmapPayload{
			Success:      false,
			Error:        "request body must be JSON with a genes field",
			InvalidGenes: []string{},
		})
		return
	}

	payload, err := s.pipe.Run(c.Request.Context(), req.Genes)
	if err == nil {
		c.JSON(http.StatusOK, payload)
		return
	}

	if pipeline.UserFacing(err) {
		c.JSON(http.StatusBadRequest, pipeline.FailurePayload(err))
		return
	}

	// Defect-class failure: full detail to the log, generic text outward.
	fmt.Fprintf(s.logw, "error: process-genes: %v\n", err)
	c.JSON(http.StatusInternalServerError, pipeline.FailurePayload(err))
}
