package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"live-analyser/src/interfaces"
	"live-analyser/src/logger"
	"live-analyser/src/models"
	"live-analyser/src/utils"

	"github.com/gin-gonic/gin"
)

// -----------------------------------------------------------------------------
// APIServer
// -----------------------------------------------------------------------------

type APIServer struct {
	Config  *models.MConfig
	Logger  *logger.Logger
	Gateway interfaces.IBroadcaster
	Stores  interfaces.IStoreManager
	Cache   *utils.SnapshotCache

	engine *gin.Engine
	httpd  *http.Server

	// WebSocket clients
	clients     map[*Client]struct{}
	clientCount atomic.Int32
	register    chan *Client
	unregister  chan *Client
	hubDone     chan struct{}

	startedAt time.Time
}

// -----------------------------------------------------------------------------
// Constructor
// -----------------------------------------------------------------------------

func NewAPIServer(cfg *models.MConfig, gateway interfaces.IBroadcaster,
	stores interfaces.IStoreManager, cache *utils.SnapshotCache, log *logger.Logger) *APIServer {

	// Set Gin mode
	if cfg.LogLevel != "DEBUG" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &APIServer{
		Config:     cfg,
		Logger:     log,
		Gateway:    gateway,
		Stores:     stores,
		Cache:      cache,
		engine:     gin.Default(),
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		hubDone:    make(chan struct{}),
		startedAt:  time.Now(),
	}

	// Add CORS Middleware
	s.engine.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if strings.HasPrefix(origin, "http://127.0.0.1:") || strings.HasPrefix(origin, "http://localhost:") {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	s.setupRoutes()
	return s
}

// -----------------------------------------------------------------------------
// Route Setup
// -----------------------------------------------------------------------------

func (s *APIServer) setupRoutes() {
	// REST API endpoints
	s.engine.GET("/api/symbols", s.getSymbols)
	s.engine.GET("/api/settings", s.getSettings)
	s.engine.GET("/api/candles/:symbol/:interval", s.getCandles)
	s.engine.GET("/api/scores/:symbol", s.getLatestScore)
	s.engine.GET("/api/scores/:symbol/history", s.getScoreHistory)
	s.engine.GET("/api/health", s.getHealth)

	// WebSocket endpoint
	s.engine.GET("/ws", s.handleWebSocket)
}

// -----------------------------------------------------------------------------
// Server Lifecycle
// -----------------------------------------------------------------------------

func (s *APIServer) Start() error {
	addr := fmt.Sprintf("%s:%d", s.Config.Host, s.Config.Port)
	s.Logger.Info("Starting server on %s", addr)

	go s.runHub()

	s.httpd = &http.Server{Addr: addr, Handler: s.engine}
	if err := s.httpd.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// -----------------------------------------------------------------------------

// Stop shuts the listener down gracefully and stops the hub loop.
func (s *APIServer) Stop(ctx context.Context) error {
	var err error
	if s.httpd != nil {
		err = s.httpd.Shutdown(ctx)
	}
	close(s.hubDone)
	return err
}

// -----------------------------------------------------------------------------
// Route Handlers
// -----------------------------------------------------------------------------

func (s *APIServer) getSymbols(c *gin.Context) {
	c.JSON(200, gin.H{
		"symbols":   s.Config.Symbols,
		"intervals": s.Config.Intervals,
	})
}

// -----------------------------------------------------------------------------

// getSettings exposes the tunable parameters, never the secrets.
func (s *APIServer) getSettings(c *gin.Context) {
	c.JSON(200, gin.H{
		"symbols":                 s.Config.Symbols,
		"intervals":               s.Config.Intervals,
		"update_interval_minutes": s.Config.UpdateIntervalMinutes,
		"timeframe_weights":       s.Config.TimeframeWeights,
		"candles_per_interval":    s.Config.CandlesPerInterval,
		"market_hours_only":       s.Config.MarketHoursOnly,
		"breakout_rules": gin.H{
			"total_score_threshold": s.Config.BreakoutRules.TotalScoreThreshold,
			"rsi_overbought":        s.Config.BreakoutRules.RSIOverbought,
			"rsi_oversold":          s.Config.BreakoutRules.RSIOversold,
			"cooldown_seconds":      s.Config.BreakoutRules.CooldownSeconds,
		},
	})
}

// -----------------------------------------------------------------------------

func (s *APIServer) getCandles(c *gin.Context) {
	symbol := c.Param("symbol")
	interval := c.Param("interval")

	if !s.knownSymbol(symbol) {
		c.JSON(404, gin.H{"error": fmt.Sprintf("unknown symbol %q", symbol)})
		return
	}
	if !s.knownInterval(interval) {
		c.JSON(404, gin.H{"error": fmt.Sprintf("unknown interval %q", interval)})
		return
	}

	limit := s.queryLimit(c, s.Config.MaxCandlesStored[interval])

	store, err := s.Stores.Store(symbol)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	candles, err := store.GetCandles(interval, limit)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}

	c.JSON(200, gin.H{
		"symbol":   symbol,
		"interval": interval,
		"candles":  candles,
	})
}

// -----------------------------------------------------------------------------

func (s *APIServer) getLatestScore(c *gin.Context) {
	symbol := c.Param("symbol")
	if !s.knownSymbol(symbol) {
		c.JSON(404, gin.H{"error": fmt.Sprintf("unknown symbol %q", symbol)})
		return
	}

	// Cache first, storage as fallback right after a restart.
	if snapshot, ok := s.Cache.Latest(symbol); ok {
		c.JSON(200, snapshot)
		return
	}

	store, err := s.Stores.Store(symbol)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	snapshot, err := store.GetLatestScore()
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	if snapshot == nil {
		c.JSON(404, gin.H{"error": "no score computed yet"})
		return
	}
	c.JSON(200, snapshot)
}

// -----------------------------------------------------------------------------

func (s *APIServer) getScoreHistory(c *gin.Context) {
	symbol := c.Param("symbol")
	if !s.knownSymbol(symbol) {
		c.JSON(404, gin.H{"error": fmt.Sprintf("unknown symbol %q", symbol)})
		return
	}

	limit := s.queryLimit(c, s.Config.Storage.MaxScoresStored)

	store, err := s.Stores.Store(symbol)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	history, err := store.GetScoreHistory(limit)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}

	c.JSON(200, gin.H{
		"symbol":  symbol,
		"history": history,
	})
}

// -----------------------------------------------------------------------------

func (s *APIServer) getHealth(c *gin.Context) {
	c.JSON(200, gin.H{
		"status":         "ok",
		"uptime_seconds": int64(time.Since(s.startedAt).Seconds()),
		"symbols":        len(s.Config.Symbols),
		"scored_symbols": s.Cache.SymbolCount(),
		"connections":    s.clientCount.Load(),
	})
}

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

func (s *APIServer) knownSymbol(symbol string) bool {
	for _, sym := range s.Config.Symbols {
		if sym == symbol {
			return true
		}
	}
	return false
}

func (s *APIServer) knownInterval(interval string) bool {
	for _, iv := range s.Config.Intervals {
		if iv == interval {
			return true
		}
	}
	return false
}

// queryLimit parses ?limit= clamped to (0, max].
func (s *APIServer) queryLimit(c *gin.Context, max int) int {
	limit := max
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 && v < max {
			limit = v
		}
	}
	return limit
}
