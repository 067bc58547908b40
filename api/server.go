// Package api exposes a MiLight bridge over a small HTTP REST API.
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/alparslanahmed/milight"
	"github.com/gin-gonic/gin"
)

// Controller, API'nin kullandığı *milight.Bridge metotlarıdır.
type Controller interface {
	SwitchOn(zone milight.Zone) error
	SwitchOff(zone milight.Zone) error
	SetColor(color milight.Color, zone milight.Zone) error
	SetBrightness(intensity int, zone milight.Zone) error
	SetMode(mode byte, zone milight.Zone) error
	Link(zone milight.Zone) error
	Unlink(zone milight.Zone) error
	Status() milight.Status
}

// Server, tek bir köprü için HTTP API sunucusudur.
type Server struct {
	bridge     Controller
	router     *gin.Engine
	httpServer *http.Server
	closed     bool
	mu         sync.Mutex
}

// CommandResponse, her komut endpoint'inin döndüğü yanıttır.
type CommandResponse struct {
	Success bool   `json:"success"`
	Command string `json:"command"`
	Zone    string `json:"zone"`
	Error   string `json:"error,omitempty"`
}

// NewServer, yeni bir HTTP API sunucusu oluşturur.
// logger nil ise istekler loglanmaz.
func NewServer(bridge Controller, logger milight.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	if logger != nil {
		router.Use(LoggingMiddleware(logger))
	}

	s := &Server{
		bridge: bridge,
		router: router,
	}
	s.setupRoutes()
	return s
}

// setupRoutes, API route'larını tanımlar.
func (s *Server) setupRoutes() {
	v1 := s.router.Group("/api/v1")
	{
		v1.GET("/colors", s.handleColors)
		v1.GET("/status", s.handleStatus)

		zones := v1.Group("/zones/:zone")
		{
			zones.POST("/on", s.handleZone("on", s.bridge.SwitchOn))
			zones.POST("/off", s.handleZone("off", s.bridge.SwitchOff))
			zones.POST("/link", s.handleZone("link", s.bridge.Link))
			zones.POST("/unlink", s.handleZone("unlink", s.bridge.Unlink))
			zones.POST("/color/:color", s.handleColor)
			zones.POST("/brightness/:value", s.handleBrightness)
			zones.POST("/mode/:mode", s.handleMode)
		}
	}
}

// Handler, alttaki http.Handler'ı döner.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start, addr üzerinde dinler ve Shutdown çağrılana kadar istekleri işler.
// Shutdown daha önce çağrıldıysa hemen nil döner.
func (s *Server) Start(addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.httpServer = srv
	s.mu.Unlock()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown, sunucuyu düzgün şekilde durdurur.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	srv := s.httpServer
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

func (s *Server) handleColors(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"colors": milight.ColorNames()})
}

func (s *Server) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.bridge.Status())
}

func (s *Server) handleZone(name string, fn func(milight.Zone) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		zone, ok := parseZone(c, name)
		if !ok {
			return
		}
		respond(c, name, zone, fn(zone))
	}
}

func (s *Server) handleColor(c *gin.Context) {
	zone, ok := parseZone(c, "color")
	if !ok {
		return
	}
	color, err := milight.ParseColor(c.Param("color"))
	if err != nil {
		respond(c, "color", zone, err)
		return
	}
	respond(c, "color", zone, s.bridge.SetColor(color, zone))
}

func (s *Server) handleBrightness(c *gin.Context) {
	zone, ok := parseZone(c, "brightness")
	if !ok {
		return
	}
	value, err := strconv.Atoi(c.Param("value"))
	if err != nil {
		c.JSON(http.StatusBadRequest, CommandResponse{Command: "brightness", Zone: zone.String(), Error: "parlaklık bir tam sayı olmalı"})
		return
	}
	respond(c, "brightness", zone, s.bridge.SetBrightness(value, zone))
}

func (s *Server) handleMode(c *gin.Context) {
	zone, ok := parseZone(c, "mode")
	if !ok {
		return
	}
	mode, err := strconv.ParseUint(c.Param("mode"), 10, 8)
	if err != nil {
		c.JSON(http.StatusBadRequest, CommandResponse{Command: "mode", Zone: zone.String(), Error: "mod 0-255 arası olmalı"})
		return
	}
	respond(c, "mode", zone, s.bridge.SetMode(byte(mode), zone))
}

// parseZone, :zone parametresini okur. "all", 0 numaralı bölge olarak kabul edilir.
// Aralık kontrolü köprü metotlarına bırakılır.
func parseZone(c *gin.Context, command string) (milight.Zone, bool) {
	raw := c.Param("zone")
	if raw == "all" {
		return milight.ZoneAll, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, CommandResponse{Command: command, Zone: raw, Error: "bölge 0-4 arası veya all olmalı"})
		return 0, false
	}
	return milight.Zone(n), true
}

func respond(c *gin.Context, command string, zone milight.Zone, err error) {
	if err == nil {
		c.JSON(http.StatusOK, CommandResponse{Success: true, Command: command, Zone: zone.String()})
		return
	}
	c.JSON(statusFor(err), CommandResponse{Command: command, Zone: zone.String(), Error: err.Error()})
}

// statusFor, köprü hatalarını HTTP durum kodlarına çevirir.
func statusFor(err error) int {
	switch {
	case errors.Is(err, milight.ErrZoneOutOfRange),
		errors.Is(err, milight.ErrIntensityOutOfRange),
		errors.Is(err, milight.ErrUnknownIdentifier):
		return http.StatusBadRequest
	case errors.Is(err, milight.ErrNotConnected):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}
