// Package server - Router und Handler des Device-Servers
// Beinhaltet: Server-Struct, Router-Registrierung, Device-Handler
package server

import (
	"net"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/ollama/devicemgr/api"
	"github.com/ollama/devicemgr/device"
	"github.com/ollama/devicemgr/envconfig"
	"github.com/ollama/devicemgr/version"
)

var mode string = gin.DebugMode

// Devices is the part of a device.Manager the server reads.
type Devices interface {
	Device() device.ID
	ValidDevices() []device.ID
	Capabilities() device.Capabilities
	UsingGPU() bool
	Report() []device.DeviceReport
}

// Server haelt den Zustand des HTTP-Servers
type Server struct {
	addr    net.Addr
	devices Devices
}

func init() {
	switch mode {
	case gin.DebugMode:
	case gin.ReleaseMode:
	case gin.TestMode:
	default:
		mode = gin.DebugMode
	}

	gin.SetMode(mode)
}

// GenerateRoutes erstellt und konfiguriert den HTTP-Router
func (s *Server) GenerateRoutes() http.Handler {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowWildcard = true
	corsConfig.AllowBrowserExtensions = true
	corsConfig.AllowHeaders = []string{
		"Authorization",
		"Content-Type",
		"User-Agent",
		"Accept",
		"X-Requested-With",
		requestIDHeader,
	}
	corsConfig.ExposeHeaders = []string{requestIDHeader}
	corsConfig.AllowOrigins = envconfig.AllowedOrigins()

	r := gin.Default()
	r.HandleMethodNotAllowed = true
	r.Use(
		cors.New(corsConfig),
		allowedHostsMiddleware(s.addr),
		requestIDMiddleware(),
	)

	// General
	r.HEAD("/", func(c *gin.Context) { c.String(http.StatusOK, "devicemgr is running") })
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, "devicemgr is running") })
	r.HEAD("/api/version", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"version": version.Version}) })
	r.GET("/api/version", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"version": version.Version}) })

	// Devices
	r.GET("/api/devices", s.DevicesHandler)
	r.GET("/api/device", s.DeviceHandler)

	return r
}

// DevicesHandler liefert den Geraete-Report in Prioritaetsreihenfolge
func (s *Server) DevicesHandler(c *gin.Context) {
	c.JSON(http.StatusOK, DevicesResponse(s.devices))
}

// DevicesResponse wandelt den Report in die API-Antwort um
func DevicesResponse(d Devices) api.DevicesResponse {
	resp := api.DevicesResponse{Device: d.Device().String()}
	for _, r := range d.Report() {
		resp.Devices.Set(r.ID.String(), api.Device{
			Kind:        string(r.Kind),
			Description: r.Description,
			Properties:  r.Properties,
			System:      r.System,
			Error:       r.Error,
		})
	}
	return resp
}

// DeviceHandler liefert das aktive Geraet und die gefundenen Backends
func (s *Server) DeviceHandler(c *gin.Context) {
	caps := s.devices.Capabilities()
	valid := s.devices.ValidDevices()

	resp := api.DeviceResponse{
		Device:   s.devices.Device().String(),
		UsingGPU: s.devices.UsingGPU(),
		Capabilities: map[string]bool{
			"cuda":      caps.CUDA,
			"xpu":       caps.XPU,
			"extension": caps.Extension,
			"mps":       caps.MPS,
		},
		Valid: make([]string, len(valid)),
	}
	for i, id := range valid {
		resp.Valid[i] = id.String()
	}

	c.JSON(http.StatusOK, resp)
}
