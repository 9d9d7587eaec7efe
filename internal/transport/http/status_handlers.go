package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/vovakirdan/wiresignal/internal/core"
)

// StatusHandlers serves read-only diagnostics over HTTP.
type StatusHandlers struct {
	hub Hub
	log *zerolog.Logger
}

// NewStatusHandlers creates diagnostics handlers backed by hub.
func NewStatusHandlers(hub Hub, logger *zerolog.Logger) *StatusHandlers {
	return &StatusHandlers{hub: hub, log: logger}
}

// InfoResponse describes the service and its endpoints.
type InfoResponse struct {
	Service   string            `json:"service"`
	Endpoints map[string]string `json:"endpoints"`
}

// StatusResponse is the diagnostics snapshot.
type StatusResponse struct {
	StartedAt        time.Time                `json:"startedAt"`
	UptimeSeconds    float64                  `json:"uptimeSeconds"`
	TotalConnections int                      `json:"totalConnections"`
	Channels         map[string]ChannelStatus `json:"channels"`
}

// ChannelStatus lists the members of one channel.
type ChannelStatus struct {
	MemberCount int      `json:"memberCount"`
	MemberIDs   []string `json:"memberIds"`
}

// ChannelResponse is one entry of the channel listing.
type ChannelResponse struct {
	Name        string `json:"name"`
	Protected   bool   `json:"protected"`
	MemberCount int    `json:"memberCount"`
}

// Info handles GET /
func (h *StatusHandlers) Info(c *gin.Context) {
	c.JSON(http.StatusOK, InfoResponse{
		Service: "signalrelay",
		Endpoints: map[string]string{
			"websocket": "/ws",
			"health":    "/health",
			"status":    "/status",
			"channels":  "/channels",
		},
	})
}

// Health handles GET /health
func (h *StatusHandlers) Health(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// Status handles GET /status
func (h *StatusHandlers) Status(c *gin.Context) {
	snap := h.hub.Snapshot()

	c.JSON(http.StatusOK, StatusResponse{
		StartedAt:        snap.StartedAt,
		UptimeSeconds:    snap.Uptime.Seconds(),
		TotalConnections: snap.TotalConnections,
		Channels: lo.MapValues(snap.Channels, func(stats core.ChannelStats, _ string) ChannelStatus {
			return ChannelStatus{
				MemberCount: stats.MemberCount,
				MemberIDs:   lo.Ternary(stats.MemberIDs == nil, []string{}, stats.MemberIDs),
			}
		}),
	})
}

// Channels handles GET /channels
func (h *StatusHandlers) Channels(c *gin.Context) {
	channels := lo.Map(h.hub.Channels(), func(ch core.ChannelInfo, _ int) ChannelResponse {
		return ChannelResponse{Name: ch.Name, Protected: ch.Protected, MemberCount: ch.MemberCount}
	})
	c.JSON(http.StatusOK, gin.H{"channels": channels})
}
