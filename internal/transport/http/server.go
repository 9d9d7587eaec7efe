package http

import (
	"context"
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/wiresignal/internal/config"
	"github.com/vovakirdan/wiresignal/internal/core"
)

// Hub is the part of core.Hub the transport depends on.
type Hub interface {
	RegisterClient() (*core.Client, error)
	UnregisterClient(client *core.Client)
	Submit(ctx context.Context, cmd *core.Command) error
	Snapshot() core.Snapshot
	Channels() []core.ChannelInfo
}

// NewServer builds an HTTP server with the WebSocket endpoint and diagnostics routes.
func NewServer(hub Hub, cfg config.Config, logger *zerolog.Logger) *stdhttp.Server {
	return &stdhttp.Server{
		Addr:              cfg.Addr(),
		Handler:           NewRouter(hub, cfg, logger),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

// NewRouter mounts the WebSocket endpoint on a plain mux and hands every other
// path to the gin engine. gin's response writer cannot be hijacked after the
// upgrade response, so /ws must not go through it.
func NewRouter(hub Hub, cfg config.Config, logger *zerolog.Logger) stdhttp.Handler {
	mux := stdhttp.NewServeMux()
	mux.Handle("/ws", NewWSHandler(hub, WSOptions{
		AllowedOrigins:  cfg.AllowedOrigins,
		MaxMessageBytes: cfg.MaxMessageBytes,
	}, logger))
	mux.Handle("/", newStatusEngine(hub, logger))
	return mux
}

func newStatusEngine(hub Hub, logger *zerolog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(LoggerMiddleware(logger))

	status := NewStatusHandlers(hub, logger)
	engine.GET("/", status.Info)
	engine.GET("/health", status.Health)
	engine.GET("/status", status.Status)
	engine.GET("/channels", status.Channels)

	return engine
}
