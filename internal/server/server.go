// Package server exposes the chat orchestrator over HTTP.
package server

import (
	"context"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"adpilot/internal/artifact"
	"adpilot/internal/chat"
	"adpilot/internal/logging"
)

// Server wires the orchestrator behind an echo JSON API plus a
// websocket watch endpoint.
type Server struct {
	echo    *echo.Echo
	orch    *chat.Orchestrator
	hub     *Hub
	archive *artifact.Archive
	log     *logging.Logger
	http    *http.Server
}

// New builds the server. archive may be nil; sessions are then
// deleted without being archived first.
func New(orch *chat.Orchestrator, hub *Hub, archive *artifact.Archive, log *logging.Logger) *Server {
	if log == nil {
		log = logging.Nop()
	}
	if hub == nil {
		hub = NewHub()
	}
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	s := &Server{echo: e, orch: orch, hub: hub, archive: archive, log: log.Sub("server")}

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	api := e.Group("/api/v1")
	api.POST("/chat", s.handleTurn)
	api.GET("/sessions", s.handleListSessions)
	api.GET("/sessions/:id", s.handleGetSession)
	api.DELETE("/sessions/:id", s.handleDeleteSession)
	api.GET("/watch/:id", s.handleWatch)

	return s
}

// Start serves plaintext HTTP with h2c upgrade support.
func (s *Server) Start(addr string) error {
	s.http = &http.Server{
		Addr:    addr,
		Handler: h2c.NewHandler(s.echo, &http2.Server{}),
	}
	s.log.Info().Str("addr", addr).Msg("listening")
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the listener gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

// Handler exposes the routing tree. Tests use it with httptest.
func (s *Server) Handler() http.Handler { return s.echo }

func (s *Server) handleTurn(c echo.Context) error {
	var req chat.TurnRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Question == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "question is required")
	}
	res, err := s.orch.Turn(c.Request().Context(), req)
	if err != nil {
		s.log.Error().Err(err).Msg("turn failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "turn failed")
	}
	return c.JSON(http.StatusOK, res)
}

func (s *Server) handleListSessions(c echo.Context) error {
	list, err := s.orch.Sessions(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "list sessions failed")
	}
	return c.JSON(http.StatusOK, map[string]any{"sessions": list})
}

func (s *Server) handleGetSession(c echo.Context) error {
	sess, err := s.orch.Session(c.Request().Context(), c.Param("id"))
	if errors.Is(err, chat.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "session not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "get session failed")
	}
	return c.JSON(http.StatusOK, sess)
}

func (s *Server) handleDeleteSession(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")
	if s.archive != nil {
		if sess, err := s.orch.Session(ctx, id); err == nil {
			if err := s.archive.Store(ctx, sess); err != nil {
				s.log.Warn().Str("session", id).Err(err).Msg("archive before delete failed")
			}
		}
	}
	if err := s.orch.Delete(ctx, id); err != nil && !errors.Is(err, chat.ErrNotFound) {
		return echo.NewHTTPError(http.StatusInternalServerError, "delete session failed")
	}
	return c.NoContent(http.StatusNoContent)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// handleWatch streams turn outcomes for one session as JSON frames.
func (s *Server) handleWatch(c echo.Context) error {
	id := c.Param("id")
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	ch := s.hub.Subscribe(id)
	defer s.hub.Unsubscribe(id, ch)

	// Drain client frames so close handshakes are noticed.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case o, ok := <-ch:
			if !ok {
				return nil
			}
			if err := conn.WriteJSON(o); err != nil {
				return nil
			}
		case <-done:
			return nil
		case <-c.Request().Context().Done():
			return nil
		}
	}
}
