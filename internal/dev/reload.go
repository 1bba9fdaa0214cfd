package dev

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// Live-reload wire frames. Consumers treat unknown shapes as no-ops.
var (
	frameLoading = []byte(`{"loading":true}`)
	frameReload  = []byte(`{"reload":true}`)
)

// ReloadServer pushes build notifications to connected browsers over
// WebSocket. Connections are one-way after the handshake: client input
// is drained and discarded.
type ReloadServer struct {
	broadcaster *Broadcaster
	logger      *slog.Logger
	upgrader    websocket.Upgrader
	httpServer  *http.Server
}

// NewReloadServer creates a reload server fed by the broadcaster.
func NewReloadServer(b *Broadcaster, logger *slog.Logger) *ReloadServer {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReloadServer{
		broadcaster: b,
		logger:      logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// Dev-only listener, any origin may connect.
				return true
			},
		},
	}
}

// ListenAndServe serves the reload endpoint on addr until the context
// is cancelled.
func (r *ReloadServer) ListenAndServe(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/_hashira/reload", r.HandleWebSocket)
	mux.HandleFunc("/_hashira/reload.js", r.HandleClientScript)

	r.httpServer = &http.Server{Addr: addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		if err := r.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		r.httpServer.Shutdown(shutdownCtx)
		return nil
	case err := <-errCh:
		return err
	}
}

// HandleClientScript serves the browser-side listener, so pages can
// load it with a plain script tag during development.
func (r *ReloadServer) HandleClientScript(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Write([]byte(ClientScript))
}

// HandleWebSocket upgrades the connection and streams events to it.
func (r *ReloadServer) HandleWebSocket(w http.ResponseWriter, req *http.Request) {
	conn, err := r.upgrader.Upgrade(w, req, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	events, unsubscribe := r.broadcaster.Subscribe()
	defer unsubscribe()

	// Drain client frames so disconnects are noticed; content is
	// ignored per protocol.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	r.logger.Debug("live reload client connected", "remote", req.RemoteAddr)
	r.serveEvents(conn, events, gone)
	r.logger.Debug("live reload client disconnected", "remote", req.RemoteAddr)
}

// serveEvents forwards events to one connection. A buffered event wins
// over a detected disconnect: the event channel is drained first
// without blocking before the loop waits on all sources, and every
// drained event is delivered in order.
func (r *ReloadServer) serveEvents(conn *websocket.Conn, events <-chan Event, gone <-chan struct{}) {
	for {
		select {
		case ev, ok := <-events:
			if !ok || ev == EventShutdown {
				r.sendClose(conn)
				return
			}
			if err := r.sendEvent(conn, ev); err != nil {
				return
			}
			continue
		default:
		}

		select {
		case <-gone:
			return
		case ev, ok := <-events:
			if !ok || ev == EventShutdown {
				r.sendClose(conn)
				return
			}
			if err := r.sendEvent(conn, ev); err != nil {
				return
			}
		}
	}
}

func (r *ReloadServer) sendEvent(conn *websocket.Conn, ev Event) error {
	var frame []byte
	switch ev {
	case EventLoading:
		frame = frameLoading
	case EventReload:
		frame = frameReload
	default:
		return nil
	}
	return conn.WriteMessage(websocket.TextMessage, frame)
}

func (r *ReloadServer) sendClose(conn *websocket.Conn) {
	deadline := time.Now().Add(time.Second)
	conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"), deadline)
}

// ClientScript is the browser-side listener. Pages load it during
// development with a script tag pointing at /_hashira/reload.js on the
// reload listener.
const ClientScript = `(function() {
    'use strict';

    var reconnectDelay = 1000;
    var maxReconnectDelay = 30000;

    function connect(host) {
        var ws = new WebSocket('ws://' + host + '/_hashira/reload');

        ws.onopen = function() {
            console.log('[Hashira] Live reload connected');
            reconnectDelay = 1000;
        };

        ws.onmessage = function(e) {
            var msg;
            try {
                msg = JSON.parse(e.data);
            } catch (err) {
                return;
            }

            if (msg.reload === true) {
                console.log('[Hashira] Reloading...');
                location.reload();
            } else if (msg.loading === true) {
                console.log('[Hashira] Rebuilding...');
                document.documentElement.setAttribute('data-hashira-loading', '');
            }
        };

        ws.onclose = function() {
            setTimeout(function() {
                reconnectDelay = Math.min(reconnectDelay * 2, maxReconnectDelay);
                connect(host);
            }, reconnectDelay);
        };

        ws.onerror = function() {
            ws.close();
        };
    }

    connect(window.HASHIRA_LIVE_RELOAD_HOST || location.host);
})();
`
