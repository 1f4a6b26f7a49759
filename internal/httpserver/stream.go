package httpserver

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"mangabook/catalog-api/internal/auth"
)

const (
	streamWriteWait  = 10 * time.Second
	streamPongWait   = 60 * time.Second
	streamPingPeriod = (streamPongWait * 9) / 10
)

func newUpgrader(allowedOrigins []string) *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(allowedOrigins),
	}
}

// originChecker accepts clients that send no Origin (non-browser), a
// same-host Origin, or one listed in allowed.
func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		if o = strings.TrimRight(strings.TrimSpace(o), "/"); o != "" {
			set[strings.ToLower(o)] = true
		}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		if set[strings.ToLower(strings.TrimRight(origin, "/"))] {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return strings.EqualFold(u.Host, r.Host)
	}
}

type sessionFrame struct {
	Session  *auth.Session `json:"session"`
	LoggedIn bool          `json:"logged_in"`
}

// registerSessionStreamHandler pushes the current session on connect and
// again on every login, logout or profile update.
func registerSessionStreamHandler(mux *http.ServeMux, deps Deps) {
	upgrader := newUpgrader(deps.AllowedOrigins)
	mux.HandleFunc("/v1/auth/session/stream", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			deps.Logger.Warn("session stream upgrade failed", "error", err)
			return
		}
		defer conn.Close()

		// Only the newest session matters; a slow client skips stale ones.
		latest := make(chan *auth.Session, 1)
		cancel := deps.Sessions.Subscribe(func(s *auth.Session) {
			select {
			case <-latest:
			default:
			}
			latest <- s
		})
		defer cancel()

		done := make(chan struct{})
		go func() {
			defer close(done)
			conn.SetReadLimit(512)
			_ = conn.SetReadDeadline(time.Now().Add(streamPongWait))
			conn.SetPongHandler(func(string) error {
				return conn.SetReadDeadline(time.Now().Add(streamPongWait))
			})
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
						deps.Logger.Debug("session stream closed", "error", err)
					}
					return
				}
			}
		}()

		ticker := time.NewTicker(streamPingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-r.Context().Done():
				return
			case s := <-latest:
				_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
				frame := sessionFrame{Session: s, LoggedIn: s != nil && s.Logueado}
				if err := conn.WriteJSON(frame); err != nil {
					deps.Logger.Debug("session stream write failed", "error", err)
					return
				}
			case <-ticker.C:
				_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	})
}
