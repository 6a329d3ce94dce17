package host

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	mdwerror "github.com/msto63/dexcomx/foundation/core/error"
	mdwlog "github.com/msto63/dexcomx/foundation/core/log"
)

const (
	readTimeout  = 120 * time.Second
	writeTimeout = 10 * time.Second
)

// WSMessage is a request received over the WebSocket
type WSMessage struct {
	Type    string          `json:"type"` // "run", "about", "setting", "ping"
	Token   string          `json:"token,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// WSResponse is a reply sent over the WebSocket
type WSResponse struct {
	Type    string      `json:"type"` // "done", "error", "about", "setting", "pong"
	Payload interface{} `json:"payload,omitempty"`
}

// WSErrorPayload describes a failed request
type WSErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WebSocketHandler serves the script channel
type WebSocketHandler struct {
	service    *Service
	ownerToken string
	upgrader   websocket.Upgrader
	logger     *mdwlog.Logger
}

// NewWebSocketHandler creates the handler. An empty ownerToken accepts
// every message; empty origins accept every origin.
func NewWebSocketHandler(service *Service, ownerToken string, origins []string, logger *mdwlog.Logger) *WebSocketHandler {
	if logger == nil {
		logger = mdwlog.GetDefault()
	}
	return &WebSocketHandler{
		service:    service,
		ownerToken: ownerToken,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(origins),
		},
		logger: logger.WithField("component", "host-websocket"),
	}
}

func originChecker(origins []string) func(r *http.Request) bool {
	if len(origins) == 0 {
		return func(r *http.Request) bool { return true }
	}
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || allowed[origin]
	}
}

// ServeHTTP upgrades the request and serves the connection
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.ErrorWithErr("WebSocket upgrade failed", err)
		return
	}
	h.handleConnection(r.Context(), conn)
}

// wsConn serializes writes; runs reply from their own goroutines
type wsConn struct {
	*websocket.Conn
	mu sync.Mutex
}

func (c *wsConn) send(resp WSResponse) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.WriteJSON(resp)
}

func (h *WebSocketHandler) handleConnection(parent context.Context, raw *websocket.Conn) {
	conn := &wsConn{Conn: raw}
	defer conn.Close()

	logger := h.logger.WithField("remote", raw.RemoteAddr().String())
	logger.Info("WebSocket connection established")

	var wg sync.WaitGroup
	ctx, cancel := context.WithCancel(parent)
	defer func() {
		cancel()
		wg.Wait()
	}()

	conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(readTimeout))
		return nil
	})

	for {
		var msg WSMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.WarnWithErr("WebSocket read error", err)
			} else {
				logger.Info("WebSocket connection closed")
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(readTimeout))

		if !h.authorized(msg.Token) {
			h.sendError(conn, mdwerror.New("only the owner may use DexComX").WithCode(mdwerror.CodeForbidden))
			continue
		}

		switch msg.Type {
		case "ping":
			h.send(conn, WSResponse{Type: "pong"})

		case "about":
			h.send(conn, WSResponse{Type: "about", Payload: h.service.About()})

		case "setting":
			var req SettingRequest
			if err := json.Unmarshal(msg.Payload, &req); err != nil {
				h.sendError(conn, invalidPayload(err))
				continue
			}
			result, err := h.service.Setting(req)
			if err != nil {
				h.sendError(conn, err)
				continue
			}
			h.send(conn, WSResponse{Type: "setting", Payload: result})

		case "run":
			var req RunRequest
			if err := json.Unmarshal(msg.Payload, &req); err != nil {
				h.sendError(conn, invalidPayload(err))
				continue
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				result := h.service.Run(ctx, req)
				if result.OK {
					h.send(conn, WSResponse{Type: "done", Payload: result})
					return
				}
				h.send(conn, WSResponse{Type: "error", Payload: result})
			}()

		default:
			h.sendError(conn, mdwerror.New("unknown message type: "+msg.Type).WithCode(mdwerror.CodeInvalidInput))
		}
	}
}

func (h *WebSocketHandler) authorized(token string) bool {
	if h.ownerToken == "" {
		return true
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(h.ownerToken)) == 1
}

func invalidPayload(err error) error {
	return mdwerror.Wrap(err, "invalid payload").WithCode(mdwerror.CodeInvalidFormat)
}

func (h *WebSocketHandler) send(conn *wsConn, resp WSResponse) {
	if err := conn.send(resp); err != nil {
		h.logger.WarnWithErr("WebSocket send error", err)
	}
}

func (h *WebSocketHandler) sendError(conn *wsConn, err error) {
	h.send(conn, WSResponse{
		Type: "error",
		Payload: WSErrorPayload{
			Code:    mdwerror.GetCode(err).String(),
			Message: err.Error(),
		},
	})
}
