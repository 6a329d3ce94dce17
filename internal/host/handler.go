package host

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	mdwerror "github.com/msto63/dexcomx/foundation/core/error"
	mdwlog "github.com/msto63/dexcomx/foundation/core/log"
	"github.com/msto63/dexcomx/pkg/core/health"
	"github.com/msto63/dexcomx/pkg/core/version"
)

// maxBodyBytes caps request bodies; attachments travel base64 encoded
const maxBodyBytes = 16 << 20

// ErrorResponse is the body of a failed HTTP request
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}

// Handler serves the REST routes under /api/v1
type Handler struct {
	service    *Service
	health     *health.Registry
	ownerToken string
	startTime  time.Time
	logger     *mdwlog.Logger
}

// NewHandler creates the REST handler
func NewHandler(service *Service, registry *health.Registry, ownerToken string, logger *mdwlog.Logger) *Handler {
	if logger == nil {
		logger = mdwlog.GetDefault()
	}
	return &Handler{
		service:    service,
		health:     registry,
		ownerToken: ownerToken,
		startTime:  time.Now(),
		logger:     logger.WithField("component", "host-handler"),
	}
}

// ServeHTTP implements http.Handler
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/v1")
	path = strings.Trim(path, "/")

	switch path {
	case "":
		h.handleRoot(w, r)
	case "health":
		h.handleHealth(w, r)
	case "about":
		h.handleAbout(w, r)
	case "script/run":
		h.handleRun(w, r)
	case "settings":
		h.handleSetting(w, r)
	default:
		h.writeError(w, http.StatusNotFound, "NOT_FOUND", "Endpoint not found", "")
	}
}

func (h *Handler) handleRoot(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"service": "DexComX",
		"version": version.String(),
		"uptime":  time.Since(h.startTime).Round(time.Second).String(),
		"endpoints": []string{
			"GET /api/v1/health",
			"GET /api/v1/about",
			"POST /api/v1/script/run",
			"POST /api/v1/settings",
			"GET /api/v1/script/ws",
		},
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Use GET", "")
		return
	}

	report := h.health.Check(r.Context())
	status := http.StatusOK
	if report.Status == health.StatusUnhealthy {
		status = http.StatusServiceUnavailable
	}
	h.writeJSON(w, status, report)
}

func (h *Handler) handleAbout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Use GET", "")
		return
	}
	h.writeJSON(w, http.StatusOK, h.service.About())
}

func (h *Handler) handleRun(w http.ResponseWriter, r *http.Request) {
	if !h.accept(w, r) {
		return
	}

	var req RunRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_FORMAT", "Invalid JSON", err.Error())
		return
	}

	result := h.service.Run(r.Context(), req)
	status := http.StatusOK
	if !result.OK && !mdwerror.Code(result.Code).IsLineScoped() {
		status = mdwerror.Code(result.Code).HTTPStatus()
	}
	h.writeJSON(w, status, result)
}

func (h *Handler) handleSetting(w http.ResponseWriter, r *http.Request) {
	if !h.accept(w, r) {
		return
	}

	var req SettingRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_FORMAT", "Invalid JSON", err.Error())
		return
	}

	result, err := h.service.Setting(req)
	if err != nil {
		code := mdwerror.GetCode(err)
		h.writeError(w, code.HTTPStatus(), code.String(), err.Error(), "")
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

// accept checks method and owner token of a mutating request
func (h *Handler) accept(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		h.writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Use POST", "")
		return false
	}
	if h.ownerToken == "" {
		return true
	}
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if subtle.ConstantTimeCompare([]byte(token), []byte(h.ownerToken)) != 1 {
		h.writeError(w, http.StatusForbidden, mdwerror.CodeForbidden.String(), "only the owner may use DexComX", "")
		return false
	}
	return true
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.WarnWithErr("failed to write response", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, code, message, details string) {
	h.writeJSON(w, status, ErrorResponse{
		Error:   message,
		Code:    code,
		Details: details,
	})
}
