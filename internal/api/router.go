package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/relaychat/relaychat/internal/chat"
)

// RouterConfig holds configuration for the status router
type RouterConfig struct {
	Logger   *slog.Logger
	Registry *chat.Registry
}

// NewRouter creates the read-only status router. It exposes health and
// presence information for operators; it is not a message transport.
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	h := &statusHandler{registry: cfg.Registry, logger: cfg.Logger}

	r.HandleFunc("/healthz", h.health).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/users", h.users).Methods(http.MethodGet)

	return r
}

type statusHandler struct {
	registry *chat.Registry
	logger   *slog.Logger
}

func (h *statusHandler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// usersResponse lists the usernames currently online
type usersResponse struct {
	Online int      `json:"online"`
	Users  []string `json:"users"`
}

func (h *statusHandler) users(w http.ResponseWriter, r *http.Request) {
	names := h.registry.Usernames()
	writeJSON(w, http.StatusOK, usersResponse{
		Online: len(names),
		Users:  names,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
