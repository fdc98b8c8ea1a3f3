package save

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/linyijun92/naruto-rebirth-game/internal/auth"
	"github.com/linyijun92/naruto-rebirth-game/internal/httpapi"
)

// Handler exposes save snapshots over HTTP. All routes require auth.
type Handler struct {
	service *Service
	logger  *log.Logger
}

func NewHandler(service *Service, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{service: service, logger: logger}
}

type saveRequest struct {
	SaveName string          `json:"saveName"`
	SaveData json.RawMessage `json:"saveData"`
}

// SavesRoot handles GET /api/saves and POST /api/saves [auth].
func (h *Handler) SavesRoot(w http.ResponseWriter, r *http.Request) {
	playerID := auth.PlayerIDFromContext(r.Context())

	switch r.Method {
	case http.MethodGet:
		saves, err := h.service.List(r.Context(), playerID)
		if err != nil {
			httpapi.WriteError(w, h.logger, err)
			return
		}
		httpapi.WriteData(w, http.StatusOK, map[string]any{"saves": saves})
	case http.MethodPost:
		var req saveRequest
		if err := httpapi.Decode(r, &req); err != nil {
			httpapi.WriteError(w, h.logger, err)
			return
		}
		created, err := h.service.Create(r.Context(), playerID, req.SaveName, req.SaveData)
		if err != nil {
			httpapi.WriteError(w, h.logger, err)
			return
		}
		httpapi.WriteData(w, http.StatusCreated, map[string]any{"save": created})
	default:
		httpapi.WriteMethodNotAllowed(w)
	}
}

// SavesSub handles /api/saves/{id} and /api/saves/{id}/load [auth].
func (h *Handler) SavesSub(w http.ResponseWriter, r *http.Request) {
	playerID := auth.PlayerIDFromContext(r.Context())
	rest := strings.TrimPrefix(r.URL.Path, "/api/saves/")
	saveID, action, hasAction := strings.Cut(rest, "/")
	if saveID == "" {
		httpapi.WriteErrorMessage(w, httpapi.CodeValidation, "save id is required")
		return
	}

	if hasAction {
		if action == "load" && r.Method == http.MethodPost {
			loaded, err := h.service.Load(r.Context(), playerID, saveID)
			if err != nil {
				httpapi.WriteError(w, h.logger, err)
				return
			}
			httpapi.WriteData(w, http.StatusOK, map[string]any{"save": loaded})
			return
		}
		httpapi.WriteErrorMessage(w, httpapi.CodeNotFound, "unknown save action")
		return
	}

	switch r.Method {
	case http.MethodGet:
		loaded, err := h.service.Load(r.Context(), playerID, saveID)
		if err != nil {
			httpapi.WriteError(w, h.logger, err)
			return
		}
		httpapi.WriteData(w, http.StatusOK, map[string]any{"save": loaded})
	case http.MethodPut:
		var req saveRequest
		if err := httpapi.Decode(r, &req); err != nil {
			httpapi.WriteError(w, h.logger, err)
			return
		}
		updated, err := h.service.Update(r.Context(), playerID, saveID, req.SaveData)
		if err != nil {
			httpapi.WriteError(w, h.logger, err)
			return
		}
		httpapi.WriteData(w, http.StatusOK, map[string]any{"save": updated})
	case http.MethodDelete:
		if err := h.service.Delete(r.Context(), playerID, saveID); err != nil {
			httpapi.WriteError(w, h.logger, err)
			return
		}
		httpapi.WriteData(w, http.StatusOK, map[string]any{"deleted": saveID})
	default:
		httpapi.WriteMethodNotAllowed(w)
	}
}
