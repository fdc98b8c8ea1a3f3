package quest

import (
	"log"
	"net/http"
	"strings"

	"github.com/linyijun92/naruto-rebirth-game/internal/auth"
	"github.com/linyijun92/naruto-rebirth-game/internal/httpapi"
)

// Handler exposes the quest state machine over HTTP.
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

// GET /api/quests?type= [auth]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httpapi.WriteMethodNotAllowed(w)
		return
	}
	playerID := auth.PlayerIDFromContext(r.Context())
	quests, err := h.service.List(r.Context(), playerID, r.URL.Query().Get("type"))
	if err != nil {
		httpapi.WriteError(w, h.logger, err)
		return
	}
	httpapi.WriteData(w, http.StatusOK, map[string]any{"quests": quests})
}

// QuestAction routes POST /api/quests/{id}/accept|complete|claim [auth].
func (h *Handler) QuestAction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpapi.WriteMethodNotAllowed(w)
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/api/quests/")
	questID, action, ok := strings.Cut(rest, "/")
	if !ok || questID == "" {
		httpapi.WriteErrorMessage(w, httpapi.CodeValidation, "quest id is required")
		return
	}

	playerID := auth.PlayerIDFromContext(r.Context())
	switch action {
	case "accept":
		q, err := h.service.Accept(r.Context(), playerID, questID)
		if err != nil {
			httpapi.WriteError(w, h.logger, err)
			return
		}
		httpapi.WriteData(w, http.StatusOK, map[string]any{"quest": q})
	case "complete":
		res, err := h.service.Complete(r.Context(), playerID, questID)
		if err != nil {
			httpapi.WriteError(w, h.logger, err)
			return
		}
		httpapi.WriteData(w, http.StatusOK, res)
	case "claim":
		res, err := h.service.Claim(r.Context(), playerID, questID)
		if err != nil {
			httpapi.WriteError(w, h.logger, err)
			return
		}
		httpapi.WriteData(w, http.StatusOK, res)
	default:
		httpapi.WriteErrorMessage(w, httpapi.CodeNotFound, "unknown quest action")
	}
}
