package player

import (
	"log"
	"net/http"
	"strings"

	"github.com/linyijun92/naruto-rebirth-game/internal/auth"
	"github.com/linyijun92/naruto-rebirth-game/internal/httpapi"
)

// Handler exposes the player ledger over HTTP.
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

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /api/player/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpapi.WriteMethodNotAllowed(w)
		return
	}
	var req registerRequest
	if err := httpapi.Decode(r, &req); err != nil {
		httpapi.WriteError(w, h.logger, err)
		return
	}
	p, err := h.service.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		httpapi.WriteError(w, h.logger, err)
		return
	}
	httpapi.WriteData(w, http.StatusCreated, p)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Player PlayerWithAttributes `json:"player"`
	Token  string               `json:"token"`
}

// POST /api/player/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpapi.WriteMethodNotAllowed(w)
		return
	}
	var req loginRequest
	if err := httpapi.Decode(r, &req); err != nil {
		httpapi.WriteError(w, h.logger, err)
		return
	}
	p, token, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		httpapi.WriteError(w, h.logger, err)
		return
	}
	httpapi.WriteData(w, http.StatusOK, loginResponse{Player: p, Token: token})
}

// GET /api/player/{id}
func (h *Handler) PlayerByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httpapi.WriteMethodNotAllowed(w)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/api/player/")
	if id == "" || strings.Contains(id, "/") {
		httpapi.WriteErrorMessage(w, httpapi.CodeValidation, "player id is required")
		return
	}
	p, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpapi.WriteError(w, h.logger, err)
		return
	}
	httpapi.WriteData(w, http.StatusOK, p)
}

type upgradeRequest struct {
	Attribute string `json:"attribute"`
	Amount    int    `json:"amount"`
}

type upgradeResponse struct {
	Upgrade UpgradeResult        `json:"upgrade"`
	Player  PlayerWithAttributes `json:"player"`
}

// POST /api/player/upgrade [auth]
func (h *Handler) Upgrade(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpapi.WriteMethodNotAllowed(w)
		return
	}
	playerID := auth.PlayerIDFromContext(r.Context())
	var req upgradeRequest
	if err := httpapi.Decode(r, &req); err != nil {
		httpapi.WriteError(w, h.logger, err)
		return
	}
	res, p, err := h.service.Upgrade(r.Context(), playerID, req.Attribute, req.Amount)
	if err != nil {
		httpapi.WriteError(w, h.logger, err)
		return
	}
	httpapi.WriteData(w, http.StatusOK, upgradeResponse{Upgrade: res, Player: p})
}

type experienceRequest struct {
	ExperienceAmount int `json:"experienceAmount"`
}

// POST /api/player/experience [auth]
func (h *Handler) Experience(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpapi.WriteMethodNotAllowed(w)
		return
	}
	playerID := auth.PlayerIDFromContext(r.Context())
	var req experienceRequest
	if err := httpapi.Decode(r, &req); err != nil {
		httpapi.WriteError(w, h.logger, err)
		return
	}
	res, err := h.service.AddExperience(r.Context(), playerID, req.ExperienceAmount)
	if err != nil {
		httpapi.WriteError(w, h.logger, err)
		return
	}
	httpapi.WriteData(w, http.StatusOK, res)
}

// POST /api/player/levelup [auth]
func (h *Handler) LevelUp(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpapi.WriteMethodNotAllowed(w)
		return
	}
	playerID := auth.PlayerIDFromContext(r.Context())
	res, err := h.service.LevelUp(r.Context(), playerID)
	if err != nil {
		httpapi.WriteError(w, h.logger, err)
		return
	}
	httpapi.WriteData(w, http.StatusOK, res)
}
