package shop

import (
	"log"
	"net/http"

	"github.com/linyijun92/naruto-rebirth-game/internal/auth"
	"github.com/linyijun92/naruto-rebirth-game/internal/httpapi"
)

// Handler exposes the shop and inventory ledger over HTTP.
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

// GET /api/shop/items
func (h *Handler) Items(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httpapi.WriteMethodNotAllowed(w)
		return
	}
	httpapi.WriteData(w, http.StatusOK, map[string]any{"items": h.service.Items()})
}

// GET /api/inventory [auth]
func (h *Handler) Inventory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httpapi.WriteMethodNotAllowed(w)
		return
	}
	playerID := auth.PlayerIDFromContext(r.Context())
	entries, err := h.service.Inventory(r.Context(), playerID)
	if err != nil {
		httpapi.WriteError(w, h.logger, err)
		return
	}
	httpapi.WriteData(w, http.StatusOK, map[string]any{"inventory": entries})
}

type tradeRequest struct {
	ItemID   string `json:"itemId"`
	Quantity int    `json:"quantity"`
}

// POST /api/shop/purchase [auth]
func (h *Handler) Purchase(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpapi.WriteMethodNotAllowed(w)
		return
	}
	var req tradeRequest
	if err := httpapi.Decode(r, &req); err != nil {
		httpapi.WriteError(w, h.logger, err)
		return
	}
	playerID := auth.PlayerIDFromContext(r.Context())
	res, err := h.service.Purchase(r.Context(), playerID, req.ItemID, req.Quantity)
	if err != nil {
		httpapi.WriteError(w, h.logger, err)
		return
	}
	httpapi.WriteData(w, http.StatusOK, res)
}

// POST /api/shop/sell [auth]
func (h *Handler) Sell(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpapi.WriteMethodNotAllowed(w)
		return
	}
	var req tradeRequest
	if err := httpapi.Decode(r, &req); err != nil {
		httpapi.WriteError(w, h.logger, err)
		return
	}
	playerID := auth.PlayerIDFromContext(r.Context())
	res, err := h.service.Sell(r.Context(), playerID, req.ItemID, req.Quantity)
	if err != nil {
		httpapi.WriteError(w, h.logger, err)
		return
	}
	httpapi.WriteData(w, http.StatusOK, res)
}

type itemRequest struct {
	ItemID string `json:"itemId"`
}

// POST /api/shop/equip [auth]
func (h *Handler) Equip(w http.ResponseWriter, r *http.Request) {
	h.itemAction(w, r, func(playerID, itemID string) error {
		return h.service.Equip(r.Context(), playerID, itemID)
	})
}

// POST /api/shop/unequip [auth]
func (h *Handler) Unequip(w http.ResponseWriter, r *http.Request) {
	h.itemAction(w, r, func(playerID, itemID string) error {
		return h.service.Unequip(r.Context(), playerID, itemID)
	})
}

func (h *Handler) itemAction(w http.ResponseWriter, r *http.Request, fn func(playerID, itemID string) error) {
	if r.Method != http.MethodPost {
		httpapi.WriteMethodNotAllowed(w)
		return
	}
	var req itemRequest
	if err := httpapi.Decode(r, &req); err != nil {
		httpapi.WriteError(w, h.logger, err)
		return
	}
	playerID := auth.PlayerIDFromContext(r.Context())
	if err := fn(playerID, req.ItemID); err != nil {
		httpapi.WriteError(w, h.logger, err)
		return
	}
	httpapi.WriteData(w, http.StatusOK, map[string]any{"itemId": req.ItemID})
}

// POST /api/shop/use [auth]
func (h *Handler) Use(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpapi.WriteMethodNotAllowed(w)
		return
	}
	var req itemRequest
	if err := httpapi.Decode(r, &req); err != nil {
		httpapi.WriteError(w, h.logger, err)
		return
	}
	playerID := auth.PlayerIDFromContext(r.Context())
	res, err := h.service.Use(r.Context(), playerID, req.ItemID)
	if err != nil {
		httpapi.WriteError(w, h.logger, err)
		return
	}
	httpapi.WriteData(w, http.StatusOK, res)
}
