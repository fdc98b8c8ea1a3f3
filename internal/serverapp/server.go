package serverapp

import (
	"database/sql"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/linyijun92/naruto-rebirth-game/internal/auth"
	"github.com/linyijun92/naruto-rebirth-game/internal/catalog"
	"github.com/linyijun92/naruto-rebirth-game/internal/config"
	"github.com/linyijun92/naruto-rebirth-game/internal/httpapi"
	"github.com/linyijun92/naruto-rebirth-game/internal/httpmw"
	"github.com/linyijun92/naruto-rebirth-game/internal/player"
	"github.com/linyijun92/naruto-rebirth-game/internal/quest"
	"github.com/linyijun92/naruto-rebirth-game/internal/save"
	"github.com/linyijun92/naruto-rebirth-game/internal/shop"
	"github.com/linyijun92/naruto-rebirth-game/internal/telemetry"
)

// Options carries everything NewHandler needs to assemble the server.
type Options struct {
	Config  *config.Config
	DB      *sql.DB
	Catalog *catalog.Catalog
	Logger  *log.Logger
}

// NewHandler wires repos, services, and handlers into one http.Handler,
// wrapped in the request-id/recover/access-log middleware chain.
func NewHandler(opts Options) (http.Handler, error) {
	if opts.Config == nil {
		return nil, errors.New("config is required")
	}
	if opts.DB == nil {
		return nil, errors.New("db is required")
	}
	if opts.Catalog == nil {
		return nil, errors.New("catalog is required")
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	logger := opts.Logger
	timeout := opts.Config.DBTimeout()
	tokens := auth.NewTokenIssuer(opts.Config.JWTSecret, opts.Config.TokenTTL())

	questRepo := quest.NewRepo(opts.DB, opts.Catalog)
	questService := quest.NewService(questRepo, logger, timeout)
	questHandler := quest.NewHandler(questService, logger)

	playerRepo := player.NewRepo(opts.DB)
	playerService := player.NewService(playerRepo, tokens, questRepo, logger, timeout)
	playerHandler := player.NewHandler(playerService, logger)

	shopRepo := shop.NewRepo(opts.DB)
	shopService := shop.NewService(shopRepo, opts.Catalog, logger, timeout)
	shopHandler := shop.NewHandler(shopService, logger)

	saveRepo := save.NewRepo(opts.DB)
	saveService := save.NewService(saveRepo, logger, timeout)
	saveHandler := save.NewHandler(saveService, logger)

	events := telemetry.NewMemoryRecorder()

	mux := http.NewServeMux()

	startedAt := time.Now()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			httpapi.WriteMethodNotAllowed(w)
			return
		}
		connected := opts.DB.PingContext(r.Context()) == nil
		status := http.StatusOK
		state := "ok"
		if !connected {
			status = http.StatusServiceUnavailable
			state = "degraded"
		}
		httpapi.WriteData(w, status, map[string]any{
			"status":         state,
			"database":       map[string]any{"connected": connected},
			"uptime_seconds": int(time.Since(startedAt).Seconds()),
		})
	})

	mux.Handle("/api/player/register", observe(events, telemetry.EventPlayerRegistered, http.HandlerFunc(playerHandler.Register)))
	mux.Handle("/api/player/login", observe(events, telemetry.EventPlayerLogin, http.HandlerFunc(playerHandler.Login)))
	mux.Handle("/api/player/upgrade", tokens.RequireAPI(observe(events, telemetry.EventAttributeUpgrade, http.HandlerFunc(playerHandler.Upgrade))))
	mux.Handle("/api/player/experience", tokens.RequireAPI(http.HandlerFunc(playerHandler.Experience)))
	mux.Handle("/api/player/levelup", tokens.RequireAPI(observe(events, telemetry.EventLevelUp, http.HandlerFunc(playerHandler.LevelUp))))
	mux.HandleFunc("/api/player/", playerHandler.PlayerByID)

	mux.Handle("/api/quests", tokens.RequireAPI(http.HandlerFunc(questHandler.List)))
	mux.Handle("/api/quests/", tokens.RequireAPI(observeQuestActions(events, http.HandlerFunc(questHandler.QuestAction))))

	mux.HandleFunc("/api/shop/items", shopHandler.Items)
	mux.Handle("/api/shop/purchase", tokens.RequireAPI(observe(events, telemetry.EventItemPurchased, http.HandlerFunc(shopHandler.Purchase))))
	mux.Handle("/api/shop/sell", tokens.RequireAPI(observe(events, telemetry.EventItemSold, http.HandlerFunc(shopHandler.Sell))))
	mux.Handle("/api/shop/equip", tokens.RequireAPI(http.HandlerFunc(shopHandler.Equip)))
	mux.Handle("/api/shop/unequip", tokens.RequireAPI(http.HandlerFunc(shopHandler.Unequip)))
	mux.Handle("/api/shop/use", tokens.RequireAPI(observe(events, telemetry.EventItemUsed, http.HandlerFunc(shopHandler.Use))))
	mux.Handle("/api/inventory", tokens.RequireAPI(http.HandlerFunc(shopHandler.Inventory)))

	mux.Handle("/api/saves", tokens.RequireAPI(observe(events, telemetry.EventSaveCreated, http.HandlerFunc(saveHandler.SavesRoot))))
	mux.Handle("/api/saves/", tokens.RequireAPI(observe(events, telemetry.EventSaveLoaded, http.HandlerFunc(saveHandler.SavesSub))))

	mux.HandleFunc("/api/stats", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			httpapi.WriteMethodNotAllowed(w)
			return
		}
		since := startedAt
		httpapi.WriteData(w, http.StatusOK, telemetry.Summarize(events.Events(since, nil), since))
	})

	return httpmw.Chain(mux,
		httpmw.WithRequestID,
		httpmw.WithRecover(logger),
		httpmw.WithAccessLog(logger),
	), nil
}
