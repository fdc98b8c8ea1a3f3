package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/linyijun92/naruto-rebirth-game/internal/catalog"
	"github.com/linyijun92/naruto-rebirth-game/internal/config"
	"github.com/linyijun92/naruto-rebirth-game/internal/serverapp"
	"github.com/linyijun92/naruto-rebirth-game/internal/storage"
)

type testApp struct {
	handler http.Handler
	logs    *bytes.Buffer
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := storage.Migrate(context.Background(), db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	gameData, err := catalog.Load("")
	if err != nil {
		t.Fatalf("load game data: %v", err)
	}

	var logs bytes.Buffer
	logger := log.New(&logs, "", 0)

	h, err := serverapp.NewHandler(serverapp.Options{
		Config: &config.Config{
			JWTSecret:   "integration-secret",
			JWTTTLHours: 1,
			DBTimeoutMS: 2000,
		},
		DB:      db,
		Catalog: gameData,
		Logger:  logger,
	})
	if err != nil {
		t.Fatalf("NewHandler: %v", err)
	}
	return &testApp{handler: h, logs: &logs}
}

func (a *testApp) request(method, path string, body io.Reader, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) json(method, path string, body any, token string) *httptest.ResponseRecorder {
	b, _ := json.Marshal(body)
	return a.request(method, path, bytes.NewReader(b), token)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v body=%s", err, rec.Body.String())
	}
	return env
}

// registerAndLogin creates an account and returns the player id and token.
func (a *testApp) registerAndLogin(t *testing.T, username string) (string, string) {
	t.Helper()

	regRes := a.json(http.MethodPost, "/api/player/register", map[string]any{
		"username": username,
		"email":    username + "@leaf.example",
		"password": "rasengan1",
	}, "")
	if regRes.Code != http.StatusCreated {
		t.Fatalf("register expected 201, got %d body=%s", regRes.Code, regRes.Body.String())
	}

	loginRes := a.json(http.MethodPost, "/api/player/login", map[string]any{
		"username": username,
		"password": "rasengan1",
	}, "")
	if loginRes.Code != http.StatusOK {
		t.Fatalf("login expected 200, got %d body=%s", loginRes.Code, loginRes.Body.String())
	}

	var data struct {
		Player struct {
			ID string `json:"id"`
		} `json:"player"`
		Token string `json:"token"`
	}
	if err := json.Unmarshal(decodeEnvelope(t, loginRes).Data, &data); err != nil {
		t.Fatalf("decode login data: %v body=%s", err, loginRes.Body.String())
	}
	if data.Player.ID == "" || data.Token == "" {
		t.Fatalf("incomplete login response: %s", loginRes.Body.String())
	}
	return data.Player.ID, data.Token
}

func TestServer_ProtectedRoutesRequireAuth(t *testing.T) {
	app := newTestApp(t)

	for _, path := range []string{"/api/quests", "/api/inventory", "/api/saves"} {
		res := app.request(http.MethodGet, path, nil, "")
		if res.Code != http.StatusUnauthorized {
			t.Errorf("%s expected 401, got %d", path, res.Code)
		}
		env := decodeEnvelope(t, res)
		if env.Success || env.Error == "" {
			t.Errorf("%s expected a failure envelope, got %s", path, res.Body.String())
		}
	}

	res := app.request(http.MethodGet, "/api/quests", nil, "not-a-jwt")
	if res.Code != http.StatusUnauthorized {
		t.Errorf("garbage token expected 401, got %d", res.Code)
	}
}

func TestServer_RegisterLoginAndDuplicates(t *testing.T) {
	app := newTestApp(t)
	playerID, token := app.registerAndLogin(t, "naruto")

	dupRes := app.json(http.MethodPost, "/api/player/register", map[string]any{
		"username": "naruto",
		"email":    "other@leaf.example",
		"password": "rasengan1",
	}, "")
	if dupRes.Code != http.StatusConflict {
		t.Fatalf("duplicate register expected 409, got %d body=%s", dupRes.Code, dupRes.Body.String())
	}

	badRes := app.json(http.MethodPost, "/api/player/login", map[string]any{
		"username": "naruto",
		"password": "wrong",
	}, "")
	if badRes.Code != http.StatusUnauthorized {
		t.Fatalf("bad login expected 401, got %d", badRes.Code)
	}

	profileRes := app.request(http.MethodGet, "/api/player/"+playerID, nil, token)
	if profileRes.Code != http.StatusOK {
		t.Fatalf("profile expected 200, got %d body=%s", profileRes.Code, profileRes.Body.String())
	}
	if rid := profileRes.Header().Get("X-Request-Id"); rid == "" {
		t.Error("missing X-Request-Id header")
	}
}

func TestServer_QuestLifecycle(t *testing.T) {
	app := newTestApp(t)
	_, token := app.registerAndLogin(t, "sasuke")

	listRes := app.request(http.MethodGet, "/api/quests", nil, token)
	if listRes.Code != http.StatusOK {
		t.Fatalf("list quests expected 200, got %d body=%s", listRes.Code, listRes.Body.String())
	}
	var listData struct {
		Quests []struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"quests"`
	}
	if err := json.Unmarshal(decodeEnvelope(t, listRes).Data, &listData); err != nil {
		t.Fatalf("decode quests: %v", err)
	}
	if len(listData.Quests) != 7 {
		t.Fatalf("seeded quests = %d, want 7", len(listData.Quests))
	}

	acceptRes := app.json(http.MethodPost, "/api/quests/quest_daily_01/accept", nil, token)
	if acceptRes.Code != http.StatusOK {
		t.Fatalf("accept expected 200, got %d body=%s", acceptRes.Code, acceptRes.Body.String())
	}

	completeRes := app.json(http.MethodPost, "/api/quests/quest_daily_01/complete", nil, token)
	if completeRes.Code != http.StatusOK {
		t.Fatalf("complete expected 200, got %d body=%s", completeRes.Code, completeRes.Body.String())
	}

	againRes := app.json(http.MethodPost, "/api/quests/quest_daily_01/complete", nil, token)
	if againRes.Code != http.StatusBadRequest {
		t.Fatalf("second complete expected 400, got %d body=%s", againRes.Code, againRes.Body.String())
	}

	claimRes := app.json(http.MethodPost, "/api/quests/quest_daily_01/claim", nil, token)
	if claimRes.Code != http.StatusOK {
		t.Fatalf("claim expected 200, got %d body=%s", claimRes.Code, claimRes.Body.String())
	}
	claimAgainRes := app.json(http.MethodPost, "/api/quests/quest_daily_01/claim", nil, token)
	if claimAgainRes.Code != http.StatusBadRequest {
		t.Fatalf("second claim expected 400, got %d", claimAgainRes.Code)
	}

	// The stats counters only see the settlements that succeeded.
	statsRes := app.request(http.MethodGet, "/api/stats", nil, "")
	if statsRes.Code != http.StatusOK {
		t.Fatalf("stats expected 200, got %d", statsRes.Code)
	}
	var stats struct {
		QuestCompletions int `json:"questCompletions"`
		RewardClaims     int `json:"rewardClaims"`
	}
	if err := json.Unmarshal(decodeEnvelope(t, statsRes).Data, &stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if stats.QuestCompletions != 1 || stats.RewardClaims != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestServer_ShopPurchaseAndInventory(t *testing.T) {
	app := newTestApp(t)
	playerID, token := app.registerAndLogin(t, "sakura")

	itemsRes := app.request(http.MethodGet, "/api/shop/items", nil, "")
	if itemsRes.Code != http.StatusOK {
		t.Fatalf("shop items expected 200, got %d", itemsRes.Code)
	}

	// 150 ryo against the 100 ryo starting balance.
	poorRes := app.json(http.MethodPost, "/api/shop/purchase", map[string]any{
		"itemId":   "tool_shuriken_r",
		"quantity": 1,
	}, token)
	if poorRes.Code != http.StatusBadRequest {
		t.Fatalf("overdraft purchase expected 400, got %d body=%s", poorRes.Code, poorRes.Body.String())
	}

	buyRes := app.json(http.MethodPost, "/api/shop/purchase", map[string]any{
		"itemId":   "tool_shuriken_n",
		"quantity": 2,
	}, token)
	if buyRes.Code != http.StatusOK {
		t.Fatalf("purchase expected 200, got %d body=%s", buyRes.Code, buyRes.Body.String())
	}
	var buyData struct {
		NewCurrency int `json:"newCurrency"`
	}
	if err := json.Unmarshal(decodeEnvelope(t, buyRes).Data, &buyData); err != nil {
		t.Fatalf("decode purchase: %v", err)
	}
	if buyData.NewCurrency != 0 {
		t.Errorf("currency after purchase = %d, want 0", buyData.NewCurrency)
	}

	invRes := app.request(http.MethodGet, "/api/inventory", nil, token)
	if invRes.Code != http.StatusOK {
		t.Fatalf("inventory expected 200, got %d", invRes.Code)
	}
	var invData struct {
		Inventory []struct {
			ItemID   string `json:"itemId"`
			Quantity int    `json:"quantity"`
		} `json:"inventory"`
	}
	if err := json.Unmarshal(decodeEnvelope(t, invRes).Data, &invData); err != nil {
		t.Fatalf("decode inventory: %v", err)
	}
	if len(invData.Inventory) != 1 || invData.Inventory[0].Quantity != 2 {
		t.Errorf("inventory = %+v", invData.Inventory)
	}

	profileRes := app.request(http.MethodGet, "/api/player/"+playerID, nil, token)
	var profile struct {
		Currency       int `json:"currency"`
		ItemsCollected int `json:"itemsCollected"`
	}
	if err := json.Unmarshal(decodeEnvelope(t, profileRes).Data, &profile); err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	if profile.Currency != 0 || profile.ItemsCollected != 2 {
		t.Errorf("profile = %+v", profile)
	}
}

func TestServer_SaveIsolation(t *testing.T) {
	app := newTestApp(t)
	_, ownerToken := app.registerAndLogin(t, "kakashi")
	_, otherToken := app.registerAndLogin(t, "obito")

	createRes := app.json(http.MethodPost, "/api/saves", map[string]any{
		"saveName": "before the mission",
		"saveData": map[string]any{"scene": "memorial_stone"},
	}, ownerToken)
	if createRes.Code != http.StatusCreated {
		t.Fatalf("create save expected 201, got %d body=%s", createRes.Code, createRes.Body.String())
	}
	var createData struct {
		Save struct {
			ID string `json:"id"`
		} `json:"save"`
	}
	if err := json.Unmarshal(decodeEnvelope(t, createRes).Data, &createData); err != nil {
		t.Fatalf("decode save: %v", err)
	}

	loadRes := app.json(http.MethodPost, "/api/saves/"+createData.Save.ID+"/load", nil, ownerToken)
	if loadRes.Code != http.StatusOK {
		t.Fatalf("load expected 200, got %d body=%s", loadRes.Code, loadRes.Body.String())
	}

	stolenRes := app.json(http.MethodPost, "/api/saves/"+createData.Save.ID+"/load", nil, otherToken)
	if stolenRes.Code != http.StatusForbidden {
		t.Fatalf("cross-player load expected 403, got %d body=%s", stolenRes.Code, stolenRes.Body.String())
	}

	deleteRes := app.request(http.MethodDelete, "/api/saves/"+createData.Save.ID, nil, otherToken)
	if deleteRes.Code != http.StatusForbidden {
		t.Fatalf("cross-player delete expected 403, got %d", deleteRes.Code)
	}
}

func TestServer_Health(t *testing.T) {
	app := newTestApp(t)

	res := app.request(http.MethodGet, "/health", nil, "")
	if res.Code != http.StatusOK {
		t.Fatalf("health expected 200, got %d body=%s", res.Code, res.Body.String())
	}
	env := decodeEnvelope(t, res)
	if !env.Success {
		t.Fatalf("health envelope: %s", res.Body.String())
	}
	var data struct {
		Status   string `json:"status"`
		Database struct {
			Connected bool `json:"connected"`
		} `json:"database"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode health: %v", err)
	}
	if data.Status != "ok" || !data.Database.Connected {
		t.Errorf("health = %+v", data)
	}
}

func TestServer_WrongMethodGetsEnvelope(t *testing.T) {
	app := newTestApp(t)
	_, token := app.registerAndLogin(t, "konohamaru")

	for _, path := range []string{"/health", "/api/shop/items", "/api/stats"} {
		res := app.request(http.MethodDelete, path, nil, token)
		if res.Code != http.StatusMethodNotAllowed {
			t.Errorf("DELETE %s expected 405, got %d", path, res.Code)
		}
		env := decodeEnvelope(t, res)
		if env.Success || env.Error != "method not allowed" {
			t.Errorf("DELETE %s envelope: %s", path, res.Body.String())
		}
	}

	res := app.request(http.MethodPut, "/api/player/login", nil, "")
	if res.Code != http.StatusMethodNotAllowed {
		t.Errorf("PUT login expected 405, got %d", res.Code)
	}
}
