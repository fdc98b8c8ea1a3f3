package player

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/linyijun92/naruto-rebirth-game/internal/auth"
	"github.com/linyijun92/naruto-rebirth-game/internal/httpapi"
	"github.com/linyijun92/naruto-rebirth-game/internal/storage"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	db, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := storage.Migrate(context.Background(), db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	tokens := auth.NewTokenIssuer("test-secret", time.Hour)
	return NewService(NewRepo(db), tokens, nil, nil, time.Second)
}

func register(t *testing.T, svc *Service, username string) Player {
	t.Helper()
	p, err := svc.Register(context.Background(), username, username+"@leaf.example", "hokage123")
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	return p
}

func assertCode(t *testing.T, err error, code httpapi.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	if !errors.Is(err, httpapi.New(code, "")) {
		t.Fatalf("expected %s error, got %v", code, err)
	}
}

func TestRegister_StartingLedger(t *testing.T) {
	svc := newTestService(t)
	p := register(t, svc, "naruto")

	if p.Level != StartingLevel {
		t.Errorf("level = %d, want %d", p.Level, StartingLevel)
	}
	if p.Experience != StartingExperience {
		t.Errorf("experience = %d, want %d", p.Experience, StartingExperience)
	}
	if p.ExperienceToNextLevel != StartingThreshold {
		t.Errorf("threshold = %d, want %d", p.ExperienceToNextLevel, StartingThreshold)
	}
	if p.Currency != StartingCurrency {
		t.Errorf("currency = %d, want %d", p.Currency, StartingCurrency)
	}
	if p.AttributePoints != StartingAttributePoints {
		t.Errorf("attribute points = %d, want %d", p.AttributePoints, StartingAttributePoints)
	}
	if p.Health != StartingHealth || p.MaxHealth != StartingHealth {
		t.Errorf("health = %d/%d, want %d/%d", p.Health, p.MaxHealth, StartingHealth, StartingHealth)
	}

	full, err := svc.Get(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	want := defaultAttributes()
	if full.Attributes != want {
		t.Errorf("attributes = %+v, want %+v", full.Attributes, want)
	}
}

func TestRegister_Duplicates(t *testing.T) {
	svc := newTestService(t)
	register(t, svc, "sasuke")

	_, err := svc.Register(context.Background(), "sasuke", "other@leaf.example", "pw123456")
	assertCode(t, err, httpapi.CodeConflict)

	_, err = svc.Register(context.Background(), "itachi", "sasuke@leaf.example", "pw123456")
	assertCode(t, err, httpapi.CodeConflict)
}

func TestRegister_Validation(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Register(context.Background(), "", "x@leaf.example", "pw")
	assertCode(t, err, httpapi.CodeValidation)
}

func TestLogin(t *testing.T) {
	svc := newTestService(t)
	p := register(t, svc, "sakura")

	got, token, err := svc.Login(context.Background(), "sakura", "hokage123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if got.ID != p.ID {
		t.Errorf("player id = %s, want %s", got.ID, p.ID)
	}
	if token == "" {
		t.Error("expected a token")
	}

	// Wrong password and unknown username must be indistinguishable.
	_, _, wrongPW := svc.Login(context.Background(), "sakura", "nope")
	assertCode(t, wrongPW, httpapi.CodeAuthentication)
	_, _, unknown := svc.Login(context.Background(), "orochimaru", "nope")
	assertCode(t, unknown, httpapi.CodeAuthentication)
	if wrongPW.Error() != unknown.Error() {
		t.Errorf("login errors differ: %q vs %q", wrongPW, unknown)
	}
}

func TestAddExperience_LevelCarry(t *testing.T) {
	svc := newTestService(t)
	p := register(t, svc, "rock_lee")

	// 150 exp crosses the 100, 120, and 144 thresholds in one credit.
	res, err := svc.AddExperience(context.Background(), p.ID, 150)
	if err != nil {
		t.Fatalf("add experience: %v", err)
	}
	if !res.LeveledUp {
		t.Error("expected a level up")
	}
	if res.NewLevel != 4 {
		t.Errorf("new level = %d, want 4", res.NewLevel)
	}
	if res.NewExperience != 150 {
		t.Errorf("new experience = %d, want 150 (experience is never reset)", res.NewExperience)
	}
	if res.ExperienceToNextLevel != 172 {
		t.Errorf("threshold = %d, want 172", res.ExperienceToNextLevel)
	}
}

func TestAddExperience_NoLevelUp(t *testing.T) {
	svc := newTestService(t)
	p := register(t, svc, "shikamaru")

	res, err := svc.AddExperience(context.Background(), p.ID, 40)
	if err != nil {
		t.Fatalf("add experience: %v", err)
	}
	if res.LeveledUp || res.NewLevel != 1 {
		t.Errorf("unexpected level up: %+v", res)
	}

	_, err = svc.AddExperience(context.Background(), p.ID, 0)
	assertCode(t, err, httpapi.CodeValidation)
	_, err = svc.AddExperience(context.Background(), "player_missing", 10)
	assertCode(t, err, httpapi.CodeNotFound)
}

func TestLevelUp_RequiresExperience(t *testing.T) {
	svc := newTestService(t)
	p := register(t, svc, "choji")

	_, err := svc.LevelUp(context.Background(), p.ID)
	assertCode(t, err, httpapi.CodePrecondition)
}

func TestUpgrade_SpendsPointsAndClamps(t *testing.T) {
	svc := newTestService(t)
	p := register(t, svc, "neji")

	res, full, err := svc.Upgrade(context.Background(), p.ID, "ninjutsu", 3)
	if err != nil {
		t.Fatalf("upgrade: %v", err)
	}
	if res.OldValue != 50 || res.NewValue != 80 {
		t.Errorf("ninjutsu %d -> %d, want 50 -> 80", res.OldValue, res.NewValue)
	}
	if res.NewPoints != 7 {
		t.Errorf("points = %d, want 7", res.NewPoints)
	}
	if full.Attributes.Ninjutsu != 80 {
		t.Errorf("refreshed ninjutsu = %d, want 80", full.Attributes.Ninjutsu)
	}

	// 6 more points would land at 140; the stat clamps at the cap instead.
	res, _, err = svc.Upgrade(context.Background(), p.ID, "ninjutsu", 6)
	if err != nil {
		t.Fatalf("upgrade: %v", err)
	}
	if res.NewValue != AttributeCap {
		t.Errorf("ninjutsu = %d, want cap %d", res.NewValue, AttributeCap)
	}
	if res.NewPoints != 1 {
		t.Errorf("points = %d, want 1", res.NewPoints)
	}

	// Maxed stat rejects further upgrades before any points are spent.
	_, _, err = svc.Upgrade(context.Background(), p.ID, "ninjutsu", 1)
	assertCode(t, err, httpapi.CodePrecondition)

	// One point left cannot cover a two-point spend, and the balance stays put.
	_, _, err = svc.Upgrade(context.Background(), p.ID, "speed", 2)
	assertCode(t, err, httpapi.CodePrecondition)
	full, err = svc.Get(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if full.AttributePoints != 1 {
		t.Errorf("points = %d, want 1 after failed spend", full.AttributePoints)
	}
	if full.Attributes.Speed != 50 {
		t.Errorf("speed = %d, want untouched 50", full.Attributes.Speed)
	}
}

func TestUpgrade_ConcurrentSpendsNeverOverdraw(t *testing.T) {
	svc := newTestService(t)
	p := register(t, svc, "gaara")

	// 10 starting points against a 2-point cost leaves room for at most 5
	// wins. The single-writer connection serializes the guarded deduction, so
	// every losing request must fail the precondition instead of overdrawing.
	attrs := []string{"chakra", "ninjutsu", "taijutsu", "intelligence", "speed", "luck"}
	const attempts = 10
	const cost = 2

	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, errs[i] = svc.Upgrade(context.Background(), p.ID, attrs[i%len(attrs)], cost)
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		assertCode(t, err, httpapi.CodePrecondition)
	}

	full, err := svc.Get(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if full.AttributePoints < 0 {
		t.Fatalf("attribute points went negative: %d", full.AttributePoints)
	}
	if spent := StartingAttributePoints - full.AttributePoints; successes*cost != spent {
		t.Errorf("%d wins spent %d points, ledger moved %d", successes, successes*cost, spent)
	}
}

func TestUpgrade_UnknownAttribute(t *testing.T) {
	svc := newTestService(t)
	p := register(t, svc, "kiba")

	_, _, err := svc.Upgrade(context.Background(), p.ID, "genjutsu", 1)
	assertCode(t, err, httpapi.CodeValidation)
	_, _, err = svc.Upgrade(context.Background(), p.ID, "speed", 0)
	assertCode(t, err, httpapi.CodeValidation)
}

func TestNextThreshold(t *testing.T) {
	cases := []struct{ in, want int }{
		{100, 120},
		{120, 144},
		{144, 172},
		{172, 206},
	}
	for _, c := range cases {
		if got := NextThreshold(c.in); got != c.want {
			t.Errorf("NextThreshold(%d) = %d, want %d", c.in, got, c.want)
		}
	}
}
