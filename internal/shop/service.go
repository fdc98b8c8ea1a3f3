package shop

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/linyijun92/naruto-rebirth-game/internal/catalog"
	"github.com/linyijun92/naruto-rebirth-game/internal/httpapi"
)

// Service validates shop operations against the catalog and maps storage
// errors to the API taxonomy.
type Service struct {
	repo    *Repo
	catalog *catalog.Catalog
	logger  *log.Logger
	timeout time.Duration
}

func NewService(repo *Repo, cat *catalog.Catalog, logger *log.Logger, timeout time.Duration) *Service {
	if logger == nil {
		logger = log.Default()
	}
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Service{repo: repo, catalog: cat, logger: logger, timeout: timeout}
}

func (s *Service) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

func (s *Service) item(itemID string) (catalog.Item, error) {
	item, ok := s.catalog.Item(itemID)
	if !ok {
		return catalog.Item{}, httpapi.NotFound("item not found")
	}
	return item, nil
}

// Items returns the read-only shop catalog.
func (s *Service) Items() []catalog.Item {
	return s.catalog.Items()
}

// Inventory returns the player's entries joined with catalog data.
func (s *Service) Inventory(ctx context.Context, playerID string) ([]InventoryEntry, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	items, err := s.repo.List(ctx, playerID)
	if err != nil {
		return nil, httpapi.Internal(err)
	}
	entries := make([]InventoryEntry, 0, len(items))
	for _, it := range items {
		entry := InventoryEntry{InventoryItem: it}
		if cat, ok := s.catalog.Item(it.ItemID); ok {
			entry.Item = cat
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Purchase buys quantity units of an item.
func (s *Service) Purchase(ctx context.Context, playerID, itemID string, quantity int) (PurchaseResult, error) {
	if quantity < MinPurchaseQuantity || quantity > MaxPurchaseQuantity {
		return PurchaseResult{}, httpapi.Newf(httpapi.CodeValidation,
			"quantity must be between %d and %d", MinPurchaseQuantity, MaxPurchaseQuantity)
	}
	item, err := s.item(itemID)
	if err != nil {
		return PurchaseResult{}, err
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	res, err := s.repo.Purchase(ctx, playerID, item, quantity)
	if err != nil {
		switch {
		case errors.Is(err, ErrPlayerNotFound):
			return PurchaseResult{}, httpapi.NotFound("player not found")
		case errors.Is(err, ErrInsufficientCurrency):
			return PurchaseResult{}, httpapi.Precondition("insufficient currency")
		case errors.Is(err, ErrStackLimit):
			return PurchaseResult{}, httpapi.Precondition("stack limit exceeded")
		default:
			return PurchaseResult{}, httpapi.Internal(err)
		}
	}
	return res, nil
}

// Sell converts inventory back to currency at the item's sell price.
func (s *Service) Sell(ctx context.Context, playerID, itemID string, quantity int) (SellResult, error) {
	if quantity < 1 {
		return SellResult{}, httpapi.Validation("quantity must be positive")
	}
	item, err := s.item(itemID)
	if err != nil {
		return SellResult{}, err
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	res, err := s.repo.Sell(ctx, playerID, item, quantity)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotInInventory):
			return SellResult{}, httpapi.Precondition("item not in inventory")
		case errors.Is(err, ErrItemEquipped):
			return SellResult{}, httpapi.Precondition("cannot sell an equipped item")
		case errors.Is(err, ErrInsufficientQuantity):
			return SellResult{}, httpapi.Precondition("insufficient quantity")
		default:
			return SellResult{}, httpapi.Internal(err)
		}
	}
	return res, nil
}

// Equip marks an owned item as equipped, one per category.
func (s *Service) Equip(ctx context.Context, playerID, itemID string) error {
	item, err := s.item(itemID)
	if err != nil {
		return err
	}
	if item.Type != catalog.TypeEquipment {
		return httpapi.Validation("only equipment can be equipped")
	}

	var categoryIDs []string
	for _, it := range s.catalog.Items() {
		if it.Type == catalog.TypeEquipment && it.Category == item.Category {
			categoryIDs = append(categoryIDs, it.ItemID)
		}
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	if err := s.repo.Equip(ctx, playerID, itemID, categoryIDs); err != nil {
		if errors.Is(err, ErrNotInInventory) {
			return httpapi.Precondition("item not in inventory")
		}
		return httpapi.Internal(err)
	}
	return nil
}

// Unequip clears an equipped item.
func (s *Service) Unequip(ctx context.Context, playerID, itemID string) error {
	if _, err := s.item(itemID); err != nil {
		return err
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	if err := s.repo.Unequip(ctx, playerID, itemID); err != nil {
		if errors.Is(err, ErrNotEquipped) {
			return httpapi.Precondition("item is not equipped")
		}
		return httpapi.Internal(err)
	}
	return nil
}

// Use applies a medicine's recover effect and burns one unit.
func (s *Service) Use(ctx context.Context, playerID, itemID string) (UseResult, error) {
	item, err := s.item(itemID)
	if err != nil {
		return UseResult{}, err
	}
	if item.Type != catalog.TypeMedicine || item.Effect.Type != catalog.EffectRecover {
		return UseResult{}, httpapi.Validation("item is not a usable consumable")
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	res, err := s.repo.UseConsumable(ctx, playerID, item)
	if err != nil {
		if errors.Is(err, ErrNotInInventory) {
			return UseResult{}, httpapi.Precondition("item not in inventory")
		}
		return UseResult{}, httpapi.Internal(err)
	}
	return res, nil
}
