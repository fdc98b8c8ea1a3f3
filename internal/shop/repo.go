package shop

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/linyijun92/naruto-rebirth-game/internal/catalog"
	"github.com/linyijun92/naruto-rebirth-game/internal/storage"
)

var (
	ErrPlayerNotFound       = errors.New("player not found")
	ErrNotInInventory       = errors.New("item not in inventory")
	ErrItemEquipped         = errors.New("item is equipped")
	ErrNotEquipped          = errors.New("item is not equipped")
	ErrInsufficientCurrency = errors.New("insufficient currency")
	ErrInsufficientQuantity = errors.New("insufficient quantity")
	ErrStackLimit           = errors.New("stack limit exceeded")
)

// Repo persists inventories. Currency moves ride the same transaction as the
// inventory change, with guarded conditional UPDATEs on the balance.
type Repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

// List returns all inventory entries for a player.
func (r *Repo) List(ctx context.Context, playerID string) ([]InventoryItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, item_id, quantity, equipped FROM inventory
		WHERE player_id = ? ORDER BY id`, playerID)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	defer rows.Close()

	items := []InventoryItem{}
	for rows.Next() {
		var it InventoryItem
		if err := rows.Scan(&it.rowID, &it.ItemID, &it.Quantity, &it.Equipped); err != nil {
			return nil, fmt.Errorf("scan inventory: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func playerCurrency(ctx context.Context, tx *sql.Tx, playerID string) (int, error) {
	var currency int
	err := tx.QueryRowContext(ctx, `SELECT currency FROM players WHERE id = ?`, playerID).Scan(&currency)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrPlayerNotFound
		}
		return 0, fmt.Errorf("read currency: %w", err)
	}
	return currency, nil
}

// Purchase deducts the price and stores the items, honoring stack limits.
func (r *Repo) Purchase(ctx context.Context, playerID string, item catalog.Item, quantity int) (PurchaseResult, error) {
	total := item.Price * quantity

	var res PurchaseResult
	err := storage.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		currency, err := playerCurrency(ctx, tx, playerID)
		if err != nil {
			return err
		}
		if currency < total {
			return ErrInsufficientCurrency
		}

		if item.MaxStack == 0 {
			// Non-stackable: one entry per unit.
			for i := 0; i < quantity; i++ {
				if _, err := tx.ExecContext(ctx, `
					INSERT INTO inventory (player_id, item_id, quantity) VALUES (?, ?, 1)`,
					playerID, item.ItemID); err != nil {
					return fmt.Errorf("insert inventory: %w", err)
				}
			}
		} else {
			var rowID int64
			var existing int
			err := tx.QueryRowContext(ctx, `
				SELECT id, quantity FROM inventory WHERE player_id = ? AND item_id = ?`,
				playerID, item.ItemID).Scan(&rowID, &existing)
			switch {
			case errors.Is(err, sql.ErrNoRows):
				if quantity > item.MaxStack {
					return ErrStackLimit
				}
				if _, err := tx.ExecContext(ctx, `
					INSERT INTO inventory (player_id, item_id, quantity) VALUES (?, ?, ?)`,
					playerID, item.ItemID, quantity); err != nil {
					return fmt.Errorf("insert inventory: %w", err)
				}
			case err != nil:
				return fmt.Errorf("read inventory: %w", err)
			default:
				if existing+quantity > item.MaxStack {
					return ErrStackLimit
				}
				if _, err := tx.ExecContext(ctx, `
					UPDATE inventory SET quantity = quantity + ? WHERE id = ?`, quantity, rowID); err != nil {
					return fmt.Errorf("update inventory: %w", err)
				}
			}
		}

		out, err := tx.ExecContext(ctx, `
			UPDATE players
			SET currency = currency - ?, items_collected = items_collected + ?, updated_at = ?
			WHERE id = ? AND currency >= ?`,
			total, quantity, time.Now().UTC(), playerID, total)
		if err != nil {
			return fmt.Errorf("deduct currency: %w", err)
		}
		affected, err := out.RowsAffected()
		if err != nil {
			return fmt.Errorf("deduct currency: %w", err)
		}
		if affected == 0 {
			return ErrInsufficientCurrency
		}

		res = PurchaseResult{
			ItemID:      item.ItemID,
			Quantity:    quantity,
			TotalPrice:  total,
			NewCurrency: currency - total,
		}
		return nil
	})
	if err != nil {
		return PurchaseResult{}, err
	}
	return res, nil
}

// Sell removes quantity units from unequipped entries and credits the sell
// price. Entries reaching zero are deleted.
func (r *Repo) Sell(ctx context.Context, playerID string, item catalog.Item, quantity int) (SellResult, error) {
	total := item.SellPrice * quantity

	var res SellResult
	err := storage.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, `
			SELECT id, quantity, equipped FROM inventory
			WHERE player_id = ? AND item_id = ? ORDER BY id`, playerID, item.ItemID)
		if err != nil {
			return fmt.Errorf("read inventory: %w", err)
		}
		type entry struct {
			id       int64
			quantity int
			equipped bool
		}
		var entries []entry
		for rows.Next() {
			var e entry
			if err := rows.Scan(&e.id, &e.quantity, &e.equipped); err != nil {
				rows.Close()
				return fmt.Errorf("scan inventory: %w", err)
			}
			entries = append(entries, e)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		if len(entries) == 0 {
			return ErrNotInInventory
		}

		available := 0
		anyEquipped := false
		for _, e := range entries {
			if e.equipped {
				anyEquipped = true
				continue
			}
			available += e.quantity
		}
		if available == 0 && anyEquipped {
			return ErrItemEquipped
		}
		if available < quantity {
			if anyEquipped {
				return ErrItemEquipped
			}
			return ErrInsufficientQuantity
		}

		remaining := quantity
		for _, e := range entries {
			if remaining == 0 {
				break
			}
			if e.equipped {
				continue
			}
			take := e.quantity
			if take > remaining {
				take = remaining
			}
			if take == e.quantity {
				if _, err := tx.ExecContext(ctx, `DELETE FROM inventory WHERE id = ?`, e.id); err != nil {
					return fmt.Errorf("delete inventory: %w", err)
				}
			} else {
				if _, err := tx.ExecContext(ctx,
					`UPDATE inventory SET quantity = quantity - ? WHERE id = ?`, take, e.id); err != nil {
					return fmt.Errorf("update inventory: %w", err)
				}
			}
			remaining -= take
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE players SET currency = currency + ?, updated_at = ? WHERE id = ?`,
			total, time.Now().UTC(), playerID); err != nil {
			return fmt.Errorf("credit currency: %w", err)
		}

		currency, err := playerCurrency(ctx, tx, playerID)
		if err != nil {
			return err
		}
		res = SellResult{
			ItemID:            item.ItemID,
			Quantity:          quantity,
			TotalEarned:       total,
			NewCurrency:       currency,
			RemainingQuantity: available - quantity,
		}
		return nil
	})
	if err != nil {
		return SellResult{}, err
	}
	return res, nil
}

// Equip marks one entry equipped, swapping out whatever currently holds the
// item's category. categoryItemIDs is the catalog's id list for that category.
func (r *Repo) Equip(ctx context.Context, playerID, itemID string, categoryItemIDs []string) error {
	return storage.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		var rowID int64
		err := tx.QueryRowContext(ctx, `
			SELECT id FROM inventory WHERE player_id = ? AND item_id = ? ORDER BY equipped, id LIMIT 1`,
			playerID, itemID).Scan(&rowID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotInInventory
			}
			return fmt.Errorf("read inventory: %w", err)
		}

		if len(categoryItemIDs) > 0 {
			placeholders := strings.Repeat("?,", len(categoryItemIDs))
			placeholders = placeholders[:len(placeholders)-1]
			args := make([]any, 0, len(categoryItemIDs)+1)
			args = append(args, playerID)
			for _, id := range categoryItemIDs {
				args = append(args, id)
			}
			if _, err := tx.ExecContext(ctx, `
				UPDATE inventory SET equipped = 0
				WHERE player_id = ? AND equipped = 1 AND item_id IN (`+placeholders+`)`, args...); err != nil {
				return fmt.Errorf("unequip category: %w", err)
			}
		}

		if _, err := tx.ExecContext(ctx, `UPDATE inventory SET equipped = 1 WHERE id = ?`, rowID); err != nil {
			return fmt.Errorf("equip item: %w", err)
		}
		return nil
	})
}

// Unequip clears the equipped flag; fails when the item is not equipped.
func (r *Repo) Unequip(ctx context.Context, playerID, itemID string) error {
	return storage.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		out, err := tx.ExecContext(ctx, `
			UPDATE inventory SET equipped = 0
			WHERE player_id = ? AND item_id = ? AND equipped = 1`, playerID, itemID)
		if err != nil {
			return fmt.Errorf("unequip item: %w", err)
		}
		affected, err := out.RowsAffected()
		if err != nil {
			return fmt.Errorf("unequip item: %w", err)
		}
		if affected == 0 {
			return ErrNotEquipped
		}
		return nil
	})
}

// UseConsumable applies a medicine's recover effect, clamped at the player's
// maximum, and burns one unit.
func (r *Repo) UseConsumable(ctx context.Context, playerID string, item catalog.Item) (UseResult, error) {
	var res UseResult
	err := storage.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		var rowID int64
		var quantity int
		err := tx.QueryRowContext(ctx, `
			SELECT id, quantity FROM inventory WHERE player_id = ? AND item_id = ? LIMIT 1`,
			playerID, item.ItemID).Scan(&rowID, &quantity)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotInInventory
			}
			return fmt.Errorf("read inventory: %w", err)
		}

		var pool, max string
		switch item.Effect.Target {
		case "health":
			pool, max = "health", "max_health"
		case "chakra":
			pool, max = "chakra", "max_chakra"
		default:
			return fmt.Errorf("unsupported recover target %q", item.Effect.Target)
		}
		if _, err := tx.ExecContext(ctx, `
			UPDATE players SET `+pool+` = MIN(`+pool+` + ?, `+max+`), updated_at = ? WHERE id = ?`,
			item.Effect.Value, time.Now().UTC(), playerID); err != nil {
			return fmt.Errorf("apply recover: %w", err)
		}

		if quantity <= 1 {
			if _, err := tx.ExecContext(ctx, `DELETE FROM inventory WHERE id = ?`, rowID); err != nil {
				return fmt.Errorf("delete inventory: %w", err)
			}
		} else {
			if _, err := tx.ExecContext(ctx,
				`UPDATE inventory SET quantity = quantity - 1 WHERE id = ?`, rowID); err != nil {
				return fmt.Errorf("update inventory: %w", err)
			}
		}

		var health, chakra int
		if err := tx.QueryRowContext(ctx,
			`SELECT health, chakra FROM players WHERE id = ?`, playerID).Scan(&health, &chakra); err != nil {
			return fmt.Errorf("read pools: %w", err)
		}

		res = UseResult{
			ItemID:            item.ItemID,
			EffectTarget:      item.Effect.Target,
			Recovered:         item.Effect.Value,
			Health:            health,
			Chakra:            chakra,
			RemainingQuantity: quantity - 1,
		}
		return nil
	})
	if err != nil {
		return UseResult{}, err
	}
	return res, nil
}
