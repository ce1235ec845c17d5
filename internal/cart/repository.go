package cart

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var ErrCartNotFound = errors.New("cart not found")

type Repository interface {
	Get(ctx context.Context, userID string) (*Cart, error)
	Upsert(ctx context.Context, c *Cart) error
	Delete(ctx context.Context, userID string) error
}

type repo struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repo{db: db}
}

func (r *repo) Get(ctx context.Context, userID string) (*Cart, error) {
	const cartQuery = `SELECT id, user_id, origin_id, updated_at FROM carts WHERE user_id = $1`

	var c Cart
	err := r.db.QueryRowContext(ctx, cartQuery, userID).Scan(&c.ID, &c.UserID, &c.OriginID, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("select cart: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT id, item_id, name, unit_price_cents, option_price_cents, quantity, selected_options, special_instructions
FROM cart_items WHERE cart_id = $1`, c.ID)
	if err != nil {
		return nil, fmt.Errorf("select cart_items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var li LineItem
		var selected []byte
		if err := rows.Scan(&li.ID, &li.ItemID, &li.Name, &li.UnitPriceCents, &li.OptionPriceCents,
			&li.Quantity, &selected, &li.SpecialInstructions); err != nil {
			return nil, fmt.Errorf("scan cart_item: %w", err)
		}
		if len(selected) > 0 {
			if err := json.Unmarshal(selected, &li.SelectedOptions); err != nil {
				return nil, fmt.Errorf("decode selected_options: %w", err)
			}
		}
		c.Items = append(c.Items, li)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return &c, nil
}

func (r *repo) Upsert(ctx context.Context, c *Cart) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if c.ID == "" {
		c.ID = uuid.NewString()
	}

	const upsertCartSQL = `
INSERT INTO carts (id, user_id, origin_id, updated_at)
VALUES ($1, $2, $3, NOW())
ON CONFLICT (user_id) DO UPDATE
SET origin_id = EXCLUDED.origin_id, updated_at = NOW()
RETURNING id, updated_at
`
	if err = tx.QueryRowContext(ctx, upsertCartSQL, c.ID, c.UserID, c.OriginID).Scan(&c.ID, &c.UpdatedAt); err != nil {
		return fmt.Errorf("upsert cart: %w", err)
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, c.ID); err != nil {
		return fmt.Errorf("delete cart_items: %w", err)
	}

	if len(c.Items) > 0 {
		stmt, errPrep := tx.PrepareContext(ctx, `
INSERT INTO cart_items (id, cart_id, item_id, name, unit_price_cents, option_price_cents, quantity, selected_options, special_instructions)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`)
		if errPrep != nil {
			err = errPrep
			return fmt.Errorf("prepare insert: %w", err)
		}
		defer stmt.Close()

		for _, li := range c.Items {
			var selected []byte
			if len(li.SelectedOptions) > 0 {
				if selected, err = json.Marshal(li.SelectedOptions); err != nil {
					return fmt.Errorf("encode selected_options: %w", err)
				}
			}
			if _, err = stmt.ExecContext(ctx, li.ID, c.ID, li.ItemID, li.Name, li.UnitPriceCents,
				li.OptionPriceCents, li.Quantity, selected, li.SpecialInstructions); err != nil {
				return fmt.Errorf("insert cart_item: %w", err)
			}
		}
	}

	err = tx.Commit()
	return err
}

func (r *repo) Delete(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM carts WHERE user_id = $1`, userID)
	return err
}
