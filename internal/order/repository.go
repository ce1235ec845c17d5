package order

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/oakline/commerce-core/internal/cart"
)

type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, orderID string) (*Order, error)
	ListByUser(ctx context.Context, userID string) ([]Order, error)
	UpdateStatus(ctx context.Context, orderID string, status Status, cancelReason string) error
}

type repo struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repo{db: db}
}

func (r *repo) Create(ctx context.Context, o *Order) error {
	items, err := json.Marshal(o.Checkout.Items)
	if err != nil {
		return fmt.Errorf("encode checkout items: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO orders (id, user_id, origin_id, items, subtotal_cents, delivery_fee_cents, service_fee_cents,
                    tip_cents, total_cents, delivery_address, payment_method_ref, status, cancel_reason,
                    created_at, estimated_completion_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		o.ID, o.UserID, o.Checkout.OriginID, items, o.Checkout.SubtotalCents, o.Checkout.DeliveryFeeCents,
		o.Checkout.ServiceFeeCents, o.Checkout.TipCents, o.Checkout.TotalCents, o.DeliveryAddress,
		o.PaymentMethodRef, o.Status, o.CancelReason, o.CreatedAt, o.EstimatedCompletionAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (r *repo) GetByID(ctx context.Context, orderID string) (*Order, error) {
	o, err := r.scanOrder(r.db.QueryRowContext(ctx, `
SELECT id, user_id, origin_id, items, subtotal_cents, delivery_fee_cents, service_fee_cents,
       tip_cents, total_cents, delivery_address, payment_method_ref, status, cancel_reason,
       created_at, estimated_completion_at
FROM orders WHERE id = $1`, orderID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("select order: %w", err)
	}
	return o, nil
}

func (r *repo) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, user_id, origin_id, items, subtotal_cents, delivery_fee_cents, service_fee_cents,
       tip_cents, total_cents, delivery_address, payment_method_ref, status, cancel_reason,
       created_at, estimated_completion_at
FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		o, err := r.scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return orders, nil
}

func (r *repo) UpdateStatus(ctx context.Context, orderID string, status Status, cancelReason string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status = $2, cancel_reason = $3 WHERE id = $1`,
		orderID, status, cancelReason,
	)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *repo) scanOrder(row rowScanner) (*Order, error) {
	var o Order
	var items []byte
	if err := row.Scan(&o.ID, &o.UserID, &o.Checkout.OriginID, &items, &o.Checkout.SubtotalCents,
		&o.Checkout.DeliveryFeeCents, &o.Checkout.ServiceFeeCents, &o.Checkout.TipCents,
		&o.Checkout.TotalCents, &o.DeliveryAddress, &o.PaymentMethodRef, &o.Status, &o.CancelReason,
		&o.CreatedAt, &o.EstimatedCompletionAt); err != nil {
		return nil, err
	}
	if len(items) > 0 {
		var lines []cart.LineItem
		if err := json.Unmarshal(items, &lines); err != nil {
			return nil, fmt.Errorf("decode checkout items: %w", err)
		}
		o.Checkout.Items = lines
	}
	return &o, nil
}
