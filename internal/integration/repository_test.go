package integration

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/oakline/commerce-core/internal/booking"
	"github.com/oakline/commerce-core/internal/cart"
	"github.com/oakline/commerce-core/internal/checkout"
	"github.com/oakline/commerce-core/internal/order"
	"github.com/oakline/commerce-core/internal/testutil"
)

func TestCartRepository_RoundTrip(t *testing.T) {
	db, _ := testutil.StartPostgres(t)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	repo := cart.NewRepository(db)

	c := &cart.Cart{
		ID:       uuid.NewString(),
		UserID:   "user-abc",
		OriginID: "rest-1",
		Items: []cart.LineItem{
			{
				ID:              uuid.NewString(),
				ItemID:          "item-pizza",
				Name:            "Margherita",
				UnitPriceCents:  1099,
				Quantity:        2,
				SelectedOptions: map[string][]string{"size": {"large"}},
			},
		},
		UpdatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
	require.NoError(t, repo.Upsert(ctx, c))

	fetched, err := repo.Get(ctx, "user-abc")
	require.NoError(t, err)
	require.Equal(t, c.OriginID, fetched.OriginID)
	require.Len(t, fetched.Items, 1)
	require.Equal(t, c.Items[0].SelectedOptions, fetched.Items[0].SelectedOptions)
	require.Equal(t, int64(2198), fetched.SubtotalCents())

	// upsert replaces the line set
	c.Items = nil
	c.OriginID = ""
	require.NoError(t, repo.Upsert(ctx, c))

	fetched, err = repo.Get(ctx, "user-abc")
	require.NoError(t, err)
	require.Empty(t, fetched.Items)

	require.NoError(t, repo.Delete(ctx, "user-abc"))
	_, err = repo.Get(ctx, "user-abc")
	require.ErrorIs(t, err, cart.ErrCartNotFound)
}

func TestOrderRepository_StatusPersists(t *testing.T) {
	db, _ := testutil.StartPostgres(t)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	repo := order.NewRepository(db)

	co := checkout.PricedCheckout{
		OriginID: "rest-1",
		Items: []cart.LineItem{
			{ID: uuid.NewString(), ItemID: "item-pizza", Name: "Margherita", UnitPriceCents: 1099, Quantity: 1},
		},
		SubtotalCents:    1099,
		DeliveryFeeCents: 299,
		ServiceFeeCents:  199,
		TotalCents:       1597,
	}
	o := order.New(co, "user-abc", "42 Harbor Street", "pm_test")
	require.NoError(t, repo.Create(ctx, o))

	require.NoError(t, repo.UpdateStatus(ctx, o.ID, order.StatusConfirmed, ""))

	fetched, err := repo.GetByID(ctx, o.ID)
	require.NoError(t, err)
	require.Equal(t, order.StatusConfirmed, fetched.Status)
	require.Equal(t, int64(1597), fetched.Checkout.TotalCents)
	require.Len(t, fetched.Checkout.Items, 1)

	listed, err := repo.ListByUser(ctx, "user-abc")
	require.NoError(t, err)
	require.Len(t, listed, 1)

	require.ErrorIs(t, repo.UpdateStatus(ctx, "missing", order.StatusConfirmed, ""), order.ErrOrderNotFound)
}

func TestBookingRepository_RoundTrip(t *testing.T) {
	_, dsn := testutil.StartPostgres(t)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	repo := booking.NewPostgresRepository(pool)

	b := &booking.Booking{
		ID:               uuid.NewString(),
		Kind:             booking.KindFlight,
		UserID:           "user-abc",
		FlightID:         "fl-100",
		GuestCount:       2,
		UnitPriceCents:   25000,
		TotalCents:       50000,
		Status:           booking.StatusConfirmed,
		ConfirmationCode: "AB12CD34",
		CreatedAt:        time.Now().UTC().Truncate(time.Millisecond),
	}
	require.NoError(t, repo.Create(ctx, b))

	fetched, err := repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	require.Equal(t, b.ConfirmationCode, fetched.ConfirmationCode)
	require.Equal(t, b.TotalCents, fetched.TotalCents)

	require.NoError(t, repo.UpdateStatus(ctx, b.ID, booking.StatusCancelled))
	fetched, err = repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	require.Equal(t, booking.StatusCancelled, fetched.Status)

	_, err = repo.GetByID(ctx, uuid.NewString())
	require.ErrorIs(t, err, booking.ErrBookingNotFound)
}
