package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/oakline/commerce-core/internal/booking"
	"github.com/oakline/commerce-core/internal/cart"
	"github.com/oakline/commerce-core/internal/catalog"
	"github.com/oakline/commerce-core/internal/config"
	"github.com/oakline/commerce-core/internal/db"
	"github.com/oakline/commerce-core/internal/events"
	"github.com/oakline/commerce-core/internal/httpapi"
	"github.com/oakline/commerce-core/internal/order"
	"github.com/oakline/commerce-core/internal/progress"
	"github.com/oakline/commerce-core/internal/store"
)

func main() {
	cfg := config.Load()
	logger := log.New(os.Stdout, "", log.LstdFlags|log.Lmicroseconds)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- DB ---
	if cfg.RunMigrations {
		if err := db.RunMigrations(cfg.DatabaseDSN, logger); err != nil {
			logger.Fatalf("db migrate: %v", err)
		}
	}

	sqlDB := db.MustOpen(cfg.DatabaseDSN)
	defer sqlDB.Close()

	pool, err := db.NewPool(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	carts := cart.NewRepository(sqlDB)
	orders := order.NewRepository(sqlDB)
	bookings := booking.NewPostgresRepository(pool)
	snapshots := store.NewPostgres(sqlDB)

	// --- AMQP ---
	conn := events.MustDialRabbit()
	defer conn.Close()

	publisher, err := events.NewPublisher(conn, events.NewPostgresSequencer(pool), events.PublisherOptions{
		Producer: cfg.Producer,
	})
	if err != nil {
		logger.Fatalf("start publisher: %v", err)
	}
	defer publisher.Close()

	// --- domain ---
	cat := seedCatalog()
	orderSvc := order.NewService(carts, orders, publisher, logger)
	factory := booking.NewFactory(cat)
	tracker := progress.NewTracker(cat, progress.NewCertificateIssuer(), snapshots, logger)

	if err := events.StartDispatchConsumer(ctx, conn, orderSvc, logger); err != nil {
		logger.Fatalf("start dispatch consumer: %v", err)
	}

	// --- HTTP ---
	router := httpapi.NewRouter(httpapi.Handlers{
		Cart:     httpapi.NewCartHandler(carts, cat),
		Order:    httpapi.NewOrderHandler(orderSvc, carts, cat),
		Booking:  httpapi.NewBookingHandler(factory, bookings, publisher, logger),
		Progress: httpapi.NewProgressHandler(tracker, publisher, logger),
	})

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Printf("http listening on %s", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// --- graceful shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Printf("shutdown signal: %s", sig)
	case err := <-errCh:
		logger.Printf("fatal error: %v", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	_ = httpServer.Shutdown(shutdownCtx)
	cancel()

	logger.Printf("shutdown complete")
}

// seedCatalog loads the demo catalog. Catalog data is reference data
// loaded at startup; nothing in the request path mutates it.
func seedCatalog() *catalog.Memory {
	cat := catalog.NewMemory()

	cat.SeedOrigin(catalog.Origin{ID: "rest-nonnas", Name: "Nonna's Kitchen", DeliveryFeeCents: 299, ServiceFeeCents: 199})
	cat.SeedItem(catalog.Item{
		ID:             "item-margherita",
		OriginID:       "rest-nonnas",
		Name:           "Margherita",
		UnitPriceCents: 1099,
		OptionGroups: []catalog.OptionGroup{
			{
				ID:   "size",
				Name: "Size",
				Options: []catalog.Option{
					{ID: "regular", Name: "Regular", PriceCents: 0},
					{ID: "large", Name: "Large", PriceCents: 300},
				},
			},
		},
	})
	cat.SeedItem(catalog.Item{ID: "item-tiramisu", OriginID: "rest-nonnas", Name: "Tiramisu", UnitPriceCents: 599})

	cat.SeedFlight(catalog.Flight{
		ID:          "fl-nw100",
		Airline:     "Nordwind",
		Number:      "NW100",
		Origin:      "CPH",
		Destination: "LIS",
		DepartureAt: time.Date(2026, 10, 2, 9, 30, 0, 0, time.UTC),
		ArrivalAt:   time.Date(2026, 10, 2, 13, 5, 0, 0, time.UTC),
		FareCents:   25000,
	})
	cat.SeedHotel(catalog.Hotel{
		ID:   "ho-seaside",
		Name: "Seaside",
		City: "Lisbon",
		RoomTypes: []catalog.RoomType{
			{ID: "rt-standard", Name: "Standard", PricePerNightCents: 9500},
			{ID: "rt-deluxe", Name: "Deluxe", PricePerNightCents: 15000},
		},
	})
	cat.SeedCourse(catalog.Course{
		ID:             "course-go",
		Title:          "Practical Go",
		InstructorName: "R. Pike",
		LessonIDs:      []string{"l1", "l2", "l3", "l4", "l5"},
	})

	return cat
}
