// Package main provides a CLI tool for seeding the database with an admin
// analyst and, optionally, a demo dataset for trying out gap analysis.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"

	"stockgap/internal/core/id"
	"stockgap/internal/core/tx"
	"stockgap/internal/core/types"
	"stockgap/internal/domain/auth"
	"stockgap/internal/domain/catalogs/location"
	"stockgap/internal/domain/catalogs/product"
	"stockgap/internal/domain/catalogs/salespoint"
	"stockgap/internal/domain/catalogs/warehouse"
	"stockgap/internal/domain/gap"
	"stockgap/internal/infrastructure/storage/postgres"
	"stockgap/internal/infrastructure/storage/postgres/auth_repo"
	"stockgap/internal/infrastructure/storage/postgres/catalog_repo"
	"stockgap/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dbURL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	// Repositories resolve TxManager from context.
	ctx = tx.WithManager(ctx, postgres.NewTxManager(pool))

	if err := seedAdminUser(ctx, log); err != nil {
		log.Fatalw("failed to seed admin user", "error", err)
	}

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := seedDemoData(ctx, log); err != nil {
			log.Fatalw("failed to seed demo data", "error", err)
		}
	}

	log.Info("seeding completed successfully")
}

func seedAdminUser(ctx context.Context, log *logger.Logger) error {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = "admin@stockgap.local"
	}

	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "Admin123!"
	}

	users := auth_repo.NewUserRepo()

	exists, err := users.Exists(ctx, adminEmail)
	if err != nil {
		return fmt.Errorf("check admin exists: %w", err)
	}
	if exists {
		log.Infow("admin user already exists", "email", adminEmail)
		return nil
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user := auth.NewUser(adminEmail, string(passwordHash))
	user.FullName = "System Admin"
	user.IsAdmin = true

	if err := users.Create(ctx, user); err != nil {
		return fmt.Errorf("insert admin user: %w", err)
	}

	log.Infow("admin user created", "email", adminEmail, "user_id", user.ID)
	return nil
}

// seedDemoData builds a small warehouse with a location tree (including a
// deactivated aisle whose shelf must not count), one product with a known
// gap of 5 units, and one clean product.
func seedDemoData(ctx context.Context, log *logger.Logger) error {
	txm := postgres.MustGetTxManager(ctx)

	return txm.RunInTransaction(ctx, func(ctx context.Context) error {
		warehouses := catalog_repo.NewWarehouseRepo()
		locations := catalog_repo.NewLocationRepo()
		products := catalog_repo.NewProductRepo()
		salesPoints := catalog_repo.NewSalesPointRepo()

		// Location tree: root -> {zone A -> shelf A1, zone B (inactive) -> shelf B1}.
		rootID := id.New()
		zoneAID := id.New()
		shelfA1ID := id.New()
		zoneBID := id.New()
		shelfB1ID := id.New()

		locs := []*location.Location{
			{ID: rootID, Code: "WH1-STOCK", Name: "Main Stock", Active: true},
			{ID: zoneAID, Code: "WH1-A", Name: "Zone A", ParentID: &rootID, Active: true},
			{ID: shelfA1ID, Code: "WH1-A1", Name: "Shelf A1", ParentID: &zoneAID, Active: true},
			{ID: zoneBID, Code: "WH1-B", Name: "Zone B (closed)", ParentID: &rootID, Active: false},
			{ID: shelfB1ID, Code: "WH1-B1", Name: "Shelf B1", ParentID: &zoneBID, Active: true},
		}
		for _, l := range locs {
			if err := locations.Create(ctx, l); err != nil {
				return err
			}
		}

		wh := &warehouse.Warehouse{
			ID:             id.New(),
			Code:           "WH1",
			Name:           "Main Warehouse",
			Type:           warehouse.TypeMain,
			RootLocationID: &rootID,
			IsActive:       true,
		}
		if err := warehouses.Create(ctx, wh); err != nil {
			return err
		}

		category := &product.Category{ID: id.New(), Name: "Beverages", Active: true}
		if err := products.CreateCategory(ctx, category); err != nil {
			return err
		}

		cola := &product.Product{
			ID: id.New(), SKU: "COLA-033", Name: "Cola 0.33l",
			CategoryID: category.ID, Tracked: true, Active: true,
		}
		water := &product.Product{
			ID: id.New(), SKU: "WATER-050", Name: "Water 0.5l",
			CategoryID: category.ID, Tracked: true, Active: true,
		}
		for _, p := range []*product.Product{cola, water} {
			if err := products.Create(ctx, p); err != nil {
				return err
			}
		}

		pos := &salespoint.SalesPoint{
			ID: id.New(), Name: "Front POS", WarehouseID: wh.ID, Active: true,
		}
		if err := salesPoints.Create(ctx, pos); err != nil {
			return err
		}

		// Window: the current month. Opening stock lands the day before.
		now := time.Now().UTC()
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		before := monthStart.AddDate(0, 0, -1)
		supplierID := id.New() // external virtual location

		qty := func(v float64) types.Quantity { return types.NewQuantityFromFloat64(v) }

		// Cola: opening 100, received 10, sold 30, actual 75 (5 missing).
		// Water: opening 50, no window activity beyond 20 sold and 20 shipped out.
		movements := [][]any{
			{id.New(), cola.ID, supplierID, rootID, qty(100), before, gap.MovementDone, "incoming", wh.ID},
			{id.New(), cola.ID, supplierID, rootID, qty(10), monthStart.AddDate(0, 0, 3), gap.MovementDone, "incoming", wh.ID},
			{id.New(), cola.ID, rootID, supplierID, qty(35), monthStart.AddDate(0, 0, 10), gap.MovementDone, "outgoing", wh.ID},
			{id.New(), water.ID, supplierID, rootID, qty(50), before, gap.MovementDone, "incoming", wh.ID},
			{id.New(), water.ID, rootID, supplierID, qty(20), monthStart.AddDate(0, 0, 12), gap.MovementDone, "outgoing", wh.ID},
			// Draft movement must never influence results.
			{id.New(), cola.ID, supplierID, rootID, qty(500), monthStart.AddDate(0, 0, 5), gap.MovementDraft, "incoming", wh.ID},
			// Stock parked on the closed zone's shelf must stay invisible.
			{id.New(), cola.ID, supplierID, shelfB1ID, qty(40), before, gap.MovementDone, "incoming", wh.ID},
		}
		inserter := postgres.NewBatchInserter(txm)
		if _, err := inserter.CopyFromSlice(ctx, "doc_stock_movements",
			[]string{"id", "product_id", "source_location_id", "dest_location_id", "quantity", "effective_date", "status", "transfer_type", "warehouse_id"},
			movements,
		); err != nil {
			return fmt.Errorf("copy movements: %w", err)
		}

		posLines := [][]any{
			{id.New(), cola.ID, qty(32), monthStart.AddDate(0, 0, 8), pos.ID, gap.OrderPaid},
			// Refund nets sales down to 30.
			{id.New(), cola.ID, qty(-2), monthStart.AddDate(0, 0, 9), pos.ID, gap.OrderDone},
			{id.New(), water.ID, qty(20), monthStart.AddDate(0, 0, 11), pos.ID, gap.OrderInvoiced},
			// Cancelled order must never count.
			{id.New(), cola.ID, qty(99), monthStart.AddDate(0, 0, 9), pos.ID, gap.OrderCancel},
		}
		if _, err := inserter.CopyFromSlice(ctx, "doc_pos_lines",
			[]string{"id", "product_id", "quantity", "order_date", "sales_point_id", "order_status"},
			posLines,
		); err != nil {
			return fmt.Errorf("copy pos lines: %w", err)
		}

		log.Infow("demo data created",
			"warehouse_id", wh.ID,
			"window_from", monthStart.Format(time.DateOnly),
		)
		return nil
	})
}
