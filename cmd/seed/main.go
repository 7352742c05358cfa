// Command seed loads a small demo dataset into the configured store and
// prints the derived summaries, exercising the same service paths the
// server uses.
package main

import (
	"context"
	"database/sql"
	"log"

	_ "github.com/go-sql-driver/mysql"

	"github.com/oleal/shopbook/internal/adapter/storage"
	"github.com/oleal/shopbook/internal/config"
	"github.com/oleal/shopbook/internal/core/domain"
	"github.com/oleal/shopbook/internal/core/service"
	"github.com/oleal/shopbook/internal/port"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	var (
		inventoryRepo port.InventoryRepository
		clientRepo    port.ClientRepository
	)
	switch cfg.StoreDriver {
	case "sqlite":
		lite, err := storage.NewSQLiteAdapter(cfg.SQLitePath)
		if err != nil {
			log.Fatalf("failed to open sqlite store: %v", err)
		}
		defer lite.Close()
		inventoryRepo, clientRepo = lite, lite

	case "mysql":
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatalf("failed to connect mysql: %v", err)
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			log.Fatalf("failed to ping mysql: %v", err)
		}
		my := storage.NewMySQLAdapter(db)
		inventoryRepo, clientRepo = my, my

	default:
		log.Fatalf("seeding requires a persistent store, got STORE_DRIVER=%q", cfg.StoreDriver)
	}

	inventory := service.NewInventoryService(inventoryRepo, nil, nil)
	tabs := service.NewTabService(clientRepo)

	items := []service.AddItemInput{
		{Name: "Coffee beans 1kg", BuyPrice: 850, SellPrice: 1400, Stock: 25},
		{Name: "Espresso cups (6)", BuyPrice: 1200, SellPrice: 1950, Stock: 8},
		{Name: "Filter papers", BuyPrice: 300, SellPrice: 550, Stock: 40},
	}
	for _, in := range items {
		item, err := inventory.AddItem(ctx, in)
		if err != nil {
			log.Fatalf("failed to add item %q: %v", in.Name, err)
		}
		log.Printf("added item %s (%s)", item.Name, item.ID)
	}

	client, err := tabs.AddClient(ctx, "Ana Duarte", "ana@example.com", "")
	if err != nil {
		log.Fatalf("failed to add client: %v", err)
	}
	log.Printf("added client %s (%s)", client.Name, client.ID)

	seedTxns := []struct {
		txType domain.TransactionType
		amount domain.Cents
		desc   string
	}{
		{domain.TransactionCredit, 5000, "opening payment"},
		{domain.TransactionDebit, 2000, "coffee beans on account"},
		{domain.TransactionCredit, 500, "small top-up"},
	}
	for _, s := range seedTxns {
		if _, err := tabs.AddTransaction(ctx, client.ID, s.txType, s.amount, s.desc); err != nil {
			log.Fatalf("failed to add transaction: %v", err)
		}
	}

	invSummary, err := inventory.Summary(ctx)
	if err != nil {
		log.Fatalf("failed to compute inventory summary: %v", err)
	}
	tabSummary, err := tabs.Summary(ctx)
	if err != nil {
		log.Fatalf("failed to compute tab summary: %v", err)
	}

	log.Printf("inventory: %d items, value %s, investment %s, revenue %s, break-even needed %s",
		invSummary.TotalItems, invSummary.InventoryValue, invSummary.TotalInvestment,
		invSummary.TotalRevenue, invSummary.BreakEvenNeeded)
	log.Printf("tabs: %d clients, total owed %s", tabSummary.TotalClients, tabSummary.TotalOwed)
}
