package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/subhlabh/billing/internal/catalog"
	"github.com/subhlabh/billing/internal/config"
	"github.com/subhlabh/billing/internal/service"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run cmd/find-product/main.go <search-term>")
		fmt.Println("Example: go run cmd/find-product/main.go \"basmati\"")
		os.Exit(1)
	}

	term := strings.Join(os.Args[1:], " ")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	snapshot, err := service.LoadConfiguredSnapshot(context.Background(), cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load catalog: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("🔍 Searching catalog for: %s\n\n", term)

	matches := catalog.NewIndex(snapshot).SearchProducts(term)
	if len(matches) == 0 {
		fmt.Printf("❌ No active product matches '%s'.\n", term)
		fmt.Printf("\nMake sure:\n")
		fmt.Printf("  1. The product is marked active in the back office\n")
		fmt.Printf("  2. CATALOG_OWNER_ID points at the right shop\n")
		os.Exit(1)
	}

	fmt.Printf("✅ Found %d match(es)\n\n", len(matches))
	for _, p := range matches {
		fmt.Printf("ID: %d\n", p.ID)
		fmt.Printf("  Name: %s\n", p.Name)
		fmt.Printf("  Price: ₹%s\n", p.Price.StringFixed(2))
		if p.IsService() {
			fmt.Printf("  Type: service\n")
		} else {
			fmt.Printf("  Stock: %s %s\n", p.StockQuantity.String(), p.Unit)
		}
	}
}
