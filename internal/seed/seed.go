package seed

import (
	"context"
	"fmt"

	"lwg-storefront/internal/domain"
	"lwg-storefront/internal/repository"
	"lwg-storefront/internal/service"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Run seeds the admin account and, when the catalog is empty, a starter
// set of products. Safe to call on every startup.
func Run(ctx context.Context, auth service.AuthService, catalog service.CatalogService, adminUsername, adminPassword string, logger *zap.Logger) error {
	if adminUsername != "" && adminPassword != "" {
		if err := auth.EnsureUser(ctx, adminUsername, adminPassword); err != nil {
			return fmt.Errorf("failed to seed admin user: %w", err)
		}
		logger.Info("Admin account ensured", zap.String("username", adminUsername))
	} else {
		logger.Warn("Admin credentials not configured, skipping admin seed")
	}

	_, total, err := catalog.List(ctx, repository.ProductFilter{})
	if err != nil {
		return fmt.Errorf("failed to check catalog: %w", err)
	}
	if total > 0 {
		return nil
	}

	for _, input := range starterCatalog() {
		if _, err := catalog.Create(ctx, input); err != nil {
			return fmt.Errorf("failed to seed product %q: %w", input.Title, err)
		}
	}
	logger.Info("Seeded starter catalog", zap.Int("products", len(starterCatalog())))

	return nil
}

func starterCatalog() []service.CreateProductInput {
	return []service.CreateProductInput{
		{
			Title:       `Professional Laptop Pro 15"`,
			Description: "High-performance laptop designed for business professionals with advanced security features and powerful processing capabilities.",
			Price:       decimal.RequireFromString("2499.00"),
			Image:       "https://images.unsplash.com/photo-1496181133206-80ce9b88a853?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&h=600",
			Stock:       12,
			Category:    domain.CategoryTechnology,
			Tags:        []string{"laptop", "professional", "business"},
			Featured:    true,
		},
		{
			Title:       "Executive Office Chair",
			Description: "Ergonomic design with lumbar support and premium materials for all-day comfort and professional appearance.",
			Price:       decimal.RequireFromString("699.00"),
			Image:       "https://images.unsplash.com/photo-1506439773649-6e0eb8cfb237?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&h=600",
			Stock:       8,
			Category:    domain.CategoryOffice,
			Tags:        []string{"chair", "ergonomic", "office"},
			Featured:    true,
		},
		{
			Title:       "Video Conference Kit",
			Description: "Complete video conferencing solution with 4K camera, professional audio equipment, and wireless connectivity.",
			Price:       decimal.RequireFromString("1299.00"),
			Image:       "https://images.unsplash.com/photo-1600298881974-6be191ceeda1?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&h=600",
			Stock:       5,
			Category:    domain.CategoryTechnology,
			Tags:        []string{"conference", "video", "audio"},
		},
		{
			Title:       "Strategic Consulting Package",
			Description: "Comprehensive business strategy consultation with market analysis, growth planning, and implementation roadmap.",
			Price:       decimal.RequireFromString("899.00"),
			Image:       "https://images.unsplash.com/photo-1560472354-b33ff0c44a43?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&h=600",
			Stock:       999,
			Category:    domain.CategoryConsulting,
			Tags:        []string{"consulting", "strategy", "business"},
		},
		{
			Title:       "Multi-Function Printer Pro",
			Description: "Professional grade printer with scanning, copying, fax, and wireless connectivity for complete office solutions.",
			Price:       decimal.RequireFromString("449.00"),
			Image:       "https://images.unsplash.com/photo-1612198188060-c7c2a3b66eae?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&h=600",
			Stock:       15,
			Category:    domain.CategoryOffice,
			Tags:        []string{"printer", "scanner", "office"},
		},
		{
			Title:       "Adjustable Standing Desk",
			Description: "Height-adjustable desk with memory settings and sustainable materials for healthy work habits and improved productivity.",
			Price:       decimal.RequireFromString("799.00"),
			Image:       "https://images.unsplash.com/photo-1541558869434-2840d308329a?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&h=600",
			Stock:       6,
			Category:    domain.CategoryOffice,
			Tags:        []string{"desk", "adjustable", "ergonomic"},
		},
	}
}
