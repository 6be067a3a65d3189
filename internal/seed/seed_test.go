package seed

import (
	"context"
	"testing"

	"lwg-storefront/internal/repository"
	"lwg-storefront/internal/service"

	"go.uber.org/zap"
)

func TestRunSeedsAdminAndCatalog(t *testing.T) {
	store := repository.NewMemoryStore("LWG")
	auth := service.NewAuthService(store.Users, "secret")
	catalog := service.NewCatalogService(store.Products)

	if err := Run(context.Background(), auth, catalog, "admin", "admin123", zap.NewNop()); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if _, _, err := auth.Login(context.Background(), "admin", "admin123"); err != nil {
		t.Errorf("seeded admin cannot log in: %v", err)
	}

	_, total, err := catalog.List(context.Background(), repository.ProductFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 6 {
		t.Errorf("seeded %d products, want 6", total)
	}

	laptop, err := catalog.Get(context.Background(), "professional-laptop-pro-15")
	if err != nil {
		t.Fatalf("seeded laptop missing: %v", err)
	}
	if !laptop.Featured {
		t.Error("laptop should be featured")
	}
}

func TestRunIsIdempotent(t *testing.T) {
	store := repository.NewMemoryStore("LWG")
	auth := service.NewAuthService(store.Users, "secret")
	catalog := service.NewCatalogService(store.Products)

	for i := 0; i < 2; i++ {
		if err := Run(context.Background(), auth, catalog, "admin", "admin123", zap.NewNop()); err != nil {
			t.Fatalf("seed run %d: %v", i, err)
		}
	}

	_, total, err := catalog.List(context.Background(), repository.ProductFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 6 {
		t.Errorf("catalog has %d products after reseed, want 6", total)
	}
}

func TestRunSkipsAdminWithoutCredentials(t *testing.T) {
	store := repository.NewMemoryStore("LWG")
	auth := service.NewAuthService(store.Users, "secret")
	catalog := service.NewCatalogService(store.Products)

	if err := Run(context.Background(), auth, catalog, "", "", zap.NewNop()); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if _, _, err := auth.Login(context.Background(), "admin", "admin123"); err != service.ErrInvalidCredentials {
		t.Errorf("unexpected login result: %v", err)
	}
}
