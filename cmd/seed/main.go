package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"storefront/internal/auth"
	"storefront/internal/cache"
	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/logger"
	"storefront/internal/model"
	"storefront/internal/repository"
)

const fetchTimeout = 30 * time.Second

// SeedProductData is one catalog entry in the seed file.
type SeedProductData struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	ImageURL    string          `json:"imageUrl"`
	InStock     *bool           `json:"inStock"`
}

func main() {
	cfg := config.Load()

	zlog, err := logger.New(cfg.IsProduction(), cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		zlog.Fatal("connect database", zap.Error(err))
	}
	defer func() { _ = db.Close(gormDB) }()

	if err := db.Migrate(gormDB); err != nil {
		zlog.Fatal("run migrations", zap.Error(err))
	}

	ctx := context.Background()

	// cached read models must not outlive the rows rewritten below
	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer func() { _ = cacheClient.Close() }()
	if err := cacheClient.Ping(ctx); err != nil {
		zlog.Warn("redis unreachable, cached entries expire on their own", zap.Error(err))
	}

	adminEmail := os.Getenv("SEED_ADMIN_EMAIL")
	adminPassword := os.Getenv("SEED_ADMIN_PASSWORD")
	if adminEmail != "" && adminPassword != "" {
		created, err := ensureAdmin(ctx, repository.NewAccountRepository(gormDB), cacheClient, adminEmail, adminPassword)
		if err != nil {
			zlog.Fatal("seed admin", zap.Error(err))
		}
		zlog.Info("admin account ready", zap.String("email", adminEmail), zap.Bool("created", created))
	}

	source := os.Getenv("SEED_PRODUCTS")
	if source == "" {
		zlog.Info("SEED_PRODUCTS not set, skipping catalog")
		return
	}

	zlog.Info("loading products", zap.String("source", source))
	items, err := loadProducts(ctx, source)
	if err != nil {
		zlog.Fatal("load products", zap.Error(err))
	}

	products, skipped := toProducts(items)
	if skipped > 0 {
		zlog.Warn("skipped invalid products", zap.Int("count", skipped))
	}

	created, updated, err := seedProducts(ctx, repository.NewProductRepository(gormDB), cacheClient, products)
	if err != nil {
		zlog.Fatal("seed products", zap.Error(err))
	}
	zlog.Info("seed completed",
		zap.Int("created", created),
		zap.Int("updated", updated),
		zap.Int("total", created+updated),
	)
}

// ensureAdmin creates the admin account, or promotes and re-keys an existing one.
func ensureAdmin(ctx context.Context, repo repository.AccountRepository, cacheClient *cache.Client, email, password string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := auth.HashPassword(password)
	if err != nil {
		return false, err
	}

	existing, err := repo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("error checking account %s: %w", email, err)
	}
	if existing != nil {
		existing.IsAdmin = true
		existing.PasswordHash = hash
		if err := repo.Update(ctx, existing); err != nil {
			return false, fmt.Errorf("error updating account %s: %w", email, err)
		}
		_ = cacheClient.Delete(ctx, cache.AccountKey(existing.ID))
		return false, nil
	}

	account := &model.Account{
		Name:         "Admin",
		Email:        email,
		PasswordHash: hash,
		IsAdmin:      true,
	}
	if err := repo.Create(ctx, account); err != nil {
		return false, fmt.Errorf("error creating account %s: %w", email, err)
	}
	return true, nil
}

// loadProducts reads the seed catalog from an http(s) URL or a local file.
func loadProducts(ctx context.Context, source string) ([]SeedProductData, error) {
	var r io.ReadCloser
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
		defer cancel()
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
		if err != nil {
			return nil, err
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch products: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("products source returned status code: %d", resp.StatusCode)
		}
		r = resp.Body
	} else {
		f, err := os.Open(source)
		if err != nil {
			return nil, err
		}
		r = f
	}
	defer r.Close()

	return decodeProducts(r)
}

func decodeProducts(r io.Reader) ([]SeedProductData, error) {
	var items []SeedProductData
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return items, nil
}

// toProducts drops entries missing required fields or carrying a price the
// catalog would reject.
func toProducts(items []SeedProductData) ([]model.Product, int) {
	products := make([]model.Product, 0, len(items))
	skipped := 0
	for _, item := range items {
		if strings.TrimSpace(item.Name) == "" || strings.TrimSpace(item.Category) == "" || !validPrice(item.Price) {
			skipped++
			continue
		}
		inStock := true
		if item.InStock != nil {
			inStock = *item.InStock
		}
		products = append(products, model.Product{
			Name:        item.Name,
			Description: item.Description,
			Price:       item.Price,
			Category:    item.Category,
			ImageURL:    item.ImageURL,
			InStock:     inStock,
		})
	}
	return products, skipped
}

func validPrice(p decimal.Decimal) bool {
	return !p.IsNegative() && p.Equal(p.Truncate(model.PriceScale)) && !p.GreaterThan(model.MaxPrice)
}

// seedProducts creates new products or updates existing ones matched by name.
func seedProducts(ctx context.Context, repo repository.ProductRepository, cacheClient *cache.Client, products []model.Product) (created int, updated int, err error) {
	for i := range products {
		product := products[i]
		existing, err := repo.FindByName(ctx, product.Name)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return created, updated, fmt.Errorf("error checking product %s: %w", product.Name, err)
		}

		if existing != nil {
			existing.Description = product.Description
			existing.Price = product.Price
			existing.Category = product.Category
			existing.ImageURL = product.ImageURL
			existing.InStock = product.InStock
			if err := repo.Update(ctx, existing); err != nil {
				return created, updated, fmt.Errorf("error updating product %s: %w", product.Name, err)
			}
			_ = cacheClient.Delete(ctx, cache.ProductKey(existing.ID))
			updated++
		} else {
			if err := repo.Create(ctx, &product); err != nil {
				return created, updated, fmt.Errorf("error creating product %s: %w", product.Name, err)
			}
			created++
		}
	}
	return created, updated, nil
}
