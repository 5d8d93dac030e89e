package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/brianmacetas/admin-api/app/models"
	"github.com/brianmacetas/admin-api/app/repositories"
	"github.com/brianmacetas/admin-api/pkg/cache"
	"github.com/brianmacetas/admin-api/pkg/event"
	"github.com/brianmacetas/admin-api/pkg/logger"
	"github.com/brianmacetas/admin-api/pkg/orm"
	"github.com/brianmacetas/admin-api/pkg/workerpool"
)

// SnapshotKey is the cache key of the aggregate catalog read.
const SnapshotKey = "catalog:snapshot"

// snapshotTTL bounds staleness when an invalidation is lost.
const snapshotTTL = 5 * time.Minute

// Snapshot is the whole catalog in one read: every table the admin panel and
// the storefront need, fetched together so the two stay consistent.
type Snapshot struct {
	Categories    []models.Category     `json:"categories"`
	ProductImages []models.ProductImage `json:"product_images"`
	Products      []models.Product      `json:"products"`
	Promotions    []models.Promotion    `json:"promotions"`
	Banners       []models.Banner       `json:"bannersImgs"`
	Settings      *models.Setting       `json:"settings"`
}

// StorefrontView is the same data keyed the way the public site expects.
type StorefrontView struct {
	Products      []models.Product      `json:"products"`
	ProductImages []models.ProductImage `json:"productImages"`
	Categories    []models.Category     `json:"categories"`
	Promotions    []models.Promotion    `json:"promotions"`
	Settings      *models.Setting       `json:"settings"`
	Banners       []models.Banner       `json:"bannersImgs"`
}

// ListingService serves the aggregate reads, memoized in Redis and
// invalidated by every committed mutation.
type ListingService struct {
	products   *repositories.ProductRepository
	categories *repositories.CategoryRepository
	promotions *repositories.PromotionRepository
	banners    *repositories.BannerRepository
	settings   *repositories.SettingRepository
}

func NewListingService(
	products *repositories.ProductRepository,
	categories *repositories.CategoryRepository,
	promotions *repositories.PromotionRepository,
	banners *repositories.BannerRepository,
	settings *repositories.SettingRepository,
) *ListingService {
	s := &ListingService{
		products:   products,
		categories: categories,
		promotions: promotions,
		banners:    banners,
		settings:   settings,
	}

	event.Listen(UpdatedEvent, func(payload interface{}) {
		if err := cache.Forget(SnapshotKey); err != nil {
			logger.Error("listing: snapshot invalidation failed", "error", err)
		}
	})

	return s
}

// Snapshot fetches the six tables concurrently. Any single failure fails the
// whole read.
func (s *ListingService) Snapshot(ctx context.Context) (*Snapshot, error) {
	var cached Snapshot
	if cache.Get(SnapshotKey, &cached) {
		return &cached, nil
	}

	var (
		snap Snapshot
		errs = make([]error, 6)
	)

	pool := workerpool.New(6)
	defer pool.Shutdown()

	var wg sync.WaitGroup
	run := func(i int, fetch func() error) {
		wg.Add(1)
		if err := pool.SubmitWait(func() {
			defer wg.Done()
			errs[i] = fetch()
		}); err != nil {
			errs[i] = err
			wg.Done()
		}
	}

	run(0, func() (err error) { snap.Categories, err = s.categories.All(); return })
	run(1, func() (err error) { snap.ProductImages, err = s.products.AllImages(); return })
	run(2, func() (err error) { snap.Products, err = s.products.All(); return })
	run(3, func() (err error) { snap.Promotions, err = s.promotions.All(); return })
	run(4, func() (err error) { snap.Banners, err = s.banners.All(); return })
	run(5, func() (err error) { snap.Settings, err = s.settings.Get(); return })
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrTransaction, err)
		}
	}

	if err := cache.Set(SnapshotKey, &snap, snapshotTTL); err != nil {
		logger.WithCtx(ctx).Warn("listing: snapshot cache write failed", "error", err)
	}
	return &snap, nil
}

// Products returns one page of products for panels that do not want the
// whole catalog at once.
func (s *ListingService) Products(ctx context.Context, page, perPage int) ([]models.Product, orm.Pagination, error) {
	products, pagination, err := s.products.Paginate(page, perPage)
	if err != nil {
		return nil, orm.Pagination{}, fmt.Errorf("%w: %v", ErrTransaction, err)
	}
	return products, pagination, nil
}

// View returns the storefront shape of the snapshot.
func (s *ListingService) View(ctx context.Context) (*StorefrontView, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return &StorefrontView{
		Products:      snap.Products,
		ProductImages: snap.ProductImages,
		Categories:    snap.Categories,
		Promotions:    snap.Promotions,
		Settings:      snap.Settings,
		Banners:       snap.Banners,
	}, nil
}
