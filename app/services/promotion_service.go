package services

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/brianmacetas/admin-api/app/models"
	"github.com/brianmacetas/admin-api/app/repositories"
	"github.com/brianmacetas/admin-api/pkg/clock"
	"github.com/brianmacetas/admin-api/pkg/event"
	"github.com/brianmacetas/admin-api/pkg/logger"
	"github.com/brianmacetas/admin-api/pkg/media"
)

// PromotionInput carries the relational fields of a promotion mutation.
type PromotionInput struct {
	Name       string  `json:"name" validate:"required,max=255"`
	Price      float64 `json:"price" validate:"required,gt=0"`
	StartDate  string  `json:"start_date" validate:"required,date"`
	EndDate    string  `json:"end_date" validate:"required,date"`
	Enabled    bool    `json:"enabled"`
	ProductIDs []uint  `json:"products_ids"`
}

type PromotionService struct {
	orch     *Orchestrator
	repo     *repositories.PromotionRepository
	clock    clock.Clock
	location *time.Location
}

func NewPromotionService(orch *Orchestrator, repo *repositories.PromotionRepository, clk clock.Clock, loc *time.Location) *PromotionService {
	return &PromotionService{orch: orch, repo: repo, clock: clk, location: loc}
}

// Create uploads the optional promo image and inserts the promotion plus
// its product links in one transaction.
func (s *PromotionService) Create(ctx context.Context, in PromotionInput, image *media.File) (*models.Promotion, error) {
	promo := &models.Promotion{
		Name:      in.Name,
		Price:     in.Price,
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
		Enabled:   in.Enabled,
	}

	var files []media.File
	if image != nil {
		files = []media.File{*image}
	}

	err := s.orch.Create(ctx, CreateOp{
		Entity: "promotion",
		Files:  files,
		Insert: func(tx *gorm.DB, urls []string) error {
			if len(urls) > 0 {
				promo.ImageURL = urls[0]
			}
			rows, err := s.repo.Insert(tx, promo)
			if err != nil {
				return fmt.Errorf("%w: insert promotion: %v", ErrTransaction, err)
			}
			if rows == 0 {
				return ErrNotFoundOrNoop
			}
			if _, err := s.repo.InsertProducts(tx, promo.IDPromotion, in.ProductIDs); err != nil {
				return fmt.Errorf("%w: link products: %v", ErrTransaction, err)
			}
			return nil
		},
	})
	if err != nil {
		return nil, err
	}
	return promo, nil
}

// Update patches the promotion, replaces its product links, and optionally
// swaps the image: the old asset's destroy gates the swap, the new upload
// is compensated if anything later fails.
func (s *PromotionService) Update(ctx context.Context, id uint, in PromotionInput, oldImageURL string, newImage *media.File) error {
	var removeRefs []string
	if newImage != nil && oldImageURL != "" {
		removeRefs = []string{oldImageURL}
	}

	var files []media.File
	if newImage != nil {
		files = []media.File{*newImage}
	}

	return s.orch.Update(ctx, UpdateOp{
		Entity: "promotion",
		Apply: func(tx *gorm.DB) (int64, error) {
			rows, err := s.repo.UpdateFields(tx, id, map[string]interface{}{
				"name":       in.Name,
				"price":      in.Price,
				"start_date": in.StartDate,
				"end_date":   in.EndDate,
				"enabled":    in.Enabled,
			})
			if err != nil || rows == 0 {
				return rows, err
			}
			// Replace the product links while the row lock is held.
			if _, err := s.repo.DeleteProducts(tx, id); err != nil {
				return 0, err
			}
			if _, err := s.repo.InsertProducts(tx, id, in.ProductIDs); err != nil {
				return 0, err
			}
			return rows, nil
		},
		RemoveRefs: removeRefs,
		Files:      files,
		InsertRows: func(tx *gorm.DB, urls []string) error {
			if len(urls) == 0 {
				return nil
			}
			_, err := s.repo.UpdateFields(tx, id, map[string]interface{}{"image_url": urls[0]})
			return err
		},
	})
}

// Delete destroys the promo image first (the host's refusal aborts with no
// relational change), then removes links and the promotion row.
func (s *PromotionService) Delete(ctx context.Context, id uint, imageURL string) error {
	var refs []string
	if imageURL != "" {
		refs = []string{imageURL}
	}

	return s.orch.Delete(ctx, DeleteOp{
		Entity: "promotion",
		Refs:   refs,
		Remove: func(tx *gorm.DB) (int64, error) {
			if _, err := s.repo.DeleteProducts(tx, id); err != nil {
				return 0, err
			}
			return s.repo.Delete(tx, id)
		},
	})
}

// today formats the clock's current instant as YYYY-MM-DD in the configured
// timezone. Promotions flip on calendar days in that zone, not in UTC.
func (s *PromotionService) today() string {
	return s.clock.Now().In(s.location).Format("2006-01-02")
}

// DeleteExpired removes every promotion whose end date is today, image
// asset included. Exposed over HTTP and run daily by the scheduler.
func (s *PromotionService) DeleteExpired(ctx context.Context) (int, error) {
	expired, err := s.repo.EndingToday(s.today())
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrTransaction, err)
	}

	deleted := 0
	for _, promo := range expired {
		if err := s.Delete(ctx, promo.IDPromotion, promo.ImageURL); err != nil {
			return deleted, err
		}
		deleted++
	}

	if deleted > 0 {
		logger.Info("promotions: expired deleted", "count", deleted)
	}
	return deleted, nil
}

// EnableStarting turns on every promotion whose start date is today.
func (s *PromotionService) EnableStarting(ctx context.Context) (int, error) {
	rows, err := s.repo.EnableStarting(s.today())
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrTransaction, err)
	}
	if rows > 0 {
		event.Fire(UpdatedEvent, "promotion")
		logger.Info("promotions: starting enabled", "count", rows)
	}
	return int(rows), nil
}
