package services

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"github.com/brianmacetas/admin-api/app/models"
	"github.com/brianmacetas/admin-api/app/repositories"
	"github.com/brianmacetas/admin-api/pkg/media"
)

type BannerService struct {
	orch *Orchestrator
	repo *repositories.BannerRepository
}

func NewBannerService(orch *Orchestrator, repo *repositories.BannerRepository) *BannerService {
	return &BannerService{orch: orch, repo: repo}
}

// Create uploads every carousel image and stores the banner row with the
// resulting URLs serialized into its image_urls column.
func (s *BannerService) Create(ctx context.Context, name string, files []media.File) (*models.Banner, error) {
	banner := &models.Banner{NombreBanner: name}

	err := s.orch.Create(ctx, CreateOp{
		Entity: "banner",
		Files:  files,
		Insert: func(tx *gorm.DB, urls []string) error {
			raw, err := json.Marshal(urls)
			if err != nil {
				return fmt.Errorf("%w: encode image urls: %v", ErrTransaction, err)
			}
			banner.ImageURLs = string(raw)

			rows, err := s.repo.Insert(tx, banner)
			if err != nil {
				return fmt.Errorf("%w: insert banner: %v", ErrTransaction, err)
			}
			if rows == 0 {
				return ErrNotFoundOrNoop
			}
			return nil
		},
	})
	if err != nil {
		return nil, err
	}
	return banner, nil
}

// Delete destroys every remote image of the banner first, then removes the
// row. An unknown id maps to ErrNotFoundOrNoop before any asset is touched.
func (s *BannerService) Delete(ctx context.Context, id uint) error {
	banner, err := s.repo.Find(id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrNotFoundOrNoop
		}
		return fmt.Errorf("%w: %v", ErrTransaction, err)
	}

	var refs []string
	if banner.ImageURLs != "" {
		if err := json.Unmarshal([]byte(banner.ImageURLs), &refs); err != nil {
			return fmt.Errorf("%w: decode image urls: %v", ErrTransaction, err)
		}
	}

	return s.orch.Delete(ctx, DeleteOp{
		Entity: "banner",
		Refs:   refs,
		Remove: func(tx *gorm.DB) (int64, error) {
			return s.repo.Delete(tx, id)
		},
	})
}
