package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/brianmacetas/admin-api/app/models"
	"github.com/brianmacetas/admin-api/app/repositories"
	"github.com/brianmacetas/admin-api/pkg/media"
)

// ImageRef identifies one existing product image marked for removal.
type ImageRef struct {
	IDImage  uint   `json:"id_image" validate:"required"`
	ImageURL string `json:"image_url" validate:"required,url"`
}

// ProductInput carries the relational fields of a product mutation.
type ProductInput struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	CategoryID  uint    `json:"id_product_category" validate:"required"`
}

type ProductService struct {
	orch *Orchestrator
	repo *repositories.ProductRepository
}

func NewProductService(orch *Orchestrator, repo *repositories.ProductRepository) *ProductService {
	return &ProductService{orch: orch, repo: repo}
}

// Create uploads every image and inserts the product plus one image row per
// uploaded URL in a single transaction.
func (s *ProductService) Create(ctx context.Context, in ProductInput, files []media.File) (*models.Product, error) {
	product := &models.Product{
		IDProductCategory: in.CategoryID,
		Name:              in.Name,
		Description:       in.Description,
		Price:             in.Price,
		IsAvailable:       true,
	}

	err := s.orch.Create(ctx, CreateOp{
		Entity: "product",
		Files:  files,
		Insert: func(tx *gorm.DB, urls []string) error {
			rows, err := s.repo.Insert(tx, product)
			if err != nil {
				return fmt.Errorf("%w: insert product: %v", ErrTransaction, err)
			}
			if rows == 0 {
				return ErrNotFoundOrNoop
			}
			if _, err := s.repo.InsertImages(tx, product.IDProduct, urls); err != nil {
				return fmt.Errorf("%w: insert images: %v", ErrTransaction, err)
			}
			return nil
		},
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

// Update patches the product fields, destroys the marked images (gating
// their row removal), uploads the new ones, and inserts their rows.
func (s *ProductService) Update(ctx context.Context, id uint, in ProductInput, toDelete []ImageRef, newFiles []media.File) error {
	removeIDs := make([]uint, 0, len(toDelete))
	removeRefs := make([]string, 0, len(toDelete))
	for _, ref := range toDelete {
		removeIDs = append(removeIDs, ref.IDImage)
		removeRefs = append(removeRefs, ref.ImageURL)
	}

	return s.orch.Update(ctx, UpdateOp{
		Entity: "product",
		Apply: func(tx *gorm.DB) (int64, error) {
			return s.repo.UpdateFields(tx, id, map[string]interface{}{
				"name":                in.Name,
				"description":         in.Description,
				"price":               in.Price,
				"id_product_category": in.CategoryID,
			})
		},
		RemoveRefs: removeRefs,
		RemoveRows: func(tx *gorm.DB) error {
			_, err := s.repo.DeleteImages(tx, id, removeIDs)
			return err
		},
		Files: newFiles,
		InsertRows: func(tx *gorm.DB, urls []string) error {
			_, err := s.repo.InsertImages(tx, id, urls)
			return err
		},
	})
}

// Delete destroys the product's remote images first; only when the host
// confirms does the relational delete of images plus product run.
func (s *ProductService) Delete(ctx context.Context, id uint, imageURLs []string) error {
	return s.orch.Delete(ctx, DeleteOp{
		Entity: "product",
		Refs:   imageURLs,
		Remove: func(tx *gorm.DB) (int64, error) {
			if _, err := s.repo.DeleteAllImages(tx, id); err != nil {
				return 0, err
			}
			return s.repo.Delete(tx, id)
		},
	})
}

// SetAvailability flips the is_available flag. Purely relational.
func (s *ProductService) SetAvailability(ctx context.Context, id uint, available bool) error {
	return s.orch.Update(ctx, UpdateOp{
		Entity: "product",
		Apply: func(tx *gorm.DB) (int64, error) {
			return s.repo.UpdateFields(tx, id, map[string]interface{}{
				"is_available": available,
			})
		},
	})
}
