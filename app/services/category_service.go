package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/brianmacetas/admin-api/app/models"
	"github.com/brianmacetas/admin-api/app/repositories"
)

// CategoryInput carries the fields of a category mutation.
type CategoryInput struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description"`
}

// CategoryService handles the asset-free entity. It still routes writes
// through the orchestrator so transactions, events and metrics behave the
// same as everywhere else.
type CategoryService struct {
	orch *Orchestrator
	repo *repositories.CategoryRepository
}

func NewCategoryService(orch *Orchestrator, repo *repositories.CategoryRepository) *CategoryService {
	return &CategoryService{orch: orch, repo: repo}
}

func (s *CategoryService) Create(ctx context.Context, in CategoryInput) (*models.Category, error) {
	category := &models.Category{Name: in.Name, Description: in.Description}

	err := s.orch.Create(ctx, CreateOp{
		Entity: "category",
		Insert: func(tx *gorm.DB, _ []string) error {
			rows, err := s.repo.Insert(tx, category)
			if err != nil {
				return fmt.Errorf("%w: insert category: %v", ErrTransaction, err)
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
	return category, nil
}

func (s *CategoryService) Update(ctx context.Context, id uint, in CategoryInput) error {
	return s.orch.Update(ctx, UpdateOp{
		Entity: "category",
		Apply: func(tx *gorm.DB) (int64, error) {
			return s.repo.UpdateFields(tx, id, map[string]interface{}{
				"name":        in.Name,
				"description": in.Description,
			})
		},
	})
}

// Delete removes only the category row. Products keep their dangling
// category id; reassignment is the caller's responsibility.
func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	return s.orch.Delete(ctx, DeleteOp{
		Entity: "category",
		Remove: func(tx *gorm.DB) (int64, error) {
			return s.repo.Delete(tx, id)
		},
	})
}
