package services

import (
	"context"
	"fmt"

	"github.com/brianmacetas/admin-api/app/models"
	"github.com/brianmacetas/admin-api/app/repositories"
	"github.com/brianmacetas/admin-api/pkg/event"
)

// Condition columns accepted by UpsertCondition.
const (
	ConditionPromotion = "condition_promotion"
	ConditionProduct   = "condition_product"
)

type SettingService struct {
	repo *repositories.SettingRepository
}

func NewSettingService(repo *repositories.SettingRepository) *SettingService {
	return &SettingService{repo: repo}
}

func (s *SettingService) Get(ctx context.Context) (*models.Setting, error) {
	setting, err := s.repo.Get()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransaction, err)
	}
	return setting, nil
}

// SetPageEnabled flips the storefront toggle. Zero affected rows means the
// singleton is missing, which reads as a noop to the caller.
func (s *SettingService) SetPageEnabled(ctx context.Context, enabled bool) error {
	rows, err := s.repo.SetPageEnabled(enabled)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransaction, err)
	}
	if rows == 0 {
		return ErrNotFoundOrNoop
	}
	event.Fire(UpdatedEvent, "setting")
	return nil
}

// UpsertCondition writes one of the two condition texts, creating the
// singleton row when needed. Unknown columns are rejected.
func (s *SettingService) UpsertCondition(ctx context.Context, column, value string) error {
	if column != ConditionPromotion && column != ConditionProduct {
		return fmt.Errorf("%w: columna desconocida %q", ErrNotFoundOrNoop, column)
	}

	if _, err := s.repo.UpsertCondition(column, value); err != nil {
		return fmt.Errorf("%w: %v", ErrTransaction, err)
	}
	event.Fire(UpdatedEvent, "setting")
	return nil
}
