package services

import (
	"context"

	"github.com/brianmacetas/admin-api/pkg/logger"
	"github.com/brianmacetas/admin-api/pkg/schedule"
)

// RegisterSchedules wires the daily promotion jobs. The HTTP endpoints stay
// available for the panel's manual trigger; these entries cover the nights
// nobody presses the button.
func RegisterSchedules(promotions *PromotionService) {
	schedule.Cron("5 0 * * *").
		Name("promotions:delete-expired").
		WithoutOverlapping().
		Run(func() {
			n, err := promotions.DeleteExpired(context.Background())
			if err != nil {
				logger.Error("schedule: delete expired promotions", "error", err)
				return
			}
			logger.Info("schedule: expired promotions deleted", "count", n)
		})

	schedule.Cron("10 0 * * *").
		Name("promotions:enable-starting").
		WithoutOverlapping().
		Run(func() {
			n, err := promotions.EnableStarting(context.Background())
			if err != nil {
				logger.Error("schedule: enable starting promotions", "error", err)
				return
			}
			logger.Info("schedule: starting promotions enabled", "count", n)
		})
}
