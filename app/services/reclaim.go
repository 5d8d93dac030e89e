package services

import (
	"context"

	"github.com/brianmacetas/admin-api/pkg/logger"
	"github.com/brianmacetas/admin-api/pkg/media"
	"github.com/brianmacetas/admin-api/pkg/queue"
)

// ReclaimAssetsJob retries deleting remote assets that a failed mutation
// could not compensate in-band. The queue retries it with backoff and
// persists it to failed_jobs when it keeps failing.
type ReclaimAssetsJob struct {
	URLs []string `json:"urls"`
}

func (j *ReclaimAssetsJob) Handle() error {
	store, err := media.Default()
	if err != nil {
		return err
	}

	if err := media.DeleteAll(context.Background(), store, j.URLs); err != nil {
		return err
	}

	logger.Info("reclaim: leaked assets removed", "count", len(j.URLs))
	return nil
}

// RegisterJobs makes every queue job type deserializable. Call once at boot.
func RegisterJobs() {
	queue.Register("*services.ReclaimAssetsJob", func() queue.Job { return &ReclaimAssetsJob{} })
}
