package media

import (
	"context"
	"errors"
	"sync"

	"github.com/brianmacetas/admin-api/pkg/workerpool"
)

// batchWorkers bounds how many concurrent host calls one request can fan out.
const batchWorkers = 4

// UploadAll pushes every file concurrently and joins before returning.
//
// On success the returned slice holds one URL per file, in input order. On
// failure it holds only the URLs that DID upload, so the caller can
// compensate by deleting exactly those.
func UploadAll(ctx context.Context, s Store, files []File) ([]string, error) {
	if len(files) == 0 {
		return nil, nil
	}

	pool := workerpool.New(batchWorkers)
	defer pool.Shutdown()

	urls := make([]string, len(files))
	errs := make([]error, len(files))

	var wg sync.WaitGroup
	for i := range files {
		i := i
		wg.Add(1)
		if err := pool.SubmitWait(func() {
			defer wg.Done()
			urls[i], errs[i] = s.Upload(ctx, files[i])
		}); err != nil {
			errs[i] = err
			wg.Done()
		}
	}
	wg.Wait()

	var firstErr error
	for _, err := range errs {
		if err != nil {
			firstErr = err
			break
		}
	}
	if firstErr == nil {
		return urls, nil
	}

	uploaded := make([]string, 0, len(files))
	for i, err := range errs {
		if err == nil {
			uploaded = append(uploaded, urls[i])
		}
	}
	return uploaded, firstErr
}

// DeleteAll removes every asset concurrently and joins. All deletes are
// attempted regardless of individual failures; the combined error reports
// every one that failed.
func DeleteAll(ctx context.Context, s Store, urls []string) error {
	if len(urls) == 0 {
		return nil
	}

	pool := workerpool.New(batchWorkers)
	defer pool.Shutdown()

	errs := make([]error, len(urls))

	var wg sync.WaitGroup
	for i := range urls {
		i := i
		wg.Add(1)
		if err := pool.SubmitWait(func() {
			defer wg.Done()
			errs[i] = s.Delete(ctx, urls[i])
		}); err != nil {
			errs[i] = err
			wg.Done()
		}
	}
	wg.Wait()

	return errors.Join(errs...)
}
