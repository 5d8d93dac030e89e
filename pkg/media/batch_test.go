package media_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brianmacetas/admin-api/pkg/media"
)

// fakeStore records calls and fails on configured file names / URLs.
type fakeStore struct {
	mu          sync.Mutex
	failUploads map[string]bool
	failDeletes map[string]bool
	uploads     []string
	deletes     []string
}

func (f *fakeStore) Upload(_ context.Context, file media.File) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUploads[file.Name] {
		return "", fmt.Errorf("upload %s: boom", file.Name)
	}
	url := "https://host/" + file.Name
	f.uploads = append(f.uploads, url)
	return url, nil
}

func (f *fakeStore) Delete(_ context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDeletes[url] {
		return media.ErrDeleteRejected
	}
	f.deletes = append(f.deletes, url)
	return nil
}

func TestUploadAllSuccessKeepsOrder(t *testing.T) {
	fs := &fakeStore{}
	files := []media.File{
		{Name: "a.png"}, {Name: "b.png"}, {Name: "c.png"},
	}

	urls, err := media.UploadAll(context.Background(), fs, files)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://host/a.png", "https://host/b.png", "https://host/c.png"}, urls)
}

func TestUploadAllPartialFailureReturnsSuccesses(t *testing.T) {
	fs := &fakeStore{failUploads: map[string]bool{"b.png": true}}
	files := []media.File{
		{Name: "a.png"}, {Name: "b.png"}, {Name: "c.png"},
	}

	uploaded, err := media.UploadAll(context.Background(), fs, files)
	require.Error(t, err)
	// Exactly the individually-successful uploads come back so the caller
	// can delete each of them, no more, no less.
	assert.ElementsMatch(t, []string{"https://host/a.png", "https://host/c.png"}, uploaded)
}

func TestUploadAllEmpty(t *testing.T) {
	urls, err := media.UploadAll(context.Background(), &fakeStore{}, nil)
	require.NoError(t, err)
	assert.Empty(t, urls)
}

func TestDeleteAllJoinsAllErrors(t *testing.T) {
	fs := &fakeStore{failDeletes: map[string]bool{"u2": true}}

	err := media.DeleteAll(context.Background(), fs, []string{"u1", "u2", "u3"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, media.ErrDeleteRejected))
	// The failing member does not stop the others.
	assert.ElementsMatch(t, []string{"u1", "u3"}, fs.deletes)
}

func TestDeleteAllEmpty(t *testing.T) {
	require.NoError(t, media.DeleteAll(context.Background(), &fakeStore{}, nil))
}
