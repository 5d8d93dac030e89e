// Package media abstracts the remote host where catalog images live.
//
// Relational rows only ever reference images by the URL the host returns,
// so the Store interface is deliberately small: upload bytes, get a URL
// back; delete by URL. Drivers register themselves under a name and the
// default driver comes from MEDIA_DRIVER.
package media

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/brianmacetas/admin-api/config"
)

// ErrDeleteRejected is returned when the media host answers a destroy
// request with a non-ok result (asset missing, already deleted, bad id).
// Callers treat it as a client-level failure, not an infrastructure fault.
var ErrDeleteRejected = errors.New("media: delete rejected by host")

// File is one in-memory image pending upload.
type File struct {
	Name    string
	Content []byte
}

// Store is a remote media host client.
type Store interface {
	// Upload pushes the file and returns the permanent public URL.
	Upload(ctx context.Context, f File) (string, error)
	// Delete removes the asset referenced by url from the host.
	Delete(ctx context.Context, url string) error
}

var (
	driversMu sync.RWMutex
	drivers   = map[string]Store{}
)

// Register makes a named driver available. Call at boot, or from tests to
// inject a fake.
func Register(name string, s Store) {
	driversMu.Lock()
	defer driversMu.Unlock()
	drivers[name] = s
}

// Use returns the named driver.
func Use(name string) (Store, error) {
	driversMu.RLock()
	defer driversMu.RUnlock()

	s, ok := drivers[name]
	if !ok {
		return nil, fmt.Errorf("media: driver %q not registered", name)
	}
	return s, nil
}

// Default returns the driver named by MEDIA_DRIVER.
func Default() (Store, error) {
	return Use(config.MediaDriver())
}
