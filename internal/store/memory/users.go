package memory

import (
	"context"
	"sync"

	"github.com/kumarshubhh/Yuvamanthan/internal/model"
)

// Directory is an in-process user directory for development and tests.
type Directory struct {
	mu    sync.RWMutex
	users map[int64]model.Author
}

func NewDirectory(authors ...model.Author) *Directory {
	d := &Directory{users: make(map[int64]model.Author, len(authors))}
	for _, a := range authors {
		d.users[a.ID] = a
	}
	return d
}

// Put adds or replaces a profile.
func (d *Directory) Put(a model.Author) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.users[a.ID] = a
}

func (d *Directory) Lookup(_ context.Context, ids []int64) (map[int64]model.Author, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make(map[int64]model.Author, len(ids))
	for _, userID := range ids {
		if a, ok := d.users[userID]; ok {
			out[userID] = a
		}
	}
	return out, nil
}
