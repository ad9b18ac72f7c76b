// Package memory keeps accounts and videos in process memory.
// Every repo guards its maps with own RWMutex: reads run concurrently, writes are serialized.
package memory

import (
	"time"

	"github.com/nkiryanov/streamhub/internal/repository"
)

type Storage struct {
	accounts *AccountRepo
	videos   *VideoRepo
}

func NewStorage() *Storage {
	return &Storage{
		accounts: NewAccountRepo(),
		videos:   NewVideoRepo(),
	}
}

func (s *Storage) Account() repository.AccountRepo {
	return s.accounts
}

func (s *Storage) Video() repository.VideoRepo {
	return s.videos
}

func now() time.Time {
	return time.Now().UTC()
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// paginate returns the page window of already sorted items
func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := min(offset+limit, len(items))
	return items[offset:end]
}
