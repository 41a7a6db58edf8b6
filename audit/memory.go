// audit/memory.go
package audit

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryRepository is an append-only, insertion-ordered audit store. It
// backs tests and standalone deployments where no Elasticsearch cluster is
// available. Appends are safe under concurrent writers; queries read a
// consistent snapshot that includes every append that completed before the
// query started.
type MemoryRepository struct {
	mu      sync.RWMutex
	seq     uint64
	entries []AuditLog
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) LogAccess(ctx context.Context, log AuditLog) error {
	if log.ID == "" {
		log.ID = uuid.New().String()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	log.Sequence = r.seq
	r.entries = append(r.entries, log)
	return nil
}

func (r *MemoryRepository) QueryLogs(ctx context.Context, query Query) ([]AuditLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []AuditLog
	for _, entry := range r.entries {
		if query.Accepts(entry) {
			matched = append(matched, entry)
		}
	}
	return matched, nil
}

// Len returns the total number of entries ever appended.
func (r *MemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
