package services

import (
	"fmt"
	"regexp"
	"sync"
	"time"

	"gestloc/internal/models"

	"github.com/google/uuid"
)

// BeforeWrite runs inside the collection's write lock, after the row lookup
// and before the mutation. Validation and mutation are observed as one step.
type BeforeWrite func(payload map[string]any) error

type collectionSpec struct {
	readOnly bool
}

var collectionRegistry = map[string]collectionSpec{
	"users":         {},
	"admins":        {},
	"clients":       {},
	"admin_clients": {},
	"rentals":       {},
	"notifications": {},
	"entreprises":   {},
	"blocked_ips":   {},
	"audit_logs":    {readOnly: true},
}

var validColumn = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// CollectionService is the generic persistence layer behind the collection
// routes. Rows travel as maps so entity-specific interceptors can reshape
// them without a type per route. Mutations hold a per-collection lock so a
// concurrent write cannot race past validation on a stale snapshot.
type CollectionService struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewCollectionService() *CollectionService {
	return &CollectionService{locks: make(map[string]*sync.Mutex)}
}

// Known reports whether the name maps to a stored collection.
func (s *CollectionService) Known(name string) bool {
	_, ok := collectionRegistry[name]
	return ok
}

// ReadOnly reports whether mutations on the collection are rejected.
func (s *CollectionService) ReadOnly(name string) bool {
	return collectionRegistry[name].readOnly
}

func (s *CollectionService) lock(name string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.locks[name]; !ok {
		s.locks[name] = &sync.Mutex{}
	}
	return s.locks[name]
}

// List returns rows matching the equality filters, paginated.
func (s *CollectionService) List(name string, filters map[string]string, offset, limit int) ([]map[string]any, error) {
	q := models.DB.Table(name)
	for k, v := range filters {
		if !validColumn.MatchString(k) {
			continue
		}
		q = q.Where(fmt.Sprintf("%s = ?", k), v)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	rows := []map[string]any{}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		scrub(name, row)
	}
	return rows, nil
}

// Get returns one row by id.
func (s *CollectionService) Get(name, id string) (map[string]any, error) {
	row := map[string]any{}
	q := models.DB.Table(name).Where("id = ?", id).Take(&row)
	if q.Error != nil || len(row) == 0 {
		return nil, ErrNotFound
	}
	scrub(name, row)
	return row, nil
}

// Create inserts a row, generating id and timestamps when absent. The
// before hook runs under the collection lock.
func (s *CollectionService) Create(name string, payload map[string]any, before BeforeWrite) (map[string]any, error) {
	mu := s.lock(name)
	mu.Lock()
	defer mu.Unlock()

	if before != nil {
		if err := before(payload); err != nil {
			return nil, err
		}
	}

	if _, ok := payload["id"]; !ok {
		payload["id"] = uuid.NewString()
	}
	now := time.Now()
	if _, ok := payload["created_at"]; !ok {
		payload["created_at"] = now
	}
	if hasUpdatedAt(name) {
		payload["updated_at"] = now
	}

	if err := models.DB.Table(name).Create(payload).Error; err != nil {
		return nil, err
	}
	return s.Get(name, fmt.Sprint(payload["id"]))
}

// Update merges the payload into an existing row. Serves both PUT and
// PATCH with partial merge semantics.
func (s *CollectionService) Update(name, id string, payload map[string]any, before BeforeWrite) (map[string]any, error) {
	mu := s.lock(name)
	mu.Lock()
	defer mu.Unlock()

	if _, err := s.Get(name, id); err != nil {
		return nil, err
	}

	if before != nil {
		if err := before(payload); err != nil {
			return nil, err
		}
	}

	delete(payload, "id")
	delete(payload, "created_at")
	if hasUpdatedAt(name) {
		payload["updated_at"] = time.Now()
	}

	if len(payload) > 0 {
		if err := models.DB.Table(name).Where("id = ?", id).Updates(payload).Error; err != nil {
			return nil, err
		}
	}
	return s.Get(name, id)
}

// Delete removes a row by id.
func (s *CollectionService) Delete(name, id string, before BeforeWrite) error {
	mu := s.lock(name)
	mu.Lock()
	defer mu.Unlock()

	row, err := s.Get(name, id)
	if err != nil {
		return err
	}
	if before != nil {
		if err := before(row); err != nil {
			return err
		}
	}
	return models.DB.Exec(fmt.Sprintf("DELETE FROM %s WHERE id = ?", name), id).Error
}

func hasUpdatedAt(name string) bool {
	switch name {
	case "admin_clients", "notifications", "audit_logs", "blocked_ips":
		return false
	}
	return true
}

// scrub drops columns that must never leave the store.
func scrub(name string, row map[string]any) {
	if name == "users" {
		delete(row, "password_hash")
	}
}
