package templates

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// NewMemoryRepository builds an in-memory template repository for tests and
// standalone embedding.
func NewMemoryRepository() Repository {
	return &memoryRepository{
		byID:   map[uuid.UUID]*Template{},
		bySlug: map[string]uuid.UUID{},
	}
}

type memoryRepository struct {
	mu     sync.RWMutex
	byID   map[uuid.UUID]*Template
	bySlug map[string]uuid.UUID
}

func (r *memoryRepository) Create(_ context.Context, record *Template) (*Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := cloneTemplate(record)
	r.byID[stored.ID] = stored
	r.bySlug[stored.Slug] = stored.ID
	return cloneTemplate(stored), nil
}

func (r *memoryRepository) GetByID(_ context.Context, id uuid.UUID) (*Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.byID[id]
	if !ok {
		return nil, &NotFoundError{Resource: "template", Key: id.String()}
	}
	return cloneTemplate(record), nil
}

func (r *memoryRepository) GetBySlug(_ context.Context, slug string) (*Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.bySlug[slug]
	if !ok {
		return nil, &NotFoundError{Resource: "template", Key: slug}
	}
	return cloneTemplate(r.byID[id]), nil
}

func (r *memoryRepository) List(_ context.Context) ([]*Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := make([]*Template, 0, len(r.byID))
	for _, record := range r.byID {
		records = append(records, cloneTemplate(record))
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Name < records[j].Name
	})
	return records, nil
}

func (r *memoryRepository) Update(_ context.Context, record *Template) (*Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byID[record.ID]
	if !ok {
		return nil, &NotFoundError{Resource: "template", Key: record.ID.String()}
	}
	if existing.Slug != record.Slug {
		delete(r.bySlug, existing.Slug)
	}

	stored := cloneTemplate(record)
	r.byID[stored.ID] = stored
	r.bySlug[stored.Slug] = stored.ID
	return cloneTemplate(stored), nil
}

func (r *memoryRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.byID[id]
	if !ok {
		return &NotFoundError{Resource: "template", Key: id.String()}
	}
	delete(r.bySlug, record.Slug)
	delete(r.byID, id)
	return nil
}
