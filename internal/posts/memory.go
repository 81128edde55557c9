package posts

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// NewMemoryRepository constructs an "in memory" post repository.
func NewMemoryRepository() Repository {
	return &memoryRepository{
		byID:   make(map[uuid.UUID]*Post),
		bySlug: make(map[string]uuid.UUID),
	}
}

type memoryRepository struct {
	mu     sync.RWMutex
	byID   map[uuid.UUID]*Post
	bySlug map[string]uuid.UUID
}

func (m *memoryRepository) Create(_ context.Context, post *Post) (*Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cloned := clonePost(post)
	m.byID[cloned.ID] = cloned
	if cloned.Slug != "" {
		m.bySlug[cloned.Slug] = cloned.ID
	}
	return clonePost(cloned), nil
}

func (m *memoryRepository) GetByID(_ context.Context, id uuid.UUID) (*Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.byID[id]
	if !ok {
		return nil, &NotFoundError{Resource: "post", Key: id.String()}
	}
	return clonePost(record), nil
}

func (m *memoryRepository) GetBySlug(_ context.Context, slug string) (*Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.bySlug[slug]
	if !ok {
		return nil, &NotFoundError{Resource: "post", Key: slug}
	}
	return clonePost(m.byID[id]), nil
}

func (m *memoryRepository) List(_ context.Context) ([]*Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Post, 0, len(m.byID))
	for _, record := range m.byID {
		out = append(out, clonePost(record))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *memoryRepository) Update(_ context.Context, post *Post) (*Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.byID[post.ID]
	if !ok {
		return nil, &NotFoundError{Resource: "post", Key: post.ID.String()}
	}
	if existing.Slug != post.Slug {
		delete(m.bySlug, existing.Slug)
	}

	cloned := clonePost(post)
	m.byID[cloned.ID] = cloned
	if cloned.Slug != "" {
		m.bySlug[cloned.Slug] = cloned.ID
	}
	return clonePost(cloned), nil
}

func (m *memoryRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.byID[id]
	if !ok {
		return &NotFoundError{Resource: "post", Key: id.String()}
	}
	delete(m.bySlug, record.Slug)
	delete(m.byID, id)
	return nil
}

// NewMemoryVersionRepository constructs an "in memory" version repository.
func NewMemoryVersionRepository() VersionRepository {
	return &memoryVersionRepository{
		byPost: make(map[uuid.UUID][]*Version),
	}
}

type memoryVersionRepository struct {
	mu     sync.RWMutex
	byPost map[uuid.UUID][]*Version
}

func (m *memoryVersionRepository) Create(_ context.Context, version *Version) (*Version, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cloned := cloneVersion(version)
	m.byPost[cloned.PostID] = append(m.byPost[cloned.PostID], cloned)
	return cloneVersion(cloned), nil
}

func (m *memoryVersionRepository) GetByPostAndVersion(_ context.Context, postID uuid.UUID, version int) (*Version, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, record := range m.byPost[postID] {
		if record.Version == version {
			return cloneVersion(record), nil
		}
	}
	return nil, &NotFoundError{Resource: "post_version", Key: postID.String()}
}

func (m *memoryVersionRepository) ListByPost(_ context.Context, postID uuid.UUID) ([]*Version, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := m.byPost[postID]
	out := make([]*Version, 0, len(records))
	for _, record := range records {
		out = append(out, cloneVersion(record))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}

func (m *memoryVersionRepository) Update(_ context.Context, version *Version) (*Version, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	records := m.byPost[version.PostID]
	for i, record := range records {
		if record.Version == version.Version {
			cloned := cloneVersion(version)
			records[i] = cloned
			return cloneVersion(cloned), nil
		}
	}
	return nil, &NotFoundError{Resource: "post_version", Key: version.PostID.String()}
}
