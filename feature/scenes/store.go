package scenes

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"datajoin/core/scene"
	"datajoin/feature/scenes/models"
)

// ErrSceneNotFound is returned when no scene is stored under a name.
var ErrSceneNotFound = errors.New("scene not found")

// Store persists scenes.
type Store interface {
	Save(ctx context.Context, s *scene.Scene) error
	Load(ctx context.Context, name string) (*scene.Scene, error)
	Delete(ctx context.Context, name string) error
	List(ctx context.Context) ([]models.SceneInfo, error)
}

// MemoryStore keeps scenes in process memory. It backs the service when no
// database is configured.
type MemoryStore struct {
	mu      sync.RWMutex
	scenes  map[string]*scene.Scene
	updated map[string]time.Time
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		scenes:  make(map[string]*scene.Scene),
		updated: make(map[string]time.Time),
	}
}

// Save stores a copy of s.
func (m *MemoryStore) Save(_ context.Context, s *scene.Scene) error {
	snap := s.Snapshot()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scenes[s.Name] = snap
	m.updated[s.Name] = time.Now()
	return nil
}

// Load returns a copy of the stored scene.
func (m *MemoryStore) Load(_ context.Context, name string) (*scene.Scene, error) {
	m.mu.RLock()
	s, ok := m.scenes[name]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrSceneNotFound
	}
	return s.Snapshot(), nil
}

// Delete removes the scene.
func (m *MemoryStore) Delete(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.scenes[name]; !ok {
		return ErrSceneNotFound
	}
	delete(m.scenes, name)
	delete(m.updated, name)
	return nil
}

// List returns every scene sorted by name.
func (m *MemoryStore) List(_ context.Context) ([]models.SceneInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	infos := make([]models.SceneInfo, 0, len(m.scenes))
	for name, s := range m.scenes {
		infos = append(infos, models.SceneInfo{
			Name:      name,
			UpdatedAt: m.updated[name],
			Elements:  int64(s.Len()),
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}
