package repo

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Drobertson1990/Well-Servicing-Calcs/internal/calc/calcerr"
	"github.com/google/uuid"
)

type memUser struct {
	id    int
	email string
	hash  string
}

type memJob struct {
	userID  int
	name    string
	data    []byte
	updated time.Time
}

// MemoryStore keeps users and jobs in process. It is used when no
// DATABASE_URL is configured and in tests.
type MemoryStore struct {
	mu     sync.RWMutex
	users  map[string]memUser
	jobs   map[uuid.UUID]memJob
	nextID int
	now    func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users: make(map[string]memUser),
		jobs:  make(map[uuid.UUID]memJob),
		now:   time.Now,
	}
}

func (m *MemoryStore) CreateUser(_ context.Context, login, email, password string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[login]; ok {
		return 0, fmt.Errorf("user %q already exists", login)
	}
	m.nextID++
	m.users[login] = memUser{id: m.nextID, email: email, hash: password}
	return m.nextID, nil
}

func (m *MemoryStore) GetBylogin(_ context.Context, login string) (int, string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[login]
	if !ok {
		return 0, "", nil
	}
	return u.id, u.hash, nil
}

func (m *MemoryStore) SaveJob(_ context.Context, userID int, id uuid.UUID, name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if j, ok := m.jobs[id]; ok && j.userID != userID {
		return calcerr.NotFound("job %s", id)
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	m.jobs[id] = memJob{userID: userID, name: name, data: buf, updated: m.now()}
	return nil
}

func (m *MemoryStore) GetJob(_ context.Context, userID int, id uuid.UUID) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	j, ok := m.jobs[id]
	if !ok || j.userID != userID {
		return nil, calcerr.NotFound("job %s", id)
	}
	buf := make([]byte, len(j.data))
	copy(buf, j.data)
	return buf, nil
}

func (m *MemoryStore) ListJobs(_ context.Context, userID int) ([]JobSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []JobSummary{}
	for id, j := range m.jobs {
		if j.userID == userID {
			out = append(out, JobSummary{ID: id, Name: j.name, UpdatedAt: j.updated})
		}
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].UpdatedAt.Equal(out[b].UpdatedAt) {
			return out[a].Name < out[b].Name
		}
		return out[a].UpdatedAt.After(out[b].UpdatedAt)
	})
	return out, nil
}

func (m *MemoryStore) DeleteJob(_ context.Context, userID int, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.jobs[id]
	if !ok || j.userID != userID {
		return calcerr.NotFound("job %s", id)
	}
	delete(m.jobs, id)
	return nil
}
