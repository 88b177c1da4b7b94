package storage

import (
	"context"
	"sync"
	"time"
)

// The in-memory storages back local runs and tests. Lists come back in
// insertion order, categories in presentation order.

type MemoryUserStorage struct {
	mu    sync.Mutex
	order []string
	users map[string]*User
}

func NewMemoryUserStorage() *MemoryUserStorage {
	return &MemoryUserStorage{users: make(map[string]*User)}
}

func (m *MemoryUserStorage) Get(_ context.Context, email string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[email]
	if !ok {
		return nil, ErrNotFound
	}
	c := *u
	return &c, nil
}

func (m *MemoryUserStorage) GetAll(_ context.Context) ([]*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	users := make([]*User, 0, len(m.order))
	for _, email := range m.order {
		c := *m.users[email]
		users = append(users, &c)
	}
	return users, nil
}

func (m *MemoryUserStorage) Create(_ context.Context, user *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.Email]; ok {
		return ErrItemWithIDAlreadyExists
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	c := *user
	m.users[user.Email] = &c
	m.order = append(m.order, user.Email)
	return nil
}

func (m *MemoryUserStorage) Update(_ context.Context, user *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.Email]; !ok {
		return ErrNotFound
	}
	c := *user
	m.users[user.Email] = &c
	return nil
}

func (m *MemoryUserStorage) Delete(_ context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[email]; !ok {
		return nil
	}
	delete(m.users, email)
	m.order = removeKey(m.order, email)
	return nil
}

type MemoryCategoryStorage struct {
	mu         sync.Mutex
	order      []string
	categories map[string]*Category
}

func NewMemoryCategoryStorage() *MemoryCategoryStorage {
	return &MemoryCategoryStorage{categories: make(map[string]*Category)}
}

func (m *MemoryCategoryStorage) Get(_ context.Context, id string) (*Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cat, ok := m.categories[id]
	if !ok {
		return nil, nil
	}
	c := *cat
	return &c, nil
}

func (m *MemoryCategoryStorage) GetAll(_ context.Context) ([]*Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	categories := make([]*Category, 0, len(m.order))
	for _, id := range m.order {
		c := *m.categories[id]
		categories = append(categories, &c)
	}
	SortCategories(categories)
	return categories, nil
}

func (m *MemoryCategoryStorage) Create(_ context.Context, category *Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.categories[category.ID]; ok {
		return ErrItemWithIDAlreadyExists
	}
	c := *category
	m.categories[category.ID] = &c
	m.order = append(m.order, category.ID)
	return nil
}

func (m *MemoryCategoryStorage) Update(_ context.Context, category *Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.categories[category.ID]; !ok {
		return ErrNotFound
	}
	c := *category
	m.categories[category.ID] = &c
	return nil
}

func (m *MemoryCategoryStorage) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.categories[id]; !ok {
		return nil
	}
	delete(m.categories, id)
	m.order = removeKey(m.order, id)
	return nil
}

type MemoryCandidateStorage struct {
	mu         sync.Mutex
	order      []string
	candidates map[string]*Candidate
}

func NewMemoryCandidateStorage() *MemoryCandidateStorage {
	return &MemoryCandidateStorage{candidates: make(map[string]*Candidate)}
}

func (m *MemoryCandidateStorage) Get(_ context.Context, id string) (*Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cand, ok := m.candidates[id]
	if !ok {
		return nil, nil
	}
	c := *cand
	return &c, nil
}

func (m *MemoryCandidateStorage) GetAll(_ context.Context) ([]*Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	candidates := make([]*Candidate, 0, len(m.order))
	for _, id := range m.order {
		c := *m.candidates[id]
		candidates = append(candidates, &c)
	}
	return candidates, nil
}

func (m *MemoryCandidateStorage) Create(_ context.Context, candidate *Candidate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.candidates[candidate.ID]; ok {
		return ErrItemWithIDAlreadyExists
	}
	c := *candidate
	m.candidates[candidate.ID] = &c
	m.order = append(m.order, candidate.ID)
	return nil
}

func (m *MemoryCandidateStorage) Update(_ context.Context, candidate *Candidate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.candidates[candidate.ID]; !ok {
		return ErrNotFound
	}
	c := *candidate
	m.candidates[candidate.ID] = &c
	return nil
}

func (m *MemoryCandidateStorage) UpdateVotes(_ context.Context, id string, expected, newCount int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cand, ok := m.candidates[id]
	if !ok {
		return ErrNotFound
	}
	if cand.Votes != expected {
		return ErrStaleVoteCount
	}
	cand.Votes = newCount
	return nil
}

func (m *MemoryCandidateStorage) ResetVotes(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, cand := range m.candidates {
		cand.Votes = 0
	}
	return nil
}

func (m *MemoryCandidateStorage) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.candidates[id]; !ok {
		return nil
	}
	delete(m.candidates, id)
	m.order = removeKey(m.order, id)
	return nil
}

func (m *MemoryCandidateStorage) DeleteAll(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.candidates = make(map[string]*Candidate)
	m.order = nil
	return nil
}

type MemoryVoteStorage struct {
	mu    sync.Mutex
	votes []*VoteRecord
}

func NewMemoryVoteStorage() *MemoryVoteStorage {
	return &MemoryVoteStorage{}
}

func (m *MemoryVoteStorage) Find(_ context.Context, filter VoteFilter) ([]*VoteRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var votes []*VoteRecord
	for _, v := range m.votes {
		if filter.Matches(v) {
			c := *v
			votes = append(votes, &c)
		}
	}
	return votes, nil
}

func (m *MemoryVoteStorage) Create(_ context.Context, vote *VoteRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range m.votes {
		if v.Email == vote.Email && v.CategoryID == vote.CategoryID {
			return ErrVoteAlreadyExists
		}
	}
	c := *vote
	m.votes = append(m.votes, &c)
	return nil
}

func (m *MemoryVoteStorage) DeleteByEmail(_ context.Context, email string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.votes[:0]
	deleted := 0
	for _, v := range m.votes {
		if v.Email == email {
			deleted++
			continue
		}
		kept = append(kept, v)
	}
	m.votes = kept
	return deleted, nil
}

func (m *MemoryVoteStorage) DeleteAll(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.votes = nil
	return nil
}

func removeKey(keys []string, key string) []string {
	for i, k := range keys {
		if k == key {
			return append(keys[:i], keys[i+1:]...)
		}
	}
	return keys
}
