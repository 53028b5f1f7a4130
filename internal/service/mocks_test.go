package service

import (
	"context"
	"sync"
	"time"

	"github.com/suflam/usersvc/internal/domain"
)

// In-memory repositories backing the service tests. Uniqueness is enforced
// under a single mutex, mirroring the store's atomic insert-with-check.

type memUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{nextID: 1, users: make(map[int64]*domain.User)}
}

func (m *memUserRepo) Create(_ context.Context, req *domain.CreateUserRequest, passwordHash string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.CellNumber == req.CellNumber || u.Email == req.Email {
			return nil, domain.ErrDuplicateResource
		}
	}

	now := time.Now()
	u := &domain.User{
		ID:           m.nextID,
		ProfilePic:   req.ProfilePic,
		Name:         req.Name,
		CellNumber:   req.CellNumber,
		PasswordHash: passwordHash,
		Email:        req.Email,
		Role:         req.Role,
		Created:      now,
		Modified:     now,
	}
	m.nextID++
	m.users[u.ID] = u

	cp := *u
	return &cp, nil
}

func (m *memUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (m *memUserRepo) FindByCellNumber(_ context.Context, cellNumber string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.CellNumber == cellNumber {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memUserRepo) Update(_ context.Context, id int64, req *domain.UpdateUserRequest, passwordHash *string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}

	for otherID, other := range m.users {
		if otherID == id {
			continue
		}
		if req.CellNumber != nil && other.CellNumber == *req.CellNumber {
			return nil, domain.ErrDuplicateResource
		}
		if req.Email != nil && other.Email == *req.Email {
			return nil, domain.ErrDuplicateResource
		}
	}

	if req.ProfilePic != nil {
		u.ProfilePic = req.ProfilePic
	}
	if req.Name != nil {
		u.Name = *req.Name
	}
	if req.CellNumber != nil {
		u.CellNumber = *req.CellNumber
	}
	if passwordHash != nil {
		u.PasswordHash = *passwordHash
	}
	if req.Email != nil {
		u.Email = *req.Email
	}
	if req.Role != nil {
		u.Role = *req.Role
	}
	u.Modified = time.Now()

	cp := *u
	return &cp, nil
}

func (m *memUserRepo) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *memUserRepo) List(_ context.Context, limit, offset int) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var users []domain.User
	for id := int64(1); id < m.nextID; id++ {
		if u, ok := m.users[id]; ok {
			users = append(users, *u)
		}
	}

	if offset >= len(users) {
		return nil, nil
	}
	users = users[offset:]
	if limit > 0 && limit < len(users) {
		users = users[:limit]
	}
	return users, nil
}

type memTokenRepo struct {
	mu     sync.Mutex
	nextID int64
	tokens map[string]*domain.AccessToken
}

func newMemTokenRepo() *memTokenRepo {
	return &memTokenRepo{nextID: 1, tokens: make(map[string]*domain.AccessToken)}
}

func (m *memTokenRepo) Insert(_ context.Context, token string, ttlMillis, userID int64) (*domain.AccessToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tokens[token]; ok {
		return nil, domain.ErrDuplicateResource
	}

	t := &domain.AccessToken{
		ID:      m.nextID,
		Token:   token,
		TTL:     ttlMillis,
		UserID:  userID,
		Created: time.Now(),
	}
	m.nextID++
	m.tokens[token] = t

	cp := *t
	return &cp, nil
}

func (m *memTokenRepo) FindByToken(_ context.Context, token string) (*domain.AccessToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tokens[token]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (m *memTokenRepo) DeleteExpired(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	var removed int64
	for key, t := range m.tokens {
		if t.Expired(now) {
			delete(m.tokens, key)
			removed++
		}
	}
	return removed, nil
}

// backdate shifts a stored token's issuance into the past.
func (m *memTokenRepo) backdate(token string, by time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if t, ok := m.tokens[token]; ok {
		t.Created = t.Created.Add(-by)
	}
}

type recordingPublisher struct {
	mu       sync.Mutex
	subjects []string
}

func (p *recordingPublisher) Publish(_ context.Context, subject string, _ interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subjects = append(p.subjects, subject)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) published(subject string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, s := range p.subjects {
		if s == subject {
			return true
		}
	}
	return false
}
