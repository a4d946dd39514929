package mocks

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/bmi-api/internal/domain"
	"github.com/phrazzld/bmi-api/internal/store"
	"golang.org/x/crypto/bcrypt"
)

// MockUserStore is an in-memory store.UserStore keyed by normalized email.
type MockUserStore struct {
	CreateFn     func(ctx context.Context, user *domain.User) error
	GetByEmailFn func(ctx context.Context, email string) (*domain.User, error)
	GetByIDFn    func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	UpdateFn     func(ctx context.Context, user *domain.User) error

	// CreateError and GetByEmailError short-circuit the default behavior.
	CreateError     error
	GetByEmailError error

	mu         sync.Mutex
	Users      map[string]*domain.User
	LastUserID uuid.UUID
}

var _ store.UserStore = (*MockUserStore)(nil)

// NewMockUserStore creates an empty MockUserStore.
func NewMockUserStore() *MockUserStore {
	return &MockUserStore{
		Users: make(map[string]*domain.User),
	}
}

// Create stores a copy of user, hashing its password with the minimum bcrypt cost.
func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}
	if m.CreateError != nil {
		return m.CreateError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	email := domain.NormalizeEmail(user.Email)
	if _, exists := m.Users[email]; exists {
		return store.ErrEmailExists
	}

	if user.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.MinCost)
		if err != nil {
			return err
		}
		user.HashedPassword = string(hash)
		user.Password = ""
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}

	stored := *user
	m.Users[email] = &stored
	m.LastUserID = user.ID
	return nil
}

// GetByEmail implements store.UserStore.
func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}
	if m.GetByEmailError != nil {
		return nil, m.GetByEmailError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	user, exists := m.Users[domain.NormalizeEmail(email)]
	if !exists {
		return nil, store.ErrUserNotFound
	}
	found := *user
	return &found, nil
}

// GetByID implements store.UserStore.
func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, user := range m.Users {
		if user.ID == id {
			found := *user
			return &found, nil
		}
	}
	return nil, store.ErrUserNotFound
}

// List returns the stored users ordered by creation time.
func (m *MockUserStore) List(ctx context.Context) ([]*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	users := make([]*domain.User, 0, len(m.Users))
	for _, user := range m.Users {
		u := *user
		users = append(users, &u)
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})
	return users, nil
}

// Update replaces the user with the same id, re-keying it when the email changes.
func (m *MockUserStore) Update(ctx context.Context, user *domain.User) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, user)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	newEmail := domain.NormalizeEmail(user.Email)
	for email, existing := range m.Users {
		if existing.ID != user.ID {
			continue
		}
		if email != newEmail {
			if _, taken := m.Users[newEmail]; taken {
				return store.ErrEmailExists
			}
			delete(m.Users, email)
		}
		if user.Password != "" {
			hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.MinCost)
			if err != nil {
				return err
			}
			user.HashedPassword = string(hash)
		}
		user.UpdatedAt = time.Now().UTC()

		stored := *user
		stored.Password = ""
		m.Users[newEmail] = &stored
		return nil
	}
	return store.ErrUserNotFound
}

// WithTx returns the same mock; transactions are not simulated.
func (m *MockUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return m
}
