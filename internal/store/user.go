package store

import (
	"context"
	"strings"
	"sync"

	"github.com/comanda-pos/api/internal/enum"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// User is a staff account. Role is an explicit field issued at
// registration, never derived from the email address.
type User struct {
	ID             uuid.UUID `json:"id"`
	FullName       string    `json:"full_name"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"hashed_password"`
	Role           string    `json:"role"`
}

// RegisterUserParams is the input for UserStore.Register. Role defaults
// to WAITER when empty.
type RegisterUserParams struct {
	FullName string
	Email    string
	Password string
	Role     string
}

// UserStore owns the staff accounts.
type UserStore struct {
	mu      sync.RWMutex
	users   []User
	persist Persistence
}

// NewUserStore creates an empty UserStore.
func NewUserStore(persist Persistence) *UserStore {
	return &UserStore{persist: persist}
}

// LoadFrom replaces the in-memory collection with the persisted snapshot.
func (s *UserStore) LoadFrom(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var users []User
	if err := s.persist.Load(ctx, CollectionUsers, &users); err != nil {
		return &IOError{Collection: CollectionUsers, Err: err}
	}
	s.users = users
	return nil
}

func isValidRole(role string) bool {
	switch role {
	case enum.UserRoleAdmin, enum.UserRoleWaiter, enum.UserRoleCook:
		return true
	}
	return false
}

// Register validates, hashes the password and appends a new account.
func (s *UserStore) Register(ctx context.Context, params RegisterUserParams) (User, error) {
	email := strings.ToLower(strings.TrimSpace(params.Email))
	if email == "" {
		return User{}, &ValidationError{Field: "email", Reason: "must not be empty"}
	}
	if len(params.Password) < 8 {
		return User{}, &ValidationError{Field: "password", Reason: "must be at least 8 characters"}
	}
	role := params.Role
	if role == "" {
		role = enum.UserRoleWaiter
	}
	if !isValidRole(role) {
		return User{}, &ValidationError{Field: "role", Reason: "unknown role"}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			return User{}, &ValidationError{Field: "email", Reason: "already registered"}
		}
	}

	u := User{
		ID:             uuid.New(),
		FullName:       strings.TrimSpace(params.FullName),
		Email:          email,
		HashedPassword: string(hashed),
		Role:           role,
	}
	s.users = append(s.users, u)
	return u, s.save(ctx)
}

// Authenticate verifies the credentials and returns the account.
// Both an unknown email and a wrong password return ErrNotFound so the
// caller cannot distinguish the two.
func (s *UserStore) Authenticate(email, password string) (User, error) {
	u, ok := s.ByEmail(email)
	if !ok {
		return User{}, ErrNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.HashedPassword), []byte(password)); err != nil {
		return User{}, ErrNotFound
	}
	return u, nil
}

// SetPassword replaces the account's password hash.
func (s *UserStore) SetPassword(ctx context.Context, id uuid.UUID, password string) error {
	if len(password) < 8 {
		return &ValidationError{Field: "password", Reason: "must be at least 8 characters"}
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.users {
		if s.users[i].ID == id {
			s.users[i].HashedPassword = string(hashed)
			return s.save(ctx)
		}
	}
	return ErrNotFound
}

// ByEmail returns the account with the given email, if present.
func (s *UserStore) ByEmail(email string) (User, bool) {
	email = strings.ToLower(strings.TrimSpace(email))
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, true
		}
	}
	return User{}, false
}

// ByID returns the account with the given id, if present.
func (s *UserStore) ByID(id uuid.UUID) (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.ID == id {
			return u, true
		}
	}
	return User{}, false
}

func (s *UserStore) save(ctx context.Context) error {
	snapshot := make([]User, len(s.users))
	copy(snapshot, s.users)
	if err := s.persist.Save(ctx, CollectionUsers, snapshot); err != nil {
		return &IOError{Collection: CollectionUsers, Err: err}
	}
	return nil
}
