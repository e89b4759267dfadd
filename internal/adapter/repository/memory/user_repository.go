package memory

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/iho/authgate/internal/domain"
)

type userRecord struct {
	user         domain.User
	passwordHash []byte
}

// UserRepository is an in-memory user store seeded with one account per
// role. It backs the reference auth server; lookups are safe for
// concurrent use.
type UserRepository struct {
	mu      sync.RWMutex
	byID    map[string]*userRecord
	byEmail map[string]*userRecord
}

// NewUserRepository returns a repository seeded with the default accounts.
// Every seeded account uses the password "password123!".
func NewUserRepository() (*UserRepository, error) {
	r := &UserRepository{
		byID:    make(map[string]*userRecord),
		byEmail: make(map[string]*userRecord),
	}

	seeds := []struct {
		id        string
		email     string
		firstName string
		lastName  string
		role      string
	}{
		{"01J9ZQ3E8RN5T7V9XB3D5F7H9K", "root@example.com", "Root", "Admin", domain.RoleSuperAdmin},
		{"01J9ZQ3E8SM4R6T8WA2C4E6G8J", "admin@example.com", "Ada", "Admin", domain.RoleAdmin},
		{"01J9ZQ3E8TP3Q5S7YD1B3C5E7G", "ops@example.com", "Otto", "Operator", domain.RoleProductionOperator},
		{"01J9ZQ3E8VK2P4R6ZE9A1B3C5D", "support@example.com", "Sam", "Support", domain.RoleSupportAgent},
		{"01J9ZQ3E8WJ1N3Q5XF8Z9A1B2C", "content@example.com", "Cleo", "Content", domain.RoleContentManager},
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("password123!"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	for _, s := range seeds {
		rec := &userRecord{
			user: domain.User{
				ID:        s.id,
				Email:     s.email,
				FirstName: s.firstName,
				LastName:  s.lastName,
				Role: domain.Role{
					Name:     s.role,
					IsSystem: true,
				},
				Permissions: PermissionsForRole(s.role),
			},
			passwordHash: hash,
		}
		r.byID[rec.user.ID] = rec
		r.byEmail[rec.user.Email] = rec
	}

	return r, nil
}

// Authenticate verifies the email and password pair and returns the
// matching user. It returns domain.ErrInvalidCredentials for both unknown
// emails and wrong passwords so callers cannot probe for accounts.
func (r *UserRepository) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	r.mu.RLock()
	rec, ok := r.byEmail[strings.ToLower(strings.TrimSpace(email))]
	r.mu.RUnlock()
	if !ok {
		// Burn a comparison anyway to keep timing uniform.
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, domain.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword(rec.passwordHash, []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	u := rec.user
	return &u, nil
}

// GetByID returns the user with the given ID or domain.ErrUserNotFound.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	rec, ok := r.byID[id]
	r.mu.RUnlock()
	if !ok {
		return nil, domain.ErrUserNotFound
	}

	u := rec.user
	return &u, nil
}

var dummyHash = mustHash("not-a-real-password")

func mustHash(s string) []byte {
	h, err := bcrypt.GenerateFromPassword([]byte(s), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return h
}
