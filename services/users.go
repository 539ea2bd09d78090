package services

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Yu-yu0202/FileShareService/models"
)

// AdminUsername is the account seeded at bootstrap.
const AdminUsername = "admin"

// UserService is the credential store: it owns password hashing and lookup.
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// Verify checks username/password and returns the matching user. Failures are
// ErrUserNotFound or ErrInvalidCredential; callers must not forward the
// distinction to clients.
func (s *UserService) Verify(username, password string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredential
	}
	return &user, nil
}

// Create hashes the password and persists a new user. A username collision
// returns ErrDuplicateUsername and leaves the existing record untouched.
func (s *UserService) Create(username, password string, role models.Role) (*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Username: username,
		Password: string(hashed),
		Role:     role,
	}
	if err := s.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateUsername
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &user, nil
}

// Get returns a user by id.
func (s *UserService) Get(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("look up user: %w", err)
	}
	return &user, nil
}

// EnsureAdmin makes sure the admin account exists, creating it with the
// supplied password on first run. Re-running is a no-op and never changes an
// existing admin's password.
func (s *UserService) EnsureAdmin(password string) error {
	var user models.User
	err := s.db.Where("username = ?", AdminUsername).First(&user).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("look up admin: %w", err)
	}

	if _, err := s.Create(AdminUsername, password, models.RoleAdmin); err != nil {
		// Lost a race against another bootstrap; the admin exists either way.
		if errors.Is(err, ErrDuplicateUsername) {
			return nil
		}
		return err
	}
	return nil
}
