package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/guguinhass/AtlanticDivingCenterCRM/internal/models"
	"github.com/guguinhass/AtlanticDivingCenterCRM/internal/repositories"

	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

var (
	ErrUsernameExists   = errors.New("username already exists")
	ErrUserValidation   = errors.New("user data validation error")
	ErrCannotDeleteSelf = errors.New("cannot delete the account you are logged in with")
)

// CreateUserRequest DTO (admin user management).
type CreateUserRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	IsAdmin  bool   `json:"is_admin"`
}

// --- UserService Interface ---
type UserService interface {
	CreateUser(req CreateUserRequest) (*models.User, error)
	GetUsers() ([]models.User, error)
	DeleteUser(userID, actingUserID int64) error
}

type userService struct {
	userRepo repositories.UserRepository
	db       *sql.DB
}

// NewUserService creates a new instance of UserService.
func NewUserService(userRepo repositories.UserRepository, db *sql.DB) UserService {
	return &userService{userRepo: userRepo, db: db}
}

func (s *userService) CreateUser(req CreateUserRequest) (*models.User, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, fmt.Errorf("%w: username cannot be empty", ErrUserValidation)
	}
	if len(req.Password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrUserValidation, minPasswordLength)
	}

	hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username: username,
		IsAdmin:  req.IsAdmin,
	}
	id, err := s.userRepo.CreateUser(s.db, user, string(hashedPasswordBytes))
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrUsernameExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return s.userRepo.FindUserByID(id)
}

func (s *userService) GetUsers() ([]models.User, error) {
	users, err := s.userRepo.GetUsers()
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}
	return users, nil
}

func (s *userService) DeleteUser(userID, actingUserID int64) error {
	if userID == actingUserID {
		return ErrCannotDeleteSelf
	}
	err := s.userRepo.DeleteUser(s.db, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}
