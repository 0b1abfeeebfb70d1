package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/beautydb/backoffice/app/models"
	"github.com/beautydb/backoffice/app/repositories"
	"github.com/beautydb/backoffice/pkg/auth"
	"github.com/beautydb/backoffice/pkg/database"
	"github.com/beautydb/backoffice/pkg/metrics"
	"gorm.io/gorm"
)

// UserInput creates a user. Role defaults to customer.
type UserInput struct {
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name"  validate:"required,max=100"`
	Email     string `json:"email"      validate:"required,email,max=255"`
	Password  string `json:"password"   validate:"required,min=8"`
	Phone     string `json:"phone"      validate:"max=50"`
	Role      string `json:"role"       validate:"nullable,in=admin|customer"`
}

// UserUpdateInput edits the contact details of a user.
type UserUpdateInput struct {
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name"  validate:"required,max=100"`
	Email     string `json:"email"      validate:"required,email,max=255"`
	Phone     string `json:"phone"      validate:"max=50"`
}

// LoginInput carries credentials.
type LoginInput struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Session is returned by Login and Register.
type Session struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

type UserService struct {
	db    database.Gateway
	users *repositories.UserRepository
}

func NewUserService(db database.Gateway) *UserService {
	return &UserService{db: db, users: repositories.NewUserRepository()}
}

func (s *UserService) Get(ctx context.Context, id uint) (models.User, error) {
	return s.users.Find(s.db.DB(ctx), id)
}

// Create stores a user with a bcrypt hash of the password.
func (s *UserService) Create(ctx context.Context, in UserInput) (models.User, error) {
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	u := models.User{
		Role:      in.Role,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     strings.ToLower(strings.TrimSpace(in.Email)),
		Password:  hash,
		Phone:     in.Phone,
	}
	if u.Role == "" {
		u.Role = models.RoleCustomer
	}

	err = s.db.Transaction(ctx, func(tx *gorm.DB) error {
		taken, err := s.users.EmailTaken(tx, u.Email, 0)
		if err != nil {
			return err
		}
		if taken {
			return &ValidationError{Message: "Email is already registered", Fields: map[string]string{"email": "The email has already been taken."}}
		}
		return s.users.Create(tx, &u)
	})
	metrics.RecordWrite("user", "create", err)
	if err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (s *UserService) Update(ctx context.Context, id uint, in UserUpdateInput) (models.User, error) {
	var u models.User
	err := s.db.Transaction(ctx, func(tx *gorm.DB) error {
		var err error
		if u, err = s.users.Find(tx, id); err != nil {
			return err
		}
		email := strings.ToLower(strings.TrimSpace(in.Email))
		taken, err := s.users.EmailTaken(tx, email, id)
		if err != nil {
			return err
		}
		if taken {
			return &ValidationError{Message: "Email is already registered", Fields: map[string]string{"email": "The email has already been taken."}}
		}

		u.FirstName, u.LastName, u.Email, u.Phone = in.FirstName, in.LastName, email, in.Phone
		return s.users.Update(tx, id, map[string]any{
			"first_name": u.FirstName,
			"last_name":  u.LastName,
			"email":      u.Email,
			"phone":      u.Phone,
		})
	})
	metrics.RecordWrite("user", "edit", err)
	if err != nil {
		return models.User{}, err
	}
	return u, nil
}

// Delete removes the user and its profile in one transaction.
func (s *UserService) Delete(ctx context.Context, id uint) error {
	err := s.db.Transaction(ctx, func(tx *gorm.DB) error {
		return s.users.DeleteWithProfile(tx, id)
	})
	metrics.RecordWrite("user", "delete", err)
	return err
}

// Register creates a customer account and signs it in.
func (s *UserService) Register(ctx context.Context, in UserInput) (Session, error) {
	in.Role = models.RoleCustomer
	u, err := s.Create(ctx, in)
	if err != nil {
		return Session{}, err
	}
	return s.session(u)
}

// Login checks the credentials and issues an access token.
func (s *UserService) Login(ctx context.Context, in LoginInput) (Session, error) {
	u, err := s.users.FindByEmail(s.db.DB(ctx), strings.ToLower(strings.TrimSpace(in.Email)))
	if errors.Is(err, repositories.ErrNotFound) {
		return Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, err
	}
	if !auth.CheckPassword(u.Password, in.Password) {
		return Session{}, ErrInvalidCredentials
	}
	return s.session(u)
}

func (s *UserService) session(u models.User) (Session, error) {
	token, err := auth.GenerateToken(u.UserID, u.Role)
	if err != nil {
		return Session{}, fmt.Errorf("sign token: %w", err)
	}
	return Session{Token: token, User: u}, nil
}
