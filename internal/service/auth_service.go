package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"lodging-service/internal/model"
	"lodging-service/internal/repository"
	"lodging-service/internal/validation"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
)

type SignupInput struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Username  string `json:"username" validate:"required,min=4,notemail"`
	Password  string `json:"password" validate:"required,min=6,maxbytes=72"`
}

var signupMessages = validation.Messages{
	"firstName": {"": "First Name is required"},
	"lastName":  {"": "Last Name is required"},
	"email":     {"": "Invalid email"},
	"username": {
		"required": "Username is required",
		"min":      "Please provide a username with at least 4 characters.",
		"notemail": "Username cannot be an email.",
	},
	"password": {
		"":         "Password must be 6 characters or more.",
		"maxbytes": "Password must be 72 bytes or fewer.",
	},
}

type LoginInput struct {
	Credential string `json:"credential" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

var loginMessages = validation.Messages{
	"credential": {"": "Email or username is required"},
	"password":   {"": "Password is required"},
}

const (
	msgEmailTaken    = "User with that email already exists"
	msgUsernameTaken = "User with that username already exists"
)

// TokenGenerator issues the session token for an authenticated user.
type TokenGenerator interface {
	GenerateToken(user *model.User) (string, error)
}

type AuthService interface {
	Signup(ctx context.Context, input SignupInput) (*model.User, string, error)
	Login(ctx context.Context, input LoginInput) (*model.User, string, error)
	CurrentUser(ctx context.Context, userID uuid.UUID) (*model.User, error)
}

type authService struct {
	userRepo repository.UserRepository
	tokens   TokenGenerator
}

func NewAuthService(userRepo repository.UserRepository, tokens TokenGenerator) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

func (s *authService) Signup(ctx context.Context, input SignupInput) (*model.User, string, error) {
	input.Email = strings.TrimSpace(input.Email)
	input.Username = strings.TrimSpace(input.Username)

	verr := validation.New()
	if err := validation.Check(&input, signupMessages); err != nil {
		var fieldErrs *validation.Error
		if !errors.As(err, &fieldErrs) {
			return nil, "", err
		}
		verr = fieldErrs
	}

	conflicts, err := s.userRepo.FindConflicts(ctx, input.Email, input.Username)
	if err != nil {
		return nil, "", fmt.Errorf("checking user conflicts: %w", err)
	}
	if conflicts.EmailTaken {
		verr.Add("email", msgEmailTaken)
	}
	if conflicts.UsernameTaken {
		verr.Add("username", msgUsernameTaken)
	}
	if err := verr.OrNil(); err != nil {
		return nil, "", err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			tooLong := validation.New()
			tooLong.Add("password", signupMessages["password"]["maxbytes"])
			return nil, "", tooLong
		}
		return nil, "", fmt.Errorf("hashing password: %w", err)
	}

	user := &model.User{
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		Email:          input.Email,
		Username:       input.Username,
		HashedPassword: string(hashedPassword),
	}

	newID, err := s.userRepo.Create(ctx, user)
	if err != nil {
		if field := uniqueViolationField(err); field != "" {
			conflict := validation.New()
			if field == "email" {
				conflict.Add("email", msgEmailTaken)
			} else {
				conflict.Add("username", msgUsernameTaken)
			}
			return nil, "", conflict
		}
		return nil, "", fmt.Errorf("creating user: %w", err)
	}
	user.ID = newID

	token, err := s.tokens.GenerateToken(user)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// uniqueViolationField names the users column behind a unique violation, or "".
// The check-then-insert above can race with a concurrent signup.
func uniqueViolationField(err error) string {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return ""
	}
	if strings.Contains(pgErr.ConstraintName, "username") {
		return "username"
	}
	return "email"
}

func (s *authService) Login(ctx context.Context, input LoginInput) (*model.User, string, error) {
	if err := validation.Check(&input, loginMessages); err != nil {
		return nil, "", err
	}

	user, err := s.userRepo.FindByCredential(ctx, strings.TrimSpace(input.Credential))
	if err != nil {
		return nil, "", fmt.Errorf("finding user by credential: %w", err)
	}
	if user == nil {
		return nil, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(input.Password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(user)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// CurrentUser returns nil without error when the user no longer exists.
func (s *authService) CurrentUser(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("finding user: %w", err)
	}
	return user, nil
}
