package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"foodorder/entity"
	"foodorder/pkg/apperr"
	"foodorder/utils"

	"golang.org/x/crypto/bcrypt"
)

// AuthService handles register/login and token issuing.
type AuthService struct {
	userRepo  UserRepository
	jwtSecret string
	jwtTTL    time.Duration
}

func NewAuthService(repo UserRepository, secret string, ttl time.Duration) *AuthService {
	return &AuthService{
		userRepo:  repo,
		jwtSecret: secret,
		jwtTTL:    ttl,
	}
}

const minPasswordLen = 6

// Register creates a customer account and returns it with a fresh token.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*entity.User, string, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	if name == "" || email == "" || password == "" {
		return nil, "", fmt.Errorf("please provide name, email, and password: %w", apperr.ErrInvalidRequest)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, "", fmt.Errorf("invalid email address: %w", apperr.ErrInvalidRequest)
	}
	if len(password) < minPasswordLen {
		return nil, "", fmt.Errorf("password must be at least %d characters: %w", minPasswordLen, apperr.ErrInvalidRequest)
	}

	count, err := s.userRepo.CountByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if count > 0 {
		return nil, "", fmt.Errorf("user already exists: %w", apperr.ErrConflict)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &entity.User{
		Name:     name,
		Email:    email,
		Password: string(hashed),
		Role:     entity.RoleCustomer,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.issue(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login checks the password and returns a token for the user.
func (s *AuthService) Login(ctx context.Context, email, password string) (*entity.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, "", fmt.Errorf("please provide email and password: %w", apperr.ErrInvalidRequest)
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, "", fmt.Errorf("invalid email or password: %w", apperr.ErrUnauthenticated)
		}
		return nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", fmt.Errorf("invalid email or password: %w", apperr.ErrUnauthenticated)
	}

	token, err := s.issue(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Authenticate resolves a bearer token to a live user.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*entity.User, error) {
	claims, err := utils.ParseToken(token, s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", apperr.ErrUnauthenticated)
	}
	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, fmt.Errorf("unauthorized access: %w", apperr.ErrUnauthenticated)
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, fmt.Errorf("user not found: %w", apperr.ErrNotFound)
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) issue(user *entity.User) (string, error) {
	token, err := utils.GenerateToken(user.ID, user.Role, s.jwtSecret, s.jwtTTL)
	if err != nil {
		return "", fmt.Errorf("cannot generate token: %w", err)
	}
	return token, nil
}
