package auth

import (
	"context"
	"errors"

	"github.com/sebuszqo/ExpenseTracker/internal/user"
)

var (
	ErrInvalidCredentials = errors.New("Invalid credentials")
	ErrMissingCredentials = errors.New("Please enter email and password")
	ErrInvalidEmail       = errors.New("Please enter valid email address")
)

type Service interface {
	Register(ctx context.Context, name, email, password string) (*user.User, string, error)
	Login(ctx context.Context, email, password string) (*user.User, string, error)
}

type service struct {
	userService user.Service
	jwtManager  JWTManagerInterface
}

func NewAuthService(userService user.Service, jwtManager JWTManagerInterface) Service {
	return &service{
		userService: userService,
		jwtManager:  jwtManager,
	}
}

// Register creates the account and signs the caller in straight away.
func (s *service) Register(ctx context.Context, name, email, password string) (*user.User, string, error) {
	newUser, err := s.userService.Register(ctx, name, email, password)
	if err != nil {
		return nil, "", err
	}

	token, err := s.jwtManager.GenerateAccessJWT(newUser.ID)
	if err != nil {
		return nil, "", err
	}
	return newUser, token, nil
}

// Login never tells an unknown email apart from a wrong password.
func (s *service) Login(ctx context.Context, email, password string) (*user.User, string, error) {
	email = user.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, "", ErrMissingCredentials
	}
	if err := user.ValidateEmailAddress(email); err != nil {
		return nil, "", ErrInvalidEmail
	}

	existingUser, err := s.userService.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	ok, err := s.userService.VerifyPassword(existingUser, password)
	if err != nil {
		return nil, "", err
	}
	if !ok {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.jwtManager.GenerateAccessJWT(existingUser.ID)
	if err != nil {
		return nil, "", err
	}
	return existingUser, token, nil
}
