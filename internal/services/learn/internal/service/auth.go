package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/ParasPuneetSingh/IndianDuo/internal/pkg/serr"
	"github.com/ParasPuneetSingh/IndianDuo/internal/services/learn/internal/model"
	"github.com/ParasPuneetSingh/IndianDuo/internal/services/learn/internal/password"
	"github.com/ParasPuneetSingh/IndianDuo/internal/services/learn/internal/store"
	"github.com/ParasPuneetSingh/IndianDuo/internal/services/learn/internal/token"
)

const TokenType = "bearer"

// Token is an access token handed to a client after register or login
type Token struct {
	AccessToken string
	TokenType   string
}

// passwordHasher defines the interface for hashing and checking passwords
type passwordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) error
}

// tokenIssuer defines the interface for issuing and validating tokens
type tokenIssuer interface {
	Issue(subject string) (string, error)
	Validate(raw string) (token.Claims, error)
}

type authStore interface {
	CreateUser(ctx context.Context, u model.User) error
	GetUser(ctx context.Context, r store.GetUserRequest) (model.User, error)
	UserExists(ctx context.Context, r store.UserExistsRequest) (bool, error)
}

// Auth handles registration, login and bearer token authentication
type Auth struct {
	store  authStore
	hasher passwordHasher
	tokens tokenIssuer
	now    func() time.Time
}

// AuthOption defines a functional option for configuring the Auth service
type AuthOption func(*Auth) *Auth

func WithStore(st authStore) AuthOption {
	return func(s *Auth) *Auth {
		s.store = st
		return s
	}
}

func WithHasher(h passwordHasher) AuthOption {
	return func(s *Auth) *Auth {
		s.hasher = h
		return s
	}
}

func WithTokenIssuer(iss tokenIssuer) AuthOption {
	return func(s *Auth) *Auth {
		s.tokens = iss
		return s
	}
}

func WithClock(now func() time.Time) AuthOption {
	return func(s *Auth) *Auth {
		s.now = now
		return s
	}
}

// NewAuth creates a new Auth service with the provided options
func NewAuth(opts ...AuthOption) *Auth {
	s := &Auth{now: time.Now}
	for _, opt := range opts {
		s = opt(s)
	}

	if s.store == nil {
		panic("store is required")
	}

	if s.hasher == nil {
		panic("password hasher is required")
	}

	if s.tokens == nil {
		panic("token issuer is required")
	}

	return s
}

type RegisterRequest struct {
	Username         string
	Email            string
	Password         string
	NativeLanguage   string
	LearningLanguage string
}

// Register creates a user with default progress fields and returns a token for it.
// A taken username or email yields a 400 ServiceError.
func (s *Auth) Register(ctx context.Context, r RegisterRequest) (Token, error) {
	exists, err := s.store.UserExists(ctx, store.UserExistsRequest{
		Username: r.Username,
		Email:    r.Email,
	})
	if err != nil {
		return Token{}, fmt.Errorf("check user exists: %w", err)
	}
	if exists {
		return Token{}, s.alreadyRegistered(nil, r)
	}

	hash, err := s.hasher.Hash(r.Password)
	if err != nil {
		return Token{}, fmt.Errorf("hash password: %w", err)
	}

	u := model.User{
		ID:               uuid.NewString(),
		Username:         r.Username,
		Email:            r.Email,
		PasswordHash:     hash,
		NativeLanguage:   r.NativeLanguage,
		LearningLanguage: r.LearningLanguage,
		CreatedAt:        s.now().UTC(),
		Level:            model.DefaultLevel,
		Hearts:           model.DefaultHearts,
		Friends:          []string{},
		Achievements:     []string{},
	}

	if err := s.store.CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrExists) {
			return Token{}, s.alreadyRegistered(err, r)
		}

		return Token{}, fmt.Errorf("create user: %w", err)
	}

	return s.issue(u.Username)
}

func (s *Auth) alreadyRegistered(err error, r RegisterRequest) *serr.ServiceError {
	se := serr.NewServiceError(err, http.StatusBadRequest, msgAlreadyRegistered)
	se.Env["username"] = r.Username
	se.Env["email"] = r.Email
	return se
}

type LoginRequest struct {
	Username string
	Password string
}

// Login checks the credentials and returns a fresh token. An unknown user and a wrong
// password produce the same 401.
func (s *Auth) Login(ctx context.Context, r LoginRequest) (Token, error) {
	u, err := s.store.GetUser(ctx, store.GetUserRequest{Username: r.Username})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			se := unauthorized(err, msgBadCredentials)
			se.Env["username"] = r.Username
			return Token{}, se
		}

		return Token{}, fmt.Errorf("get user: %w", err)
	}

	if err := s.hasher.Verify(u.PasswordHash, r.Password); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			se := unauthorized(err, msgBadCredentials)
			se.Env["username"] = r.Username
			return Token{}, se
		}

		return Token{}, fmt.Errorf("verify password: %w", err)
	}

	return s.issue(u.Username)
}

// Authenticate resolves a bearer token to the user named by its subject
func (s *Auth) Authenticate(ctx context.Context, raw string) (model.User, error) {
	claims, err := s.tokens.Validate(raw)
	if err != nil {
		return model.User{}, unauthorized(err, msgInvalidCredentials)
	}

	u, err := s.store.GetUser(ctx, store.GetUserRequest{Username: claims.Subject})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			se := unauthorized(err, msgInvalidCredentials)
			se.Env["subject"] = claims.Subject
			return model.User{}, se
		}

		return model.User{}, fmt.Errorf("get user: %w", err)
	}

	return u, nil
}

func (s *Auth) issue(username string) (Token, error) {
	tok, err := s.tokens.Issue(username)
	if err != nil {
		return Token{}, fmt.Errorf("issue token: %w", err)
	}

	return Token{AccessToken: tok, TokenType: TokenType}, nil
}
