package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dpereira/go-product-api/config"
	"github.com/dpereira/go-product-api/internal/types"
)

var _ AuthService = (*AuthServiceImpl)(nil)

// AuthService defines the business logic contract for authentication and
// ownership authorization.
type AuthService interface {
	// Register creates a new user after enforcing username/email uniqueness.
	// A record colliding on username wins priority over an email collision.
	Register(ctx context.Context, req RegisterRequest) (*types.User, error)

	// Authenticate verifies a username/password pair. Unknown usernames and
	// wrong passwords both collapse to types.ErrUnauthenticated so callers
	// cannot distinguish the two.
	Authenticate(ctx context.Context, username, password string) (*types.User, error)

	// IssueToken mints an access token for the given user id using the
	// configured default lifetime.
	IssueToken(userID string) (string, error)

	// ResolveIdentity validates a bearer token and resolves its subject to a
	// live user record. Every failure mode collapses to
	// types.ErrUnauthenticated.
	ResolveIdentity(ctx context.Context, tokenString string) (*types.User, error)

	// AuthorizeOwner checks that the authenticated identity owns the
	// resource. Returns types.ErrForbidden otherwise.
	AuthorizeOwner(identity *types.User, resourceOwnerID string) error
}

// AuthServiceImpl provides the implementation for AuthService.
type AuthServiceImpl struct {
	logger    *slog.Logger
	repo      AuthRepo
	codec     *TokenCodec
	accessTTL time.Duration
}

// NewAuthService creates a new auth service instance.
func NewAuthService(repo AuthRepo, cfg *config.Config, logger *slog.Logger) *AuthServiceImpl {
	return &AuthServiceImpl{
		logger:    logger,
		repo:      repo,
		codec:     NewTokenCodec(cfg.JWT),
		accessTTL: cfg.JWT.AccessTokenTTL,
	}
}

func (s *AuthServiceImpl) Register(ctx context.Context, req RegisterRequest) (*types.User, error) {
	l := s.logger.With(slog.String("method", "Register"), slog.String("username", req.Username))

	// Fast-path uniqueness check. Not atomic with the insert; the unique
	// constraints on the users table are the real guarantee and the repo maps
	// their violations to the same errors.
	existing, err := s.repo.FindUserByUsernameOrEmail(ctx, req.Username, req.Email)
	if err != nil && !errors.Is(err, types.ErrNotFound) {
		l.ErrorContext(ctx, "Uniqueness lookup failed", slog.Any("error", err))
		return nil, fmt.Errorf("error checking existing user: %w", err)
	}
	if existing != nil {
		if existing.Username == req.Username {
			return nil, types.ErrUsernameTaken
		}
		return nil, types.ErrEmailTaken
	}

	hashed, err := HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	now := time.Now().UTC()
	user := &types.User{
		ID:           uuid.New().String(),
		Username:     req.Username,
		Email:        req.Email,
		FullName:     req.FullName,
		PasswordHash: hashed,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.InsertUser(ctx, user); err != nil {
		if errors.Is(err, types.ErrUsernameTaken) || errors.Is(err, types.ErrEmailTaken) {
			return nil, err
		}
		l.ErrorContext(ctx, "Failed to insert user", slog.Any("error", err))
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	l.InfoContext(ctx, "User registered", slog.String("userID", user.ID))
	return user, nil
}

func (s *AuthServiceImpl) Authenticate(ctx context.Context, username, password string) (*types.User, error) {
	user, err := s.repo.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return nil, types.ErrUnauthenticated
		}
		return nil, fmt.Errorf("error fetching user: %w", err)
	}

	if !VerifyPassword(password, user.PasswordHash) {
		return nil, types.ErrUnauthenticated
	}

	return user, nil
}

func (s *AuthServiceImpl) IssueToken(userID string) (string, error) {
	return s.codec.Issue(userID, s.accessTTL)
}

func (s *AuthServiceImpl) ResolveIdentity(ctx context.Context, tokenString string) (*types.User, error) {
	l := s.logger.With(slog.String("method", "ResolveIdentity"))

	subject, err := s.codec.Verify(tokenString)
	if err != nil {
		// Expired vs invalid is deliberately not surfaced to callers.
		l.DebugContext(ctx, "Token verification failed", slog.Any("error", err))
		return nil, types.ErrUnauthenticated
	}

	userID, err := uuid.Parse(subject)
	if err != nil {
		l.DebugContext(ctx, "Token subject is not a valid user id", slog.String("subject", subject))
		return nil, types.ErrUnauthenticated
	}

	user, err := s.repo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return nil, types.ErrUnauthenticated
		}
		return nil, fmt.Errorf("error fetching user: %w", err)
	}

	return user, nil
}

func (s *AuthServiceImpl) AuthorizeOwner(identity *types.User, resourceOwnerID string) error {
	if identity == nil || identity.ID != resourceOwnerID {
		return types.ErrForbidden
	}
	return nil
}
