package auth

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dpereira/go-product-api/config"
	"github.com/dpereira/go-product-api/internal/types"
)

// MockAuthRepo is a mock implementation of the AuthRepo interface
type MockAuthRepo struct {
	mock.Mock
}

func (m *MockAuthRepo) FindUserByUsernameOrEmail(ctx context.Context, username, email string) (*types.User, error) {
	args := m.Called(ctx, username, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.User), args.Error(1)
}

func (m *MockAuthRepo) FindUserByUsername(ctx context.Context, username string) (*types.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.User), args.Error(1)
}

func (m *MockAuthRepo) FindUserByID(ctx context.Context, id uuid.UUID) (*types.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.User), args.Error(1)
}

func (m *MockAuthRepo) InsertUser(ctx context.Context, user *types.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.JWT = config.JWTConfig{
		SecretKey:      "test-access-secret",
		AccessTokenTTL: 15 * time.Minute,
		Issuer:         "test-issuer",
	}
	return cfg
}

func TestRegister(t *testing.T) {
	logger := slog.Default()

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockAuthRepo)
		service := NewAuthService(mockRepo, testConfig(), logger)
		ctx := context.Background()

		mockRepo.On("FindUserByUsernameOrEmail", ctx, "alice", "a@x.com").
			Return(nil, types.ErrNotFound).Once()
		mockRepo.On("InsertUser", ctx, mock.AnythingOfType("*types.User")).
			Return(nil).Once()

		user, err := service.Register(ctx, RegisterRequest{
			Username: "alice",
			Email:    "a@x.com",
			FullName: "Alice Doe",
			Password: "securepassword",
		})

		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
		assert.True(t, user.IsActive)
		assert.NotEmpty(t, user.ID)
		_, parseErr := uuid.Parse(user.ID)
		assert.NoError(t, parseErr)
		// The stored credential is a hash, never the plaintext.
		assert.NotEqual(t, "securepassword", user.PasswordHash)
		assert.True(t, VerifyPassword("securepassword", user.PasswordHash))
		assert.Equal(t, user.CreatedAt, user.UpdatedAt)
		mockRepo.AssertExpectations(t)
	})

	t.Run("UsernameTaken", func(t *testing.T) {
		mockRepo := new(MockAuthRepo)
		service := NewAuthService(mockRepo, testConfig(), logger)
		ctx := context.Background()

		existing := &types.User{ID: "u1", Username: "alice", Email: "a@x.com"}
		mockRepo.On("FindUserByUsernameOrEmail", ctx, "alice", "b@x.com").
			Return(existing, nil).Once()

		_, err := service.Register(ctx, RegisterRequest{
			Username: "alice", Email: "b@x.com", FullName: "Other Alice", Password: "pw123",
		})

		assert.ErrorIs(t, err, types.ErrUsernameTaken)
		mockRepo.AssertExpectations(t)
	})

	t.Run("EmailTaken", func(t *testing.T) {
		mockRepo := new(MockAuthRepo)
		service := NewAuthService(mockRepo, testConfig(), logger)
		ctx := context.Background()

		existing := &types.User{ID: "u1", Username: "alice", Email: "a@x.com"}
		mockRepo.On("FindUserByUsernameOrEmail", ctx, "bob", "a@x.com").
			Return(existing, nil).Once()

		_, err := service.Register(ctx, RegisterRequest{
			Username: "bob", Email: "a@x.com", FullName: "Bob Doe", Password: "pw123",
		})

		assert.ErrorIs(t, err, types.ErrEmailTaken)
		mockRepo.AssertExpectations(t)
	})

	t.Run("UsernameTakesPriorityOverEmail", func(t *testing.T) {
		mockRepo := new(MockAuthRepo)
		service := NewAuthService(mockRepo, testConfig(), logger)
		ctx := context.Background()

		// The same existing record collides on both fields.
		existing := &types.User{ID: "u1", Username: "alice", Email: "a@x.com"}
		mockRepo.On("FindUserByUsernameOrEmail", ctx, "alice", "a@x.com").
			Return(existing, nil).Once()

		_, err := service.Register(ctx, RegisterRequest{
			Username: "alice", Email: "a@x.com", FullName: "Alice Doe", Password: "pw123",
		})

		assert.ErrorIs(t, err, types.ErrUsernameTaken)
		mockRepo.AssertExpectations(t)
	})

	t.Run("ConstraintViolationFromInsert", func(t *testing.T) {
		// A concurrent registration can slip past the fast-path check; the
		// repo surfaces the unique-constraint violation instead.
		mockRepo := new(MockAuthRepo)
		service := NewAuthService(mockRepo, testConfig(), logger)
		ctx := context.Background()

		mockRepo.On("FindUserByUsernameOrEmail", ctx, "alice", "a@x.com").
			Return(nil, types.ErrNotFound).Once()
		mockRepo.On("InsertUser", ctx, mock.AnythingOfType("*types.User")).
			Return(types.ErrUsernameTaken).Once()

		_, err := service.Register(ctx, RegisterRequest{
			Username: "alice", Email: "a@x.com", FullName: "Alice Doe", Password: "pw123",
		})

		assert.ErrorIs(t, err, types.ErrUsernameTaken)
		mockRepo.AssertExpectations(t)
	})

	t.Run("StoreFailure", func(t *testing.T) {
		mockRepo := new(MockAuthRepo)
		service := NewAuthService(mockRepo, testConfig(), logger)
		ctx := context.Background()

		mockRepo.On("FindUserByUsernameOrEmail", ctx, "alice", "a@x.com").
			Return(nil, errors.New("connection refused")).Once()

		_, err := service.Register(ctx, RegisterRequest{
			Username: "alice", Email: "a@x.com", FullName: "Alice Doe", Password: "pw123",
		})

		// Infrastructure failures are not auth-decision errors.
		assert.Error(t, err)
		assert.NotErrorIs(t, err, types.ErrUsernameTaken)
		assert.NotErrorIs(t, err, types.ErrEmailTaken)
		mockRepo.AssertExpectations(t)
	})
}

func TestAuthenticate(t *testing.T) {
	logger := slog.Default()

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockAuthRepo)
		service := NewAuthService(mockRepo, testConfig(), logger)
		ctx := context.Background()

		hash, _ := HashPassword("securepassword")
		user := &types.User{ID: "u1", Username: "alice", PasswordHash: hash}
		mockRepo.On("FindUserByUsername", ctx, "alice").Return(user, nil).Once()

		got, err := service.Authenticate(ctx, "alice", "securepassword")
		require.NoError(t, err)
		assert.Equal(t, "u1", got.ID)
		mockRepo.AssertExpectations(t)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		mockRepo := new(MockAuthRepo)
		service := NewAuthService(mockRepo, testConfig(), logger)
		ctx := context.Background()

		hash, _ := HashPassword("securepassword")
		user := &types.User{ID: "u1", Username: "alice", PasswordHash: hash}
		mockRepo.On("FindUserByUsername", ctx, "alice").Return(user, nil).Once()

		_, err := service.Authenticate(ctx, "alice", "wrongpass")
		assert.ErrorIs(t, err, types.ErrUnauthenticated)
		mockRepo.AssertExpectations(t)
	})

	t.Run("UnknownUsername", func(t *testing.T) {
		mockRepo := new(MockAuthRepo)
		service := NewAuthService(mockRepo, testConfig(), logger)
		ctx := context.Background()

		mockRepo.On("FindUserByUsername", ctx, "nobody").Return(nil, types.ErrNotFound).Once()

		_, err := service.Authenticate(ctx, "nobody", "anything")
		// Indistinguishable from a wrong password.
		assert.ErrorIs(t, err, types.ErrUnauthenticated)
		mockRepo.AssertExpectations(t)
	})
}

func TestResolveIdentity(t *testing.T) {
	logger := slog.Default()

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockAuthRepo)
		service := NewAuthService(mockRepo, testConfig(), logger)
		ctx := context.Background()

		userID := uuid.New()
		user := &types.User{ID: userID.String(), Username: "alice"}

		token, err := service.IssueToken(userID.String())
		require.NoError(t, err)

		mockRepo.On("FindUserByID", ctx, userID).Return(user, nil).Once()

		got, err := service.ResolveIdentity(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, userID.String(), got.ID)
		mockRepo.AssertExpectations(t)
	})

	t.Run("TamperedToken", func(t *testing.T) {
		mockRepo := new(MockAuthRepo)
		service := NewAuthService(mockRepo, testConfig(), logger)
		ctx := context.Background()

		token, err := service.IssueToken(uuid.New().String())
		require.NoError(t, err)

		_, err = service.ResolveIdentity(ctx, token+"x")
		assert.ErrorIs(t, err, types.ErrUnauthenticated)
		// No record-store round trip for a bad token.
		mockRepo.AssertNotCalled(t, "FindUserByID")
	})

	t.Run("NonUUIDSubject", func(t *testing.T) {
		mockRepo := new(MockAuthRepo)
		service := NewAuthService(mockRepo, testConfig(), logger)
		ctx := context.Background()

		token, err := service.IssueToken("not-a-uuid")
		require.NoError(t, err)

		_, err = service.ResolveIdentity(ctx, token)
		assert.ErrorIs(t, err, types.ErrUnauthenticated)
		mockRepo.AssertNotCalled(t, "FindUserByID")
	})

	t.Run("SubjectNoLongerExists", func(t *testing.T) {
		mockRepo := new(MockAuthRepo)
		service := NewAuthService(mockRepo, testConfig(), logger)
		ctx := context.Background()

		userID := uuid.New()
		token, err := service.IssueToken(userID.String())
		require.NoError(t, err)

		mockRepo.On("FindUserByID", ctx, userID).Return(nil, types.ErrNotFound).Once()

		_, err = service.ResolveIdentity(ctx, token)
		assert.ErrorIs(t, err, types.ErrUnauthenticated)
		mockRepo.AssertExpectations(t)
	})
}

func TestAuthorizeOwner(t *testing.T) {
	service := NewAuthService(new(MockAuthRepo), testConfig(), slog.Default())

	t.Run("OwnerAllowed", func(t *testing.T) {
		err := service.AuthorizeOwner(&types.User{ID: "u1"}, "u1")
		assert.NoError(t, err)
	})

	t.Run("NonOwnerForbidden", func(t *testing.T) {
		err := service.AuthorizeOwner(&types.User{ID: "u1"}, "u2")
		assert.ErrorIs(t, err, types.ErrForbidden)
	})

	t.Run("NilIdentityForbidden", func(t *testing.T) {
		err := service.AuthorizeOwner(nil, "u1")
		assert.ErrorIs(t, err, types.ErrForbidden)
	})
}
