package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/midburn/spark-admin/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testKey = "spark-test-key"

func newTestValidator() *Validator {
	return NewValidator(Config{Key: testKey, Issuer: "spark", Leeway: time.Second})
}

func sign(v *Validator, claims *Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.key)
}

func validClaims(userID int) *Claims {
	now := time.Now()
	return &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "spark",
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID:         userID,
		Email:          "dana@example.com",
		CurrentEventID: "MIDBURN2019",
	}
}

func TestValidator_ValidateToken(t *testing.T) {
	v := newTestValidator()

	t.Run("valid token", func(t *testing.T) {
		token, err := sign(v, validClaims(42))
		require.NoError(t, err)

		claims, err := v.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, 42, claims.UserID)
		assert.Equal(t, "MIDBURN2019", claims.CurrentEventID)
	})

	tests := []struct {
		name    string
		token   func(t *testing.T) string
		wantErr error
	}{
		{
			name:    "empty",
			token:   func(t *testing.T) string { return "" },
			wantErr: ErrInvalidToken,
		},
		{
			name:    "garbage",
			token:   func(t *testing.T) string { return "not.a.jwt" },
			wantErr: ErrInvalidToken,
		},
		{
			name: "expired",
			token: func(t *testing.T) string {
				c := validClaims(42)
				c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
				s, err := sign(v, c)
				require.NoError(t, err)
				return s
			},
			wantErr: ErrTokenExpired,
		},
		{
			name: "wrong issuer",
			token: func(t *testing.T) string {
				c := validClaims(42)
				c.Issuer = "elsewhere"
				s, err := sign(v, c)
				require.NoError(t, err)
				return s
			},
			wantErr: ErrInvalidIssuer,
		},
		{
			name: "wrong key",
			token: func(t *testing.T) string {
				s, err := sign(NewValidator(Config{Key: "other"}), validClaims(42))
				require.NoError(t, err)
				return s
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "missing user",
			token: func(t *testing.T) string {
				s, err := sign(v, validClaims(0))
				require.NoError(t, err)
				return s
			},
			wantErr: ErrMissingClaim,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := v.ValidateToken(tt.token(t))
			assert.Nil(t, claims)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidator_NoIssuerConfigured(t *testing.T) {
	v := NewValidator(Config{Key: testKey})
	c := validClaims(7)
	c.Issuer = "anything"
	token, err := sign(v, c)
	require.NoError(t, err)

	claims, err := v.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, 7, claims.UserID)
}

type MockUsersRepository struct {
	mock.Mock
}

func (m *MockUsersRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUsersRepository) GetUserNameByID(ctx context.Context, id int) (*models.UserName, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserName), args.Error(1)
}

func TestProvider_Authenticate(t *testing.T) {
	v := newTestValidator()
	token, err := sign(v, validClaims(42))
	require.NoError(t, err)

	t.Run("resolves the user", func(t *testing.T) {
		users := new(MockUsersRepository)
		users.On("GetByID", mock.Anything, 42).Return(&models.User{ID: 42, FirstName: "Dana"}, nil)

		details, err := NewProvider(v, users, zap.NewNop()).Authenticate(context.Background(), token)
		require.NoError(t, err)
		assert.Equal(t, 42, details.LoggedUser.ID)
		assert.Equal(t, "MIDBURN2019", details.CurrentEventID)
		users.AssertExpectations(t)
	})

	t.Run("invalid token skips the lookup", func(t *testing.T) {
		users := new(MockUsersRepository)

		details, err := NewProvider(v, users, zap.NewNop()).Authenticate(context.Background(), "bad")
		assert.Nil(t, details)
		assert.ErrorIs(t, err, ErrInvalidToken)
		users.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("unknown user", func(t *testing.T) {
		users := new(MockUsersRepository)
		users.On("GetByID", mock.Anything, 42).Return(nil, errors.New("user not found"))

		details, err := NewProvider(v, users, zap.NewNop()).Authenticate(context.Background(), token)
		assert.Nil(t, details)
		assert.ErrorContains(t, err, "user not found")
	})
}
