package tokens

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_IssueAndVerify(t *testing.T) {
	t.Parallel()

	svc := NewService([]byte("test-secret"))

	token, exp, err := svc.Issue(Identity{ID: 42, Role: "admin"})
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	identity, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), identity.ID)
	assert.Equal(t, "admin", identity.Role)
}

func TestService_Issue_SetsRegisteredClaims(t *testing.T) {
	t.Parallel()

	svc := NewService([]byte("test-secret"))
	token, exp, err := svc.Issue(Identity{ID: 7, Role: "user"})
	require.NoError(t, err)

	var claims Claims
	_, err = jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)

	assert.Equal(t, "7", claims.Subject)
	assert.NotEmpty(t, claims.RegisteredClaims.ID)
	require.NotNil(t, claims.ExpiresAt)
	require.NotNil(t, claims.IssuedAt)
	assert.Equal(t, TTL, claims.ExpiresAt.Sub(claims.IssuedAt.Time))
	assert.WithinDuration(t, exp, claims.ExpiresAt.Time, time.Second)
}

func TestService_Verify_Expired(t *testing.T) {
	t.Parallel()

	svc := NewService([]byte("test-secret"))
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, _, err := svc.Issue(Identity{ID: 1, Role: "user"})
	require.NoError(t, err)

	svc.now = time.Now
	identity, err := svc.Verify(token)
	require.Error(t, err)
	assert.Nil(t, identity)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestService_Verify_WrongSecret(t *testing.T) {
	t.Parallel()

	token, _, err := NewService([]byte("secret1")).Issue(Identity{ID: 1, Role: "user"})
	require.NoError(t, err)

	_, err = NewService([]byte("secret2")).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestService_Verify_Rejects(t *testing.T) {
	t.Parallel()

	secret := []byte("test-secret")
	svc := NewService(secret)

	hs384, err := jwt.NewWithClaims(jwt.SigningMethodHS384, Claims{
		ID:   1,
		Role: "user",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(secret)
	require.NoError(t, err)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{ID: 1, Role: "user"}).SignedString(secret)
	require.NoError(t, err)

	noRole, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		ID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(secret)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "invalid.token.string"},
		{name: "empty", token: ""},
		{name: "other hmac algorithm", token: hs384},
		{name: "no expiry", token: noExp},
		{name: "no role", token: noRole},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			identity, err := svc.Verify(tt.token)
			require.Error(t, err)
			assert.Nil(t, identity)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
