package tokens

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	svc, err := NewService([]byte("test-jwt-secret"), "HS256", 30*time.Minute, 7*24*time.Hour)
	require.NoError(t, err)
	return svc
}

// tamper flips the last character of the signature segment.
func tamper(t *testing.T, token string) string {
	t.Helper()

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	sig := parts[2]
	last := sig[len(sig)-1]
	replacement := byte('A')
	if last == 'A' {
		replacement = 'B'
	}
	parts[2] = sig[:len(sig)-1] + string(replacement)
	return strings.Join(parts, ".")
}

func TestNewService_RejectsBadConfig(t *testing.T) {
	t.Parallel()

	_, err := NewService([]byte("secret"), "HS256", time.Minute, time.Hour)
	require.NoError(t, err)

	_, err = NewService([]byte("secret"), "ES999", time.Minute, time.Hour)
	require.Error(t, err)

	_, err = NewService([]byte("secret"), "RS256", time.Minute, time.Hour)
	require.Error(t, err)

	_, err = NewService(nil, "HS256", time.Minute, time.Hour)
	require.Error(t, err)
}

func TestIssueAccess_VerifyRoundTrip(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	token, err := svc.IssueAccess("42", "alice@example.com", "Alice")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Verify(token, TypeAccess)
	require.NoError(t, err)

	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "Alice", claims.DisplayName)
	assert.Equal(t, TypeAccess, claims.TokenType)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), claims.ExpiresAt.Time, 5*time.Second)
	require.NotNil(t, claims.IssuedAt)
	assert.WithinDuration(t, time.Now(), claims.IssuedAt.Time, 5*time.Second)
}

func TestIssueRefresh_OmitsProfileClaims(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	token, err := svc.IssueRefresh("42")
	require.NoError(t, err)

	claims, err := svc.Verify(token, TypeRefresh)
	require.NoError(t, err)

	assert.Equal(t, "42", claims.Subject)
	assert.Empty(t, claims.Email)
	assert.Empty(t, claims.DisplayName)
	assert.Equal(t, TypeRefresh, claims.TokenType)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestVerify_TokenTypeMismatch(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)

	access, err := svc.IssueAccess("42", "", "")
	require.NoError(t, err)
	refresh, err := svc.IssueRefresh("42")
	require.NoError(t, err)

	_, err = svc.Verify(access, TypeRefresh)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = svc.Verify(refresh, TypeAccess)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerify_ExpiredToken(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	expired, err := svc.IssueAccessTTL("42", "alice@example.com", "", -time.Minute)
	require.NoError(t, err)

	_, err = svc.Verify(expired, TypeAccess)
	assert.ErrorIs(t, err, ErrTokenExpired)

	// Expired with the wrong expected type is plain invalid.
	_, err = svc.Verify(expired, TypeRefresh)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	// The unverified decode path still reads the claims.
	claims, err := svc.DecodeUnverified(expired)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, "alice@example.com", claims.Email)
}

func TestVerify_TamperedSignature(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	token, err := svc.IssueAccess("42", "", "")
	require.NoError(t, err)

	bad := tamper(t, token)

	_, err = svc.Verify(bad, TypeAccess)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = svc.DecodeUnverified(bad)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	other, err := NewService([]byte("another-secret"), "HS256", time.Minute, time.Hour)
	require.NoError(t, err)

	token, err := svc.IssueAccess("42", "", "")
	require.NoError(t, err)

	_, err = other.Verify(token, TypeAccess)
	assert.ErrorIs(t, err, ErrTokenInvalid)
	_, err = other.DecodeUnverified(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestExpiry(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	token, err := svc.IssueAccess("42", "", "")
	require.NoError(t, err)

	exp, ok := svc.Expiry(token)
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), exp, 5*time.Second)

	_, ok = svc.Expiry("garbage")
	assert.False(t, ok)
}

func TestIsExpired(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)

	valid, err := svc.IssueAccess("42", "", "")
	require.NoError(t, err)
	assert.False(t, svc.IsExpired(valid))

	expired, err := svc.IssueAccessTTL("42", "", "", -time.Minute)
	require.NoError(t, err)
	assert.True(t, svc.IsExpired(expired))

	// Fail-closed on anything undecodable.
	assert.True(t, svc.IsExpired("not-a-token"))
	assert.True(t, svc.IsExpired(""))
	assert.True(t, svc.IsExpired(tamper(t, valid)))
}
