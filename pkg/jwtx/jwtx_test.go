package jwtx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestSigner() *Signer {
	return &Signer{
		Secret: []byte("test-secret-at-least-32-bytes-long"),
		Issuer: "squadcap-test",
	}
}

func TestSignAndVerify(t *testing.T) {
	t.Parallel()

	s := newTestSigner()
	token, err := s.Sign("01ARZ3NDEKTSV4RRFFQ69G5FAV", "admin")
	require.NoError(t, err)

	claims, err := s.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "01ARZ3NDEKTSV4RRFFQ69G5FAV", claims.Subject)
	require.Equal(t, "admin", claims.Role)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	t.Parallel()

	s := newTestSigner()
	token, err := s.Sign("user-1", "member")
	require.NoError(t, err)

	other := &Signer{Secret: []byte("a-completely-different-hmac-secret"), Issuer: s.Issuer}
	_, err = other.Verify(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsWrongIssuer(t *testing.T) {
	t.Parallel()

	s := newTestSigner()
	token, err := s.Sign("user-1", "member")
	require.NoError(t, err)

	other := &Signer{Secret: s.Secret, Issuer: "someone-else"}
	_, err = other.Verify(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsExpired(t *testing.T) {
	t.Parallel()

	s := newTestSigner()
	s.TTL = -time.Minute
	token, err := s.Sign("user-1", "member")
	require.NoError(t, err)

	_, err = s.Verify(token)
	require.ErrorIs(t, err, ErrExpiredToken)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	t.Parallel()

	_, err := newTestSigner().Verify("not.a.token")
	require.ErrorIs(t, err, ErrInvalidToken)
}
