package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	tok, err := Issue("test-secret", 42, "OWNER", 7*24*time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	claims, err := Parse(tok, "test-secret")
	require.NoError(t, err)
	require.Equal(t, float64(42), claims["sub"])
	require.Equal(t, "OWNER", claims["role"])
}

func TestParseWrongSecret(t *testing.T) {
	tok, err := Issue("test-secret", 1, "ADMIN", time.Hour)
	require.NoError(t, err)

	_, err = Parse(tok, "other-secret")
	require.Error(t, err)
}

func TestParseExpired(t *testing.T) {
	tok, err := Issue("test-secret", 1, "RENTER", -time.Minute)
	require.NoError(t, err)

	_, err = Parse(tok, "test-secret")
	require.Error(t, err)
}
