package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("account-42", "provider", time.Hour)
	require.NoError(t, err)

	id, err := ExtractIDFromToken(token)
	require.NoError(t, err)
	assert.Equal(t, "account-42", id)
}

func TestExpiredTokenIsRejected(t *testing.T) {
	token, err := GenerateToken("account-42", "user", -time.Minute)
	require.NoError(t, err)

	_, err = ExtractIDFromToken(token)
	assert.Error(t, err)
}

func TestTamperedTokenIsRejected(t *testing.T) {
	token, err := GenerateToken("account-42", "user", time.Hour)
	require.NoError(t, err)
	other, err := GenerateToken("account-1", "admin", time.Hour)
	require.NoError(t, err)

	// Splice the other token's claims under the original signature.
	parts := strings.Split(token, ".")
	parts[1] = strings.Split(other, ".")[1]
	_, err = ExtractIDFromToken(strings.Join(parts, "."))
	assert.Error(t, err)
}
