package security

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken(42)
	require.NoError(t, err)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	require.Equal(t, uint64(42), claims.UserID)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	_, err := ValidateToken("not.a.token")
	require.Error(t, err)

	_, err = ValidateToken("")
	require.Error(t, err)
}

func TestDecodeUnverified(t *testing.T) {
	token, err := GenerateToken(7)
	require.NoError(t, err)

	claims, err := DecodeUnverified(token)
	require.NoError(t, err)
	require.Equal(t, uint64(7), claims.UserID)
}

func TestExtractSignature(t *testing.T) {
	token, err := GenerateToken(1)
	require.NoError(t, err)

	sig, err := ExtractSignature(token)
	require.NoError(t, err)
	require.NotEmpty(t, sig)

	_, err = ExtractSignature("malformed")
	require.Error(t, err)
}
