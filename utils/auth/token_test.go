package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerifyToken(t *testing.T) {
	token, err := IssueToken("secret", "etl-worker", time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	subject, err := VerifyToken("secret", token)
	require.NoError(t, err)
	assert.Equal(t, "etl-worker", subject)
}

func TestVerifyToken_WrongSecret(t *testing.T) {
	token, err := IssueToken("secret", "etl-worker", time.Minute)
	require.NoError(t, err)

	_, err = VerifyToken("other-secret", token)
	assert.Error(t, err)
}

func TestVerifyToken_Expired(t *testing.T) {
	token, err := IssueToken("secret", "etl-worker", -time.Minute)
	require.NoError(t, err)

	_, err = VerifyToken("secret", token)
	assert.Error(t, err)
}

func TestVerifyToken_Garbage(t *testing.T) {
	_, err := VerifyToken("secret", "not.a.token")
	assert.Error(t, err)
}
