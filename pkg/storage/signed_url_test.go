package storage

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSignedURLSignerGenerateAndParse(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Hour)
	token, expiresAt, err := signer.Generate("a1b2c3", "Computing/report-MITAD-2020-10-01-a1b2c3.pdf")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.False(t, expiresAt.IsZero())

	reportID, path, parsedExpiry, err := signer.Parse(token, false)
	require.NoError(t, err)
	require.Equal(t, "a1b2c3", reportID)
	require.Equal(t, "Computing/report-MITAD-2020-10-01-a1b2c3.pdf", path)
	require.WithinDuration(t, expiresAt, parsedExpiry, time.Second)
}

func TestSignedURLSignerExpired(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Hour)
	now := time.Now()
	signer.now = func() time.Time { return now }
	token, _, err := signer.Generate("a1b2c3", "Computing/file.pdf")
	require.NoError(t, err)

	signer.now = func() time.Time { return now.Add(2 * time.Hour) }
	_, _, _, err = signer.Parse(token, false)
	require.ErrorIs(t, err, ErrTokenExpired)

	reportID, path, _, err := signer.Parse(token, true)
	require.NoError(t, err)
	require.Equal(t, "a1b2c3", reportID)
	require.Equal(t, "Computing/file.pdf", path)
}

func TestSignedURLSignerRejectsTampering(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Hour)
	token, _, err := signer.Generate("a1b2c3", "Computing/file.pdf")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	parts[0] = "other"
	_, _, _, err = signer.Parse(strings.Join(parts, "."), false)
	require.ErrorIs(t, err, ErrTokenInvalid)

	_, _, _, err = NewSignedURLSigner("different", time.Hour).Parse(token, false)
	require.ErrorIs(t, err, ErrTokenInvalid)

	_, _, _, err = signer.Parse("garbage", false)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestSignedURLSignerRequiresSecret(t *testing.T) {
	_, _, err := NewSignedURLSigner("", time.Hour).Generate("id", "a/b")
	require.Error(t, err)
}
