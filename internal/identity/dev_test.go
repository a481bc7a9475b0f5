package identity

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDevServiceCreateAndLookup(t *testing.T) {
	svc := NewDevService(zerolog.Nop())
	ctx := context.Background()

	uid, err := svc.CreateAccount(ctx, "21cse045@mits.ac.in", "pw")
	require.NoError(t, err)
	require.NotEmpty(t, uid)

	found, err := svc.AccountIDByEmail(ctx, "21cse045@mits.ac.in")
	require.NoError(t, err)
	assert.Equal(t, uid, found)
}

func TestDevServiceUnknownEmail(t *testing.T) {
	svc := NewDevService(zerolog.Nop())

	uid, err := svc.AccountIDByEmail(context.Background(), "nobody@mits.ac.in")

	require.NoError(t, err)
	assert.Empty(t, uid)
}

func TestDevServiceDuplicateCreate(t *testing.T) {
	svc := NewDevService(zerolog.Nop())
	ctx := context.Background()

	_, err := svc.CreateAccount(ctx, "21cse045@mits.ac.in", "pw")
	require.NoError(t, err)

	_, err = svc.CreateAccount(ctx, "21cse045@mits.ac.in", "pw")
	assert.ErrorIs(t, err, ErrAccountExists)
}

func TestDevServicePasswordReset(t *testing.T) {
	svc := NewDevService(zerolog.Nop())

	err := svc.SendPasswordReset(context.Background(), "21cse045@mits.ac.in", "Asha Verma")

	assert.NoError(t, err)
}
