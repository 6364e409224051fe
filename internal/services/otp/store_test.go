package otp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insurex/internal/models"
)

func TestStore_IssueAndVerify(t *testing.T) {
	store := NewStore(DefaultTTL)

	code, err := store.Issue("user@example.com", "9876543210")
	require.NoError(t, err)
	assert.Len(t, code, 6)

	_, err = store.Verify("user@example.com", "9876543210", code)
	assert.NoError(t, err)

	// Codes are single-use.
	_, err = store.Verify("user@example.com", "9876543210", code)
	assert.ErrorIs(t, err, models.ErrOTPNotFound)
}

func TestStore_IssueRequiresContact(t *testing.T) {
	store := NewStore(DefaultTTL)

	_, err := store.Issue("", "9876543210")
	assert.ErrorIs(t, err, models.ErrMissingContact)

	_, err = store.Issue("user@example.com", "")
	assert.ErrorIs(t, err, models.ErrMissingContact)
}

func TestStore_CodeBoundToContactPair(t *testing.T) {
	store := NewStore(DefaultTTL)

	code, err := store.Issue("user@example.com", "9876543210")
	require.NoError(t, err)

	_, err = store.Verify("user@example.com", "1111111111", code)
	assert.ErrorIs(t, err, models.ErrOTPNotFound)
}

func TestStore_MismatchCountsAttempts(t *testing.T) {
	store := NewStore(DefaultTTL)

	code, err := store.Issue("user@example.com", "9876543210")
	require.NoError(t, err)

	left, err := store.Verify("user@example.com", "9876543210", "000000")
	assert.ErrorIs(t, err, models.ErrOTPMismatch)
	assert.Equal(t, 2, left)

	left, err = store.Verify("user@example.com", "9876543210", "000000")
	assert.ErrorIs(t, err, models.ErrOTPMismatch)
	assert.Equal(t, 1, left)

	left, err = store.Verify("user@example.com", "9876543210", "000000")
	assert.ErrorIs(t, err, models.ErrOTPMismatch)
	assert.Equal(t, 0, left)

	// Fourth try hits the attempt ceiling even with the right code.
	_, err = store.Verify("user@example.com", "9876543210", code)
	assert.ErrorIs(t, err, models.ErrOTPTooManyAttempts)

	// The record is gone after that.
	_, err = store.Verify("user@example.com", "9876543210", code)
	assert.ErrorIs(t, err, models.ErrOTPNotFound)
}

func TestStore_Expiry(t *testing.T) {
	store := NewStore(DefaultTTL)

	now := time.Now()
	store.now = func() time.Time { return now }

	code, err := store.Issue("user@example.com", "9876543210")
	require.NoError(t, err)

	store.now = func() time.Time { return now.Add(DefaultTTL + time.Second) }

	_, err = store.Verify("user@example.com", "9876543210", code)
	assert.ErrorIs(t, err, models.ErrOTPExpired)

	// Expired records are deleted on first touch.
	_, err = store.Verify("user@example.com", "9876543210", code)
	assert.ErrorIs(t, err, models.ErrOTPNotFound)
}

func TestStore_ReissueReplacesCode(t *testing.T) {
	store := NewStore(DefaultTTL)

	first, err := store.Issue("user@example.com", "9876543210")
	require.NoError(t, err)
	second, err := store.Issue("user@example.com", "9876543210")
	require.NoError(t, err)

	if first != second {
		_, err = store.Verify("user@example.com", "9876543210", first)
		assert.ErrorIs(t, err, models.ErrOTPMismatch)
	}

	_, err = store.Verify("user@example.com", "9876543210", second)
	assert.NoError(t, err)
}

func TestStore_Sweep(t *testing.T) {
	store := NewStore(DefaultTTL)

	now := time.Now()
	store.now = func() time.Time { return now }

	_, err := store.Issue("a@example.com", "1111111111")
	require.NoError(t, err)
	_, err = store.Issue("b@example.com", "2222222222")
	require.NoError(t, err)

	assert.Equal(t, 0, store.Sweep())

	store.now = func() time.Time { return now.Add(DefaultTTL + time.Second) }
	assert.Equal(t, 2, store.Sweep())
	assert.Equal(t, 0, store.Sweep())
}
