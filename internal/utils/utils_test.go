package utils

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePasswordStrength(t *testing.T) {
	assert.ErrorIs(t, ValidatePasswordStrength("a1"), ErrPasswordTooShort)
	assert.ErrorIs(t, ValidatePasswordStrength("abcdefghij"), ErrPasswordNoDigit)
	assert.ErrorIs(t, ValidatePasswordStrength("1234567890"), ErrPasswordNoLetter)
	assert.NoError(t, ValidatePasswordStrength("bookworm42"))
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("bookworm42")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "bookworm42"))
	assert.False(t, CheckPassword(hash, "bookworm43"))
}

func TestUniqueSlug(t *testing.T) {
	used := map[string]bool{"science-fiction": true, "science-fiction-2": true}
	taken := func(_ context.Context, s string) (bool, error) { return used[s], nil }

	s, err := UniqueSlug(context.Background(), "Science Fiction", taken)
	require.NoError(t, err)
	assert.Equal(t, "science-fiction-3", s)

	s, err = UniqueSlug(context.Background(), "Cooking", taken)
	require.NoError(t, err)
	assert.Equal(t, "cooking", s)

	s, err = UniqueSlug(context.Background(), "!!!", taken)
	require.NoError(t, err)
	assert.Equal(t, "item", s)

	boom := errors.New("boom")
	_, err = UniqueSlug(context.Background(), "x", func(context.Context, string) (bool, error) { return false, boom })
	assert.ErrorIs(t, err, boom)
}

func TestNowIsTruncated(t *testing.T) {
	n := Now()
	assert.Zero(t, n.Nanosecond())
	assert.Equal(t, "UTC", n.Location().String())
}
