package tag

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateShape(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 500; i++ {
		got := Generate()
		require.Len(t, got, Length)
		assert.True(t, Valid(got), "tag %q", got)
		seen[got] = true
	}
	assert.Greater(t, len(seen), 490, "tags should rarely repeat")
}

func TestEnsureUniqueRetriesCollisions(t *testing.T) {
	candidates := []string{"AAAAAA", "BBBBBB", "CCCCCC"}
	i := 0
	gen := func() string { c := candidates[i]; i++; return c }
	used := map[string]bool{"AAAAAA": true, "BBBBBB": true}

	got, err := ensureUnique(context.Background(), gen, func(_ context.Context, t string) (bool, error) {
		return used[t], nil
	})
	require.NoError(t, err)
	assert.Equal(t, "CCCCCC", got)
	assert.Equal(t, 3, i)
}

func TestEnsureUniqueGivesUp(t *testing.T) {
	calls := 0
	_, err := EnsureUnique(context.Background(), func(context.Context, string) (bool, error) {
		calls++
		return true, nil
	})
	assert.ErrorIs(t, err, ErrTagSpaceExhausted)
	assert.Equal(t, MaxAttempts, calls)
}

func TestEnsureUniquePropagatesStoreErrors(t *testing.T) {
	boom := errors.New("db down")
	_, err := EnsureUnique(context.Background(), func(context.Context, string) (bool, error) {
		return false, boom
	})
	assert.Same(t, boom, err)
}

func TestEnsureUniqueHonoursCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := EnsureUnique(ctx, func(context.Context, string) (bool, error) { return false, nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClaimRetriesInsertCollisions(t *testing.T) {
	candidates := []string{"AAAAAA", "BBBBBB"}
	i := 0
	gen := func() string { c := candidates[i]; i++; return c }
	free := func(context.Context, string) (bool, error) { return false, nil }

	var inserted []string
	got, err := claim(context.Background(), gen, free, func(_ context.Context, t string) error {
		inserted = append(inserted, t)
		if t == "AAAAAA" {
			return fmt.Errorf("insert unit: %w", ErrCollision)
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "BBBBBB", got)
	assert.Equal(t, []string{"AAAAAA", "BBBBBB"}, inserted)
}

func TestClaimSharesAttemptBudget(t *testing.T) {
	checks, inserts := 0, 0
	_, err := Claim(context.Background(),
		func(context.Context, string) (bool, error) {
			checks++
			return checks%2 == 0, nil
		},
		func(context.Context, string) error {
			inserts++
			return ErrCollision
		})
	assert.ErrorIs(t, err, ErrTagSpaceExhausted)
	assert.Equal(t, MaxAttempts, checks)
	assert.Equal(t, MaxAttempts/2, inserts)
}

func TestClaimPropagatesInsertErrors(t *testing.T) {
	boom := errors.New("fk violation")
	_, err := Claim(context.Background(),
		func(context.Context, string) (bool, error) { return false, nil },
		func(context.Context, string) error { return boom })
	assert.Same(t, boom, err)
}

func TestNormalizeAndValid(t *testing.T) {
	assert.Equal(t, "AB12CD", Normalize("  ab12cd "))
	assert.False(t, Valid("ab12cd"))
	assert.False(t, Valid("AB12C"))
	assert.False(t, Valid("AB-2CD"))
}
