package otpcache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	return New(mr.Addr(), ""), mr
}

func TestIssueAndVerify(t *testing.T) {
	cache, _ := testCache(t)
	ctx := context.Background()

	code, err := cache.Issue(ctx, "student@example.com")
	require.NoError(t, err)
	require.Len(t, code, 4)

	require.NoError(t, cache.Verify(ctx, "student@example.com", code))

	// A code is consumed on success
	err = cache.Verify(ctx, "student@example.com", code)
	assert.ErrorIs(t, err, ErrCodeExpired)
}

func TestVerifyWrongCode(t *testing.T) {
	cache, _ := testCache(t)
	ctx := context.Background()

	code, err := cache.Issue(ctx, "student@example.com")
	require.NoError(t, err)

	err = cache.Verify(ctx, "student@example.com", "0000")
	assert.ErrorIs(t, err, ErrCodeInvalid)

	// The real code still works after a bad guess
	require.NoError(t, cache.Verify(ctx, "student@example.com", code))
}

func TestVerifyAttemptCap(t *testing.T) {
	cache, _ := testCache(t)
	ctx := context.Background()

	code, err := cache.Issue(ctx, "student@example.com")
	require.NoError(t, err)

	for i := 0; i < cache.maxAttempts-1; i++ {
		err = cache.Verify(ctx, "student@example.com", "0000")
		assert.ErrorIs(t, err, ErrCodeInvalid)
	}

	err = cache.Verify(ctx, "student@example.com", "0000")
	assert.ErrorIs(t, err, ErrTooManyAttempts)

	// The cap burned the code entirely
	err = cache.Verify(ctx, "student@example.com", code)
	assert.ErrorIs(t, err, ErrCodeExpired)
}

func TestCodeExpires(t *testing.T) {
	cache, mr := testCache(t)
	ctx := context.Background()

	code, err := cache.Issue(ctx, "student@example.com")
	require.NoError(t, err)

	mr.FastForward(6 * time.Minute)

	err = cache.Verify(ctx, "student@example.com", code)
	assert.ErrorIs(t, err, ErrCodeExpired)
}

func TestResendWindow(t *testing.T) {
	cache, _ := testCache(t)
	ctx := context.Background()

	_, err := cache.Issue(ctx, "student@example.com")
	require.NoError(t, err)

	_, err = cache.Issue(ctx, "student@example.com")
	assert.ErrorIs(t, err, ErrResendTooSoon)

	// A different address is unaffected
	_, err = cache.Issue(ctx, "other@example.com")
	assert.NoError(t, err)
}

func TestKeyNormalizesEmail(t *testing.T) {
	cache, _ := testCache(t)
	ctx := context.Background()

	code, err := cache.Issue(ctx, "Student@Example.com ")
	require.NoError(t, err)

	require.NoError(t, cache.Verify(ctx, "student@example.com", code))
}
