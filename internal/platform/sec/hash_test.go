// Copyright (c) 2026 Velora. All rights reserved.
// Author: dev@velora.shop

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velora-shop/velora/internal/platform/sec"
)

/*
TestHashPassword verifies that hashing is salted (distinct digests for the
same input) and never stores the plain text.
*/
func TestHashPassword(t *testing.T) {
	first, err := sec.HashPassword("pw123")
	require.NoError(t, err)
	second, err := sec.HashPassword("pw123")
	require.NoError(t, err)

	assert.NotEqual(t, "pw123", first)
	assert.NotEqual(t, first, second)
}

/*
TestCheckPasswordHash verifies the match / mismatch behavior.
*/
func TestCheckPasswordHash(t *testing.T) {
	hash, err := sec.HashPassword("correct-horse")
	require.NoError(t, err)

	assert.True(t, sec.CheckPasswordHash("correct-horse", hash))
	assert.False(t, sec.CheckPasswordHash("wrong-horse", hash))
	assert.False(t, sec.CheckPasswordHash("correct-horse", "not-a-bcrypt-hash"))
	assert.False(t, sec.CheckPasswordHash("", hash))
}
