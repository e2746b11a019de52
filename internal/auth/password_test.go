package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndComparePassword(t *testing.T) {
	hash, err := HashPassword("employee123", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "employee123", hash)

	assert.NoError(t, ComparePassword(hash, "employee123"))
	assert.Error(t, ComparePassword(hash, "wrong-password"))
}

func TestHashPasswordDistinctSalts(t *testing.T) {
	first, err := HashPassword("admin123", bcrypt.MinCost)
	require.NoError(t, err)
	second, err := HashPassword("admin123", bcrypt.MinCost)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
