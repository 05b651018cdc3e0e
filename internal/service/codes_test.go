package service

import (
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matchsquad/field-session-booking/internal/repository"
)

func TestNewSessionCodeShape(t *testing.T) {
	pattern := regexp.MustCompile(`^[a-z0-9]{4}-[a-z0-9]{4}-[a-z0-9]{4}-[a-z0-9]{4}$`)
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code, err := NewSessionCode()
		require.NoError(t, err)
		assert.Regexp(t, pattern, code)
		assert.False(t, seen[code], "duplicate code %q in 100 draws", code)
		seen[code] = true
	}
}

func TestNewInviteCodeShape(t *testing.T) {
	pattern := regexp.MustCompile(`^[A-Z]{6}$`)
	for i := 0; i < 100; i++ {
		code, err := NewInviteCode()
		require.NoError(t, err)
		assert.Regexp(t, pattern, code)
	}
}

func TestUniqueCodeRetriesPastCollisions(t *testing.T) {
	gen := func() (string, error) { return "abc123", nil }

	collisions := 2
	draws := 0
	code, err := uniqueCode(gen, func(string) (bool, error) {
		draws++
		return draws <= collisions, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "abc123", code)
	assert.Equal(t, collisions+1, draws)
}

func TestUniqueCodeGivesUpWhenEveryDrawCollides(t *testing.T) {
	gen := func() (string, error) { return "abc123", nil }

	draws := 0
	_, err := uniqueCode(gen, func(string) (bool, error) {
		draws++
		return true, nil
	})
	assert.ErrorIs(t, err, repository.ErrCodeCollision)
	assert.Equal(t, codeMaxAttempts, draws)
}

func TestUniqueCodePropagatesLookupError(t *testing.T) {
	gen := func() (string, error) { return "abc123", nil }
	boom := errors.New("lookup failed")

	_, err := uniqueCode(gen, func(string) (bool, error) { return false, boom })
	assert.ErrorIs(t, err, boom)
}
