package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeCapacity(t *testing.T) {
	cases := []struct {
		name      string
		requested uint32
		want      uint32
		wantErr   bool
	}{
		{name: "zero takes the default", requested: 0, want: DefaultMaxParticipants},
		{name: "minimum allowed", requested: 2, want: 2},
		{name: "maximum allowed", requested: 50, want: 50},
		{name: "one is too small", requested: 1, wantErr: true},
		{name: "over the cap", requested: 51, wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := normalizeCapacity(tc.requested)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNormalizeSlot(t *testing.T) {
	t.Run("canonicalizes short clocks", func(t *testing.T) {
		start, end, startMin, endMin, err := normalizeSlot("9:00", strPtr("10:30"))
		require.NoError(t, err)
		assert.Equal(t, "09:00:00", start)
		require.NotNil(t, end)
		assert.Equal(t, "10:30:00", *end)
		assert.Equal(t, 540, startMin)
		require.NotNil(t, endMin)
		assert.Equal(t, 630, *endMin)
	})

	t.Run("open-ended slot", func(t *testing.T) {
		start, end, _, endMin, err := normalizeSlot("18:00:00", nil)
		require.NoError(t, err)
		assert.Equal(t, "18:00:00", start)
		assert.Nil(t, end)
		assert.Nil(t, endMin)
	})

	t.Run("rejects end at or before start", func(t *testing.T) {
		_, _, _, _, err := normalizeSlot("10:00", strPtr("10:00"))
		assert.ErrorIs(t, err, ErrInvalidInput)
		_, _, _, _, err = normalizeSlot("10:00", strPtr("09:00"))
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("rejects garbage clocks", func(t *testing.T) {
		_, _, _, _, err := normalizeSlot("25:00", nil)
		assert.ErrorIs(t, err, ErrInvalidInput)
		_, _, _, _, err = normalizeSlot("10:00", strPtr("24:01"))
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}
