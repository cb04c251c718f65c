package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGate_Authorize(t *testing.T) {
	t.Run("matching secret is authorized", func(t *testing.T) {
		gate := NewGate("s3cret")
		ok, err := gate.Authorize("s3cret")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("wrong secret is rejected", func(t *testing.T) {
		gate := NewGate("s3cret")
		for _, provided := range []string{"", "wrong", "s3cret ", "S3CRET"} {
			ok, err := gate.Authorize(provided)
			require.NoError(t, err)
			assert.False(t, ok, "provided %q", provided)
		}
	})

	t.Run("unconfigured gate fails closed", func(t *testing.T) {
		gate := NewGate("")
		for _, provided := range []string{"", "anything", "s3cret"} {
			ok, err := gate.Authorize(provided)
			assert.ErrorIs(t, err, ErrNotConfigured)
			assert.False(t, ok, "provided %q", provided)
		}
	})
}
