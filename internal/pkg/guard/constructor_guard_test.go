package guard_test

import (
	"errors"
	"testing"

	"dispatch/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorGuard(t *testing.T) {
	errNotConstructed := errors.New("thing must be created via NewThing")

	t.Run("constructed guard passes validation", func(t *testing.T) {
		g := guard.NewConstructorGuard()
		require.NoError(t, g.Validate(errNotConstructed))
	})

	t.Run("zero value guard fails with provided error", func(t *testing.T) {
		var g guard.ConstructorGuard
		err := g.Validate(errNotConstructed)
		assert.Equal(t, errNotConstructed, err)
	})

	t.Run("zero value guard falls back to default error", func(t *testing.T) {
		var g guard.ConstructorGuard
		err := g.Validate(nil)
		assert.Equal(t, guard.ErrDefaultConstructorGuard, err)
	})

	t.Run("constructed guard ignores nil validation error", func(t *testing.T) {
		g := guard.NewConstructorGuard()
		require.NoError(t, g.Validate(nil))
	})
}
