package grapetree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransitionQueue(t *testing.T) {
	t.Parallel()

	req := func(path string, soft bool) *request {
		return &request{path: path, soft: soft}
	}
	paths := func(reqs []*request) []any {
		var out []any
		for _, r := range reqs {
			out = append(out, r.path)
		}
		return out
	}

	t.Run("soft tail is replaced", func(t *testing.T) {
		t.Parallel()
		var q transitionQueue
		assert.Nil(t, q.push(req("b", true)))
		dropped := q.push(req("c", true))
		require.NotNil(t, dropped)
		assert.Equal(t, "b", dropped.path)
		assert.Equal(t, 1, q.len())
	})

	t.Run("hard is never replaced", func(t *testing.T) {
		t.Parallel()
		var q transitionQueue
		assert.Nil(t, q.push(req("b", false)))
		assert.Nil(t, q.push(req("c", true)))
		assert.Equal(t, 2, q.len())
	})

	t.Run("pop prefers oldest hard", func(t *testing.T) {
		t.Parallel()
		var q transitionQueue
		q.push(req("b", true))
		q.push(req("c", false))
		q.push(req("d", true))
		q.push(req("e", false))

		next, dropped := q.pop()
		assert.Equal(t, "c", next.path)
		assert.Empty(t, dropped)

		next, dropped = q.pop()
		assert.Equal(t, "e", next.path)
		assert.Empty(t, dropped)

		next, dropped = q.pop()
		assert.Equal(t, "d", next.path)
		assert.Equal(t, []any{"b"}, paths(dropped))

		next, dropped = q.pop()
		assert.Nil(t, next)
		assert.Empty(t, dropped)
	})

	t.Run("drain all", func(t *testing.T) {
		t.Parallel()
		var q transitionQueue
		q.push(req("b", false))
		q.push(req("c", true))
		assert.Equal(t, []any{"b", "c"}, paths(q.drainAll()))
		assert.Zero(t, q.len())
	})
}
