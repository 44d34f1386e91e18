package grapetree_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/grapetree"
)

func TestDelimitedTransform(t *testing.T) {
	t.Parallel()

	tr := grapetree.DelimitedTransform(".")

	p, err := tr.ToInternal("a.b.c")
	require.NoError(t, err)
	assert.Equal(t, grapetree.Path{"a", "b", "c"}, p)

	p, err = tr.ToInternal("")
	require.NoError(t, err)
	assert.Empty(t, p)

	// Decomposed input is normalized to NFC.
	p, err = tr.ToInternal("cafe\u0301")
	require.NoError(t, err)
	assert.Equal(t, grapetree.Path{"caf\u00e9"}, p)

	_, err = tr.ToInternal([]string{"a"})
	assert.ErrorIs(t, err, grapetree.ErrInvalidPath)

	assert.Equal(t, "a.1", tr.ToExternal(grapetree.Path{"a", 1}))
	assert.Equal(t, "", tr.ToExternal(grapetree.Path{}))
}

func TestTransformPath(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	rt := grapetree.New(func(r *grapetree.Route, _ ...grapetree.Token) error {
		r.Route("a.b", rec.leaf("a.b"))
		r.Route("caf\u00e9", rec.leaf("cafe"))
		r.Route("aa", func(*grapetree.Route, ...grapetree.Token) error { return nil })
		return nil
	})
	require.NoError(t, rt.TransformPath(grapetree.DelimitedTransform(".")))
	got := changes(rt)
	ctx := context.Background()

	assert.Equal(t, "", rt.Current())

	require.NoError(t, await(t, rt.Go(ctx, "a.b")))
	assert.Equal(t, "a.b", rt.Current())
	assert.Equal(t, []string{"a.b enter"}, rec.take())

	require.NoError(t, await(t, rt.Go(ctx, "cafe\u0301")))
	assert.Equal(t, []string{"a.b exit", "cafe enter"}, rec.take())

	cs := got()
	require.Len(t, cs, 2)
	assert.Equal(t, "a.b", cs[0].Path)
	assert.Equal(t, "a.b", cs[1].Previous)

	err := await(t, rt.Go(ctx, "aa.xx"))
	assert.EqualError(t, err, `No route matched path: "aa.xx"`)

	err = await(t, rt.Go(ctx, []string{"a", "b"}))
	assert.ErrorIs(t, err, grapetree.ErrInvalidPath)
}

func TestTransformPathInvalid(t *testing.T) {
	t.Parallel()

	rt := grapetree.New(func(*grapetree.Route, ...grapetree.Token) error { return nil })
	assert.ErrorIs(t, rt.TransformPath(grapetree.Transform{}), grapetree.ErrInvalidTransform)
	assert.ErrorIs(t, rt.TransformPath(grapetree.Transform{
		ToExternal: func(p grapetree.Path) any { return p },
	}), grapetree.ErrInvalidTransform)

	withOption := grapetree.New(
		func(*grapetree.Route, ...grapetree.Token) error { return nil },
		grapetree.WithTransform(grapetree.Transform{}),
	)
	err := await(t, withOption.Go(context.Background(), []string{}))
	assert.ErrorIs(t, err, grapetree.ErrInvalidTransform)
}

func TestCustomTransform(t *testing.T) {
	t.Parallel()

	type location struct {
		Section string
		Page    int
	}
	tr := grapetree.Transform{
		ToExternal: func(p grapetree.Path) any {
			if len(p) != 2 {
				return location{}
			}
			return location{Section: p[0].(string), Page: p[1].(int)}
		},
		ToInternal: func(v any) (grapetree.Path, error) {
			switch l := v.(type) {
			case location:
				return grapetree.Path{l.Section, l.Page}, nil
			case string:
				return grapetree.Path{l}, nil
			default:
				return nil, grapetree.ErrInvalidPath
			}
		},
	}

	var page grapetree.Token
	rt := grapetree.New(func(r *grapetree.Route, _ ...grapetree.Token) error {
		r.Route([]any{"docs", grapetree.Param}, func(_ *grapetree.Route, params ...grapetree.Token) error {
			page = params[0]
			return nil
		})
		return nil
	}, grapetree.WithTransform(tr))

	require.NoError(t, await(t, rt.Go(context.Background(), location{Section: "docs", Page: 3})))
	assert.Equal(t, 3, page)
	assert.Equal(t, location{Section: "docs", Page: 3}, rt.Current())
}
