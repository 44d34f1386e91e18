package routetable_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/grapetree"
	"github.com/dmitrymomot/grapetree/internal/routetable"
)

const appTable = `
name = "app"
catch = true

[[route]]
segment = ["users", ":param"]
name = "user"

[[route]]
segment = ["old"]
redirect = ["users", "7"]
emit_original = true

[[route]]
segment = ["broken"]
fail_enter = true

[[route]]
segment = ["docs"]
name = "docs"

  [[route.route]]
  segment = ["intro"]

  [route.default]
  name = "page"

[default]
name = "missing"
`

type recorder struct {
	mu     sync.Mutex
	events []string
	caught []grapetree.ErrorInfo
}

func (r *recorder) Entered(_ context.Context, name string, parent any, params []grapetree.Token) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, fmt.Sprintf("enter %s parent=%v params=%v", name, parent, params))
}

func (r *recorder) Exited(_ context.Context, name string, parent any, distance int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, fmt.Sprintf("exit %s parent=%v distance=%d", name, parent, distance))
}

func (r *recorder) Caught(_ context.Context, name string, err error, info grapetree.ErrorInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, fmt.Sprintf("caught %s: %v", name, err))
	r.caught = append(r.caught, info)
}

func (r *recorder) take() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.events
	r.events = nil
	return out
}

func walk(t *testing.T, rt *grapetree.Router, path any) {
	t.Helper()
	require.NoError(t, rt.Go(context.Background(), path).AwaitWithTimeout(2*time.Second))
}

func TestCompile(t *testing.T) {
	t.Parallel()

	table, err := routetable.Parse(appTable)
	require.NoError(t, err)

	rec := &recorder{}
	rt := grapetree.New(routetable.Compile(table, rec))

	walk(t, rt, []string{"users", "1"})
	assert.Equal(t, []string{
		"enter app parent=<nil> params=[]",
		"enter user parent=app params=[1]",
	}, rec.take())

	walk(t, rt, []string{"docs", "intro"})
	assert.Equal(t, []string{
		"exit user parent=app distance=1",
		"enter docs parent=app params=[]",
		"enter intro parent=docs params=[]",
	}, rec.take())

	walk(t, rt, []string{"docs", "guide", "setup"})
	assert.Equal(t, []string{
		"exit intro parent=docs distance=1",
		"enter page parent=docs params=[[guide setup]]",
	}, rec.take())

	walk(t, rt, []string{"nope"})
	assert.Equal(t, []string{
		"exit page parent=docs distance=2",
		"exit docs parent=app distance=1",
		"enter missing parent=app params=[[nope]]",
	}, rec.take())
	assert.Equal(t, grapetree.Path{"nope"}, rt.Current())
}

func TestCompileRedirect(t *testing.T) {
	t.Parallel()

	table, err := routetable.Parse(appTable)
	require.NoError(t, err)

	rec := &recorder{}
	rt := grapetree.New(routetable.Compile(table, rec))

	var got []grapetree.Change
	rt.OnChange(func(_ context.Context, c grapetree.Change) error {
		got = append(got, c)
		return nil
	})

	walk(t, rt, []string{"old"})
	assert.Equal(t, grapetree.Path{"users", "7"}, rt.Current())
	require.Len(t, got, 1)
	assert.Equal(t, grapetree.Path{"old"}, got[0].Path)
	assert.True(t, got[0].Redirected)
}

func TestCompileCatch(t *testing.T) {
	t.Parallel()

	table, err := routetable.Parse(appTable)
	require.NoError(t, err)

	rec := &recorder{}
	rt := grapetree.New(routetable.Compile(table, rec))

	walk(t, rt, []string{"broken"})
	assert.Equal(t, []string{
		"enter app parent=<nil> params=[]",
		"enter broken parent=app params=[]",
		"caught app: enter broken: routetable: injected hook failure",
	}, rec.take())
	require.Len(t, rec.caught, 1)
	assert.Equal(t, grapetree.StageEnter, rec.caught[0].Stage)
	assert.Equal(t, grapetree.Path{"broken"}, rec.caught[0].Location)
	assert.Equal(t, grapetree.Path{"broken"}, rt.Current())
}

func TestCompileUnhandledFailure(t *testing.T) {
	t.Parallel()

	table, err := routetable.Parse(`
[[route]]
segment = ["a"]
fail_exit = true

[[route]]
segment = ["b"]
`)
	require.NoError(t, err)

	rt := grapetree.New(routetable.Compile(table, nil))
	walk(t, rt, []string{"a"})

	err = rt.Go(context.Background(), []string{"b"}).AwaitWithTimeout(2 * time.Second)
	assert.ErrorIs(t, err, routetable.ErrInjected)

	var herr *grapetree.HookError
	require.ErrorAs(t, err, &herr)
	assert.Equal(t, grapetree.StageExit, herr.Stage)
	assert.Equal(t, grapetree.Path{"a"}, rt.Current())
}

func TestCompileWithSeparator(t *testing.T) {
	t.Parallel()

	table, err := routetable.Parse(appTable)
	require.NoError(t, err)

	rt := grapetree.New(
		routetable.Compile(table, nil, routetable.WithSeparator("/")),
		grapetree.WithTransform(grapetree.DelimitedTransform("/")),
	)

	walk(t, rt, "old")
	assert.Equal(t, "users/7", rt.Current())
}

func TestParseInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
		want string
	}{
		{
			name: "unknown key",
			data: "[[route]]\nsegment = [\"a\"]\ncolor = \"red\"\n",
			want: "unknown keys route.color",
		},
		{
			name: "empty segment",
			data: "[[route]]\nname = \"a\"\n",
			want: "a has an empty segment",
		},
		{
			name: "default and redirect",
			data: "[[route]]\nsegment = [\"a\"]\nredirect = [\"b\"]\n[route.default]\nname = \"d\"\n",
			want: "route[0] sets both default and redirect",
		},
		{
			name: "nested emit_original",
			data: "[[route]]\nsegment = [\"a\"]\n[[route.route]]\nsegment = [\"b\"]\nemit_original = true\n",
			want: "route[0].route[0] sets emit_original without redirect",
		},
		{
			name: "syntax",
			data: "[[route]\n",
			want: "routetable: decode",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := routetable.Parse(tt.data)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "routes.toml")
	require.NoError(t, os.WriteFile(path, []byte(appTable), 0o600))

	table, err := routetable.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "app", table.Name)
	require.Len(t, table.Routes, 4)
	assert.Equal(t, []string{"users", routetable.ParamToken}, table.Routes[0].Segment)

	_, err = routetable.Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	table, err = routetable.Parse("")
	require.NoError(t, err)
	assert.Equal(t, "root", table.Name)
}
