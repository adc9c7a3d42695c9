package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nav(t *testing.T, raw string) Navigation {
	t.Helper()

	var n Navigation
	require.NoError(t, json.Unmarshal([]byte(raw), &n))

	return n
}

func refs(item NavigationItem) []string {
	out := make([]string, 0, len(item.Pages))
	for _, p := range item.Pages {
		out = append(out, p.Ref)
	}

	return out
}

func TestNavigationApply_AddIsIdempotent(t *testing.T) {
	n := nav(t, `[{"group":"Guides","pages":["guides/intro"]}]`)

	out, skipped := n.Apply([]NavigationOp{
		{Type: NavAdd, Group: "Guides", Page: "guides/intro"},
		{Type: NavAdd, Group: "guides", Page: "guides/setup"},
		{Type: NavAdd, Group: "Guides", Page: "guides/setup"},
	})

	assert.Empty(t, skipped)
	require.Len(t, out, 1)
	assert.Equal(t, []string{"guides/intro", "guides/setup"}, refs(out[0]))
	assert.Len(t, n[0].Pages, 1, "receiver must not change")
}

func TestNavigationApply_AddCreatesGroup(t *testing.T) {
	n := nav(t, `[{"group":"Guides","pages":["guides/intro"]}]`)

	out, _ := n.Apply([]NavigationOp{{Type: NavAdd, Group: "API", Page: "api/users"}})

	require.Len(t, out, 2)
	assert.Equal(t, "API", out[1].Group)
	assert.Equal(t, []string{"api/users"}, refs(out[1]))
}

func TestNavigationApply_RemoveLastPageDeletesGroup(t *testing.T) {
	n := nav(t, `[{"group":"Guides","pages":["guides/intro"]},{"group":"API","pages":["api/users"]}]`)

	out, skipped := n.Apply([]NavigationOp{{Type: NavRemove, Group: "API", Page: "api/users"}})

	assert.Empty(t, skipped)
	require.Len(t, out, 1)
	assert.Equal(t, "Guides", out[0].Group)
}

func TestNavigationApply_MoveRelocatesWithoutDuplicates(t *testing.T) {
	n := nav(t, `[{"group":"Guides","pages":["guides/intro","guides/auth"]},{"group":"API","pages":["api/users"]}]`)

	out, _ := n.Apply([]NavigationOp{{Type: NavMove, Group: "API", Page: "guides/auth"}})

	require.Len(t, out, 2)
	assert.Equal(t, []string{"guides/intro"}, refs(out[0]))
	assert.Equal(t, []string{"api/users", "guides/auth"}, refs(out[1]))

	count := 0
	for _, g := range out {
		if g.HasPage("guides/auth") {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestNavigationApply_MovePrunesEmptySource(t *testing.T) {
	n := nav(t, `[{"group":"Old","pages":["a"]},{"group":"New","pages":["b"]}]`)

	out, _ := n.Apply([]NavigationOp{{Type: NavMove, Group: "New", Page: "a"}})

	require.Len(t, out, 1)
	assert.Equal(t, "New", out[0].Group)
	assert.Equal(t, []string{"b", "a"}, refs(out[0]))
}

func TestNavigationApply_MoveIntoCurrentGroupIsNoOp(t *testing.T) {
	n := nav(t, `[{"group":"Guides","pages":["guides/intro"]},{"group":"API","pages":["api/users"]}]`)

	out, _ := n.Apply([]NavigationOp{{Type: NavMove, Group: "api", Page: "api/users"}})

	assert.True(t, n.Equal(out))
}

func TestNavigationApply_SkipsMissingGroup(t *testing.T) {
	n := nav(t, `[{"group":"Guides","pages":["guides/intro"]}]`)

	ops := []NavigationOp{
		{Type: NavRemove, Group: "Missing", Page: "x"},
		{Type: NavMove, Group: "Missing", Page: "guides/intro"},
	}
	out, skipped := n.Apply(ops)

	assert.Equal(t, ops, skipped)
	assert.True(t, n.Equal(out))
}

func TestNavigation_RoundTripPreservesExtras(t *testing.T) {
	raw := `[{"icon":"book","group":"Guides","pages":["guides/intro",{"group":"Nested","pages":["guides/deep"]}]}]`
	n := nav(t, raw)

	require.Len(t, n[0].Pages, 2)
	require.NotNil(t, n[0].Pages[1].Group)
	assert.Equal(t, "Nested", n[0].Pages[1].Group.Group)

	out, _ := n.Apply([]NavigationOp{{Type: NavAdd, Group: "Guides", Page: "guides/new"}})

	b, err := json.Marshal(out)
	require.NoError(t, err)
	assert.JSONEq(t,
		`[{"icon":"book","group":"Guides","pages":["guides/intro",{"group":"Nested","pages":["guides/deep"]},"guides/new"]}]`,
		string(b))
}

func TestNavigationEqual(t *testing.T) {
	a := nav(t, `[{"group":"A","pages":["x","y"]}]`)
	b := nav(t, `[ { "pages": ["x", "y"], "group": "A" } ]`)
	c := nav(t, `[{"group":"A","pages":["y","x"]}]`)

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(nil))
}
