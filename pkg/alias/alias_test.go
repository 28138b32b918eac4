package alias

import (
	"context"
	stderrors "errors"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rich-dobbs-13440/astutus-sub000/pkg/selector"
)

type fakeTree map[string]string

func (f fakeTree) NodeID(_ context.Context, p string) (string, error) {
	id, ok := f[p]
	if !ok {
		return "", stderrors.New("unknown path " + p)
	}
	return id, nil
}

func (f fakeTree) Parent(p string) (string, bool) {
	parent := path.Dir(p)
	if parent == "/" || parent == p {
		return "", false
	}
	return parent, true
}

func (f fakeTree) Children(p string) ([]string, error) {
	var children []string
	for candidate := range f {
		if path.Dir(candidate) == p {
			children = append(children, candidate)
		}
	}
	return children, nil
}

const (
	hubID    = "usb(05e3:0610)"
	serialID = "usb(1a86:7523)"
)

var tree = fakeTree{
	"/usb1":           "usb(1d6b:0002)",
	"/usb1/1-1":       hubID,
	"/usb1/1-1/1-1.2": serialID,
	"/usb1/1-2":       serialID,
}

func mk(sel string, priority int, label string) Alias {
	return Alias{Selector: selector.MustParse(sel), Priority: priority, Label: label}
}

func TestResolvePrefersHigherPriority(t *testing.T) {
	aliases := []Alias{
		mk("usb(1a86:7523)", 10, "any serial"),
		mk("usb(1a86:7523)[ancestor==usb(05e3:0610)]", 50, "serial behind hub"),
	}
	ctx := context.Background()

	got, err := Resolve(ctx, tree, aliases, serialID, "/usb1/1-1/1-1.2")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "serial behind hub", got.Label)

	got, err = Resolve(ctx, tree, aliases, serialID, "/usb1/1-2")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "any serial", got.Label, "falls through to the next passing alias")
}

func TestResolveIsDeterministic(t *testing.T) {
	aliases := []Alias{
		mk("usb(1a86:7523)[sibling!=usb(05e3:0610)]", 5, "b"),
		mk("usb(1a86:7523)[child!=usb(05e3:0610)]", 5, "a"),
		mk("usb(1a86:7523)", 1, "low"),
	}

	for i := 0; i < 20; i++ {
		// reversing the input must not change the answer
		input := append([]Alias(nil), aliases...)
		if i%2 == 1 {
			for l, r := 0, len(input)-1; l < r; l, r = l+1, r-1 {
				input[l], input[r] = input[r], input[l]
			}
		}
		got, err := Resolve(context.Background(), tree, input, serialID, "/usb1/1-1/1-1.2")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "a", got.Label, "equal priorities are ordered by selector text")
	}
}

func TestResolveFiltersByNodeID(t *testing.T) {
	aliases := []Alias{mk("usb(05e3:0610)", 100, "hub")}

	got, err := Resolve(context.Background(), tree, aliases, serialID, "/usb1/1-2")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestResolveNoPassingAlias(t *testing.T) {
	aliases := []Alias{mk("usb(1a86:7523)[ancestor==usb(05e3:0610)]", 50, "behind hub")}

	got, err := Resolve(context.Background(), tree, aliases, serialID, "/usb1/1-2")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestResolvePropagatesTreeErrors(t *testing.T) {
	aliases := []Alias{mk("usb(1a86:7523)[ancestor==usb(05e3:0610)]", 50, "behind hub")}

	_, err := Resolve(context.Background(), tree, aliases, serialID, "/unknown/x/y")
	assert.Error(t, err)
}
