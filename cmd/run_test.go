package cmd

import (
	"context"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domtestio/domtest/harness"
)

func TestBuildFrameTree(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/fixtures/top.html", []byte(
		`<html><body><iframe src="child.html"></iframe><iframe src="sub/leaf.html"></iframe></body></html>`), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/fixtures/child.html", []byte(
		`<html><body><p>child</p></body></html>`), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/fixtures/sub/leaf.html", []byte(
		`<html><body><p>leaf</p></body></html>`), 0o644))

	top, frames, err := buildFrameTree(fs, "/fixtures/top.html", 0)
	require.NoError(t, err)
	assert.Len(t, frames, 3)
	assert.Len(t, top.ChildFrames(), 2)

	// The built tree drives the awaiter the same way the command does.
	for _, f := range frames {
		go f.Document().FinishLoading()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, harness.WaitForNestedLoad(ctx, top))
}

func TestBuildFrameTreeMissingChild(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/top.html", []byte(
		`<html><body><iframe src="missing.html"></iframe></body></html>`), 0o644))

	_, _, err := buildFrameTree(fs, "/top.html", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.html")
}

func TestBuildFrameTreeCycle(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/a.html", []byte(
		`<html><body><iframe src="b.html"></iframe></body></html>`), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/b.html", []byte(
		`<html><body><iframe src="a.html"></iframe></body></html>`), 0o644))

	_, _, err := buildFrameTree(fs, "/a.html", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle")
}
