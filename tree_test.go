package docdex_test

import (
	"testing"

	"github.com/docdex/docdex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTree(t *testing.T) {
	t.Parallel()

	t.Run("readme plus nested guide", func(t *testing.T) {
		t.Parallel()

		tree := docdex.BuildTree([]docdex.FlatFile{
			{Path: "README.md", Size: 120},
			{Path: "docs/guide.md", Size: 456},
		})

		// One root folder, one root file; folders sort first.
		require.Len(t, tree, 2)
		assert.Equal(t, "docs", tree[0].Name)
		assert.Equal(t, docdex.NodeFolder, tree[0].Kind)
		require.Len(t, tree[0].Children, 1)
		assert.Equal(t, "guide.md", tree[0].Children[0].Name)
		assert.Equal(t, "docs/guide.md", tree[0].Children[0].Path)
		assert.Equal(t, int64(456), tree[0].Children[0].SizeBytes)

		assert.Equal(t, "README.md", tree[1].Name)
		assert.Equal(t, docdex.NodeFile, tree[1].Kind)
	})

	t.Run("folders precede files, each group alphabetical", func(t *testing.T) {
		t.Parallel()

		tree := docdex.BuildTree([]docdex.FlatFile{
			{Path: "zebra.md"},
			{Path: "alpha.md"},
			{Path: "ops/runbook.md"},
			{Path: "api/ref.md"},
		})

		var names []string
		for _, n := range tree {
			names = append(names, n.Name)
		}
		assert.Equal(t, []string{"api", "ops", "alpha.md", "zebra.md"}, names)
	})

	t.Run("no childless folders", func(t *testing.T) {
		t.Parallel()

		tree := docdex.BuildTree([]docdex.FlatFile{
			{Path: "a/b/c/deep.md"},
		})

		docdex.WalkTree(tree, func(n *docdex.DocTreeNode) {
			if n.Kind == docdex.NodeFolder {
				assert.NotEmpty(t, n.Children, "folder %s has no children", n.Path)
			}
		})
	})

	t.Run("duplicate paths collapse to one node", func(t *testing.T) {
		t.Parallel()

		tree := docdex.BuildTree([]docdex.FlatFile{
			{Path: "doc.md", Size: 1},
			{Path: "doc.md", Size: 2},
		})
		require.Len(t, tree, 1)
		assert.Equal(t, int64(1), tree[0].SizeBytes)
	})
}

func TestClipTree(t *testing.T) {
	t.Parallel()

	tree := docdex.BuildTree([]docdex.FlatFile{
		{Path: "README.md"},
		{Path: "docs/guide.md"},
		{Path: "docs/advanced/tuning.md"},
	})

	t.Run("depth one leaves folders childless", func(t *testing.T) {
		t.Parallel()

		clipped := docdex.ClipTree(tree, 1)
		require.Len(t, clipped, 2)
		assert.Equal(t, "docs", clipped[0].Name)
		assert.Empty(t, clipped[0].Children)
	})

	t.Run("zero means no limit", func(t *testing.T) {
		t.Parallel()

		full := docdex.ClipTree(tree, 0)
		assert.Equal(t, tree, full)
	})

	t.Run("clipping copies, original intact", func(t *testing.T) {
		t.Parallel()

		_ = docdex.ClipTree(tree, 1)
		assert.NotEmpty(t, tree[0].Children, "original tree must not be mutated")
	})
}
