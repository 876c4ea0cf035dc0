package dom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttachShadow(t *testing.T) {
	t.Parallel()

	d := MustParse(basicPage)
	root, err := d.AttachShadow("#fixture", ShadowModeOpen, `<p class="inner">hi</p>`)
	require.NoError(t, err)
	assert.Equal(t, ShadowModeOpen, root.Mode())
	assert.Equal(t, "hi", root.Find("p.inner").Text())

	// Shadow content is encapsulated from the host document.
	assert.Equal(t, 0, d.Find("p.inner").Length())

	got, ok := d.ShadowRootOf("#fixture")
	require.True(t, ok)
	assert.Same(t, root, got)
}

func TestAttachShadowTwice(t *testing.T) {
	t.Parallel()

	d := MustParse(basicPage)
	_, err := d.AttachShadow("#fixture", ShadowModeOpen, `<p></p>`)
	require.NoError(t, err)
	_, err = d.AttachShadow("#fixture", ShadowModeOpen, `<p></p>`)
	assert.Error(t, err)
}

func TestClosedShadowRootHidden(t *testing.T) {
	t.Parallel()

	d := MustParse(basicPage)
	_, err := d.AttachShadow("#fixture", ShadowModeClosed, `<p></p>`)
	require.NoError(t, err)

	_, ok := d.ShadowRootOf("#fixture")
	assert.False(t, ok)
}

func TestAttachShadowNoHost(t *testing.T) {
	t.Parallel()

	d := MustParse(basicPage)
	_, err := d.AttachShadow("#missing", ShadowModeOpen, `<p></p>`)
	assert.Error(t, err)
}
