package hive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNamespaceNaming(t *testing.T) {
	ns := Namespace("abc")

	assert.Equal(t, "st-abc", ns.PointCollection())
	assert.Equal(t, "sn-abc", ns.SynapseCollection())
	assert.Equal(t, "gr-abc", ns.GraphName())
	assert.Equal(t, "vw-abc", ns.ViewName())
}

func TestGraphForCollection(t *testing.T) {
	graph, err := GraphForCollection("st-abc")
	require.NoError(t, err)
	assert.Equal(t, "gr-abc", graph)

	graph, err = GraphForCollection("sn-abc")
	require.NoError(t, err)
	assert.Equal(t, "gr-abc", graph)

	_, err = GraphForCollection("garden")
	assert.Error(t, err)
}

func TestParseItemRef(t *testing.T) {
	ref, err := ParseItemRef("st-abc/123")
	require.NoError(t, err)
	assert.Equal(t, KindPoint, ref.Kind)
	assert.Equal(t, "st-abc", ref.Collection)
	assert.Equal(t, "123", ref.Key)
	assert.Equal(t, Namespace("abc"), ref.Namespace())
	assert.Equal(t, "st-abc/123", ref.ID())

	ref, err = ParseItemRef("sn-abc/456")
	require.NoError(t, err)
	assert.Equal(t, KindSynapse, ref.Kind)
	assert.Equal(t, Namespace("abc"), ref.Namespace())
}

func TestParseItemRefRejectsMalformed(t *testing.T) {
	for _, id := range []string{"", "st-abc", "st-abc/", "/123", "garden/123"} {
		_, err := ParseItemRef(id)
		assert.Error(t, err, "id %q", id)
	}
}
