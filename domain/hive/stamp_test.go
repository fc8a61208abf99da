package hive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStampPointRoundTrip(t *testing.T) {
	stamp := ForPoint("garden/h1", "st-abc/1")

	decoded, err := DecodeStamp(stamp.Encode())
	require.NoError(t, err)
	assert.Equal(t, stamp, decoded)
	assert.False(t, decoded.Linked())
}

func TestStampSynapseRoundTrip(t *testing.T) {
	stamp := ForSynapse("garden/h1", "sn-abc/2")

	decoded, err := DecodeStamp(stamp.Encode())
	require.NoError(t, err)
	assert.Equal(t, stamp, decoded)
	assert.False(t, decoded.Linked())
}

func TestStampLinkedRoundTrip(t *testing.T) {
	stamp := ForLinked("garden/h1", "st-abc/1", "sn-abc/2")

	assert.True(t, stamp.Linked())

	decoded, err := DecodeStamp(stamp.Encode())
	require.NoError(t, err)
	assert.Equal(t, stamp, decoded)
}

func TestStampEmptyEncodesEmpty(t *testing.T) {
	assert.Equal(t, "", Stamp{}.Encode())
}

func TestDecodeStampRejectsGarbage(t *testing.T) {
	for _, encoded := range []string{
		"",
		"garden/h1",
		"garden/h1:garden/x",
		"garden/h1:st-abc/1+garden/h2:sn-abc/2",
		"garden/h1:st-abc/1+garden/h1:st-abc/2",
	} {
		_, err := DecodeStamp(encoded)
		assert.Error(t, err, "encoded %q", encoded)
	}
}
