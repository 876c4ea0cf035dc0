package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDurationUnmarshalText(t *testing.T) {
	t.Parallel()

	var d Duration
	require.NoError(t, d.UnmarshalText([]byte("2m30s")))
	assert.Equal(t, Duration(150*time.Second), d)

	// Bare numbers are milliseconds.
	require.NoError(t, d.UnmarshalText([]byte("1500")))
	assert.Equal(t, Duration(1500*time.Millisecond), d)

	assert.Error(t, d.UnmarshalText([]byte("not a duration")))
}

func TestNullDurationJSON(t *testing.T) {
	t.Parallel()

	var d NullDuration
	require.NoError(t, json.Unmarshal([]byte(`"10s"`), &d))
	assert.True(t, d.Valid)
	assert.Equal(t, 10*time.Second, d.ValueOrZero())

	require.NoError(t, json.Unmarshal([]byte(`null`), &d))
	assert.False(t, d.Valid)
	assert.Zero(t, d.ValueOrZero())

	out, err := json.Marshal(NullDurationFrom(time.Second))
	require.NoError(t, err)
	assert.Equal(t, `"1s"`, string(out))

	out, err = json.Marshal(NullDuration{})
	require.NoError(t, err)
	assert.Equal(t, `null`, string(out))
}

func TestNullDurationUnmarshalTextEmpty(t *testing.T) {
	t.Parallel()

	d := NullDurationFrom(time.Second)
	require.NoError(t, d.UnmarshalText(nil))
	assert.False(t, d.Valid)
}
