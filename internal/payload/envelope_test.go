package payload

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestNewKeepsInput(t *testing.T) {
	env := New(json.RawMessage(`{"product":"leash"}`))

	assert.JSONEq(t, `{"product":"leash"}`, string(env.Input))
	assert.NotNil(t, env.Metadata)
	assert.Empty(t, env.History)
}

func TestParseEmptyPayload(t *testing.T) {
	env, err := Parse(nil)
	require.NoError(t, err)
	assert.NotNil(t, env.Metadata)
	assert.Empty(t, env.History)

	env, err = Parse(datatypes.JSON{})
	require.NoError(t, err)
	assert.NotNil(t, env.Metadata)
}

func TestParseInvalidJSON(t *testing.T) {
	_, err := Parse(datatypes.JSON(`{not json`))
	assert.Error(t, err)
}

func TestRoundTripPreservesHistory(t *testing.T) {
	env := New(json.RawMessage(`{"brief":"winter sale"}`))
	env.AppendEvent("copy", "processing", "")
	env.MergeResult("copy", map[string]any{"headline": "Fetch the deals"})
	env.AppendEvent("copy", "completed", "")

	raw, err := env.Marshal()
	require.NoError(t, err)

	got, err := Parse(raw)
	require.NoError(t, err)
	assert.JSONEq(t, `{"brief":"winter sale"}`, string(got.Input))
	require.Len(t, got.History, 2)
	assert.Equal(t, "copy", got.History[0].Step)
	assert.Equal(t, "processing", got.History[0].Status)
	assert.Equal(t, "completed", got.History[1].Status)

	result, ok := got.Metadata["copyResult"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Fetch the deals", result["headline"])
}

func TestAppendEventRecordsError(t *testing.T) {
	env := New(nil)
	env.AppendEvent("render", "failed", "backend returned 502")

	require.Len(t, env.History, 1)
	assert.Equal(t, "backend returned 502", env.History[0].Error)
	assert.False(t, env.History[0].At.IsZero())
}
