package sourcemap

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPCMapUnmarshalShapes(t *testing.T) {
	raw := `{
		"0": [1, 0, 1, 20],
		"15": {"location": [2, 4, 2, 30], "dev": "require owner"},
		"33": {"location": null, "dev": "assert"},
		"48": null
	}`

	var m PCMap
	require.NoError(t, json.Unmarshal([]byte(raw), &m))

	entry := m["0"]
	require.NotNil(t, entry.Location)
	assert.Equal(t, SourceSpan{LineStart: 1, ColumnStart: 0, LineEnd: 1, ColumnEnd: 20}, *entry.Location)

	entry = m["15"]
	require.NotNil(t, entry.Location)
	assert.Equal(t, "require owner", entry.Dev)

	entry = m["33"]
	assert.Nil(t, entry.Location)
	assert.Equal(t, "assert", entry.Dev)

	entry = m["48"]
	assert.Nil(t, entry.Location)
}

func TestPCMapNullBounds(t *testing.T) {
	var m PCMap
	require.NoError(t, json.Unmarshal([]byte(`{"7": [3, null, 3, null]}`), &m))
	entry := m["7"]
	require.NotNil(t, entry.Location)
	assert.Equal(t, -1, entry.Location.ColumnStart)
	assert.Equal(t, -1, entry.Location.ColumnEnd)
}

func TestPCMapParse(t *testing.T) {
	var m PCMap
	require.NoError(t, json.Unmarshal([]byte(`{"0": [1,0,1,5], "256": [9,0,9,2]}`), &m))

	parsed, err := m.Parse()
	require.NoError(t, err)
	require.Len(t, parsed, 2)
	assert.Equal(t, 1, parsed[0].Location.LineStart)
	assert.Equal(t, 9, parsed[256].Location.LineStart)
}

func TestPCMapParseBadKey(t *testing.T) {
	m := PCMap{"not-a-pc": {}}
	_, err := m.Parse()
	require.Error(t, err)
}

func TestPCMapEntryBadLocation(t *testing.T) {
	var m PCMap
	err := json.Unmarshal([]byte(`{"0": [1, 2]}`), &m)
	require.Error(t, err)
}
