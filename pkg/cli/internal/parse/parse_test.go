package parse

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in         string
		delims     []rune
		key, value string
		ok         bool
	}{
		{"Content-Type:application/json", nil, "Content-Type", "application/json", true},
		{"page=2", []rune{'='}, "page", "2", true},
		{"a=b:c", []rune{':', '='}, "a", "b:c", true},
		{"nothing", nil, "", "", false},
	}
	for _, tt := range tests {
		key, value, ok := KeyValue(tt.in, tt.delims...)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.key, key, tt.in)
		assert.Equal(t, tt.value, value, tt.in)
	}
}

func TestJSONObject(t *testing.T) {
	t.Parallel()

	obj, err := JSONObject([]byte(`{"id": 9007199254740993}`))
	require.NoError(t, err)
	assert.Equal(t, json.Number("9007199254740993"), obj["id"])

	obj, err = JSONObject([]byte("  "))
	require.NoError(t, err)
	assert.Nil(t, obj)

	_, err = JSONObject([]byte(`"text"`))
	assert.Error(t, err)
}
