package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceInputUnmarshal(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantType  string
		wantValue string
	}{
		{"bare string", `"https://example.com"`, "", "https://example.com"},
		{"object", `{"type":"text","value":"pasted"}`, "text", "pasted"},
		{"object without type", `{"value":"pasted"}`, "", "pasted"},
		{"number degrades to empty", `42`, "", ""},
		{"bool degrades to empty", `true`, "", ""},
		{"nested array degrades to empty", `[1,2]`, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var in SourceInput
			require.NoError(t, json.Unmarshal([]byte(tt.input), &in))
			assert.Equal(t, tt.wantType, in.Type)
			assert.Equal(t, tt.wantValue, in.Value)
		})
	}
}

func TestSourceListUnmarshal(t *testing.T) {
	t.Run("mixed array", func(t *testing.T) {
		var list SourceList
		raw := `["https://example.com",{"type":"text","value":"pasted"},123]`
		require.NoError(t, json.Unmarshal([]byte(raw), &list))

		require.Len(t, list, 3)
		assert.Equal(t, "https://example.com", list[0].Value)
		assert.Equal(t, "text", list[1].Type)
		assert.Equal(t, "pasted", list[1].Value)
		assert.Equal(t, "", list[2].Value)
	})

	t.Run("non-array degrades to empty list", func(t *testing.T) {
		for _, raw := range []string{`"oops"`, `{"a":1}`, `42`, `null`} {
			var list SourceList
			require.NoError(t, json.Unmarshal([]byte(raw), &list))
			assert.Empty(t, list, "input %s", raw)
		}
	})
}
