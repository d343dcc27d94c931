package fixedwidth

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLayout = Layout{
	Fields: []Field{
		Filler(2),
		{Name: "code", Width: 4, Pad: '0', Justify: Right, Default: "0000"},
		Const(" "),
		{Name: "name", Width: 6, Truncate: true},
		Const("|"),
	},
	LineEnding: "\n",
}

func TestLayout_Width(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 14, testLayout.Width())
}

func TestLayout_Offset(t *testing.T) {
	t.Parallel()
	col, ok := testLayout.Offset("code")
	require.True(t, ok)
	assert.Equal(t, 3, col)

	col, ok = testLayout.Offset("name")
	require.True(t, ok)
	assert.Equal(t, 8, col)

	_, ok = testLayout.Offset("missing")
	assert.False(t, ok)
}

func TestLayout_Format(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		values map[string]string
		want   string
	}{
		{"pads both sides", map[string]string{"code": "42", "name": "Ann"}, "  0042 Ann   |\n"},
		{"default when empty", map[string]string{"name": "Bo"}, "  0000 Bo    |\n"},
		{"truncates name", map[string]string{"code": "7", "name": "Alexandra"}, "  0007 Alexan|\n"},
		{"counts runes", map[string]string{"code": "1", "name": "Zoë"}, "  0001 Zoë   |\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := testLayout.Format(tt.values)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLayout_FormatOverflow(t *testing.T) {
	t.Parallel()
	_, err := testLayout.Format(map[string]string{"code": "12345", "name": "x"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFieldOverflow))

	var overflow *OverflowError
	require.ErrorAs(t, err, &overflow)
	assert.Equal(t, "code", overflow.Field)
	assert.Equal(t, 4, overflow.Width)
}

func TestWriter(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	w := NewWriter(&buf, testLayout)

	require.NoError(t, w.Write(map[string]string{"code": "1", "name": "A"}))
	require.NoError(t, w.Write(map[string]string{"code": "2", "name": "B"}))
	err := w.Write(map[string]string{"code": "99999"})

	assert.ErrorContains(t, err, "record 3")
	assert.Equal(t, 2, w.Count())
	assert.Equal(t, "  0001 A     |\n  0002 B     |\n", buf.String())
}
