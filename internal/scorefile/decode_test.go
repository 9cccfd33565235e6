package scorefile

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/prxlab/prxdash/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeScores_Basic(t *testing.T) {
	input := `[
		{"prompt_count": 1, "prompt_id": "a1", "instruction_original": [1,2,3], "instruct_formal": [4,5,6]},
		{"prompt_count": "2", "instruct_formal": [7,8,9]}
	]`

	records, err := DecodeScores(strings.NewReader(input), 3)
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "a1", first.PromptID)
	assert.Equal(t, 1, first.PromptCount)
	assert.True(t, first.HasCount)
	require.Contains(t, first.Styles, models.BaselineStyle)
	require.Contains(t, first.Styles, "instruct_formal")
	assert.NotContains(t, first.Styles, models.FieldPromptID)
	assert.NotContains(t, first.Styles, models.FieldPromptCount)
	assert.Equal(t, []float64{4, 5, 6}, first.Styles["instruct_formal"].Values)
	assert.True(t, first.Styles["instruct_formal"].Complete())

	second := records[1]
	assert.Equal(t, 2, second.PromptCount, "numeric string prompt_count is accepted")
	assert.True(t, second.HasCount)
}

func TestDecodeScores_NumericPromptID(t *testing.T) {
	records, err := DecodeScores(strings.NewReader(`[{"prompt_id": 42, "s": [1]}]`), 1)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "42", records[0].PromptID)
	assert.False(t, records[0].HasCount)
}

func TestDecodeScores_MalformedFieldsAreKeptAsInvalid(t *testing.T) {
	input := `[{
		"short":    [1, 2],
		"long":     [1, 2, 3, 4],
		"mixed":    [1, "x", null],
		"text":     "not scores",
		"nothing":  null
	}]`

	records, err := DecodeScores(strings.NewReader(input), 3)
	require.NoError(t, err)
	require.Len(t, records, 1)
	styles := records[0].Styles

	short := styles["short"]
	assert.True(t, short.IsArray)
	assert.Equal(t, 2, short.Len)
	assert.Equal(t, []bool{true, true, false}, short.Valid)

	long := styles["long"]
	assert.Equal(t, 4, long.Len)
	assert.Equal(t, []float64{1, 2, 3}, long.Values)
	assert.True(t, long.Complete())

	mixed := styles["mixed"]
	assert.Equal(t, []bool{true, false, false}, mixed.Valid)

	assert.False(t, styles["text"].IsArray)
	assert.False(t, styles["nothing"].IsArray)
	require.Contains(t, styles, "text", "non-array fields still name a style")

	_, ok := mixed.At(1)
	assert.False(t, ok)
	v, ok := mixed.At(0)
	assert.True(t, ok)
	assert.Equal(t, 1.0, v)
}

func TestDecodeScores_NumericStringsAreInvalid(t *testing.T) {
	records, err := DecodeScores(strings.NewReader(`[{"prompt_count": 1, "s": ["7", 8]}]`), 2)
	require.NoError(t, err)
	require.Len(t, records, 1)

	s := records[0].Styles["s"]
	assert.Equal(t, []bool{false, true}, s.Valid)
	assert.False(t, s.Complete())
	assert.Equal(t, []Issue{{Record: 0, Style: "s", Reason: "missing or non-numeric scores"}}, FindIssues(records))
}

func TestDecodeScores_SkipsNonObjectElements(t *testing.T) {
	records, err := DecodeScores(strings.NewReader(`[1, "x", null, {"s": [5]}]`), 1)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, []float64{5}, records[0].Styles["s"].Values)
}

func TestDecodeScores_Errors(t *testing.T) {
	_, err := DecodeScores(strings.NewReader(`{"s": [1]}`), 1)
	assert.ErrorIs(t, err, ErrNotArray)

	_, err = DecodeScores(strings.NewReader(`[{"s": [1]`), 1)
	assert.Error(t, err)
}

func TestDecodeInstructions(t *testing.T) {
	input := `[
		{"prompt_count": 3, "instruction_original": "Write a haiku.", "instruct_formal": "Kindly compose a haiku.", "other": 5}
	]`
	ins, err := DecodeInstructions(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, ins, 1)
	assert.Equal(t, 3, ins[0].PromptCount)
	assert.Equal(t, "Write a haiku.", ins[0].Original)

	text, ok := ins[0].Text("instruct_formal")
	assert.True(t, ok)
	assert.Equal(t, "Kindly compose a haiku.", text)

	text, ok = ins[0].Text(models.BaselineStyle)
	assert.True(t, ok)
	assert.Equal(t, "Write a haiku.", text)

	_, ok = ins[0].Text("other")
	assert.False(t, ok)
}

func TestNewReader_Plain(t *testing.T) {
	rc, err := NewReader(io.NopCloser(strings.NewReader(`[{"s":[1]}]`)))
	require.NoError(t, err)
	defer rc.Close() //nolint:errcheck

	records, err := DecodeScores(rc, 1)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestNewReader_Gzip(t *testing.T) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(`[{"s":[2]},{"s":[4]}]`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	rc, err := NewReader(io.NopCloser(&buf))
	require.NoError(t, err)
	defer rc.Close() //nolint:errcheck

	records, err := DecodeScores(rc, 1)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []float64{4}, records[1].Styles["s"].Values)
}

func TestNewReader_Empty(t *testing.T) {
	rc, err := NewReader(io.NopCloser(strings.NewReader("")))
	require.NoError(t, err)
	_, err = DecodeScores(rc, 1)
	assert.Error(t, err)
}
