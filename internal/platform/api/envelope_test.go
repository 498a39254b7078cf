package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnwrap_Success(t *testing.T) {
	data, err := Unwrap([]byte(`{"code":0,"msg":"ok","data":{"id":1}}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1}`, string(data))
}

func TestUnwrap_NonZeroCode(t *testing.T) {
	_, err := Unwrap([]byte(`{"code":3,"msg":"duplicate","data":null}`))
	require.Error(t, err)

	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindRejected, kind)
	assert.Equal(t, "duplicate", err.Error())
}

func TestUnwrap_NonZeroCode_NoMessage(t *testing.T) {
	_, err := Unwrap([]byte(`{"code":7,"data":null}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "7")
}

func TestUnwrap_CompatibilityMode(t *testing.T) {
	// Payloads without a recognizable code/data shape pass through whole.
	raw := `{"id":42,"name":"张三"}`
	data, err := Unwrap([]byte(raw))
	require.NoError(t, err)
	assert.JSONEq(t, raw, string(data))
}

func TestUnwrap_CompatibilityMode_PartialShape(t *testing.T) {
	// "code" alone is not the envelope shape.
	raw := `{"code":"ICD-10","name":"flu"}`
	data, err := Unwrap([]byte(raw))
	require.NoError(t, err)
	assert.JSONEq(t, raw, string(data))
}

func TestUnwrap_ArrayPassthrough(t *testing.T) {
	raw := `[{"id":1},{"id":2}]`
	data, err := Unwrap([]byte(raw))
	require.NoError(t, err)

	var items []json.RawMessage
	require.NoError(t, json.Unmarshal(data, &items))
	assert.Len(t, items, 2)
}

func TestUnwrap_Malformed(t *testing.T) {
	for _, body := range []string{"", "   ", "<html>502</html>", `{"code":0,"data":`} {
		_, err := Unwrap([]byte(body))
		require.Error(t, err, "body %q", body)
		kind, ok := KindOf(err)
		require.True(t, ok)
		assert.Equal(t, KindMalformed, kind)
	}
}

func TestIsDegradable(t *testing.T) {
	assert.True(t, IsDegradable(unreachable(nil)))
	assert.True(t, IsDegradable(malformed(nil)))
	assert.False(t, IsDegradable(rejected(3, "duplicate")))
	assert.False(t, IsDegradable(assert.AnError))
}
