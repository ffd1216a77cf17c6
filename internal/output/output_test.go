package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrint_JSONMode(t *testing.T) {
	var buf bytes.Buffer
	Stdout = &buf
	JSONMode = true
	t.Cleanup(func() { JSONMode = false })

	called := false
	Print(map[string]int{"sessions": 2}, func() { called = true })

	assert.False(t, called)
	assert.JSONEq(t, `{"success":true,"data":{"sessions":2}}`, buf.String())
}

func TestPrint_TextMode(t *testing.T) {
	JSONMode = false
	called := false
	Print(nil, func() { called = true })
	assert.True(t, called)
}

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	err := Table(&buf, []string{"Project", "Tokens"}, 1, [][]string{
		{"alpha", "1,200"},
		{"beta", "30"},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "alpha")
	assert.Contains(t, out, "1,200")
	assert.Contains(t, out, "beta")
}
