package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck(t *testing.T) {
	schema := Required("name", "email")

	fields, err := schema.Check(map[string]any{"name": "Asha", "email": "asha@example.com"})
	require.NoError(t, err)
	assert.Empty(t, fields)

	fields, err = schema.Check(map[string]any{"name": "Asha", "email": "a@b.c", "phone": nil})
	require.NoError(t, err)
	assert.Empty(t, fields)

	fields, err = schema.Check(map[string]any{"name": "   "})
	require.NoError(t, err)
	assert.Equal(t, []string{"email", "name"}, fields)

	fields, err = schema.Check(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"email", "name"}, fields)

	fields, err = schema.Check(map[string]any{"name": nil, "email": "a@b.c"})
	require.NoError(t, err)
	assert.Equal(t, []string{"name"}, fields)
}

func TestCheck_OnlyPresence(t *testing.T) {
	schema := Required("name", "email")

	fields, err := schema.Check(map[string]any{"name": 42, "email": "a@b.c", "phone": 5551234, "extra": []any{1}})
	require.NoError(t, err)
	assert.Empty(t, fields)

	fields, err = schema.Check(map[string]any{"name": true, "email": map[string]any{"x": 1}})
	require.NoError(t, err)
	assert.Empty(t, fields)
}
