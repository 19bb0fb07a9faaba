package tools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefinitionsAreWellFormed(t *testing.T) {
	catalog := Definitions()
	require.Len(t, catalog, 10)

	seen := map[string]bool{}
	for _, definition := range catalog {
		require.NotEmpty(t, definition.Name)
		require.NotEmpty(t, definition.Description, definition.Name)
		require.False(t, seen[definition.Name], "duplicate tool name: %s", definition.Name)
		seen[definition.Name] = true

		var schema map[string]any
		require.NoError(t, json.Unmarshal(definition.InputSchema, &schema), definition.Name)
		require.Equal(t, "object", schema["type"], definition.Name)
	}
}

func TestFindDefinition(t *testing.T) {
	definition := FindDefinition(ToolCreateTask)
	require.NotNil(t, definition)
	require.Equal(t, ToolCreateTask, definition.Name)

	require.Nil(t, FindDefinition("no_such_tool"))
}

func TestEveryDefinitionIsDispatchable(t *testing.T) {
	d, _ := newTestDispatcher(t)

	// Garbage input must reach each handler and come back as a validation
	// failure, never as "unknown tool".
	for _, definition := range Definitions() {
		result := d.Execute(context.Background(), definition.Name, `{}`, 1)
		require.False(t, result.OK, definition.Name)
		require.NotEqual(t, "unknown tool: "+definition.Name, result.Message, definition.Name)
	}
}
