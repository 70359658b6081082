package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetCommands(t *testing.T) {
	names := make(map[string]bool)
	for _, cmd := range getCommands("test") {
		assert.NotNil(t, cmd.Action, cmd.Name)
		names[cmd.Name] = true
	}

	for _, name := range []string{
		"server",
		"migrate",
		"create-queue",
		"toggle-queue",
		"export-events",
		"create-api-key",
	} {
		assert.True(t, names[name], "missing command %s", name)
	}
}
