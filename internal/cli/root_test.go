package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRootCmd(t *testing.T) {
	cmd := NewRootCmd()

	assert.Equal(t, "quarry", cmd.Use)
	assert.Equal(t, Version, cmd.Version)

	subs := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		subs[sub.Name()] = true
	}
	for _, want := range []string{"serve", "tables", "imports", "query", "browse", "version", "completion"} {
		assert.True(t, subs[want], "subcommand %q should be registered", want)
	}

	flags := []string{"config", "state", "imports-dir", "verbose", "output"}
	for _, flag := range flags {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), "persistent flag %q should exist", flag)
	}
}
