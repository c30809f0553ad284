package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmdRegistersCommands(t *testing.T) {
	names := map[string]bool{}
	for _, cmd := range rootCmd.Commands() {
		names[cmd.Name()] = true
	}
	for _, want := range []string{"entities", "list", "get", "create", "update", "delete", "call", "version"} {
		assert.True(t, names[want], "rootCmd should have %q subcommand", want)
	}
}

func TestRootCmdPersistentFlags(t *testing.T) {
	pf := rootCmd.PersistentFlags()
	for _, name := range []string{"base-url", "token", "timeout", "definitions", "log-level", "log-format", "verbose", "json"} {
		assert.NotNil(t, pf.Lookup(name), "rootCmd should have --%s", name)
	}
	assert.Equal(t, "d", pf.Lookup("definitions").Shorthand)
	assert.Equal(t, "v", pf.Lookup("verbose").Shorthand)
}

func TestActionCmdFlags(t *testing.T) {
	assert.NotNil(t, listCmd.Flags().Lookup("param"))
	assert.NotNil(t, callCmd.Flags().Lookup("param"))
	for _, f := range []string{"data", "file"} {
		assert.NotNil(t, createCmd.Flags().Lookup(f), "create --%s", f)
		assert.NotNil(t, updateCmd.Flags().Lookup(f), "update --%s", f)
		assert.NotNil(t, callCmd.Flags().Lookup(f), "call --%s", f)
	}
}

func TestActionCmdArgs(t *testing.T) {
	tests := []struct {
		name  string
		args  func([]string) error
		good  []string
		wrong [][]string
	}{
		{"list", func(a []string) error { return listCmd.Args(listCmd, a) }, []string{"users"}, [][]string{{}, {"users", "1"}}},
		{"get", func(a []string) error { return getCmd.Args(getCmd, a) }, []string{"users", "1"}, [][]string{{"users"}}},
		{"create", func(a []string) error { return createCmd.Args(createCmd, a) }, []string{"users"}, [][]string{{}}},
		{"update", func(a []string) error { return updateCmd.Args(updateCmd, a) }, []string{"users", "1"}, [][]string{{"users"}}},
		{"delete", func(a []string) error { return deleteCmd.Args(deleteCmd, a) }, []string{"users", "1"}, [][]string{{"users", "1", "2"}}},
		{"call", func(a []string) error { return callCmd.Args(callCmd, a) }, []string{"users", "activate"}, [][]string{{"users"}}},
		{"entities", func(a []string) error { return entitiesCmd.Args(entitiesCmd, a) }, []string{}, [][]string{{"users"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NoError(t, tt.args(tt.good))
			for _, w := range tt.wrong {
				assert.Error(t, tt.args(w), "%v", w)
			}
		})
	}
}

func TestReadPayload(t *testing.T) {
	t.Parallel()

	rec, err := readPayload(`{"name": "Ann", "age": 41}`, "")
	require.NoError(t, err)
	assert.Equal(t, "Ann", rec["name"])
	assert.Equal(t, json.Number("41"), rec["age"])

	rec, err = readPayload("", "")
	require.NoError(t, err)
	assert.Nil(t, rec)

	_, err = readPayload(`[1, 2]`, "")
	assert.Error(t, err)

	_, err = readPayload(`{}`, "x.json")
	assert.Error(t, err)
}

func TestDisplayVersion(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "v1.2.0", displayVersion("1.2.0"))
	assert.Equal(t, "v1.2.0", displayVersion("v1.2.0"))
	assert.Equal(t, "dev", displayVersion("dev"))
	assert.Equal(t, "(devel)", displayVersion("(devel)"))
}
