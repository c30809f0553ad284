package definition

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/crudsync/pkg/config"
	"github.com/getmockd/crudsync/pkg/record"
	"github.com/getmockd/crudsync/pkg/stateful"
	"github.com/getmockd/crudsync/pkg/transport"
)

const usersYAML = `
baseUrl: http://localhost:4280
entities:
  users:
    route: /api/users/
    includeRecord: true
    state:
      filter: ""
    actions:
      get: true
      getList:
        responsePath: "$.data"
      create:
        bodyExpr: '{"name": record.name, "source": "cli"}'
      update:
        method: put
      delete: false
    customActions:
      activate:
        method: post
        routeExpr: '"/api/users/" + string(record.id) + "/activate/"'
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// recordingTransport answers every request with data and keeps the last one.
type recordingTransport struct {
	data interface{}
	last *transport.Request
}

func (r *recordingTransport) Do(ctx context.Context, req *transport.Request) (*transport.Response, error) {
	r.last = req
	return &transport.Response{Data: r.data, Status: 200}, nil
}

func TestParse(t *testing.T) {
	t.Parallel()

	f, err := Parse("users.yaml", []byte(usersYAML))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:4280", f.BaseURL)
	assert.Equal(t, []string{"users"}, f.Names())

	users := f.Entities["users"]
	assert.Equal(t, "/api/users/", users.Route)
	assert.True(t, users.IncludeRecord)
	assert.True(t, users.Actions["get"].Enabled)
	assert.False(t, users.Actions["delete"].Enabled)
	assert.True(t, users.Actions["update"].Enabled, "object form implies enabled")
	assert.Equal(t, "put", users.Actions["update"].Method)
	assert.Equal(t, "$.data", users.Actions["getList"].ResponsePath)
	assert.Equal(t, "post", users.CustomActions["activate"].Method)
}

func TestParse_JSON(t *testing.T) {
	t.Parallel()

	f, err := Parse("defs.json", []byte(`{"entities": {"books": {"route": "/api/books", "id": "isbn"}}}`))
	require.NoError(t, err)
	assert.Equal(t, "isbn", f.Entities["books"].ID)
	assert.Nil(t, f.Entities["books"].Actions)
}

func TestParse_SchemaViolations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
	}{
		{"no entities", `baseUrl: http://x`},
		{"entity without route", "entities:\n  users:\n    id: id\n"},
		{"unknown entity field", "entities:\n  users:\n    route: /u\n    colour: red\n"},
		{"unknown standard action", "entities:\n  users:\n    route: /u\n    actions:\n      patch: true\n"},
		{"action is a string", "entities:\n  users:\n    route: /u\n    actions:\n      get: yes please\n"},
		{"route and routeExpr", "entities:\n  users:\n    route: /u\n    actions:\n      get: {route: /a, routeExpr: '\"/b\"'}\n"},
		{"custom action without route", "entities:\n  users:\n    route: /u\n    customActions:\n      ping: {method: post}\n"},
		{"includeRecord not boolean", "entities:\n  users:\n    route: /u\n    includeRecord: maybe\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse("defs.yaml", []byte(tt.doc))
			require.Error(t, err)

			var schemaErr *SchemaError
			require.True(t, errors.As(err, &schemaErr), err.Error())
			assert.NotEmpty(t, schemaErr.Violations)
			assert.Contains(t, err.Error(), "defs.yaml")
		})
	}
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	_, err := Parse("empty.yaml", []byte("  \n"))
	assert.Error(t, err)

	_, err = Parse("bad.yaml", []byte("entities: [unclosed"))
	assert.Error(t, err)
}

func TestParse_ExpandsEnvVars(t *testing.T) {
	t.Setenv("CRUDSYNC_TEST_API", "http://api.internal")

	f, err := Parse("env.yaml", []byte("baseUrl: ${CRUDSYNC_TEST_API}\nentities:\n  users:\n    route: ${CRUDSYNC_TEST_ROUTE:-/api/users/}\n"))
	require.NoError(t, err)
	assert.Equal(t, "http://api.internal", f.BaseURL)
	assert.Equal(t, "/api/users/", f.Entities["users"].Route)
}

func TestLoadGlob(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "users.yaml", usersYAML)
	writeFile(t, dir, "nested/deep/books.yaml", "entities:\n  books:\n    route: /api/books/\n")

	f, err := LoadGlob(filepath.Join(dir, "**", "*.yaml"))
	require.NoError(t, err)
	assert.Equal(t, []string{"books", "users"}, f.Names())
	assert.Equal(t, "http://localhost:4280", f.BaseURL)

	single, err := LoadGlob(filepath.Join(dir, "users.yaml"))
	require.NoError(t, err)
	assert.Equal(t, []string{"users"}, single.Names())

	_, err = LoadGlob(filepath.Join(dir, "*.json"))
	assert.Error(t, err)
}

func TestLoadGlob_DuplicateEntity(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "a.yaml", "entities:\n  users:\n    route: /a/\n")
	writeFile(t, dir, "b.yaml", "entities:\n  users:\n    route: /b/\n")

	_, err := LoadGlob(filepath.Join(dir, "*.yaml"))
	require.Error(t, err)

	var defErr *Error
	require.True(t, errors.As(err, &defErr))
	assert.Equal(t, "users", defErr.Entity)
	assert.Contains(t, defErr.Message, "a.yaml")
}

func TestMerge_BaseURLConflict(t *testing.T) {
	t.Parallel()

	_, err := Merge([]string{"a", "b"}, []*File{
		{BaseURL: "http://one", Entities: map[string]Entity{"x": {Route: "/x"}}},
		{BaseURL: "http://two", Entities: map[string]Entity{"y": {Route: "/y"}}},
	})
	assert.Error(t, err)
}

func TestLoadFile_NotFound(t *testing.T) {
	t.Parallel()

	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file not found")
}

func TestConfigs(t *testing.T) {
	t.Parallel()

	f, err := Parse("users.yaml", []byte(usersYAML))
	require.NoError(t, err)

	tr := &recordingTransport{}
	cfgs, err := f.Configs(tr)
	require.NoError(t, err)

	resolved, err := config.Validate(cfgs["users"])
	require.NoError(t, err)
	assert.Equal(t, []config.Ref{config.Get, config.GetList, config.Create, config.Update, config.Custom("activate")}, resolved.Refs())

	update, _ := resolved.Resolve(config.Update)
	assert.Equal(t, "put", update.Method)
	assert.Equal(t, "/api/users/4/", update.Route.Build(record.Record{"id": 4}, config.RouteArgs{}))

	activate, _ := resolved.Resolve(config.Custom("activate"))
	assert.Equal(t, "post", activate.Method)
	assert.Equal(t, "/api/users/4/activate/", activate.Route.Build(record.Record{"id": 4}, config.RouteArgs{}))

	create, _ := resolved.Resolve(config.Create)
	assert.Equal(t, map[string]interface{}{"name": "Ann", "source": "cli"}, create.PrepareBody(record.Record{"name": "Ann", "age": 3}))

	list, _ := resolved.Resolve(config.GetList)
	data := map[string]interface{}{"data": []interface{}{map[string]interface{}{"id": 1}}}
	assert.Equal(t, []interface{}{map[string]interface{}{"id": 1}}, list.TransformResponse(data))
	assert.Nil(t, list.TransformResponse(map[string]interface{}{"other": 1}))
}

func TestConfigs_CompileErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		spec      ActionSpec
		wantField string
	}{
		{"bad route expression", ActionSpec{Enabled: true, RouteExpr: `"/a" +`}, "actions.get.routeExpr"},
		{"bad body expression", ActionSpec{Enabled: true, BodyExpr: `{`}, "actions.get.bodyExpr"},
		{"bad response path", ActionSpec{Enabled: true, ResponsePath: `$.data[1`}, "actions.get.responsePath"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := &File{Entities: map[string]Entity{
				"users": {Route: "/api/users/", Actions: map[string]ActionSpec{"get": tt.spec}},
			}}
			_, err := f.Configs(&recordingTransport{})
			require.Error(t, err)

			var defErr *Error
			require.True(t, errors.As(err, &defErr))
			assert.Equal(t, "users", defErr.Entity)
			assert.Equal(t, tt.wantField, defErr.Field)
		})
	}
}

func TestRegister_EndToEnd(t *testing.T) {
	t.Parallel()

	f, err := Parse("users.yaml", []byte(usersYAML))
	require.NoError(t, err)

	tr := &recordingTransport{data: map[string]interface{}{
		"data": []interface{}{
			map[string]interface{}{"id": 2, "name": "B"},
			map[string]interface{}{"id": 1, "name": "A"},
		},
	}}
	reg := stateful.NewRegistry()
	require.NoError(t, f.Register(reg, tr))

	users, ok := reg.Lookup("users")
	require.True(t, ok)

	out := users.MustAction(config.GetList).Call(context.Background(), stateful.Args{})
	require.NotNil(t, out)
	assert.Equal(t, 2, users.Count())

	state, ok := users.State()
	require.True(t, ok)
	assert.Equal(t, map[string]interface{}{"filter": ""}, state)

	tr.data = map[string]interface{}{"ok": true}
	users.MustAction(config.Custom("activate")).Call(context.Background(), stateful.Args{Payload: record.Record{"id": 2}})
	assert.Equal(t, "/api/users/2/activate/", tr.last.URL)
}
