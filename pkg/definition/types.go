package definition

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// File is a parsed definitions document.
type File struct {
	// BaseURL is the backend base URL. The CLI's own setting takes
	// precedence when both are set.
	BaseURL string `yaml:"baseUrl,omitempty" json:"baseUrl,omitempty"`
	// Entities maps entity keys to their definitions.
	Entities map[string]Entity `yaml:"entities" json:"entities"`
}

// Names returns the entity keys in sorted order.
func (f *File) Names() []string {
	names := make([]string, 0, len(f.Entities))
	for name := range f.Entities {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Entity declares one store.
type Entity struct {
	Route         string                 `yaml:"route" json:"route"`
	ID            string                 `yaml:"id,omitempty" json:"id,omitempty"`
	ByKey         string                 `yaml:"byKey,omitempty" json:"byKey,omitempty"`
	IncludeRecord bool                   `yaml:"includeRecord,omitempty" json:"includeRecord,omitempty"`
	State         map[string]interface{} `yaml:"state,omitempty" json:"state,omitempty"`
	// Actions selects the standard actions. Omitted enables all five.
	Actions       map[string]ActionSpec `yaml:"actions,omitempty" json:"actions,omitempty"`
	CustomActions map[string]ActionSpec `yaml:"customActions,omitempty" json:"customActions,omitempty"`
}

// ActionSpec is either a boolean or an object of overrides.
// An object implies the action is enabled.
type ActionSpec struct {
	Enabled bool `yaml:"-" json:"-"`

	Method string `yaml:"method,omitempty" json:"method,omitempty"`
	// Route is a static path. RouteExpr computes one per call from
	// {record, args, params}. They are mutually exclusive.
	Route     string `yaml:"route,omitempty" json:"route,omitempty"`
	RouteExpr string `yaml:"routeExpr,omitempty" json:"routeExpr,omitempty"`
	// BodyExpr computes the request body from {record, body}.
	BodyExpr string `yaml:"bodyExpr,omitempty" json:"bodyExpr,omitempty"`
	// ResponsePath is a JSONPath selecting the response data.
	ResponsePath string `yaml:"responsePath,omitempty" json:"responsePath,omitempty"`
}

// UnmarshalYAML accepts `true`, `false` or an override object.
func (a *ActionSpec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		var enabled bool
		if err := node.Decode(&enabled); err != nil {
			return fmt.Errorf("line %d: action must be a boolean or an object", node.Line)
		}
		*a = ActionSpec{Enabled: enabled}
		return nil
	}

	type actionSpecAlias ActionSpec
	alias := (*actionSpecAlias)(a)
	if err := node.Decode(alias); err != nil {
		return err
	}
	a.Enabled = true
	return nil
}

// Error reports an invalid definition.
type Error struct {
	Path    string
	Entity  string
	Field   string
	Message string
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Field != "" {
		msg = e.Field + ": " + msg
	}
	if e.Entity != "" {
		msg = "entity " + e.Entity + ": " + msg
	}
	if e.Path != "" {
		msg = e.Path + ": " + msg
	}
	return msg
}

// SchemaError lists the schema violations of a document.
type SchemaError struct {
	Path       string
	Violations []string
}

func (e *SchemaError) Error() string {
	prefix := "invalid definitions"
	if e.Path != "" {
		prefix = e.Path + ": " + prefix
	}
	switch len(e.Violations) {
	case 0:
		return prefix
	case 1:
		return prefix + ": " + e.Violations[0]
	default:
		return fmt.Sprintf("%s: %d violations, first: %s", prefix, len(e.Violations), e.Violations[0])
	}
}
