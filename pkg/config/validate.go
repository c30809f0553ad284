package config

import (
	"fmt"
	"strings"

	"github.com/getmockd/crudsync/pkg/record"
)

// ConfigError reports an invalid store configuration.
type ConfigError struct {
	// Field is the offending configuration field, e.g. "route" or
	// "customActions.publish.route".
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid config field %q: %s", e.Field, e.Message)
	}
	return "invalid config: " + e.Message
}

var validMethods = map[string]bool{
	"get":     true,
	"post":    true,
	"put":     true,
	"patch":   true,
	"delete":  true,
	"head":    true,
	"options": true,
}

// defaultMethods are the HTTP verbs of the standard actions.
var defaultMethods = [numStandard]string{
	KindGet:     "get",
	KindGetList: "get",
	KindCreate:  "post",
	KindUpdate:  "patch",
	KindDelete:  "delete",
}

// usesDetailRoute reports whether a standard action addresses one record.
func usesDetailRoute(k Kind) bool {
	return k == KindGet || k == KindUpdate || k == KindDelete
}

// Validate resolves cfg into an action table. It is pure: cfg is not
// modified and the same input always yields an equivalent result.
func Validate(cfg Config) (*Resolved, error) {
	if cfg.Route.IsZero() {
		return nil, &ConfigError{Field: "route", Message: "route is required"}
	}
	if cfg.Transport == nil {
		return nil, &ConfigError{Field: "transport", Message: "transport is required"}
	}

	idField := strings.TrimSpace(cfg.IDField)
	if idField == "" {
		idField = record.DefaultKeyField
	}
	byKey := strings.TrimSpace(cfg.ByKey)
	if byKey == "" {
		byKey = idField
	}

	onError := cfg.OnError
	if onError == nil {
		onError = func(error) {}
	}

	r := &Resolved{
		IDField:       idField,
		ByKey:         byKey,
		Route:         cfg.Route,
		Transport:     cfg.Transport,
		IncludeRecord: cfg.IncludeRecord,
		custom:        make(map[string]*Descriptor, len(cfg.CustomActions)),
	}
	if cfg.State != nil {
		r.hasState = true
		r.state = make(map[string]interface{}, len(cfg.State))
		for k, v := range cfg.State {
			r.state[k] = v
		}
	}

	actions := cfg.Actions
	if actions == nil {
		actions = AllActions()
	}
	detail := cfg.Route.Detail(idField)

	for _, k := range StandardKinds() {
		override := actions.byKind(k)
		if override == nil {
			continue
		}
		route := cfg.Route
		if usesDetailRoute(k) {
			route = detail
		}
		d := &Descriptor{
			Ref:    Ref{Kind: k},
			Method: defaultMethods[k],
			Route:  route,
		}
		if err := applyOverride(d, k.String(), override.Method, override.Route,
			override.PrepareBody, override.TransformResponse, override.OnSuccess, override.OnError, onError); err != nil {
			return nil, err
		}
		r.standard[k] = d
	}

	for name, ca := range cfg.CustomActions {
		field := "customActions." + name
		if strings.TrimSpace(name) == "" {
			return nil, &ConfigError{Field: "customActions", Message: "custom action name cannot be empty"}
		}
		if _, std := ParseKind(name); std {
			return nil, &ConfigError{Field: field, Message: "custom action name collides with a standard action"}
		}
		if ca.Route.IsZero() {
			return nil, &ConfigError{Field: field + ".route", Message: "custom actions require a route"}
		}
		d := &Descriptor{
			Ref:    Custom(name),
			Method: "get",
			Route:  ca.Route,
		}
		if err := applyOverride(d, name, ca.Method, Route{},
			ca.PrepareBody, ca.TransformResponse, ca.OnSuccess, ca.OnError, onError); err != nil {
			return nil, err
		}
		r.custom[name] = d
	}

	return r, nil
}

// applyOverride layers explicitly set override fields over the defaults in
// d and fills the remaining optional fields so the descriptor has no gaps.
func applyOverride(
	d *Descriptor,
	name string,
	method string,
	route Route,
	prepare BodyFunc,
	transform ResponseFunc,
	onSuccess SuccessFunc,
	onError ErrorFunc,
	inheritedOnError ErrorFunc,
) error {
	if method != "" {
		m := strings.ToLower(strings.TrimSpace(method))
		if !validMethods[m] {
			return &ConfigError{Field: name + ".method", Message: fmt.Sprintf("unsupported HTTP method %q", method)}
		}
		d.Method = m
	}
	if !route.IsZero() {
		d.Route = route
	}

	d.PrepareBody = prepare
	if d.PrepareBody == nil {
		d.PrepareBody = func(body interface{}) interface{} { return body }
	}
	d.TransformResponse = transform
	if d.TransformResponse == nil {
		d.TransformResponse = func(data interface{}) interface{} { return data }
	}
	d.OnSuccess = onSuccess
	if d.OnSuccess == nil {
		d.OnSuccess = func(interface{}) {}
	}
	d.OnError = onError
	if d.OnError == nil {
		d.OnError = inheritedOnError
	}
	return nil
}

// MustValidate is like Validate but panics on error. Useful for stores
// declared at package scope.
func MustValidate(cfg Config) *Resolved {
	r, err := Validate(cfg)
	if err != nil {
		panic(err)
	}
	return r
}
