package definition

import (
	"fmt"
	"log/slog"
	"net/url"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/ohler55/ojg/jp"

	"github.com/getmockd/crudsync/pkg/config"
	"github.com/getmockd/crudsync/pkg/logging"
	"github.com/getmockd/crudsync/pkg/record"
	"github.com/getmockd/crudsync/pkg/stateful"
	"github.com/getmockd/crudsync/pkg/transport"
)

// Option configures compilation.
type Option func(*compiler)

// WithLogger sets the logger that receives expression evaluation failures.
func WithLogger(log *slog.Logger) Option {
	return func(c *compiler) {
		c.log = log
	}
}

type compiler struct {
	log *slog.Logger
}

func newCompiler(opts []Option) *compiler {
	c := &compiler{log: logging.Nop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configs compiles every entity into a store configuration using tr.
func (f *File) Configs(tr transport.Transport, opts ...Option) (map[string]config.Config, error) {
	c := newCompiler(opts)
	out := make(map[string]config.Config, len(f.Entities))
	for _, name := range f.Names() {
		cfg, err := c.entity(name, f.Entities[name], tr)
		if err != nil {
			return nil, err
		}
		out[name] = cfg
	}
	return out, nil
}

// Register creates a store in reg for every entity.
func (f *File) Register(reg *stateful.Registry, tr transport.Transport, opts ...Option) error {
	cfgs, err := f.Configs(tr, opts...)
	if err != nil {
		return err
	}
	for _, name := range f.Names() {
		if _, err := reg.GetOrCreate(name, cfgs[name]); err != nil {
			return err
		}
	}
	return nil
}

func (c *compiler) entity(name string, e Entity, tr transport.Transport) (config.Config, error) {
	cfg := config.Config{
		Route:         config.Path(e.Route),
		Transport:     tr,
		IDField:       e.ID,
		ByKey:         e.ByKey,
		IncludeRecord: e.IncludeRecord,
		State:         e.State,
	}

	if e.Actions != nil {
		cfg.Actions = &config.Actions{}
		for action, spec := range e.Actions {
			kind, ok := config.ParseKind(action)
			if !ok || !kind.IsStandard() {
				return config.Config{}, &Error{Entity: name, Field: "actions." + action, Message: "unknown standard action"}
			}
			if !spec.Enabled {
				continue
			}
			ac, err := c.action(name, "actions."+action, spec)
			if err != nil {
				return config.Config{}, err
			}
			setAction(cfg.Actions, kind, ac)
		}
	}

	if len(e.CustomActions) > 0 {
		cfg.CustomActions = make(map[string]config.CustomAction, len(e.CustomActions))
		for action, spec := range e.CustomActions {
			field := "customActions." + action
			if spec.Route == "" && spec.RouteExpr == "" {
				return config.Config{}, &Error{Entity: name, Field: field, Message: "route or routeExpr is required"}
			}
			ac, err := c.action(name, field, spec)
			if err != nil {
				return config.Config{}, err
			}
			cfg.CustomActions[action] = config.CustomAction{
				Method:            ac.Method,
				Route:             ac.Route,
				PrepareBody:       ac.PrepareBody,
				TransformResponse: ac.TransformResponse,
			}
		}
	}
	return cfg, nil
}

func setAction(a *config.Actions, kind config.Kind, ac *config.ActionConfig) {
	switch kind {
	case config.KindGet:
		a.Get = ac
	case config.KindGetList:
		a.GetList = ac
	case config.KindCreate:
		a.Create = ac
	case config.KindUpdate:
		a.Update = ac
	case config.KindDelete:
		a.Delete = ac
	}
}

func (c *compiler) action(entity, field string, spec ActionSpec) (*config.ActionConfig, error) {
	ac := &config.ActionConfig{Method: spec.Method}

	switch {
	case spec.RouteExpr != "":
		program, err := expr.Compile(spec.RouteExpr, expr.Env(routeEnv{}))
		if err != nil {
			return nil, &Error{Entity: entity, Field: field + ".routeExpr", Message: err.Error()}
		}
		ac.Route = config.Func(c.routeFunc(entity, field, program))
	case spec.Route != "":
		ac.Route = config.Path(spec.Route)
	}

	if spec.BodyExpr != "" {
		program, err := expr.Compile(spec.BodyExpr, expr.Env(bodyEnv{}))
		if err != nil {
			return nil, &Error{Entity: entity, Field: field + ".bodyExpr", Message: err.Error()}
		}
		ac.PrepareBody = c.bodyFunc(entity, field, program)
	}

	if spec.ResponsePath != "" {
		path, err := jp.ParseString(spec.ResponsePath)
		if err != nil {
			return nil, &Error{Entity: entity, Field: field + ".responsePath", Message: err.Error()}
		}
		ac.TransformResponse = selectPath(path)
	}
	return ac, nil
}

// routeFunc evaluates a compiled route expression per call. Evaluation
// failures yield an empty URL, which the transport rejects.
func (c *compiler) routeFunc(entity, field string, program *vm.Program) config.RouteFunc {
	return func(rec record.Record, args config.RouteArgs) string {
		out, err := expr.Run(program, newRouteEnv(rec, args))
		if err != nil {
			c.log.Warn("route expression failed", "entity", entity, "action", field, "error", err)
			return ""
		}
		s, ok := out.(string)
		if !ok {
			c.log.Warn("route expression did not return a string", "entity", entity, "action", field, "type", fmt.Sprintf("%T", out))
			return ""
		}
		return s
	}
}

// bodyFunc evaluates a compiled body expression. The original body is
// sent when evaluation fails.
func (c *compiler) bodyFunc(entity, field string, program *vm.Program) config.BodyFunc {
	return func(body interface{}) interface{} {
		out, err := expr.Run(program, newBodyEnv(body))
		if err != nil {
			c.log.Warn("body expression failed", "entity", entity, "action", field, "error", err)
			return body
		}
		return out
	}
}

// selectPath returns the values path selects. A single match is unwrapped.
func selectPath(path jp.Expr) config.ResponseFunc {
	return func(data interface{}) interface{} {
		results := path.Get(data)
		switch len(results) {
		case 0:
			return nil
		case 1:
			return results[0]
		default:
			return results
		}
	}
}

// routeEnv is the environment of route expressions.
type routeEnv struct {
	Record map[string]interface{} `expr:"record"`
	Args   interface{}            `expr:"args"`
	Params map[string]interface{} `expr:"params"`
}

func newRouteEnv(rec record.Record, args config.RouteArgs) routeEnv {
	return routeEnv{
		Record: plainMap(rec),
		Args:   args.Args,
		Params: firstValues(args.Params),
	}
}

// bodyEnv is the environment of body expressions.
type bodyEnv struct {
	Record map[string]interface{} `expr:"record"`
	Body   interface{}            `expr:"body"`
}

func newBodyEnv(body interface{}) bodyEnv {
	rec, _ := record.From(body)
	return bodyEnv{Record: plainMap(rec), Body: body}
}

func plainMap(rec record.Record) map[string]interface{} {
	if rec == nil {
		return map[string]interface{}{}
	}
	return map[string]interface{}(rec)
}

func firstValues(params url.Values) map[string]interface{} {
	out := make(map[string]interface{}, len(params))
	for k, vs := range params {
		if len(vs) > 0 {
			out[k] = vs[0]
		}
	}
	return out
}
