package stateful

import (
	"context"
	"net/url"
	"time"

	"github.com/getmockd/crudsync/pkg/config"
	"github.com/getmockd/crudsync/pkg/loading"
	"github.com/getmockd/crudsync/pkg/record"
	"github.com/getmockd/crudsync/pkg/transport"
)

// Args are the call-time inputs of an action.
type Args struct {
	// Payload is the record the call is about. It is sent as the body of
	// create, update and custom calls and feeds routes and ids. Structs are
	// accepted and converted through their JSON form.
	Payload interface{}
	// Body replaces the request body for any action.
	Body interface{}
	// Params are sent as query parameters.
	Params url.Values
	// Args is passed through to function routes.
	Args interface{}
	// OnSuccess runs after the action's own handler.
	OnSuccess config.SuccessFunc
	// OnError runs after the action's own handler.
	OnError config.ErrorFunc
}

// Dispatch runs the action identified by ref. It returns the normalized
// response, or nil when the call was skipped or failed; failures are
// recorded in the action's loading state. The error is non-nil only when
// the action is not enabled on this store.
func (s *Store) Dispatch(ctx context.Context, ref config.Ref, args Args) (interface{}, error) {
	desc, ok := s.cfg.Resolve(ref)
	if !ok {
		return nil, &ActionError{Store: s.key, Action: ref.String()}
	}
	return s.dispatch(ctx, desc, args, nil), nil
}

func (s *Store) dispatch(ctx context.Context, desc *config.Descriptor, args Args, hook config.SuccessFunc) interface{} {
	name := desc.Ref.String()

	// Cheap read-only check before building the request.
	if s.cell.Get().Loading.Get(name).IsLoading {
		s.skip(name)
		return nil
	}

	payload, _ := record.From(args.Payload)
	req := &transport.Request{
		Method: desc.Method,
		URL:    desc.Route.Build(payload, config.RouteArgs{Args: args.Args, Params: args.Params}),
		Params: args.Params,
		Data:   requestBody(desc, args),
	}

	var opts []loading.Option
	if k := desc.Ref.Kind; k == config.KindUpdate || k == config.KindDelete {
		if id, ok := payload.Key(s.cfg.IDField); ok {
			opts = append(opts, loading.WithID(id))
		}
	}

	initiated := s.cell.Update(func(snap Snapshot) (Snapshot, bool) {
		if snap.Loading.Get(name).IsLoading {
			return snap, false
		}
		snap.Loading = snap.Loading.Initiate(name, opts...)
		return snap, true
	})
	if !initiated {
		s.skip(name)
		return nil
	}

	s.observer.OnDispatch(s.key, name)
	s.log.Debug("dispatch start", "action", name, "method", req.Method, "url", req.URL)
	start := time.Now()

	resp, err := s.cfg.Transport.Do(ctx, req)
	var data interface{}
	if err == nil {
		var raw interface{}
		if resp != nil {
			raw = resp.Data
		}
		data, err = s.commit(desc, payload, desc.TransformResponse(raw))
	}
	elapsed := time.Since(start)

	if err != nil {
		s.cell.Update(func(snap Snapshot) (Snapshot, bool) {
			snap.Loading = snap.Loading.Fail(name, err)
			return snap, true
		})
		s.observer.OnFailure(s.key, name, err, elapsed)
		s.log.Warn("dispatch failed", "action", name, "url", req.URL, "error", err, "duration", elapsed)
		desc.OnError(err)
		if args.OnError != nil {
			args.OnError(err)
		}
		return nil
	}

	s.observer.OnSuccess(s.key, name, elapsed)
	s.log.Debug("dispatch done", "action", name, "duration", elapsed)
	if hook != nil {
		hook(data)
	}
	desc.OnSuccess(data)
	if args.OnSuccess != nil {
		args.OnSuccess(data)
	}
	return data
}

func (s *Store) skip(name string) {
	s.observer.OnSkip(s.key, name)
	s.log.Debug("dispatch skipped", "action", name, "reason", "in flight")
}

// requestBody picks the body for a call and runs it through PrepareBody.
func requestBody(desc *config.Descriptor, args Args) interface{} {
	body := args.Body
	if body == nil {
		switch desc.Ref.Kind {
		case config.KindCreate, config.KindUpdate, config.KindCustom:
			body = args.Payload
		}
	}
	if body == nil {
		return nil
	}
	return desc.PrepareBody(body)
}

// commit normalizes the response of a successful call and applies the
// action's mutation together with the finish transition.
func (s *Store) commit(desc *config.Descriptor, payload record.Record, data interface{}) (interface{}, error) {
	name := desc.Ref.String()
	shapeErr := func(reason string) error {
		return &ShapeError{Store: s.key, Action: name, Reason: reason, Got: data}
	}

	var (
		normalized interface{}
		mutate     func(Snapshot) Snapshot
	)

	switch desc.Ref.Kind {
	case config.KindGet, config.KindCreate:
		rec, ok := record.From(data)
		if !ok {
			return nil, shapeErr("expected an object")
		}
		key, ok := rec.Key(s.cfg.ByKey)
		if !ok {
			return nil, shapeErr("object has no " + s.cfg.ByKey + " field")
		}
		countNew := desc.Ref.Kind == config.KindCreate
		stored := rec.Clone()
		normalized = rec
		mutate = func(snap Snapshot) Snapshot {
			return snap.upsert(key, stored, countNew)
		}

	case config.KindGetList:
		recs, count, reason := listEnvelope(data)
		if reason != "" {
			return nil, shapeErr(reason)
		}
		keyed, ok := keyRecords(recs, s.cfg.ByKey)
		if !ok {
			return nil, shapeErr("list item has no " + s.cfg.ByKey + " field")
		}
		normalized = recs
		mutate = func(snap Snapshot) Snapshot {
			return snap.replaceAll(keyed, count)
		}

	case config.KindUpdate:
		normalized = data
		rec, ok := record.From(data)
		if !ok {
			break
		}
		normalized = rec
		key, ok := rec.Key(s.cfg.ByKey)
		if !ok {
			key, ok = payload.Key(s.cfg.ByKey)
		}
		if !ok {
			break
		}
		patch := rec.Clone()
		mutate = func(snap Snapshot) Snapshot {
			snap, _ = snap.merge(key, patch)
			return snap
		}

	case config.KindDelete:
		normalized = data
		if key, ok := payload.Key(s.cfg.ByKey); ok {
			mutate = func(snap Snapshot) Snapshot {
				snap, _ = snap.remove(key)
				return snap
			}
		}

	default:
		normalized = data
	}

	s.cell.Update(func(snap Snapshot) (Snapshot, bool) {
		if mutate != nil {
			snap = mutate(snap)
		}
		snap.Loading = snap.Loading.Finish(name, normalized, s.cfg.IDField)
		return snap, true
	})
	return normalized, nil
}
