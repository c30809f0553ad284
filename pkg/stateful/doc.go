// Package stateful keeps client-side, in-memory collections of entities in
// sync with a backend and tracks the execution state of every action.
//
// Core Types:
//
//   - Registry: holds exactly one Store per entity key, created lazily
//   - Store: one collection, a server-reported count, per-action loading
//     state, optional local state and the resolved action table
//   - Action: a callable handle for one enabled action, carrying its
//     current loading state
//
// Dispatch:
//
// Calling an action resolves its descriptor, drops the call if the same
// action is already in flight, issues the transport request and, on
// success, applies the action's mutation to the collection:
//
//	get      upsert the returned record
//	getList  replace the collection; count from {results, count} or length
//	create   upsert; count +1 when the key is new
//	update   shallow-merge into the stored record, if present
//	delete   remove the payload's key; count -1 (floored at 0) when present
//	custom   no mutation
//
// Transport errors never escape a call. They are recorded in the action's
// loading state and passed to the configured error handlers.
//
// Thread Safety:
//
// Each store keeps its state in a single observable cell. Every mutation is
// an atomic read-modify-write of that cell, so the single-flight check and
// the in-flight transition cannot race, and subscribers see consistent
// snapshots. The registry serializes store creation.
//
// Usage:
//
//	reg := stateful.NewRegistry(stateful.WithLogger(logger))
//	users, err := reg.GetOrCreate("users", config.Config{
//	    Route:     config.Path("/api/users/"),
//	    Transport: transport.New("http://localhost:4280"),
//	})
//
//	users.MustAction(config.GetList).Call(ctx, stateful.Args{})
//	records, fetched := users.List()
//
//	update := users.MustAction(config.Update)
//	update.Call(ctx, stateful.Args{Payload: record.Record{"id": 7, "name": "B"}})
//	if update.Err() != nil {
//	    // render the error
//	}
package stateful
