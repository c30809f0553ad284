// Package cli provides the command-line interface for crudsync.
//
// The cli package implements the commands that drive entity stores against
// a live backend:
//   - entities: List the entities in the loaded definitions
//   - list: Fetch an entity's collection (getList)
//   - get: Fetch one record
//   - create: Create a record from a JSON object
//   - update: Update a record
//   - delete: Delete a record
//   - call: Run any standard or custom action
//   - version: Show crudsync version
//
// Every command builds a fresh session: settings from pkg/cliconfig,
// definitions from pkg/definition, one store per entity in a
// stateful.Registry, all sharing a transport.Client. A command exits with
// status 1 when its action's loading state records an error.
package cli
