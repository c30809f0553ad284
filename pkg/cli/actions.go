package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/getmockd/crudsync/pkg/cli/internal/flags"
	"github.com/getmockd/crudsync/pkg/cli/internal/output"
	"github.com/getmockd/crudsync/pkg/cli/internal/parse"
	"github.com/getmockd/crudsync/pkg/config"
	"github.com/getmockd/crudsync/pkg/record"
	"github.com/getmockd/crudsync/pkg/stateful"
)

var (
	listParams flags.Params

	createData string
	createFile string

	updateData string
	updateFile string

	callData   string
	callFile   string
	callParams flags.Params
)

// ListOutput is the result of the list command.
type ListOutput struct {
	Count   int             `json:"count"`
	Results []record.Record `json:"results"`
}

// DeleteOutput is the result of the delete command.
type DeleteOutput struct {
	Entity  string `json:"entity"`
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

var listCmd = &cobra.Command{
	Use:   "list <entity>",
	Short: "Fetch the collection of an entity",
	Long: `Fetch the collection of an entity with its getList action and print
the stored records in key order.

Examples:
  crudsync list users
  crudsync list users --param active=1 --param page=2`,
	Args: cobra.ExactArgs(1),
	RunE: runList,
}

var getCmd = &cobra.Command{
	Use:   "get <entity> <id>",
	Short: "Fetch one record",
	Args:  cobra.ExactArgs(2),
	RunE:  runGet,
}

var createCmd = &cobra.Command{
	Use:   "create <entity>",
	Short: "Create a record",
	Long: `Create a record from a JSON object.

Examples:
  crudsync create users --data '{"name": "Ann"}'
  crudsync create users --file ann.json`,
	Args: cobra.ExactArgs(1),
	RunE: runCreate,
}

var updateCmd = &cobra.Command{
	Use:   "update <entity> <id>",
	Short: "Update a record",
	Long: `Update a record with the fields of a JSON object.

Examples:
  crudsync update users 4 --data '{"name": "Anna"}'`,
	Args: cobra.ExactArgs(2),
	RunE: runUpdate,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <entity> <id>",
	Short: "Delete a record",
	Args:  cobra.ExactArgs(2),
	RunE:  runDelete,
}

var callCmd = &cobra.Command{
	Use:   "call <entity> <action>",
	Short: "Run any action of an entity",
	Long: `Run a standard or custom action of an entity. The JSON given with
--data is the action payload.

Examples:
  crudsync call users activate --data '{"id": 4}'
  crudsync call users getList --param active=1`,
	Args: cobra.ExactArgs(2),
	RunE: runCall,
}

func init() {
	listCmd.Flags().Var(&listParams, "param", "Query parameter key=value (repeatable)")

	createCmd.Flags().StringVar(&createData, "data", "", "Record as a JSON object")
	createCmd.Flags().StringVarP(&createFile, "file", "f", "", "Read the record from a JSON file")

	updateCmd.Flags().StringVar(&updateData, "data", "", "Fields to update as a JSON object")
	updateCmd.Flags().StringVarP(&updateFile, "file", "f", "", "Read the fields from a JSON file")

	callCmd.Flags().StringVar(&callData, "data", "", "Payload as a JSON object")
	callCmd.Flags().StringVarP(&callFile, "file", "f", "", "Read the payload from a JSON file")
	callCmd.Flags().Var(&callParams, "param", "Query parameter key=value (repeatable)")

	rootCmd.AddCommand(listCmd, getCmd, createCmd, updateCmd, deleteCmd, callCmd)
}

// readPayload decodes --data or --file. Both empty yields nil.
func readPayload(data, file string) (record.Record, error) {
	if data != "" && file != "" {
		return nil, errors.New("use either --data or --file, not both")
	}
	raw := []byte(data)
	if file != "" {
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", file, err)
		}
		raw = b
	}
	obj, err := parse.JSONObject(raw)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, nil
	}
	return record.Record(obj), nil
}

// run dispatches ref on the entity's store and turns a failed loading state
// into an error.
func (s *session) run(ctx context.Context, st *stateful.Store, ref config.Ref, args stateful.Args) (interface{}, error) {
	data, err := st.Dispatch(ctx, ref, args)
	if err != nil {
		return nil, err
	}
	m := s.metrics.Snapshot()
	s.log.Debug("action finished", "store", st.Key(), "action", ref.String(),
		"succeeded", m.SuccessCount, "failed", m.FailureCount, "latency", m.TotalLatency)
	if entry := st.LoadingState(ref); entry.HasError() {
		return nil, fmt.Errorf("%s %s: %w: %w", st.Key(), ref, ErrActionFailed, entry.Error)
	}
	return data, nil
}

// idPayload is the payload addressing one record of st.
func idPayload(st *stateful.Store, id string) record.Record {
	return record.Record{st.Config().IDField: id}
}

func printRecord(cmd *cobra.Command, data interface{}) error {
	return output.JSON(cmd.OutOrStdout(), data)
}

func runList(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	st, err := s.store(args[0])
	if err != nil {
		return err
	}
	if _, err := s.run(cmd.Context(), st, config.GetList, stateful.Args{Params: listParams.Values()}); err != nil {
		return err
	}
	results, _ := st.List()
	if results == nil {
		results = []record.Record{}
	}
	return printRecord(cmd, ListOutput{Count: st.Count(), Results: results})
}

func runGet(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	st, err := s.store(args[0])
	if err != nil {
		return err
	}

	data, err := s.run(cmd.Context(), st, config.Get, stateful.Args{Payload: idPayload(st, args[1])})
	if err != nil {
		return err
	}
	return printRecord(cmd, data)
}

func runCreate(cmd *cobra.Command, args []string) error {
	payload, err := readPayload(createData, createFile)
	if err != nil {
		return err
	}
	if payload == nil {
		return ErrNoData
	}
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	st, err := s.store(args[0])
	if err != nil {
		return err
	}

	data, err := s.run(cmd.Context(), st, config.Create, stateful.Args{Payload: payload})
	if err != nil {
		return err
	}
	return printRecord(cmd, data)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	payload, err := readPayload(updateData, updateFile)
	if err != nil {
		return err
	}
	if payload == nil {
		return ErrNoData
	}
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	st, err := s.store(args[0])
	if err != nil {
		return err
	}

	payload = payload.Merge(idPayload(st, args[1]))
	data, err := s.run(cmd.Context(), st, config.Update, stateful.Args{Payload: payload})
	if err != nil {
		return err
	}
	return printRecord(cmd, data)
}

func runDelete(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	st, err := s.store(args[0])
	if err != nil {
		return err
	}

	if _, err := s.run(cmd.Context(), st, config.Delete, stateful.Args{Payload: idPayload(st, args[1])}); err != nil {
		return err
	}

	out := DeleteOutput{Entity: args[0], ID: args[1], Deleted: true}
	w := cmd.OutOrStdout()
	return printResult(w, out, func() {
		fmt.Fprintf(w, "Deleted %s %s\n", out.Entity, out.ID)
	})
}

func runCall(cmd *cobra.Command, args []string) error {
	payload, err := readPayload(callData, callFile)
	if err != nil {
		return err
	}
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	st, err := s.store(args[0])
	if err != nil {
		return err
	}

	a := stateful.Args{Params: callParams.Values()}
	if payload != nil {
		a.Payload = payload
	}
	data, err := s.run(cmd.Context(), st, config.RefOf(args[1]), a)
	if err != nil {
		return err
	}
	return printRecord(cmd, data)
}
