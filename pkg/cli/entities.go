package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/getmockd/crudsync/pkg/cli/internal/output"
)

// EntityInfo describes one defined entity.
type EntityInfo struct {
	Name    string   `json:"name"`
	Route   string   `json:"route"`
	Actions []string `json:"actions"`
}

var entitiesCmd = &cobra.Command{
	Use:   "entities",
	Short: "List the entities in the definitions",
	Long: `List every entity in the loaded definitions with its base route and
enabled actions.

Examples:
  crudsync entities
  crudsync entities -d 'defs/**/*.yaml' --json`,
	Args: cobra.NoArgs,
	RunE: runEntities,
}

func init() {
	rootCmd.AddCommand(entitiesCmd)
}

func runEntities(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	infos := make([]EntityInfo, 0, s.registry.Len())
	for _, info := range s.registry.Overview().Stores {
		infos = append(infos, EntityInfo{
			Name:    info.Key,
			Route:   s.defs.Entities[info.Key].Route,
			Actions: info.Actions,
		})
	}

	w := cmd.OutOrStdout()
	return printResult(w, infos, func() {
		tw := output.Table(w)
		fmt.Fprintln(tw, "NAME\tROUTE\tACTIONS")
		for _, e := range infos {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Name, e.Route, strings.Join(e.Actions, ","))
		}
		_ = tw.Flush()
	})
}
