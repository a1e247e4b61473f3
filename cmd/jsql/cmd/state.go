package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"jsql"
)

var stateCmd = &cobra.Command{
	Use:   "state <sqlstate>...",
	Short: "Classify SQLState codes",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		for _, state := range args {
			fmt.Fprintln(cmd.OutOrStdout(), describeState(state))
		}
	},
}

// describeState renders a state with its kind and the kind's ancestors,
// most specific first.
func describeState(state string) string {
	k := jsql.KindForSQLState(state)
	path := []string{k.String()}
	for p := k; p != jsql.KindException; {
		p = p.Parent()
		path = append(path, p.String())
	}
	err := jsql.NewError(k, "", jsql.WithSQLState(state))
	return fmt.Sprintf("%s\t%s\ttransient=%t recoverable=%t",
		state, strings.Join(path, " < "), jsql.IsTransient(err), jsql.IsRecoverable(err))
}

func init() {
	rootCmd.AddCommand(stateCmd)
}
