package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"jsql"
)

var showMillis bool

var dateCmd = &cobra.Command{
	Use:   "date <yyyy-[m]m-[d]d>...",
	Short: "Normalise date escape literals",
	Args:  cobra.MinimumNArgs(1),
	RunE: escapeRunner(func(s string) (jsql.Temporal, error) {
		d, err := jsql.ParseDate(s)
		return &d, err
	}),
}

var timeCmd = &cobra.Command{
	Use:   "time <hh:mm:ss>...",
	Short: "Normalise time escape literals",
	Args:  cobra.MinimumNArgs(1),
	RunE: escapeRunner(func(s string) (jsql.Temporal, error) {
		t, err := jsql.ParseTime(s)
		return &t, err
	}),
}

var timestampCmd = &cobra.Command{
	Use:   "timestamp <yyyy-[m]m-[d]d hh:mm:ss[.f...]>...",
	Short: "Normalise timestamp escape literals",
	Long: `Normalise timestamp escape literals. Quote each literal, since it
contains a space:

  jsql timestamp "2013-1-1 0:0:0.123"`,
	Args: cobra.MinimumNArgs(1),
	RunE: escapeRunner(func(s string) (jsql.Temporal, error) {
		ts, err := jsql.ParseTimestamp(s)
		return &ts, err
	}),
}

// escapeRunner prints the canonical form of every argument. It keeps going
// after a bad literal and fails at the end.
func escapeRunner(parse func(string) (jsql.Temporal, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		var failed error
		for _, arg := range args {
			v, err := parse(arg)
			if err != nil {
				reported := printError(cmd, fmt.Sprintf("%q", arg), err)
				if failed == nil {
					failed = reported
				}
				continue
			}
			if showMillis {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\n", v.String(), v.Millis())
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), v.String())
			}
		}
		return failed
	}
}

func init() {
	for _, c := range []*cobra.Command{dateCmd, timeCmd, timestampCmd} {
		c.Flags().BoolVar(&showMillis, "millis", false, "also print milliseconds since the epoch")
		rootCmd.AddCommand(c)
	}
}
