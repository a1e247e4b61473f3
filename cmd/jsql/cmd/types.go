package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"jsql"
)

var typesCmd = &cobra.Command{
	Use:   "types [name|code]...",
	Short: "List generic SQL type codes",
	Long: `Without arguments, list every generic SQL type with its code.
With arguments, look each one up by name or by code.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if len(args) == 0 {
			for _, t := range jsql.JDBCTypes() {
				fmt.Fprintf(out, "%6d  %s\n", t.VendorTypeNumber(), t.Name())
			}
			return nil
		}
		for _, arg := range args {
			t, err := lookupType(arg)
			if err != nil {
				return printError(cmd, "types", err)
			}
			fmt.Fprintf(out, "%6d  %s\n", t.VendorTypeNumber(), t.Name())
		}
		return nil
	},
}

func lookupType(arg string) (jsql.JDBCType, error) {
	if code, err := strconv.Atoi(arg); err == nil {
		return jsql.JDBCTypeOf(code)
	}
	return jsql.JDBCTypeByName(arg)
}

func init() {
	rootCmd.AddCommand(typesCmd)
}
