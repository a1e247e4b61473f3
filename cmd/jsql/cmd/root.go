package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"jsql"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "jsql",
	Short: "jsql - SQL escape literals, type codes and SQLStates",
	Long: `jsql inspects the vocabulary shared by JDBC style drivers.

Commands:
  date, time, timestamp - normalise escape literals
  types                 - list the generic SQL type codes
  state                 - classify SQLState codes`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return printError(cmd, "config", err)
		}
		if err := cfg.Apply(jsql.DefaultManager()); err != nil {
			return printError(cmd, "config", err)
		}
		if !verbose {
			jsql.DefaultManager().SetLogger(nil)
		}
		return nil
	},
}

// Execute runs the root command. Errors the commands have not reported
// themselves, such as unknown flags, are printed here.
func Execute() error {
	err := rootCmd.Execute()
	var reported reportedError
	if err != nil && !errors.As(err, &reported) {
		fmt.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $JSQL_CONFIG or ./jsql.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func loadConfig() (*jsql.Config, error) {
	if cfgFile != "" {
		return jsql.LoadConfig(cfgFile)
	}
	return jsql.LoadConfigFromEnv()
}

// reportedError marks an error already printed by printError.
type reportedError struct {
	error
}

func (e reportedError) Unwrap() error { return e.error }

// printError reports err on the command's error output and returns it
// marked as reported.
func printError(cmd *cobra.Command, msg string, err error) error {
	fmt.Fprintf(cmd.ErrOrStderr(), "Error: %s: %v\n", msg, err)
	return reportedError{err}
}
