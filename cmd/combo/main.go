package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

var (
	cfg = defaultConfig()
	log = commonlog.GetLogger("combo.cli")
)

// debugVerbosity is the commonlog verbosity that lets Debugf through.
const debugVerbosity = 2

// logVerbosity raises verbosity to debug level when tracing, since
// combo.Trace logs at that level.
func logVerbosity(verbosity int, trace bool) int {
	if trace {
		return max(verbosity, debugVerbosity)
	}
	return verbosity
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		verbosity  int
	)

	rootCmd := &cobra.Command{
		Use:           "combo",
		Short:         "Run parser-combinator grammars over files",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			cfg = loaded
			if cmd.Flags().Changed("verbose") {
				cfg.Verbosity = verbosity
			}
			commonlog.Configure(cfg.Verbosity, nil)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "TOML config file (default ./"+defaultConfigFile+" if present)")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "log verbosity (repeat for more)")

	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newLexCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newLSPCmd())
	rootCmd.AddCommand(newGrammarsCmd())

	return rootCmd
}
