package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/javafront/config"

	_ "github.com/tliron/commonlog/simple"
)

const version = "0.1.0"

var log = commonlog.GetLogger("javafront")

// app holds what every command shares: the configuration, loaded once
// before any command runs.
type app struct {
	configPath string
	verbose    int
	cfg        *config.Config
}

func main() {
	args, err := expandOSArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	rootCmd := newRootCmd()
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:     "javafront",
		Short:   "Positions, trees and scopes of Java source files",
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			a.cfg = cfg
			commonlog.Configure(cfg.Verbosity(a.verbose), nil)
			log.Debugf("config %s: workers=%d expand_tabs=%t checks=%t", a.configPath, cfg.WorkerCount(), cfg.ExpandTabs, cfg.Checks)
			return nil
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", config.DefaultFile, "configuration file")
	rootCmd.PersistentFlags().CountVarP(&a.verbose, "verbose", "v", "increase log verbosity")

	rootCmd.AddCommand(newPosCmd())
	rootCmd.AddCommand(newLinesCmd(a))
	rootCmd.AddCommand(newScanCmd(a))
	rootCmd.AddCommand(newTreeCmd(a))
	rootCmd.AddCommand(newScopeCmd(a))
	rootCmd.AddCommand(newCheckCmd(a))
	rootCmd.AddCommand(newLSPCmd(a))

	return rootCmd
}
