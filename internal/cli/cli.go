// Package cli implements the regmap command-line interface.
//
// This package provides commands for compiling XML register map
// descriptions, dumping the elaborated trees, listing absolute register
// addresses, and exporting compilation results as JSON. The CLI is built
// using cobra and supports verbose logging via the charmbracelet/log
// library.
//
// # Commands
//
// The main commands are:
//   - compile: Elaborate every description under a directory and report errors
//   - dump: Print elaborated component and memory map trees
//   - list: Print absolute register addresses for a memory map
//   - export: Write the whole compilation as a JSON document
//
// # Configuration
//
// A regmap.toml file in the working directory (or the path given with
// --config) supplies defaults for file extensions and error handling.
// Command-line flags override the file.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/hdlutil/regmap/pkg/buildinfo"
)

// appName is the application name used for config files and display.
const appName = "regmap"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cfg        Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Regmap compiles XML register map descriptions",
		Long:         `Regmap elaborates XML descriptions of hardware components and memory maps, assigning every register and field a definite location, and renders the result as listings or JSON.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(c.configPath)
			if err != nil {
				return err
			}
			c.cfg = cfg
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: ./"+configFile+")")

	root.AddCommand(c.compileCommand())
	root.AddCommand(c.dumpCommand())
	root.AddCommand(c.listCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.completionCommand())

	return root
}
