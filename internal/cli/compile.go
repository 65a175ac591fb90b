package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hdlutil/regmap/pkg/compile"
)

// compileOpts holds the command-line flags for the compile command.
type compileOpts struct {
	keepGoing bool // report every broken document instead of stopping
}

// compileOptions builds compile.Options from the config file and flags,
// routing allocator progress through the CLI logger at debug level.
func (c *CLI) compileOptions(keepGoing bool) compile.Options {
	return compile.Options{
		Extensions:      c.cfg.Extensions,
		ContinueOnError: c.cfg.ContinueOnError || keepGoing,
		Logger:          func(msg string, args ...any) { c.Logger.Debugf(msg, args...) },
	}
}

// run compiles everything under path and logs a summary. Used by every
// command that needs an elaborated design.
func (c *CLI) run(cmd *cobra.Command, path string, keepGoing bool) (*compile.Result, error) {
	p := newProgress(c.Logger)
	res, err := compile.Compile(cmd.Context(), path, c.compileOptions(keepGoing))
	if err != nil {
		return nil, err
	}
	for _, e := range res.Errors {
		c.Logger.Errorf("%v", e)
	}
	p.done("Compiled %d files: %d components, %d memory maps",
		len(res.Files), len(res.Components), len(res.MemoryMaps))
	if len(res.Errors) > 0 {
		return res, fmt.Errorf("%d of %d documents failed", len(res.Errors), len(res.Files))
	}
	return res, nil
}

// compileCommand creates the compile command, which elaborates every
// description under a directory and reports what it found.
func (c *CLI) compileCommand() *cobra.Command {
	opts := compileOpts{}

	cmd := &cobra.Command{
		Use:   "compile <path>",
		Short: "Elaborate register map descriptions and report errors",
		Long: `Compile parses every XML description under path, places all registers,
fields, and instances, and reports any errors. It produces no output files;
use dump, list, or export for that.

Examples:
  regmap compile rtl/regs
  regmap compile rtl/regs --keep-going`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := c.run(cmd, args[0], opts.keepGoing)
			return err
		},
	}

	cmd.Flags().BoolVarP(&opts.keepGoing, "keep-going", "k", false, "report every broken document instead of stopping at the first")

	return cmd
}
