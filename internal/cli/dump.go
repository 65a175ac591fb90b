package cli

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/hdlutil/regmap/pkg/compile"
	"github.com/hdlutil/regmap/pkg/model"
	"github.com/hdlutil/regmap/pkg/render"
)

// dumpCommand creates the dump command, which prints elaborated trees.
func (c *CLI) dumpCommand() *cobra.Command {
	var (
		gaps   bool
		output string
	)

	cmd := &cobra.Command{
		Use:   "dump <path> [name...]",
		Short: "Print elaborated component and memory map trees",
		Long: `Dump compiles everything under path and prints the elaborated trees with
every element's final placement. Without names, all roots are printed in
alphabetical order; with names, only those roots.

Examples:
  regmap dump rtl/regs
  regmap dump rtl/regs uart --gaps`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := c.run(cmd, args[0], false)
			if err != nil {
				return err
			}
			roots, err := selectRoots(res, args[1:])
			if err != nil {
				return err
			}

			w, closer, err := openOutput(output)
			if err != nil {
				return err
			}
			defer closer()

			opts := render.TreeOptions{ShowGaps: gaps || c.cfg.ShowGaps}
			for _, n := range roots {
				if err := render.WriteTree(w, n, opts); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&gaps, "gaps", false, "also print unallocated ranges")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")

	return cmd
}

// selectRoots returns the requested roots, or every root sorted by name
// with components before memory maps.
func selectRoots(res *compile.Result, names []string) ([]*model.Node, error) {
	if len(names) == 0 {
		return append(sorted(res.Components), sorted(res.MemoryMaps)...), nil
	}
	var roots []*model.Node
	for _, name := range names {
		if n, ok := res.Components[name]; ok {
			roots = append(roots, n)
		} else if n, ok := res.MemoryMaps[name]; ok {
			roots = append(roots, n)
		} else {
			return nil, fmt.Errorf("no component or memory map named %q", name)
		}
	}
	return roots, nil
}

func sorted(m map[string]*model.Node) []*model.Node {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	nodes := make([]*model.Node, len(names))
	for i, name := range names {
		nodes[i] = m[name]
	}
	return nodes
}

// openOutput opens path for writing, or returns stdout for an empty path.
// The returned closer is a no-op for stdout.
func openOutput(path string) (io.Writer, func() error, error) {
	if path == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}
