package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hdlutil/regmap/pkg/render"
)

// listCommand creates the list command, which flattens a memory map into
// absolute register addresses.
func (c *CLI) listCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "list <path> <memorymap>",
		Short: "Print absolute register addresses for a memory map",
		Long: `List compiles everything under path and prints one line per register of
the named memory map, with its absolute byte address.

Example:
  regmap list rtl/regs soc`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := c.run(cmd, args[0], false)
			if err != nil {
				return err
			}
			mm, ok := res.MemoryMaps[args[1]]
			if !ok {
				return fmt.Errorf("no memory map named %q", args[1])
			}

			w, closer, err := openOutput(output)
			if err != nil {
				return err
			}
			defer closer()

			return render.WriteList(w, mm)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")

	return cmd
}
