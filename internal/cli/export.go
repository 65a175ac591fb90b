package cli

import (
	"github.com/spf13/cobra"

	"github.com/hdlutil/regmap/pkg/render"
)

// exportCommand creates the export command, which writes the whole
// compilation as a JSON document.
func (c *CLI) exportCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export <path>",
		Short: "Write the whole compilation as a JSON document",
		Long: `Export compiles everything under path and writes one JSON document
containing every component and memory map, stamped with the generator
version and a unique run id.

Example:
  regmap export rtl/regs -o regs.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := c.run(cmd, args[0], false)
			if err != nil {
				return err
			}
			if output != "" {
				return render.ExportJSON(res, output)
			}
			return render.WriteJSON(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")

	return cmd
}
