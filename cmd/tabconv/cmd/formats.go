package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/tabconv/internal/export"
)

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List supported input and output formats",
	Long: `Formats lists the input extensions known to the format registry, including
aliases from the formats section of the configuration, and the output
extensions convert can write.

Example:
  tabconv formats --config tabconv.yaml`,
	Args: usageArgs(cobra.NoArgs),
	RunE: runFormats,
}

func init() {
	rootCmd.AddCommand(formatsCmd)
}

func runFormats(cmd *cobra.Command, args []string) error {
	env, err := loadEnvironment()
	if err != nil {
		return err
	}
	defer env.log.Sync()

	w := cmd.OutOrStdout()
	printSection(w, "Input")

	var fields []field
	for _, ext := range env.registry.Formats() {
		adapter, err := env.registry.Get("file" + ext)
		if err != nil {
			return err
		}
		desc := adapter.Format()
		if alias, ok := env.cfg.Formats[ext]; ok {
			desc = fmt.Sprintf("%s (alias of %s)", desc, alias.Format)
		}
		fields = append(fields, field{ext, desc})
	}
	printFields(w, 2, fields)

	fmt.Fprintln(w)
	printSection(w, "Output")
	fmt.Fprintf(w, "  %s\n", strings.Join(export.Formats(), ", "))
	return nil
}
