package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/tabconv/internal/parser"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>...",
	Short: "Check whether files look parseable",
	Long: `Validate runs each file's adapter pre-check and prints whether the file
looks parseable. The pre-check never fails: a missing file, a foreign
extension or a syntax problem simply yields "invalid".

Checks performed:
  - CSV: header and first record
  - JSON: syntax of the whole document
  - XML: well-formed token stream

Example:
  tabconv validate people.csv items.json feed.xml`,
	Args: usageArgs(cobra.MinimumNArgs(1)),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	env, err := loadEnvironment()
	if err != nil {
		return err
	}
	defer env.log.Sync()

	w := cmd.OutOrStdout()
	for _, path := range args {
		adapter, err := env.registry.Get(path)
		if err != nil {
			if !errors.Is(err, parser.ErrUnsupportedFormat) {
				return err
			}
			fmt.Fprintf(w, "%s %s: unsupported format\n", failMark(), path)
			continue
		}

		if adapter.Validate(path) {
			fmt.Fprintf(w, "%s %s: valid %s\n", okMark(), path, adapter.Format())
		} else {
			fmt.Fprintf(w, "%s %s: invalid\n", failMark(), path)
		}
	}
	return nil
}
