package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/tabconv/internal/export"
	"github.com/dbsmedya/tabconv/internal/parser"
	"github.com/dbsmedya/tabconv/internal/types"
	"github.com/dbsmedya/tabconv/internal/verifier"
)

var (
	convertOutput string
	convertVerify bool
)

var convertCmd = &cobra.Command{
	Use:   "convert <file>",
	Short: "Convert a file to another format",
	Long: `Convert parses the input file and writes its rows to the output file.
The output format follows the output extension (.csv, .json, .xml, .yaml, .yml).

With --verify the written file is parsed again and compared with the source
using verification.method from the configuration (count or sha256).

Example:
  tabconv convert people.csv -o people.json
  tabconv convert people.json -o people.xml --verify`,
	Args: usageArgs(cobra.ExactArgs(1)),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "",
		"Output file (required)")
	convertCmd.Flags().BoolVar(&convertVerify, "verify", false,
		"Re-read the output and verify it against the source")

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	if convertOutput == "" {
		return usageError{errors.New(`required flag "output" not set`)}
	}

	env, err := loadEnvironment()
	if err != nil {
		return err
	}
	defer env.log.Sync()

	source := args[0]
	log := env.log.WithFields(map[string]interface{}{
		"source": source,
		"output": convertOutput,
		"method": env.cfg.Verification.Method,
	})
	log.Info("Starting conversion")

	tbl, err := env.parseFile(source)
	if err != nil {
		return err
	}

	exportOpts := export.OptionsFromConfig(env.cfg.Export)
	if err := export.ToFile(tbl, convertOutput, exportOpts); err != nil {
		if errors.Is(err, export.ErrUnsupportedFormat) {
			return usageError{err}
		}
		return err
	}
	log.Infow("Output written", "rows", tbl.Len())

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s Converted %s\n", okMark(), source)
	printFields(w, 2, []field{
		{"Source", fmt.Sprintf("%s (%d rows)", source, tbl.Len())},
		{"Destination", convertOutput},
	})

	if !convertVerify {
		return nil
	}

	out, err := reparseOutput(env, convertOutput, exportOpts)
	if err != nil {
		return fmt.Errorf("failed to re-read %s for verification: %w", convertOutput, err)
	}

	v, err := verifier.NewVerifier(verifier.VerificationMethod(env.cfg.Verification.Method), log)
	if err != nil {
		return err
	}

	result, err := v.Verify(context.Background(), tbl, out)
	if err != nil {
		if result != nil {
			fmt.Fprintf(w, "%s Verification failed (%s): %s\n", failMark(), result.Method, result.ErrorMessage)
		}
		return err
	}

	if result.Method == verifier.MethodSkip {
		fmt.Fprintf(w, "%s Verification skipped\n", warnMark())
		return nil
	}
	fmt.Fprintf(w, "%s Verified (%s, %d rows)\n", okMark(), result.Method, result.DestCount)
	return nil
}

// reparseOutput reads a file written by export with the options it was
// written with.
func reparseOutput(env *environment, path string, opts export.Options) (*types.Table, error) {
	adapter, err := env.registry.Get(path)
	if err != nil {
		return nil, err
	}

	parseOpts := parser.DefaultOptions()
	switch adapter.Format() {
	case "csv":
		parseOpts.Delimiter = opts.CSV.Delimiter
		parseOpts.Encoding = opts.CSV.Encoding
	case "json":
		parseOpts.Encoding = opts.JSON.Encoding
	case "yaml":
		parseOpts.Encoding = opts.YAML.Encoding
	}
	return adapter.Parse(path, parseOpts)
}
