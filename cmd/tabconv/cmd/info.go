package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/tabconv/internal/fileinfo"
	"github.com/dbsmedya/tabconv/internal/parser"
)

var infoCmd = &cobra.Command{
	Use:   "info <file>",
	Short: "Show information about a file",
	Long: `Info prints the path, extension, size, detected encoding and readability
of a file, then tries to parse it and reports its columns and row count.

A missing file is an error; a file that cannot be parsed is reported as a
warning.

Example:
  tabconv info people.csv`,
	Args: usageArgs(cobra.ExactArgs(1)),
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	env, err := loadEnvironment()
	if err != nil {
		return err
	}
	defer env.log.Sync()

	path := args[0]
	env.log.Infow("Inspecting file", "file", path)

	if !fileinfo.Exists(path) {
		return &parser.Error{Kind: parser.ErrFileMissing, Path: path}
	}

	size, err := fileinfo.Size(path)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	detected, err := fileinfo.DetectEncoding(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	readable := failMark() + " no"
	if fileinfo.IsReadable(path) {
		readable = okMark() + " yes"
	}

	w := cmd.OutOrStdout()
	printHeader(w, "File information: %s", filepath.Base(path))
	fmt.Fprintln(w)
	printSection(w, "File")
	printFields(w, 2, []field{
		{"Path", path},
		{"Extension", parser.Extension(path)},
		{"Size", fmt.Sprintf("%.2f KB", float64(size)/1024)},
		{"Detected encoding", detected},
		{"Readable", readable},
	})

	fmt.Fprintln(w)
	tbl, err := env.parseFile(path)
	if err != nil {
		env.log.Warnw("Cannot parse file", "file", path, "error", err)
		fmt.Fprintf(w, "%s Cannot parse: %v\n", warnMark(), err)
		return nil
	}

	printSection(w, "Content")
	printFields(w, 2, []field{
		{"Columns", fmt.Sprintf("%d", len(tbl.Columns()))},
		{"Rows", fmt.Sprintf("%d", tbl.Len())},
		{"Fields", strings.Join(tbl.Columns(), ", ")},
	})
	return nil
}
