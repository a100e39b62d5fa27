package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

var versionShort bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long: `Version prints the tabconv release, the commit it was built from and the
Go toolchain and platform of the binary. --short prints the release only,
for use in scripts.

Example:
  tabconv version
  tabconv version --short`,
	Args: usageArgs(cobra.NoArgs),
	Run:  runVersion,
}

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false,
		"Print only the release number")

	rootCmd.AddCommand(versionCmd)
}

func runVersion(cmd *cobra.Command, args []string) {
	w := cmd.OutOrStdout()
	if versionShort {
		fmt.Fprintln(w, Version)
		return
	}

	fmt.Fprintf(w, "tabconv %s\n", Version)
	printFields(w, 2, []field{
		{"Commit", Commit},
		{"Go version", runtime.Version()},
		{"OS/Arch", runtime.GOOS + "/" + runtime.GOARCH},
	})
}
