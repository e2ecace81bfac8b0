package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hevel86/zfs-scripts/internal/version"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "zreplace",
	Short: "Guided disk replacement for degraded ZFS pools",
	Long: `zreplace walks through replacing a missing or failed disk in a ZFS pool:
it finds the degraded pool and the member that dropped out of it, lists
attached disks no pool has claimed, and runs zpool replace after an
explicit confirmation. Slot in the new disk, then run it with no
arguments.`,
	Args: cobra.NoArgs,
	Run:  runReplace,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the zreplace version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.Version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is /etc/zreplace/config.yaml)")

	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
