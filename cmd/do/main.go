package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ifuapp/ifu/cmd/do/cmd"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "do",
		Short:        "Development and operations tools for ifu",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(cmd.DevCmd())
	rootCmd.AddCommand(cmd.MigrateCmd())
	rootCmd.AddCommand(cmd.CleanupCmd())
	rootCmd.AddCommand(cmd.ImagesCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
