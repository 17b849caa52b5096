package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/inkwell-press/inkwell/internal/interfaces/cli/migrate"
	"github.com/inkwell-press/inkwell/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "inkwell",
		Short: "Inkwell - a serialized web novel platform",
		Long:  `Inkwell serves novels, volumes, and chapters with rental and coin-based unlock workflows, plus database migration tools.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
