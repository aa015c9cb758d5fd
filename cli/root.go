package cli

import (
	"context"
	"log"

	"github.com/spf13/cobra"
)

// NewRootCommand creates the yoga command. Without a subcommand it serves.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "yoga",
		Short:        "Tranquility Oasis yoga center backend",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}

	cmd.AddCommand(NewServeCommand())
	cmd.AddCommand(NewImportInstructorsCommand())

	return cmd
}

func Execute() {
	if err := NewRootCommand().ExecuteContext(context.Background()); err != nil {
		log.Fatal(err)
	}
}
