package cli

import "github.com/spf13/cobra"

func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "deref",
		Short:   "Deref - resolve multi-file OpenAPI/AsyncAPI documents into one",
		Version: "1.0.0",

		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	root.AddCommand(ResolveCommand())

	return root
}
