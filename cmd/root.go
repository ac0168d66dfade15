package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "rt",
		Short:         "Request Tracker CLI (rt): read, create, edit and search tickets",
		Long:          "rt talks to a Request Tracker server over its REST 1.0 interface. Store server profiles once, then show, create, edit and search tickets from the terminal.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.PersistentPostRun = func(_ *cobra.Command, _ []string) {
		_ = app.logger.Sync()
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newProfileCmd(app),
		newTicketCmd(app),
	)

	return rootCmd
}
