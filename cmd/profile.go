package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/bnema/rt-cli/internal/application"
	"github.com/bnema/rt-cli/internal/domain"
	"github.com/spf13/cobra"
)

func newProfileCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage RT server profiles",
	}

	cmd.AddCommand(
		newProfileSetCmd(app),
		newProfileListCmd(app),
		newProfileRemoveCmd(app),
	)

	return cmd
}

func newProfileSetCmd(app *app) *cobra.Command {
	var name string
	var url string
	var username string
	var queue string
	var password string
	var passwordStdin bool

	cmd := &cobra.Command{
		Use:   "set <id>",
		Short: "Create or update a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if password != "" && passwordStdin {
				return errors.New("--password and --password-stdin are mutually exclusive")
			}
			if passwordStdin {
				read, err := readPassword(cmd.InOrStdin())
				if err != nil {
					return err
				}
				password = read
			}

			id := domain.ProfileID(args[0])
			profile := domain.Profile{
				ID:           id,
				Name:         name,
				URL:          url,
				Username:     username,
				DefaultQueue: queue,
			}

			existing, err := app.profiles.GetProfile(cmd.Context(), id)
			switch {
			case err == nil:
				profile = mergeProfile(existing, profile, cmd)
			case !errors.Is(err, domain.ErrProfileNotFound):
				return err
			}

			if err := app.profiles.SetProfile(cmd.Context(), application.SetProfileCommand{
				Profile:  profile,
				Password: password,
			}); err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "profile %s saved\n", id)
			return err
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&url, "url", "", "REST endpoint, e.g. https://rt.example.com/REST/1.0/")
	cmd.Flags().StringVar(&username, "user", "", "RT username")
	cmd.Flags().StringVar(&queue, "queue", "", "Queue used when creating tickets without one")
	cmd.Flags().StringVar(&password, "password", "", "RT password")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "Read the password from stdin")

	return cmd
}

// mergeProfile keeps the stored value of every flag the user did not pass.
func mergeProfile(existing, update domain.Profile, cmd *cobra.Command) domain.Profile {
	merged := existing
	if cmd.Flags().Changed("name") {
		merged.Name = update.Name
	}
	if cmd.Flags().Changed("url") {
		merged.URL = update.URL
	}
	if cmd.Flags().Changed("user") {
		merged.Username = update.Username
	}
	if cmd.Flags().Changed("queue") {
		merged.DefaultQueue = update.DefaultQueue
	}
	return merged
}

func readPassword(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", errors.New("read password: stdin is empty")
	}
	return line, nil
}

func newProfileListCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored profiles",
		RunE: func(cmd *cobra.Command, _ []string) error {
			profiles, err := app.profiles.ListProfiles(cmd.Context())
			if err != nil {
				return err
			}
			if len(profiles) == 0 {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "no profiles")
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for _, profile := range profiles {
				marker := " "
				if string(profile.ID) == app.cfg.Profile {
					marker = "*"
				}
				_, _ = fmt.Fprintf(w, "%s %s\t%s\t%s\t%s\n", marker, profile.ID, profile.Username, profile.URL, profile.DefaultQueue)
			}
			return w.Flush()
		},
	}
}

func newProfileRemoveCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a profile and its stored password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.profiles.RemoveProfile(cmd.Context(), domain.ProfileID(args[0])); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "profile %s removed\n", args[0])
			return err
		},
	}
}
