package users

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/crucial707/userlist/cmd/cli/config"
	"github.com/crucial707/userlist/cmd/cli/output"
	"github.com/crucial707/userlist/internal/client"
	"github.com/spf13/cobra"
)

// ==========================
// Init Users
// ==========================
func InitUsers(rootCmd *cobra.Command) {
	usersCmd := &cobra.Command{
		Use:   "users",
		Short: "List and add users",
	}

	usersCmd.AddCommand(
		listUsersCmd(),
		addUserCmd(),
	)

	rootCmd.AddCommand(usersCmd)
}

// ==========================
// LIST
// ==========================
func listUsersCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			users, err := client.New(config.APIURL()).ListUsers(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				b, err := json.MarshalIndent(users, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(b))
				return nil
			}

			rows := make([][]interface{}, 0, len(users))
			for _, u := range users {
				rows = append(rows, []interface{}{u.ID, u.DisplayName()})
			}
			output.RenderTable(out, []string{"ID", "NAME"}, rows)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print raw JSON instead of a table")
	return cmd
}

// ==========================
// ADD
// ==========================
func addUserCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Add a user",
		Long:  "Add a user. Words after the command are joined with spaces to form the name.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := client.New(config.APIURL()).CreateUser(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}
}
