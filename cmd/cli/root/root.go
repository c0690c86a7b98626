package root

import (
	"github.com/spf13/cobra"
)

// Exported RootCmd
var RootCmd = &cobra.Command{
	Use:           "userlist",
	Short:         "Users API CLI",
	Long:          "Command line interface for listing and adding users through the users API.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// GetRoot returns the RootCmd.
func GetRoot() *cobra.Command {
	return RootCmd
}
