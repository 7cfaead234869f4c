package commands

import (
	"github.com/spf13/cobra"
)

// NewStatusCmd runs a single readiness attempt and prints the outcome.
func NewStatusCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check whether the backend is running and has data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			state, err := env.Poller.Check(cmd.Context())
			if rerr := env.Reporter.Readiness(state); rerr != nil {
				return rerr
			}
			return err
		},
	}
}
