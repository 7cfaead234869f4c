package commands

import (
	"fmt"

	"github.com/de-tools/ecfr-atlas/pkg/models/domain"
	"github.com/de-tools/ecfr-atlas/pkg/services/viewmodel"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type DashboardCmd struct {
	env   *Env
	watch bool
}

func NewDashboardCmd(env *Env) *cobra.Command {
	dc := &DashboardCmd{env: env}
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show word count and change frequency by agency",
		Args:  cobra.NoArgs,
		RunE:  dc.run,
	}

	cmd.Flags().BoolVar(&dc.watch, "watch", false, "Wait until the backend has finished loading data")

	return cmd
}

func (dc *DashboardCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	var ready viewmodel.Readiness
	if dc.watch {
		ready = dc.env.Poller
	} else {
		// Without --watch a single attempt decides whether there is
		// anything to show yet.
		state, err := dc.env.Poller.Check(ctx)
		if err != nil || state.Phase != domain.ReadinessReady {
			if rerr := dc.env.Reporter.Readiness(state); rerr != nil {
				return fmt.Errorf("failed to render readiness: %w", rerr)
			}
			if err == nil {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Run with --watch to wait until the data is available.")
			}
			return err
		}
	}
	dashboard := viewmodel.NewDashboard(dc.env.Repository, ready, dc.env.Options)
	dashboard.OnChange(func(s viewmodel.DashboardSnapshot) {
		if s.Readiness.Phase != "" && s.Screen != viewmodel.ScreenReady {
			zerolog.Ctx(ctx).Info().
				Str("phase", string(s.Readiness.Phase)).
				Int("attempt", s.Readiness.Attempt).
				Msg("waiting for backend")
		}
	})

	loadErr := dashboard.Load(ctx)
	if err := dc.env.Reporter.Dashboard(dashboard.Snapshot()); err != nil {
		return fmt.Errorf("failed to render dashboard: %w", err)
	}
	return loadErr
}
