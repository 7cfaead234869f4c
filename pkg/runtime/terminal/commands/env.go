package commands

import (
	"github.com/de-tools/ecfr-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/ecfr-atlas/pkg/services/readiness"
	"github.com/de-tools/ecfr-atlas/pkg/services/viewmodel"
	"github.com/de-tools/ecfr-atlas/pkg/store/client"
)

// Env is filled in by the root command before any subcommand runs.
type Env struct {
	Repository client.Repository
	Poller     *readiness.Poller
	Options    viewmodel.Options
	Reporter   *export.Reporter
}
