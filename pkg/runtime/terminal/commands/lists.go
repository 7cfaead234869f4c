package commands

import (
	"fmt"
	"slices"

	"github.com/de-tools/ecfr-atlas/pkg/services/viewfilter"
	"github.com/de-tools/ecfr-atlas/pkg/services/viewmodel"
	"github.com/spf13/cobra"
)

type listFlags struct {
	search   string
	sort     string
	page     int
	pageSize int
}

func (f *listFlags) register(cmd *cobra.Command, sortKeys []viewfilter.SortKey) {
	cmd.Flags().StringVar(&f.search, "search", "", "Only show rows containing this text")
	cmd.Flags().StringVar(&f.sort, "sort", "", fmt.Sprintf("Sort key, one of %v", sortKeys))
	cmd.Flags().IntVar(&f.page, "page", 1, "Page to show, starting at 1")
	cmd.Flags().IntVar(&f.pageSize, "page-size", 0, "Rows per page (default from config)")
}

func (f *listFlags) validate(sortKeys []viewfilter.SortKey) error {
	if f.sort != "" && !slices.Contains(sortKeys, viewfilter.SortKey(f.sort)) {
		return fmt.Errorf("unsupported sort key %q. Supported keys: %v", f.sort, sortKeys)
	}
	if f.page < 1 {
		return fmt.Errorf("page must be at least 1, got %d", f.page)
	}
	if f.pageSize < 0 {
		return fmt.Errorf("page-size must not be negative, got %d", f.pageSize)
	}
	return nil
}

// apply replays the flags on a loaded list. Filter changes reset the page,
// so the page goes last.
func apply[T any](f *listFlags, list *viewmodel.List[T], agency string) viewmodel.ListSnapshot[T] {
	if f.pageSize > 0 {
		list.SetPageSize(f.pageSize)
	}
	if f.search != "" {
		list.Search(f.search)
	}
	if agency != "" {
		list.FilterAgency(agency)
	}
	if f.sort != "" {
		list.Sort(viewfilter.SortKey(f.sort))
	}
	return list.SetPage(f.page - 1)
}

type AgenciesCmd struct {
	env   *Env
	flags listFlags
}

func NewAgenciesCmd(env *Env) *cobra.Command {
	ac := &AgenciesCmd{env: env}
	cmd := &cobra.Command{
		Use:   "agencies",
		Short: "List agencies",
		Args:  cobra.NoArgs,
		RunE:  ac.run,
	}
	ac.flags.register(cmd, viewfilter.SortKeys(viewfilter.AgencySchema))
	return cmd
}

func (ac *AgenciesCmd) run(cmd *cobra.Command, _ []string) error {
	if err := ac.flags.validate(viewfilter.SortKeys(viewfilter.AgencySchema)); err != nil {
		return err
	}

	list := viewmodel.NewAgencyList(ac.env.Repository, nil, ac.env.Options)
	if err := list.Load(cmd.Context()); err != nil {
		return err
	}
	return ac.env.Reporter.Agencies(apply(&ac.flags, list, ""))
}

type TitlesCmd struct {
	env    *Env
	flags  listFlags
	agency string
}

func NewTitlesCmd(env *Env) *cobra.Command {
	tc := &TitlesCmd{env: env}
	cmd := &cobra.Command{
		Use:   "titles",
		Short: "List CFR titles",
		Args:  cobra.NoArgs,
		RunE:  tc.run,
	}
	tc.flags.register(cmd, viewfilter.SortKeys(viewfilter.TitleSchema))
	cmd.Flags().StringVar(&tc.agency, "agency", "", "Only show titles owned by this agency id")
	return cmd
}

func (tc *TitlesCmd) run(cmd *cobra.Command, _ []string) error {
	if err := tc.flags.validate(viewfilter.SortKeys(viewfilter.TitleSchema)); err != nil {
		return err
	}

	list := viewmodel.NewTitleList(tc.env.Repository, nil, tc.env.Options)
	if err := list.Load(cmd.Context()); err != nil {
		return err
	}
	return tc.env.Reporter.Titles(apply(&tc.flags, list, tc.agency))
}
