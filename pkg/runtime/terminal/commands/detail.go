package commands

import (
	"fmt"

	"github.com/de-tools/ecfr-atlas/pkg/services/viewmodel"
	"github.com/spf13/cobra"
)

func NewAgencyCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "agency <id>",
		Short: "Show an agency with charts of its titles",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			detail := viewmodel.NewAgencyDetail(args[0], env.Repository, nil, env.Options)
			if err := detail.Load(cmd.Context()); err != nil {
				return err
			}
			if err := env.Reporter.AgencyDetail(detail.Snapshot()); err != nil {
				return fmt.Errorf("failed to render agency: %w", err)
			}
			return nil
		},
	}
}

type TitleCmd struct {
	env    *Env
	search string
	page   int
}

func NewTitleCmd(env *Env) *cobra.Command {
	tc := &TitleCmd{env: env}
	cmd := &cobra.Command{
		Use:   "title <id>",
		Short: "Show a title with its sections",
		Args:  cobra.ExactArgs(1),
		RunE:  tc.run,
	}

	cmd.Flags().StringVar(&tc.search, "search", "", "Only show sections containing this text")
	cmd.Flags().IntVar(&tc.page, "page", 1, "Section page to show, starting at 1")

	return cmd
}

func (tc *TitleCmd) run(cmd *cobra.Command, args []string) error {
	if tc.page < 1 {
		return fmt.Errorf("page must be at least 1, got %d", tc.page)
	}

	detail := viewmodel.NewTitleDetail(args[0], tc.env.Repository, nil, tc.env.Options)
	if err := detail.Load(cmd.Context()); err != nil {
		return err
	}
	if tc.search != "" {
		detail.SearchSections(tc.search)
	}
	if err := tc.env.Reporter.TitleDetail(detail.SetSectionPage(tc.page - 1)); err != nil {
		return fmt.Errorf("failed to render title: %w", err)
	}
	return nil
}
