package main

import (
	"fmt"
	"os"

	"smarthealth-state/internal/client"
	"smarthealth-state/internal/domain"
	httpapi "smarthealth-state/internal/http"

	"github.com/spf13/cobra"
)

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the current snapshot, auth flag and derived metrics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.server != "" {
				view, err := client.New(a.server, a.logger).UserData(cmd.Context())
				if err != nil {
					return err
				}
				return a.printJSON(view)
			}

			svc, cleanup, err := a.openService(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer cleanup()
			data, authenticated, derived := svc.State()
			return a.printJSON(httpapi.UserDataView{UserData: data, Authenticated: authenticated, Derived: derived})
		},
	}
}

func newMetricsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "metrics",
		Short: "Print derived metrics (goal completion, adherence, BMI, weekly summary)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var derived domain.Derived
			if a.server != "" {
				d, err := client.New(a.server, a.logger).Derived(cmd.Context())
				if err != nil {
					return err
				}
				derived = d
			} else {
				svc, cleanup, err := a.openService(cmd.Context(), false)
				if err != nil {
					return err
				}
				defer cleanup()
				derived = svc.Derived()
			}
			return a.printJSON(derived)
		},
	}
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear both persisted slots and reset to the empty snapshot",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.server != "" {
				if err := client.New(a.server, a.logger).Logout(cmd.Context()); err != nil {
					return err
				}
			} else {
				svc, cleanup, err := a.openService(cmd.Context(), true)
				if err != nil {
					return err
				}
				defer cleanup()
				if err := svc.LogoutUser(cmd.Context()); err != nil {
					return err
				}
			}
			fmt.Fprintln(a.out, "logged out")
			return nil
		},
	}
}

func newExportCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the Excel health report",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				report []byte
				err    error
			)
			if a.server != "" {
				report, err = client.New(a.server, a.logger).ExportReport(cmd.Context())
			} else {
				svc, cleanup, openErr := a.openService(cmd.Context(), false)
				if openErr != nil {
					return openErr
				}
				defer cleanup()
				data, _, derived := svc.State()
				report, err = httpapi.GenerateReport(data, derived)
			}
			if err != nil {
				return err
			}
			if err := os.WriteFile(output, report, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}
			fmt.Fprintf(a.out, "report written to %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "smarthealth-report.xlsx", "output file")
	return cmd
}
