package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"btoolme/internal/bootstrap"
	"btoolme/internal/health"
	"btoolme/internal/shared/config"
)

func healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check email connectivity with the current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := bootstrap.Build(config.Load())
			if err != nil {
				return err
			}
			if app.DB != nil {
				defer app.DB.Close()
			}
			report, err := app.Health.Status(cmd.Context())
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(report); err != nil {
				return err
			}
			if report.Status != health.StatusHealthy {
				return fmt.Errorf("status %s", report.Status)
			}
			return nil
		},
	}
}
