// File: cmd/audit.go
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/seoscope/seoscope-cli/api/schemas"
	"github.com/seoscope/seoscope-cli/internal/config"
	"github.com/seoscope/seoscope-cli/internal/observability"
	"github.com/seoscope/seoscope-cli/internal/orchestrator"
	"github.com/seoscope/seoscope-cli/internal/reporting"
)

// newAuditCmd creates and configures the `audit` command.
func newAuditCmd() *cobra.Command {
	auditCmd := &cobra.Command{
		Use:   "audit <url>",
		Short: "Runs a full SEO audit against the target URL",
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			// Bind flags to their viper keys so CLI values override the
			// config file and environment with the right precedence.
			bindings := map[string]string{
				"network.timeout_ms": "timeout",
				"network.user_agent": "user-agent",
				"audit.pages":        "pages",
				"audit.verbose":      "verbose",
				"audit.strict":       "strict",
				"crawl.enabled":      "crawl",
				"crawl.page_limit":   "crawl-limit",
				"report.format":      "format",
				"report.output":      "output",
				"report.baseline":    "baseline",
			}
			for key, flag := range bindings {
				if err := viper.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
					return err
				}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()

			cfg, err := config.NewFromViper(viper.GetViper())
			if err != nil {
				return err
			}
			cfg.Audit.TargetURL = args[0]

			orch, err := orchestrator.New(cfg, logger)
			if err != nil {
				return err
			}

			report, err := orch.Run(ctx)
			if err != nil {
				return fmt.Errorf("audit failed: %w", err)
			}

			reporter, err := reporting.New(cfg.Report.Format, cfg.Report.Output, cfg.Audit.Verbose)
			if err != nil {
				return err
			}
			if err := reporter.Write(report); err != nil {
				reporter.Close()
				return fmt.Errorf("writing report: %w", err)
			}
			if err := reporter.Close(); err != nil {
				return fmt.Errorf("closing report output: %w", err)
			}

			if cfg.Report.Baseline != "" {
				if err := writeBaselineDiff(cfg.Report.Baseline, report); err != nil {
					// The audit itself succeeded; a bad baseline should not
					// void its exit semantics.
					logger.Warn("Baseline diff failed", zap.Error(err))
				}
			}

			return exitFromSummary(report.Summary, cfg.Audit.Strict)
		},
	}

	flags := auditCmd.Flags()
	flags.Int("timeout", 10000, "per-request timeout in milliseconds")
	flags.String("user-agent", "", "user agent string or preset name (googlebot, bingbot)")
	flags.StringSlice("pages", nil, "sample page paths for redirect checks (default /about,/contact,/blog,/pricing)")
	flags.Bool("crawl", false, "crawl pages listed in the sitemap")
	flags.Int("crawl-limit", 50, "maximum pages to crawl")
	flags.String("format", "console", "report format: console, json, or markdown")
	flags.StringP("output", "o", "", "write the report to a file instead of stdout")
	flags.BoolP("verbose", "v", false, "include explanations and suggestions in console output")
	flags.Bool("strict", false, "treat warnings as failures")
	flags.String("baseline", "", "previous JSON report to diff against")

	return auditCmd
}

// exitFromSummary derives the process outcome purely from summary counts:
// errors always fail, warnings fail only in strict mode.
func exitFromSummary(s schemas.Summary, strict bool) error {
	if s.Errors > 0 || (strict && s.Warnings > 0) {
		return exitCodeError{code: 1}
	}
	return nil
}

// writeBaselineDiff compares the fresh report against a stored one and
// renders the delta on stderr, keeping stdout clean for the report itself.
func writeBaselineDiff(baselinePath string, current *schemas.AuditReport) error {
	previous, err := reporting.LoadReport(baselinePath)
	if err != nil {
		return err
	}
	diff := schemas.DiffReports(previous, current)
	return reporting.WriteDiff(os.Stderr, diff)
}
