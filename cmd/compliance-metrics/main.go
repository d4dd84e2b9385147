// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/chainguard-dev/clog"
	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/Felpnoo/projeto-pesquisa-tcrr/internal/config"
	"github.com/Felpnoo/projeto-pesquisa-tcrr/internal/evaluate"
	"github.com/Felpnoo/projeto-pesquisa-tcrr/internal/report"
	"github.com/Felpnoo/projeto-pesquisa-tcrr/internal/tool"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		cancel()
		os.Exit(1)
	}
}

// app carries the resolved configuration from the pre-run hook to the
// subcommands.
type app struct {
	configFile string
	cfg        config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:   "compliance-metrics",
		Short: "Evaluate compliance assessments against gold labels",
		Long: `compliance-metrics compares automated sustainability-criteria assessments of
procurement documents with human gold labels and a baseline. It writes:

  T1_F1.csv            macro F1 per criterion (model vs baseline)
  T2_coverage.csv      evidence citation coverage
  T3_mae.csv           per-document adherence score error
  T3_mae_overall.txt   mean absolute error
  fig_F1.png, fig_MAE.png

Running without a subcommand is the same as 'compliance-metrics run'.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		RunE:              a.run,
	}

	rootCmd.PersistentFlags().StringVarP(&a.configFile, "config", "c", "", "YAML config file")
	config.RegisterFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "run",
			Short: "Compute the metric tables and charts",
			RunE:  a.run,
		},
		&cobra.Command{
			Use:   "validate",
			Short: "Check every per-document result file for data-quality issues",
			RunE:  a.validate,
		},
		&cobra.Command{
			Use:   "mcp",
			Short: "Serve the metrics tools over MCP on stdio",
			RunE:  a.serveMCP,
		},
		versionCmd(),
	)
	return rootCmd
}

// setup resolves the configuration and installs the logger.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if err := config.LoadDotEnv(".env"); err != nil {
		return err
	}
	cfg, err := config.Load(ctx, a.configFile, cmd.Flags())
	if err != nil {
		return err
	}
	a.cfg = cfg

	level, _ := cfg.Level()
	// stdout belongs to the MCP protocol and the summary tables.
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	logger := clog.New(handler).With("run_id", uuid.NewString())
	cmd.SetContext(clog.WithLogger(ctx, logger))
	return nil
}

func (a *app) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	res, err := evaluate.Run(ctx, a.cfg.Options())
	if err != nil {
		clog.ErrorContextf(ctx, "Metrics run failed: %v", err)
		return err
	}

	out := cmd.OutOrStdout()
	if err := report.Summary(out, res.F1, res.Coverage, res.MAE); err != nil {
		return err
	}
	fmt.Fprintf(out, "\nArtifacts in %s:\n", a.cfg.Options().OutDir)
	for _, path := range res.Artifacts {
		fmt.Fprintf(out, " - %s\n", path)
	}
	if n := res.Warnings(); n > 0 {
		clog.WarnContextf(ctx, "Run completed with %d warnings", n)
	}
	return nil
}

func (a *app) validate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	res, err := evaluate.Validate(ctx, a.cfg.ValidateOptions())
	if err != nil {
		clog.ErrorContextf(ctx, "Validation failed: %v", err)
		return err
	}

	out := cmd.OutOrStdout()
	for _, doc := range res.Documents {
		for _, issue := range doc.Report.Issues {
			fmt.Fprintf(out, "%s\t%s\n", doc.DocID, issue)
		}
	}
	fmt.Fprintf(out, "%d documents checked, %d issues\n", len(res.Documents), res.Issues())
	return nil
}

func (a *app) serveMCP(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	clog.InfoContextf(ctx, "Serving MCP tools on stdio")
	return tool.NewServer(version).Run(ctx, &mcp.StdioTransport{})
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "compliance-metrics %s\n", version)
			fmt.Fprintf(cmd.OutOrStdout(), "  commit: %s\n", commit)
			fmt.Fprintf(cmd.OutOrStdout(), "  built:  %s\n", date)
		},
	}
}
