package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"github.com/Lombado/finlords-investor-portal/config"
	"github.com/Lombado/finlords-investor-portal/data/repository"
	"github.com/Lombado/finlords-investor-portal/internal/model"
	"github.com/Lombado/finlords-investor-portal/internal/reportGenerator/xslsxGenerator"
	"github.com/Lombado/finlords-investor-portal/internal/service/portalService"
	"github.com/Lombado/finlords-investor-portal/utils"
	"github.com/spf13/cobra"
)

// ServeFunc runs the long-lived service (bot and background jobs) until ctx is done.
type ServeFunc func(ctx context.Context, cfg *config.Config) error

type Portal interface {
	ListInvestors(ctx context.Context) ([]model.Investor, error)
	GetDashboard(ctx context.Context, investorName string, threshold int) (model.Dashboard, error)
	SimulateSale(ctx context.Context, ticker string, sellPercent int) (model.SimulatedSale, error)
	ExportReport(ctx context.Context, investorName string, threshold int) (model.ReportFile, error)
	LiquidityPolicy() []string
}

// NewRootCmd creates the root command
func NewRootCmd(serve ServeFunc) *cobra.Command {
	var cfg *config.Config

	rootCmd := &cobra.Command{
		Use:   "finlords",
		Short: "Finlords Investor Portal (Simulation)",
		Long: `Read-only investor view of the Finlords NSE equity strategy.
Values holdings, flags positions for tactical profit locking and previews simulated sales.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			if cmd.Flags().Changed("data-source") {
				loaded.DataSource, _ = cmd.Flags().GetString("data-source")
				if err = loaded.Validate(); err != nil {
					return err
				}
			}

			cfg = loaded
			SetupLogger(cfg, cmd.ErrOrStderr())
			return nil
		},
	}

	rootCmd.PersistentFlags().String("data-source", config.DataSourceStatic, "Reference data source: static or postgres")

	rootCmd.AddCommand(newServeCmd(&cfg, serve))
	rootCmd.AddCommand(newInvestorsCmd(&cfg))
	rootCmd.AddCommand(newHoldingsCmd(&cfg))
	rootCmd.AddCommand(newSellCmd(&cfg))
	rootCmd.AddCommand(newReportCmd(&cfg))
	rootCmd.AddCommand(newPolicyCmd(&cfg))

	return rootCmd
}

func SetupLogger(cfg *config.Config, w io.Writer) {
	var logLevel slog.Level

	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warning":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	log := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(log)
}

// openPortal builds a portal service for one-shot commands. Reports are
// written to disk, so the chat file size limit does not apply.
func openPortal(ctx context.Context, cfg *config.Config) (Portal, func(), error) {
	repo, closeRepo, err := repository.Open(cfg)
	if err != nil {
		return nil, nil, err
	}

	local := *cfg
	local.Telegram.FileLimitInBytes = math.MaxInt

	srv := portalService.New(&local, repo, portalService.NewEngine(&local), xslsxGenerator.New(), nil)
	if err = srv.ReloadReferenceData(ctx); err != nil {
		closeRepo()
		return nil, nil, fmt.Errorf("load reference data: %w", err)
	}

	return srv, closeRepo, nil
}

func withPortal(cfg **config.Config, run func(ctx context.Context, cmd *cobra.Command, cfg *config.Config, portal Portal) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := utils.NewCtxWithRqID(cmd.Context())

		portal, closePortal, err := openPortal(ctx, *cfg)
		if err != nil {
			return err
		}
		defer closePortal()

		return run(ctx, cmd, *cfg, portal)
	}
}

func newServeCmd(cfg **config.Config, serve ServeFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the telegram bot and the background jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), *cfg)
		},
	}
}

func newInvestorsCmd(cfg **config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "investors",
		Short: "List investors with their liquidity position",
		RunE: withPortal(cfg, func(ctx context.Context, cmd *cobra.Command, cfg *config.Config, portal Portal) error {
			investors, err := portal.ListInvestors(ctx)
			if err != nil {
				return err
			}

			dashboards := make([]model.Dashboard, 0, len(investors))
			for _, inv := range investors {
				d, err := portal.GetDashboard(ctx, inv.Name, cfg.Portal.DefaultThreshold)
				if err != nil {
					return err
				}
				dashboards = append(dashboards, d)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), renderInvestors(dashboards, cfg.Portal.Currency))
			return err
		}),
	}
}

// resolveInvestor falls back to the first investor of the registry.
func resolveInvestor(ctx context.Context, cmd *cobra.Command, portal Portal) (string, error) {
	name, _ := cmd.Flags().GetString("investor")
	if name != "" {
		return name, nil
	}

	investors, err := portal.ListInvestors(ctx)
	if err != nil {
		return "", err
	}
	if len(investors) == 0 {
		return "", fmt.Errorf("investor registry is empty")
	}
	return investors[0].Name, nil
}

func newHoldingsCmd(cfg **config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "holdings",
		Short: "Show the dashboard of an investor",
		Long: `Show portfolio value, unrealized P/L, liquidity and the per-stock signals.
Example: finlords holdings --investor Alice --threshold 5`,
		RunE: withPortal(cfg, func(ctx context.Context, cmd *cobra.Command, cfg *config.Config, portal Portal) error {
			name, err := resolveInvestor(ctx, cmd, portal)
			if err != nil {
				return err
			}

			threshold, _ := cmd.Flags().GetInt("threshold")
			if !cmd.Flags().Changed("threshold") {
				threshold = cfg.Portal.DefaultThreshold
			}

			d, err := portal.GetDashboard(ctx, name, threshold)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), renderDashboard(d))
			return err
		}),
	}

	cmd.Flags().String("investor", "", "Investor name (first investor if not provided)")
	cmd.Flags().Int("threshold", 0, "Profit-lock threshold in percent (configured default if not provided)")

	return cmd
}

func newSellCmd(cfg **config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sell [TICKER]",
		Short: "Preview a simulated sale of part of a position",
		Long: `Preview the proceeds of selling a percentage of a position. Holdings are not changed.
Example: finlords sell SBIC --percent 50`,
		Args: cobra.ExactArgs(1),
		RunE: withPortal(cfg, func(ctx context.Context, cmd *cobra.Command, cfg *config.Config, portal Portal) error {
			percent, _ := cmd.Flags().GetInt("percent")
			if !cmd.Flags().Changed("percent") {
				percent = cfg.Portal.DefaultSellPercent
			}

			sale, err := portal.SimulateSale(ctx, cmd.Flags().Arg(0), percent)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), renderSale(sale, cfg.Portal.Currency))
			return err
		}),
	}

	cmd.Flags().Int("percent", 0, "Percent of the position to sell (configured default if not provided)")

	return cmd
}

func newReportCmd(cfg **config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Export the dashboard of an investor to an xlsx file",
		RunE: withPortal(cfg, func(ctx context.Context, cmd *cobra.Command, cfg *config.Config, portal Portal) error {
			name, err := resolveInvestor(ctx, cmd, portal)
			if err != nil {
				return err
			}

			threshold, _ := cmd.Flags().GetInt("threshold")
			if !cmd.Flags().Changed("threshold") {
				threshold = cfg.Portal.DefaultThreshold
			}

			report, err := portal.ExportReport(ctx, name, threshold)
			if err != nil {
				return err
			}

			outDir, _ := cmd.Flags().GetString("out")
			path := filepath.Join(outDir, report.FileName)
			if err = os.WriteFile(path, report.Content, 0o644); err != nil {
				return fmt.Errorf("write report: %w", err)
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "report saved to %s\n", path)
			return err
		}),
	}

	cmd.Flags().String("investor", "", "Investor name (first investor if not provided)")
	cmd.Flags().Int("threshold", 0, "Profit-lock threshold in percent (configured default if not provided)")
	cmd.Flags().String("out", ".", "Directory to write the report to")

	return cmd
}

func newPolicyCmd(cfg **config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "policy",
		Short: "Show the liquidity policy",
		RunE: withPortal(cfg, func(ctx context.Context, cmd *cobra.Command, cfg *config.Config, portal Portal) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), renderPolicy(portal.LiquidityPolicy()))
			return err
		}),
	}
}
