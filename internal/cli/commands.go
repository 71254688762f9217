package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"SignalDesk/internal/collector"
	"SignalDesk/internal/config"
	"SignalDesk/internal/service"
	"SignalDesk/internal/store"
)

// app is what every subcommand works from, filled in by the root's pre-run.
type app struct {
	cfgPath string
	configs *config.Store
}

func (a *app) load() error {
	if a.configs != nil {
		return nil
	}
	configs, err := config.NewStore(a.cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a.configs = configs
	return nil
}

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "signalctl",
		Short: "SignalDesk - indicator based buy/sell signal scoring",
		Long: `signalctl scores a buy or sell decision for a ticker from its CCI, RSI and
OBV readings, using the same providers and scoring config as the server.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
	}

	defaultPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		defaultPath = v
	}
	rootCmd.PersistentFlags().StringVar(&a.cfgPath, "config", defaultPath, "Configuration file path")

	rootCmd.AddCommand(newAnalyzeCmd(a))
	rootCmd.AddCommand(newScoreCmd(a))
	rootCmd.AddCommand(newSyncCmd(a))
	rootCmd.AddCommand(newConfigCmd(a))
	return rootCmd
}

// newAnalyzeCmd fetches history and scores a decision. Without arguments it
// prompts for the symbol and decision.
func newAnalyzeCmd(a *app) *cobra.Command {
	var decision string
	cmd := &cobra.Command{
		Use:   "analyze [SYMBOL]",
		Short: "Fetch daily history and score a buy/sell decision",
		Long: `Fetch recent daily bars for SYMBOL, compute CCI, RSI and OBV, and score the
requested decision.
Example: signalctl analyze 005930 --decision sell`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var symbol string
			if len(args) == 1 {
				symbol = args[0]
			} else {
				var err error
				if symbol, err = PromptForSymbol(); err != nil {
					return err
				}
				if !cmd.Flags().Changed("decision") {
					if decision, err = PromptForDecision(); err != nil {
						return err
					}
				}
			}
			return runAnalyze(cmd, a, symbol, decision)
		},
	}
	cmd.Flags().StringVarP(&decision, "decision", "d", "buy", "Decision to evaluate: buy or sell")
	return cmd
}

func runAnalyze(cmd *cobra.Command, a *app, symbol, decision string) error {
	cfg := a.configs.Current()

	var offline collector.BarLoader
	if cfg.Providers.Offline.On() {
		if ss, err := store.NewSQLiteStore(cfg.Providers.Offline.SQLitePath); err == nil {
			defer ss.Close()
			offline = ss
		}
	}
	providers := collector.BuildProviders(cfg, offline, nil)
	defer providers.Close()
	col := collector.NewCollector(providers.Router, nil, 0, nil)
	analyzer := service.NewAnalyzer(col, a.configs, nil, nil)

	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
	defer cancel()
	res, err := analyzer.Analyze(ctx, symbol, decision)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), DisplayError(err))
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), RenderAnalysis(res))
	return nil
}

// newScoreCmd scores caller-supplied indicator values.
func newScoreCmd(a *app) *cobra.Command {
	var (
		decision         string
		cci, rsi         float64
		obvTrend, obvScr float64
	)
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score indicator values without fetching data",
		Long: `Score a decision from indicator values you already have.
Example: signalctl score --cci -150 --rsi 20 --obv-score 90`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := service.IndicatorInput{CCI: cci, RSI: rsi, OBVTrend: obvTrend}
			if cmd.Flags().Changed("obv-score") {
				in.OBVScore = &obvScr
			}
			analyzer := service.NewAnalyzer(nil, a.configs, nil, nil)
			sig, err := analyzer.Score(in, decision)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), RenderSignal("score · "+string(sig.Decision), sig))
			return nil
		},
	}
	cmd.Flags().StringVarP(&decision, "decision", "d", "buy", "Decision to evaluate: buy or sell")
	cmd.Flags().Float64Var(&cci, "cci", 0, "CCI value")
	cmd.Flags().Float64Var(&rsi, "rsi", 50, "RSI value (0-100)")
	cmd.Flags().Float64Var(&obvTrend, "obv-trend", 0, "OBV trend; its sign sets the OBV score when --obv-score is absent")
	cmd.Flags().Float64Var(&obvScr, "obv-score", 50, "OBV score (0-100)")
	return cmd
}

// newSyncCmd fills the offline store from the online providers.
func newSyncCmd(a *app) *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "sync SYMBOL",
		Short: "Download daily bars into the offline store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.configs.Current()
			symbol, err := collector.NormalizeSymbol(args[0])
			if err != nil {
				return err
			}
			if days <= 0 {
				days = cfg.Indicators.Days
			}

			ss, err := store.NewSQLiteStore(cfg.Providers.Offline.SQLitePath)
			if err != nil {
				return fmt.Errorf("open offline store: %w", err)
			}
			defer ss.Close()

			// online providers only
			providers := collector.BuildProviders(cfg, nil, nil)
			defer providers.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()
			bars, source, err := providers.Router.Fetch(ctx, symbol, days)
			if err != nil {
				return err
			}
			if collector.IsDomesticCode(symbol) {
				symbol = collector.PadCode(symbol)
			}
			n, err := ss.UpsertBars(ctx, symbol, source, bars)
			if err != nil {
				return fmt.Errorf("store bars: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), DisplaySuccess(fmt.Sprintf("%s: stored %d bars from %s into %s",
				symbol, n, source, cfg.Providers.Offline.SQLitePath)))
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 0, "Number of daily bars to fetch (config indicators.days if 0)")
	return cmd
}

// newConfigCmd shows the active scoring configuration.
func newConfigCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the active scoring configuration",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), RenderConfig(a.configs.Current()))
		},
	}
}
