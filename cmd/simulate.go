package cmd

import (
	"context"
	"creditmanager/internal/scenario"
	"encoding/json"
	"os"

	"github.com/drone/signal"
	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store/db"
	"github.com/spf13/cobra"
)

var simulateCmd = &cobra.Command{
	Use:     "simulate <scenario.yaml>",
	Aliases: []string{"sim"},
	Short:   "replay a scenario against an in memory ledger",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		log := logger.FromContext(ctx)
		ctx = logger.WithContext(ctx, log)

		persist, _ := cmd.Flags().GetBool("persist")
		httpOracle, _ := cmd.Flags().GetBool("http-oracle")
		wallClock, _ := cmd.Flags().GetBool("wall-clock")
		monitor, _ := cmd.Flags().GetBool("monitor")
		serve, _ := cmd.Flags().GetBool("serve")

		sc, err := scenario.Load(args[0])
		if err != nil {
			cmd.PrintErrln("load scenario:", err)
			os.Exit(1)
		}

		var opts scenario.Options
		if persist || httpOracle || wallClock {
			mustConfigured(cmd)
		}

		if configured {
			opts.Facade = cfg.Ledger.Facade
			opts.Configurator = cfg.Ledger.Configurator
			if sc.Ledger.Underlying == "" {
				sc.Ledger.Name = cfg.Ledger.Name
				sc.Ledger.Underlying = cfg.Ledger.Underlying
			}
		}

		if persist {
			database := provideDatabase()
			defer database.Close()

			if err := db.Migrate(database); err != nil {
				cmd.PrintErrln("migrate database error:", err)
				os.Exit(1)
			}
			opts.Stores = provideStores(database)
		}

		if httpOracle {
			opts.Oracle = providePriceService()
		}

		if wallClock {
			opts.Blocks = provideBlockService()
		}

		env, err := scenario.Setup(ctx, sc, opts)
		if err != nil {
			cmd.PrintErrln("setup scenario:", err)
			os.Exit(1)
		}

		observe := func(ctx context.Context, r *scenario.Result) {
			entry := log.WithField("step", r.Step).WithField("op", r.Op)
			for k, v := range r.Detail {
				entry = entry.WithField(k, v)
			}

			if r.Err != nil {
				entry.WithError(r.Err).Infoln("step failed")
			} else {
				entry.Infoln("step done")
			}
		}

		if monitor {
			w := provideHealthWorker(env.Manager)
			next := observe
			observe = func(ctx context.Context, r *scenario.Result) {
				next(ctx, r)
				if _, err := w.Scan(ctx); err != nil {
					log.WithError(err).Errorln("health scan")
				}
			}
		}

		results, err := env.Run(ctx, sc.Steps, observe)
		if err != nil {
			cmd.PrintErrln(err)
			os.Exit(1)
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		_ = enc.Encode(summarize(results))

		if !serve {
			return
		}

		ctx = signal.WithContext(ctx)
		runWorkers(ctx, provideHealthWorker(env.Manager))
	},
}

type stepSummary struct {
	Step    int               `json:"step"`
	Op      string            `json:"op"`
	Account string            `json:"account,omitempty"`
	Error   string            `json:"error,omitempty"`
	Detail  map[string]string `json:"detail,omitempty"`
}

func summarize(results []*scenario.Result) []stepSummary {
	out := make([]stepSummary, 0, len(results))
	for _, r := range results {
		s := stepSummary{Step: r.Step, Op: r.Op, Account: r.Account, Detail: r.Detail}
		if r.Err != nil {
			s.Error = r.Err.Error()
		}
		out = append(out, s)
	}
	return out
}

func init() {
	rootCmd.AddCommand(simulateCmd)

	simulateCmd.Flags().Bool("persist", false, "persist ledger state to the configured database")
	simulateCmd.Flags().Bool("http-oracle", false, "price tokens with the configured price oracle endpoint")
	simulateCmd.Flags().Bool("wall-clock", false, "use configured genesis blocks instead of the scenario clock")
	simulateCmd.Flags().Bool("monitor", false, "run a health scan after every step")
	simulateCmd.Flags().Bool("serve", false, "keep the ledger and the health worker running after the scenario")
}
