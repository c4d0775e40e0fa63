package cmd

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
)

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "list persisted credit accounts",
	Run: func(cmd *cobra.Command, args []string) {
		mustConfigured(cmd)
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		store := provideAccountStore(database)

		borrower, _ := cmd.Flags().GetString("borrower")
		accounts, err := store.All(ctx)
		if borrower != "" {
			accounts, err = store.FindByBorrower(ctx, borrower)
		}
		if err != nil {
			cmd.PrintErrln("list accounts:", err)
			os.Exit(1)
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		_ = enc.Encode(accounts)
	},
}

var tokensCmd = &cobra.Command{
	Use:   "tokens",
	Short: "list persisted collateral tokens and ledger params",
	Run: func(cmd *cobra.Command, args []string) {
		mustConfigured(cmd)
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		tokens, err := provideTokenStore(database).All(ctx)
		if err != nil {
			cmd.PrintErrln("list tokens:", err)
			os.Exit(1)
		}

		params, err := provideParamStore(database).Find(ctx, cfg.Ledger.Name)
		if err != nil {
			cmd.PrintErrln("find params:", err)
			os.Exit(1)
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		_ = enc.Encode(map[string]interface{}{
			"params": params,
			"tokens": tokens,
		})
	},
}

func init() {
	rootCmd.AddCommand(accountsCmd)
	rootCmd.AddCommand(tokensCmd)

	accountsCmd.Flags().String("borrower", "", "only accounts of borrower")
}
