package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/esap-ai/quotescout/internal/model"
)

var runEmail bool

var runCmd = &cobra.Command{
	Use:   "run <query>",
	Short: "Run one extraction and print the result as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := args[0]

		env, err := initPipeline(cfg)
		if err != nil {
			return err
		}
		defer env.Close()

		kind := model.KindProduct
		if runEmail {
			kind = model.KindEmail
		}

		result, err := env.Pipeline.Run(cmd.Context(), kind, query)
		if err != nil {
			return eris.Wrap(err, "run extraction")
		}

		zap.L().Info("extraction complete",
			zap.String("run_id", result.RunID),
			zap.Int("diagnostics", len(result.Diagnostics)),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	runCmd.Flags().BoolVar(&runEmail, "email", false, "extract email contacts instead of prices")
	rootCmd.AddCommand(runCmd)
}
