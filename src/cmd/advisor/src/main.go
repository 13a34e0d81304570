package main

import (
	"context"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"stock-advisor/src/cmd/advisor/src/run"
	"stock-advisor/src/engine"
	"stock-advisor/src/models"
	"stock-advisor/src/utils"
)

type RunArgs struct {
	Ticker         string
	CsvPath        string
	WeightsConfig  string
	CommissionRate float64
	Years          int
	OutDir         string
}

type RunResults struct {
	Verdict *models.VerdictDTO
}

var runCmd = &cobra.Command{
	Use:   "advisor --ticker AAPL",
	Short: "Backtest technical indicators and produce a buy/hold/sell verdict",
	Run: func(cmd *cobra.Command, args []string) {
		ticker, err := cmd.Flags().GetString("ticker")
		if err != nil {
			log.Fatalf("error getting ticker: %v", err)
		}

		csvPath, err := cmd.Flags().GetString("csv")
		if err != nil {
			log.Fatalf("error getting csv: %v", err)
		}

		weightsConfig, err := cmd.Flags().GetString("weightsConfig")
		if err != nil {
			log.Fatalf("error getting weightsConfig: %v", err)
		}

		commissionRate, err := cmd.Flags().GetFloat64("commission")
		if err != nil {
			log.Fatalf("error getting commission: %v", err)
		}

		years, err := cmd.Flags().GetInt("years")
		if err != nil {
			log.Fatalf("error getting years: %v", err)
		}

		outDir, err := cmd.Flags().GetString("outDir")
		if err != nil {
			log.Fatalf("error getting outDir: %v", err)
		}

		_, err = Run(RunArgs{
			Ticker:         ticker,
			CsvPath:        csvPath,
			WeightsConfig:  weightsConfig,
			CommissionRate: commissionRate,
			Years:          years,
			OutDir:         outDir,
		})

		if err != nil {
			log.Fatalf("Error: %v", err)
		}

		log.Info("Done")
	},
}

func Run(args RunArgs) (RunResults, error) {
	ctx := context.Background()
	goEnv := "development"

	projectsDir := os.Getenv("PROJECTS_DIR")
	if projectsDir == "" {
		return RunResults{}, fmt.Errorf("missing PROJECTS_DIR environment variable")
	}

	if err := utils.InitEnvironmentVariables(projectsDir, goEnv); err != nil {
		return RunResults{}, fmt.Errorf("failed to init environment variables: %w", err)
	}

	weights := models.DefaultCategoryWeights()
	if args.WeightsConfig != "" {
		data, err := os.ReadFile(args.WeightsConfig)
		if err != nil {
			return RunResults{}, fmt.Errorf("failed to read weights config: %v", err)
		}

		var weightsConfig models.WeightsConfigYAML
		if err := yaml.Unmarshal(data, &weightsConfig); err != nil {
			return RunResults{}, fmt.Errorf("failed to unmarshal weights config: %v", err)
		}

		weights = weightsConfig.Weights
	}

	if err := weights.Validate(); err != nil {
		return RunResults{}, err
	}

	verdict, err := run.Exec(ctx, run.ExecParams{
		Ticker:         args.Ticker,
		CsvPath:        args.CsvPath,
		CommissionRate: args.CommissionRate,
		Weights:        weights,
		Years:          args.Years,
		OutDir:         args.OutDir,
	})

	if err != nil {
		return RunResults{}, err
	}

	return RunResults{Verdict: verdict}, nil
}

func main() {
	runCmd.PersistentFlags().String("ticker", "", "Ticker symbol to analyze.")
	runCmd.MarkPersistentFlagRequired("ticker")
	runCmd.PersistentFlags().String("csv", "", "Path to a daily OHLC csv file. When empty, prices are fetched from polygon.")
	runCmd.PersistentFlags().String("weightsConfig", "", "Path to a category weights yaml file. Defaults to 0.35/0.35/0.30.")
	runCmd.PersistentFlags().Float64("commission", engine.DefaultCommissionRate, "Commission rate charged per side.")
	runCmd.PersistentFlags().Int("years", 5, "Years of price history to fetch when --csv is not set.")
	runCmd.PersistentFlags().String("outDir", "", "Optional directory for per-indicator trade log exports.")
	runCmd.Execute()
}
