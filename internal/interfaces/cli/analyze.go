package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	appanalysis "github.com/jgraziolaVU/Yeonni1MB/internal/application/analysis"
	"github.com/jgraziolaVU/Yeonni1MB/internal/config"
	"github.com/jgraziolaVU/Yeonni1MB/internal/infrastructure/monitoring/logging"
	"github.com/jgraziolaVU/Yeonni1MB/internal/intelligence/interpreter"
)

func newAnalyzeCommand() *cobra.Command {
	var (
		modelType string
		nSites    int
		output    string
	)

	cmd := &cobra.Command{
		Use:   "analyze <spectrum-file>",
		Short: "Fit one spectrum file and print the result as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read spectrum file: %w", err)
			}

			logger := logging.NewNopLogger()
			chain := interpreter.NewChain(cfg.Interpreter, logger, nil, nil)
			svc := appanalysis.NewService(cfg.Fit, chain, logger, nil)

			result, err := svc.Analyze(cmd.Context(), filepath.Base(args[0]), raw, appanalysis.Options{
				Model:  modelType,
				NSites: nSites,
			})
			if err != nil {
				return err
			}

			data, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return err
			}

			if output == "" {
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}
			return os.WriteFile(output, data, 0o644)
		},
	}

	cmd.Flags().StringVar(&modelType, "model", "", "line-shape model: lorentzian, voigt or pseudo_voigt (default from config)")
	cmd.Flags().IntVar(&nSites, "sites", 0, "fix the number of sites; 0 estimates it from peak detection")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the result JSON to a file instead of stdout")
	return cmd
}

func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		return config.Load(cfgFile)
	}
	return config.LoadFromEnv()
}
