package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/simforge/sim/model"
	"github.com/inference-sim/simforge/sim/validate"
)

var (
	validateModelPath string
	validateRulesPath string
	validateFormat    string
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a saved model document",
	Run: func(cmd *cobra.Command, args []string) {
		res, err := runValidate(validateModelPath, validateRulesPath, validateFormat, os.Stdout)
		if err != nil {
			logrus.Fatalf("Validation failed: %v", err)
		}
		if !res.IsValid {
			logrus.Fatalf("Model is invalid: %d errors, %d warnings", res.ErrorCount, res.WarningCount)
		}
		logrus.Infof("Model is valid (%d warnings)", res.WarningCount)
	},
}

func runValidate(modelPath, rulesPath, format string, w io.Writer) (*validate.Result, error) {
	if format != "yaml" && format != "json" {
		return nil, fmt.Errorf("unknown output format %q; valid: yaml, json", format)
	}
	cfg := validate.Config{}
	if rulesPath != "" {
		var err error
		if cfg, err = validate.LoadConfig(rulesPath); err != nil {
			return nil, err
		}
	}
	engine, err := validate.NewEngine(cfg)
	if err != nil {
		return nil, err
	}
	def, err := model.LoadDefinition(modelPath)
	if err != nil {
		return nil, err
	}

	res := engine.Validate(def)
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return nil, fmt.Errorf("JSON marshal failed: %w", err)
		}
		return res, nil
	}
	return res, writeYAML(w, res)
}

func init() {
	validateCmd.Flags().StringVar(&validateModelPath, "model", "", "Path to model document YAML")
	validateCmd.Flags().StringVar(&validateRulesPath, "rules", "", "Path to validation rule bundle YAML")
	validateCmd.Flags().StringVar(&validateFormat, "format", "yaml", "Output format (yaml, json)")
	_ = validateCmd.MarkFlagRequired("model")

	rootCmd.AddCommand(validateCmd)
}
