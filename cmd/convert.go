package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/simforge/sim/convert"
	"github.com/inference-sim/simforge/sim/diagram"
	"github.com/inference-sim/simforge/sim/model"
	"github.com/inference-sim/simforge/sim/shape"
	"github.com/inference-sim/simforge/sim/trace"
	"github.com/inference-sim/simforge/sim/validate"
)

// convertOptions collects the convert flags.
type convertOptions struct {
	GraphPath    string
	OutPath      string // "" writes the model document to stdout
	StoreDir     string // "" uses an in-memory repository
	DefaultsPath string
	RulesPath    string
	ModelName    string
	ModelID      string
	TraceLevel   string
	Validate     bool
}

var convertOpts convertOptions

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a diagram graph into a simulation model document",
	Long: "Classify every shape of a diagram graph, build the typed simulation model and write it as YAML. " +
		"Custom shape attributes are read from and written back to the element store.",
	Run: func(cmd *cobra.Command, args []string) {
		out := io.Writer(os.Stdout)
		if convertOpts.OutPath != "" {
			f, err := os.Create(convertOpts.OutPath)
			if err != nil {
				logrus.Fatalf("Cannot create output file: %v", err)
			}
			defer f.Close()
			out = f
		}
		vr, err := runConvert(convertOpts, out, os.Stderr)
		if err != nil {
			logrus.Fatalf("Conversion failed: %v", err)
		}
		if vr != nil && !vr.IsValid {
			logrus.Fatalf("Converted model is invalid: %d errors", vr.ErrorCount)
		}
	},
}

// runConvert converts the graph and writes the model document to out. The
// conversion report (warnings, trace summary, validation messages) goes to
// report. The validation result is nil unless opts.Validate is set.
func runConvert(opts convertOptions, out, report io.Writer) (*validate.Result, error) {
	if !trace.IsValidTraceLevel(opts.TraceLevel) {
		return nil, fmt.Errorf("unknown trace level %q; valid: none, decisions", opts.TraceLevel)
	}
	g, err := diagram.LoadGraph(opts.GraphPath)
	if err != nil {
		return nil, err
	}
	defaults := model.DefaultDefaults()
	if opts.DefaultsPath != "" {
		if defaults, err = model.LoadDefaults(opts.DefaultsPath); err != nil {
			return nil, err
		}
	}
	var engine *validate.Engine
	if opts.Validate {
		rules := validate.Config{}
		if opts.RulesPath != "" {
			if rules, err = validate.LoadConfig(opts.RulesPath); err != nil {
				return nil, err
			}
		}
		if engine, err = validate.NewEngine(rules); err != nil {
			return nil, err
		}
	}

	repo, closeRepo, err := openRepository(opts.StoreDir)
	if err != nil {
		return nil, err
	}
	defer closeRepo()

	cfg := convert.Config{
		ModelName: opts.ModelName,
		ModelID:   opts.ModelID,
		Trace:     trace.TraceConfig{Level: trace.TraceLevel(opts.TraceLevel)},
	}
	def := model.NewDefinition()
	res, err := convert.NewConverter(shape.NewFactory(repo, defaults), repo, cfg).Convert(g, def)
	if err != nil {
		return nil, err
	}
	if err := model.WriteDefinition(out, def); err != nil {
		return nil, err
	}

	summary := convertReport{Result: res}
	if res.Trace != nil {
		summary.Trace = trace.Summarize(res.Trace)
	}
	var vr *validate.Result
	if engine != nil {
		vr = engine.Validate(def)
		summary.Validation = vr
	}
	if err := writeYAML(report, summary); err != nil {
		return nil, err
	}
	return vr, nil
}

type convertReport struct {
	Result     *convert.Result     `yaml:"conversion"`
	Trace      *trace.TraceSummary `yaml:"trace,omitempty"`
	Validation *validate.Result    `yaml:"validation,omitempty"`
}

func init() {
	convertCmd.Flags().StringVar(&convertOpts.GraphPath, "graph", "", "Path to diagram graph file (YAML or JSON)")
	convertCmd.Flags().StringVar(&convertOpts.OutPath, "out", "", "Path to write the model document (default stdout)")
	convertCmd.Flags().StringVar(&convertOpts.StoreDir, "store", "", "Badger element store directory (default in-memory)")
	convertCmd.Flags().StringVar(&convertOpts.DefaultsPath, "defaults", "", "Path to element defaults YAML")
	convertCmd.Flags().StringVar(&convertOpts.RulesPath, "rules", "", "Path to validation rule bundle YAML (with --validate)")
	convertCmd.Flags().StringVar(&convertOpts.ModelName, "model-name", "", "Model name (default graph name)")
	convertCmd.Flags().StringVar(&convertOpts.ModelID, "model-id", "", "Model id (default random UUID)")
	convertCmd.Flags().StringVar(&convertOpts.TraceLevel, "trace", "none", "Trace level (none, decisions)")
	convertCmd.Flags().BoolVar(&convertOpts.Validate, "validate", false, "Validate the converted model")
	_ = convertCmd.MarkFlagRequired("graph")

	rootCmd.AddCommand(convertCmd)
}
