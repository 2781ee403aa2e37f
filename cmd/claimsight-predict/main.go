// claimsight-predict scores claims from JSON on the command line.
//
// Usage:
//
//	claimsight-predict -f claim.json
//	cat claims.json | claimsight-predict --offline
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

var predictFlags struct {
	file        string
	weights     string
	model       string
	offline     bool
	concurrency int
	timeout     string
}

var rootCmd = &cobra.Command{
	Use:   "claimsight-predict",
	Short: "Predict the carrier outcome of a roofing insurance claim",
	Long: `Reads a claim (a JSON object) or a list of claims (a JSON array) and
prints the predicted outcome distribution, risk flags and recommendations.

The carrier behavior and summary text use Anthropic when ANTHROPIC_API_KEY
is set and --offline is not given; otherwise templated text is used.`,
	Args:          cobra.NoArgs,
	RunE:          runPredict,
	SilenceUsage:  true,
	SilenceErrors: true,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	f := rootCmd.Flags()
	f.StringVarP(&predictFlags.file, "file", "f", "", "Input JSON file (default: stdin)")
	f.StringVar(&predictFlags.weights, "weights", os.Getenv("PREDICTOR_WEIGHTS_PATH"), "Weights YAML file (default: embedded table)")
	f.StringVar(&predictFlags.model, "model", "claude-sonnet-4-20250514", "Anthropic model for generated text")
	f.BoolVar(&predictFlags.offline, "offline", false, "Never call the language model")
	f.IntVar(&predictFlags.concurrency, "concurrency", 4, "Predictions in flight for array input")
	f.StringVar(&predictFlags.timeout, "llm-timeout", "10s", "Timeout per language model call")
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
