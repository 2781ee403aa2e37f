package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/claimsight/internal/anthropic"
	"github.com/MikeSquared-Agency/claimsight/internal/predictor"
)

func runPredict(cmd *cobra.Command, _ []string) error {
	timeout, err := time.ParseDuration(predictFlags.timeout)
	if err != nil {
		return fmt.Errorf("invalid --llm-timeout: %w", err)
	}

	var weights *predictor.Weights
	if predictFlags.weights != "" {
		weights, err = predictor.LoadWeightsFile(predictFlags.weights)
		if err != nil {
			return err
		}
	}

	var llm predictor.TextGenerator
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" && !predictFlags.offline {
		llm = anthropic.NewClient(key, predictFlags.model)
	}

	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelWarn}))
	pr := predictor.New(predictor.NewModel(weights), llm,
		predictor.WithLogger(logger),
		predictor.WithTimeout(timeout),
	)

	in := cmd.InOrStdin()
	if predictFlags.file != "" {
		fh, err := os.Open(predictFlags.file)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer fh.Close()
		in = fh
	}

	return predict(cmd.Context(), pr, in, cmd.OutOrStdout(), predictFlags.concurrency)
}

// predict reads one input object or an array of inputs and writes the
// matching output object or array.
func predict(ctx context.Context, pr *predictor.Predictor, r io.Reader, w io.Writer, concurrency int) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("no input")
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if data[0] == '[' {
		var inputs []predictor.PredictionInput
		if err := json.Unmarshal(data, &inputs); err != nil {
			return fmt.Errorf("parse inputs: %w", err)
		}
		for i, in := range inputs {
			if err := in.Validate(); err != nil {
				return fmt.Errorf("inputs[%d]: %w", i, err)
			}
		}
		outs, err := pr.PredictAll(ctx, inputs, concurrency)
		if err != nil {
			return err
		}
		return enc.Encode(outs)
	}

	var in predictor.PredictionInput
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("parse input: %w", err)
	}
	if err := in.Validate(); err != nil {
		return err
	}
	return enc.Encode(pr.Predict(ctx, in))
}
