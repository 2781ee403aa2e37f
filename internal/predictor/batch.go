package predictor

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// PredictAll scores inputs with at most concurrency predictions in flight.
// Outputs keep the order of inputs. It only fails when ctx is done.
func (pr *Predictor) PredictAll(ctx context.Context, inputs []PredictionInput, concurrency int) ([]PredictionOutput, error) {
	if concurrency < 1 {
		concurrency = 1
	}
	outs := make([]PredictionOutput, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, in := range inputs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outs[i] = pr.Predict(gctx, in)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outs, nil
}
