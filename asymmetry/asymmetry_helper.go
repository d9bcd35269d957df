package asymmetry

import (
	"context"
	"fmt"

	"github.com/uyouii/peak-asymmetry/model"
	"github.com/uyouii/peak-asymmetry/utils"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Analyze runs the pipeline on one spectrum with logging. A panic inside the
// numeric code is recovered and returned as an error.
func Analyze(ctx context.Context, spectrum *model.Spectrum, opts Options) (res *model.Result, err error) {
	logger := utils.GetLogger(ctx)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("Analyze recover panic error!", zap.Any("err", r),
				zap.String("panic info", utils.GetPanicInfo()), zap.String("spectrum", spectrum.DebugString()))
			res, err = nil, fmt.Errorf("analyze %s: panic: %v", spectrum.DebugString(), r)
		}
	}()

	res, err = Run(spectrum, opts)
	if err != nil {
		logger.Error("analyze spectrum failed", zap.Error(err), zap.String("spectrum", spectrum.DebugString()),
			zap.Float64("minProminence", opts.MinProminence), zap.Float64("relativeHeight", opts.RelativeHeight))
		return nil, err
	}

	for _, entry := range res.Entries {
		if entry.Err == nil {
			continue
		}
		logger.Warn("peak flagged", zap.String("spectrum", spectrum.DebugString()), zap.Int("index", entry.Peak.Index),
			zap.Float64("position", entry.Position), zap.Stringer("flag", entry.Flag), zap.Error(entry.Err))
	}

	logger.Info("analyze spectrum success", zap.String("spectrum", spectrum.DebugString()),
		zap.Int("peaks", res.Len()), zap.Int("reliable", len(res.Reliable())))
	return res, nil
}

// AnalyzeBatch analyses independent spectra concurrently, at most workers at a
// time. Results keep the input order. The first fatal error cancels the rest.
func AnalyzeBatch(ctx context.Context, spectra []*model.Spectrum, opts Options, workers int) ([]*model.Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if workers <= 0 {
		workers = DefaultBatchWorkers
	}

	results := make([]*model.Result, len(spectra))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, spectrum := range spectra {
		i, spectrum := i, spectrum
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := Analyze(gctx, spectrum, opts)
			if err != nil {
				return fmt.Errorf("spectrum %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
