package services

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/qgda/qgda/internal/config"
	"github.com/qgda/qgda/internal/logging"
	"github.com/qgda/qgda/internal/models"
	"github.com/qgda/qgda/internal/series"
)

// StatsService computes series statistics for the HTTP API.
type StatsService struct {
	logger *logging.Logger
	cfg    config.StatsConfig
}

// NewStatsService creates a new StatsService
func NewStatsService(logger *logging.Logger, cfg config.StatsConfig) *StatsService {
	return &StatsService{
		logger: logger,
		cfg:    cfg,
	}
}

// PrintOptions returns the configured display options.
func (s *StatsService) PrintOptions() series.PrintOptions {
	return series.PrintOptions{
		SigFig:           s.cfg.SigFig,
		ZeroConfDecimals: s.cfg.ZeroConfDecimals,
	}
}

// Mean returns the mean of the values with its confidence.
func (s *StatsService) Mean(ctx context.Context, req *models.SeriesRequest) (*models.MeanResponse, error) {
	if len(req.Values) == 0 {
		return nil, NewServiceError(CodeEmptySeries, "values must not be empty")
	}

	start := time.Now()
	uq := series.MeanWithConf(models.Floats(req.Values))
	logging.FromContext(ctx).WithContext(ctx).Debug("Computed mean",
		"samples", len(req.Values),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return &models.MeanResponse{
		Mean:    models.Number(uq.Val),
		Conf:    models.Number(uq.Conf),
		Display: uq.Display(s.PrintOptions()),
		Samples: len(req.Values),
	}, nil
}

// ACF returns the autocovariance of the values and its AR(1) fit.
func (s *StatsService) ACF(ctx context.Context, req *models.ACFRequest) (*models.ACFResponse, error) {
	n := len(req.Values)
	if n == 0 {
		return nil, NewServiceError(CodeEmptySeries, "values must not be empty")
	}

	nlags := n - 1
	if req.NLags != nil {
		nlags = *req.NLags
	}
	if nlags < 0 {
		return nil, NewServiceErrorWithDetails(CodeInvalidInput, "nlags must be non-negative",
			map[string]interface{}{"nlags": nlags})
	}
	if nlags > s.cfg.MaxLags {
		return nil, NewServiceErrorWithDetails(CodeInvalidInput, "nlags exceeds the configured maximum",
			map[string]interface{}{"nlags": nlags, "max_lags": s.cfg.MaxLags})
	}

	acf, err := series.AutoCov(models.Floats(req.Values), nlags, series.ACFOptions{
		ZeroMean: req.ZeroMean,
		Corr:     req.Corr,
	})
	if err != nil {
		return nil, translate(err, map[string]interface{}{"nlags": nlags, "samples": n})
	}

	return &models.ACFResponse{
		ACF:   models.Numbers(acf),
		AR1:   models.Number(series.FitACFByAR1(acf)),
		NLags: nlags,
	}, nil
}

// CorrLength estimates the correlation length of the values.
func (s *StatsService) CorrLength(ctx context.Context, req *models.SeriesRequest) (*models.CorrLengthResponse, error) {
	xx := models.Floats(req.Values)
	length, ar1, err := series.EstimateCorrLengthAR1(xx)
	if err != nil {
		return nil, translate(err, nil)
	}

	return &models.CorrLengthResponse{
		CorrLength: models.Number(length),
		AR1:        models.Number(ar1),
	}, nil
}

// Round rounds an uncertain quantity and formats it for display.
func (s *StatsService) Round(ctx context.Context, req *models.RoundRequest) (*models.RoundResponse, error) {
	opts := s.PrintOptions()
	if req.SigFig != 0 {
		if req.SigFig < 1 || req.SigFig > 17 {
			return nil, NewServiceErrorWithDetails(CodeInvalidInput, "sig_fig must be between 1 and 17",
				map[string]interface{}{"sig_fig": req.SigFig})
		}
		opts.SigFig = req.SigFig
	}
	if req.ZeroConfDecimals != nil {
		if *req.ZeroConfDecimals < 0 {
			return nil, NewServiceError(CodeInvalidInput, "zero_conf_decimals cannot be negative")
		}
		if *req.ZeroConfDecimals > series.MaxDisplayDecimals {
			return nil, NewServiceErrorWithDetails(CodeInvalidInput, "zero_conf_decimals is too large",
				map[string]interface{}{"zero_conf_decimals": *req.ZeroConfDecimals, "max": series.MaxDisplayDecimals})
		}
		opts.ZeroConfDecimals = *req.ZeroConfDecimals
	}

	uq := series.UncertainQtty{Val: float64(req.Value), Conf: float64(req.Conf)}
	val, conf := uq.Round(1)
	if math.IsNaN(uq.Conf) {
		val = series.Round2SigFig(uq.Val, opts.SigFig)
	}

	return &models.RoundResponse{
		Value:   models.Number(val),
		Conf:    models.Number(conf),
		Display: uq.Display(opts),
	}, nil
}

// translate maps series errors onto service errors.
func translate(err error, details map[string]interface{}) *ServiceError {
	switch {
	case errors.Is(err, series.ErrEmptySeries):
		return NewServiceError(CodeEmptySeries, "values must not be empty")
	case errors.Is(err, series.ErrLagTooLarge):
		return NewServiceErrorWithDetails(CodeLagTooLarge, err.Error(), details)
	default:
		return NewServiceErrorWithDetails(CodeInternal, err.Error(), details)
	}
}
