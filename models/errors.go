package models

import (
	"errors"

	"github.com/aouyang1/go-pumpcurve/stats"
)

var (
	ErrNoOptions              = errors.New("no initialized model options")
	ErrTargetLenMismatch      = errors.New("target length does not match training length")
	ErrNegativeDegree         = errors.New("negative polynomial degree")
	ErrNonFiniteSample        = errors.New("sample is NaN or infinite")
	ErrDataInsufficient       = errors.New("fewer samples than polynomial degree plus one")
	ErrSingularFit            = errors.New("design matrix is rank deficient")
	ErrNotFitted              = errors.New("polynomial has not been fit yet")
	ErrDegreeMismatch         = errors.New("degree does not match the fitted polynomial")
	ErrNonPositiveSampleCount = errors.New("sample count must be positive")
	ErrUndefinedFitQuality    = stats.ErrUndefinedFitQuality
)
