package pixelsnap

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

type Options struct {
	// Target palette size for quantization.
	// Ideal start: 8-24 for AI sprites. Lower values merge anti-aliasing
	// shades into their neighbors, which makes grid edges crisper.
	KColors int `yaml:"k_colors"`
	// Seed for k-means++ initialization. Same seed + same image => same output.
	KSeed int `yaml:"k_seed"`
	// Upper bound on Lloyd iterations. 0 keeps the k-means++ seeds as palette.
	MaxKmeansIterations int `yaml:"max_kmeans_iterations"`
	// Fraction of the profile maximum a peak must exceed, in [0,1].
	// Too high => only the silhouette is found; too low => noise peaks.
	PeakThresholdMultiplier float64 `yaml:"peak_threshold_multiplier"`
	// Minimum spacing between accepted peaks.
	PeakDistanceFilter int `yaml:"peak_distance_filter"`
	// Walker search window as a fraction of the step size.
	WalkerSearchWindowRatio float64 `yaml:"walker_search_window_ratio"`
	// Absolute floor on the walker search window, in pixels.
	WalkerMinSearchWindow float64 `yaml:"walker_min_search_window"`
	// Fraction of the profile mean an edge must exceed to attract a cut.
	WalkerStrengthThreshold float64 `yaml:"walker_strength_threshold"`
	// Minimum cuts (cells+1) per axis before the uniform fallback kicks in.
	MinCutsPerAxis int `yaml:"min_cuts_per_axis"`
	// Segment count used when no grid spacing can be detected.
	FallbackTargetSegments int `yaml:"fallback_target_segments"`
	// Maximum tolerated ratio between column and row cell sizes.
	MaxStepRatio float64 `yaml:"max_step_ratio"`
	// Row parallelism for resampling. 0 or 1 runs sequentially.
	// Output is identical for every value.
	Workers int `yaml:"workers"`

	// Stage diagnostics are written at debug level. nil disables logging.
	Logger *zerolog.Logger `yaml:"-"`
}

func DefaultOptions() Options {
	return Options{
		KColors:                 16,
		KSeed:                   42,
		MaxKmeansIterations:     15,
		PeakThresholdMultiplier: 0.2,
		PeakDistanceFilter:      4,
		WalkerSearchWindowRatio: 0.35,
		WalkerMinSearchWindow:   2.0,
		WalkerStrengthThreshold: 0.5,
		MinCutsPerAxis:          4,
		FallbackTargetSegments:  64,
		MaxStepRatio:            1.8,
	}
}

// Validate checks every option against its accepted range.
func (o Options) Validate() error {
	if o.KColors <= 0 {
		return &ConfigError{Field: "KColors", Value: o.KColors, Reason: "must be a positive integer", cause: ErrInvalidKColors}
	}
	switch {
	case o.MaxKmeansIterations < 0:
		return &ConfigError{Field: "MaxKmeansIterations", Value: o.MaxKmeansIterations, Reason: "must be >= 0"}
	case math.IsNaN(o.PeakThresholdMultiplier) || o.PeakThresholdMultiplier < 0 || o.PeakThresholdMultiplier > 1:
		return &ConfigError{Field: "PeakThresholdMultiplier", Value: o.PeakThresholdMultiplier, Reason: "must be within [0,1]"}
	case o.PeakDistanceFilter < 1:
		return &ConfigError{Field: "PeakDistanceFilter", Value: o.PeakDistanceFilter, Reason: "must be >= 1"}
	case !(o.WalkerSearchWindowRatio > 0) || math.IsInf(o.WalkerSearchWindowRatio, 1):
		return &ConfigError{Field: "WalkerSearchWindowRatio", Value: o.WalkerSearchWindowRatio, Reason: "must be a finite value > 0"}
	case !(o.WalkerMinSearchWindow >= 0) || math.IsInf(o.WalkerMinSearchWindow, 1):
		return &ConfigError{Field: "WalkerMinSearchWindow", Value: o.WalkerMinSearchWindow, Reason: "must be a finite value >= 0"}
	case !(o.WalkerStrengthThreshold >= 0):
		return &ConfigError{Field: "WalkerStrengthThreshold", Value: o.WalkerStrengthThreshold, Reason: "must be >= 0"}
	case o.MinCutsPerAxis < 2:
		return &ConfigError{Field: "MinCutsPerAxis", Value: o.MinCutsPerAxis, Reason: "must be >= 2"}
	case o.FallbackTargetSegments < 1:
		return &ConfigError{Field: "FallbackTargetSegments", Value: o.FallbackTargetSegments, Reason: "must be >= 1"}
	case !(o.MaxStepRatio >= 1):
		return &ConfigError{Field: "MaxStepRatio", Value: o.MaxStepRatio, Reason: "must be >= 1"}
	case o.Workers < 0:
		return &ConfigError{Field: "Workers", Value: o.Workers, Reason: "must be >= 0"}
	}
	return nil
}

func (o Options) logger() *zerolog.Logger {
	if o.Logger == nil {
		nop := zerolog.Nop()
		return &nop
	}
	return o.Logger
}

// Option overrides a single field of DefaultOptions.
type Option func(*Options)

// WithOptions replaces the whole option set. Later options still apply on top.
func WithOptions(opt Options) Option {
	return func(o *Options) { *o = opt }
}

func WithKColors(k int) Option {
	return func(o *Options) { o.KColors = k }
}

func WithSeed(seed int) Option {
	return func(o *Options) { o.KSeed = seed }
}

func WithMaxKmeansIterations(n int) Option {
	return func(o *Options) { o.MaxKmeansIterations = n }
}

// WithPeakDetection sets the peak threshold multiplier and minimum peak distance.
func WithPeakDetection(thresholdMultiplier float64, distanceFilter int) Option {
	return func(o *Options) {
		o.PeakThresholdMultiplier = thresholdMultiplier
		o.PeakDistanceFilter = distanceFilter
	}
}

// WithSearchWindow sets the walker window ratio and its absolute floor.
func WithSearchWindow(ratio, minWindow float64) Option {
	return func(o *Options) {
		o.WalkerSearchWindowRatio = ratio
		o.WalkerMinSearchWindow = minWindow
	}
}

func WithStrengthThreshold(t float64) Option {
	return func(o *Options) { o.WalkerStrengthThreshold = t }
}

func WithMinCutsPerAxis(n int) Option {
	return func(o *Options) { o.MinCutsPerAxis = n }
}

func WithFallbackTargetSegments(n int) Option {
	return func(o *Options) { o.FallbackTargetSegments = n }
}

func WithMaxStepRatio(r float64) Option {
	return func(o *Options) { o.MaxStepRatio = r }
}

func WithWorkers(n int) Option {
	return func(o *Options) { o.Workers = n }
}

// WithLogger enables debug diagnostics for every pipeline stage.
func WithLogger(l zerolog.Logger) Option {
	return func(o *Options) { o.Logger = &l }
}

func buildOptions(opts []Option) Options {
	o := DefaultOptions()
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

// ParseOptions decodes YAML on top of DefaultOptions. Keys that are absent
// keep their defaults; unknown keys are rejected.
func ParseOptions(data []byte) (Options, error) {
	opt := DefaultOptions()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&opt); err != nil && !errors.Is(err, io.EOF) {
		return Options{}, fmt.Errorf("decoding options: %w", err)
	}
	return opt, nil
}

// LoadOptions reads a YAML option file, see ParseOptions.
func LoadOptions(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("reading options: %w", err)
	}
	return ParseOptions(data)
}
