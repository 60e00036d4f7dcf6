package scoring

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

// KindSimple selects SimpleEvaluator.
const KindSimple = "simple"

// Params carries the tunables shared by evaluator kinds.
type Params struct {
	StarsPerHourWeight float64
	StarsWeight        float64
	DateDiffWeight     float64
}

// Constructor builds an evaluator of one kind.
type Constructor func(p Params, opts ...Option) Evaluator

var registry = map[string]Constructor{ //nolint:gochecknoglobals // fixed at init
	KindSimple: func(p Params, opts ...Option) Evaluator {
		return NewSimpleEvaluator(append([]Option{WithWeights(p.StarsPerHourWeight, p.StarsWeight, p.DateDiffWeight)}, opts...)...)
	},
}

// NewEvaluator resolves kind in the registry. Kinds are case-insensitive.
// Out of range parameters fail with ErrInvalidParams.
func NewEvaluator(kind string, p Params, opts ...Option) (Evaluator, error) {
	ctor, ok := registry[strings.ToLower(strings.TrimSpace(kind))]
	if !ok {
		return nil, fmt.Errorf("%w: %q (known: %s)", ErrUnknownVariant, kind, strings.Join(Kinds(), ", "))
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return ctor(p, opts...), nil
}

// Validate rejects negative or non-finite weights and a non-positive decay.
func (p Params) Validate() error {
	var errs []error
	if !finite(p.StarsPerHourWeight) || p.StarsPerHourWeight < 0 {
		errs = append(errs, fmt.Errorf("stars_per_hour_weight %v must be a non-negative number", p.StarsPerHourWeight))
	}
	if !finite(p.StarsWeight) || p.StarsWeight < 0 {
		errs = append(errs, fmt.Errorf("stars_weight %v must be a non-negative number", p.StarsWeight))
	}
	if !finite(p.DateDiffWeight) || p.DateDiffWeight <= 0 {
		errs = append(errs, fmt.Errorf("date_diff_weight %v must be a positive number", p.DateDiffWeight))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidParams, errors.Join(errs...))
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

// Kinds lists the registered evaluator kinds.
func Kinds() []string {
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
