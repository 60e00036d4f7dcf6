package selection

import (
	"fmt"
	"sort"
	"strings"

	"github.com/okian/newsbot/internal/domain/scoring"
)

// KindSimple selects SimpleManager.
const KindSimple = "simple"

// Constructor builds a manager of one kind over an evaluator.
type Constructor func(ev scoring.Evaluator, maxDay int, opts ...Option) Manager

var registry = map[string]Constructor{ //nolint:gochecknoglobals // fixed at init
	KindSimple: func(ev scoring.Evaluator, maxDay int, opts ...Option) Manager {
		return NewSimpleManager(ev, append([]Option{WithMaxDay(maxDay)}, opts...)...)
	},
}

// NewManager resolves kind in the registry. Kinds are case-insensitive. A nil
// evaluator or a negative maxDay fails with ErrInvalidParams.
func NewManager(kind string, ev scoring.Evaluator, maxDay int, opts ...Option) (Manager, error) {
	ctor, ok := registry[strings.ToLower(strings.TrimSpace(kind))]
	if !ok {
		return nil, fmt.Errorf("%w: %q (known: %s)", ErrUnknownVariant, kind, strings.Join(Kinds(), ", "))
	}
	if ev == nil {
		return nil, fmt.Errorf("%w: evaluator must not be nil", ErrInvalidParams)
	}
	if maxDay < 0 {
		return nil, fmt.Errorf("%w: max_day %d must not be negative", ErrInvalidParams, maxDay)
	}
	return ctor(ev, maxDay, opts...), nil
}

// Kinds lists the registered manager kinds.
func Kinds() []string {
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
