package anchor

import (
	"fmt"
	"math"

	"github.com/matzehuels/anchorage/pkg/attr"
	"github.com/matzehuels/anchorage/pkg/errors"
)

// Span returns the constraints that stretch target over the native interval
// [lo, hi] along ax: a size constraint whose margin is the interval's
// physical length, recomputed on every pass, and a center constraint pinned
// to the interval's midpoint. Interval markers and scale bars are built this
// way.
//
// lo must be strictly less than hi. Degenerate or non-finite bounds return
// an ErrCodeDegenerateInput error and no constraints.
func Span(target Ref, ax attr.Axis, lo, hi float64, description string) ([]Spec, error) {
	if ax == attr.NoAxis {
		return nil, errors.New(errors.ErrCodeInvalidConstraint, "span %q needs an axis", description)
	}
	if math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return nil, errors.New(errors.ErrCodeDegenerateInput, "span %q has non-finite bounds [%g, %g]", description, lo, hi)
	}
	if !(lo < hi) {
		return nil, errors.New(errors.ErrCodeDegenerateInput, "span %q bounds must increase, got [%g, %g]", description, lo, hi)
	}

	length := Computed(func(s State) float64 {
		u := s.Units()
		return math.Abs(u.ToPhysical(ax, hi) - u.ToPhysical(ax, lo))
	})

	size := Spec{
		Target:      target,
		TargetAttr:  attr.SizeFor(ax),
		Anchor:      None,
		Margin:      length,
		Description: fmt.Sprintf("%s (%s length)", description, ax),
	}
	center := Spec{
		Target:      target,
		TargetAttr:  attr.CenterFor(ax),
		Anchor:      Literal((lo + hi) / 2),
		AnchorAttr:  attr.Literal,
		Margin:      Constant(0),
		Description: fmt.Sprintf("%s (%s center)", description, ax),
	}
	return []Spec{size, center}, nil
}
