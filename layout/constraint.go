package layout

// Kind selects how a constraint sizes its segment
type Kind uint8

const (
	KindLength     Kind = iota // exact cells
	KindPercentage             // percent of the available length
	KindRatio                  // Value/Den of the available length
	KindMin                    // flexible, at least Value
	KindMax                    // flexible, at most Value
)

func (k Kind) String() string {
	switch k {
	case KindLength:
		return "length"
	case KindPercentage:
		return "percentage"
	case KindRatio:
		return "ratio"
	case KindMin:
		return "min"
	case KindMax:
		return "max"
	}
	return "unknown"
}

// Default priorities. Lower priorities give way first when the available
// length cannot satisfy every constraint, and take up slack first when it
// exceeds the requests
const (
	PriorityFlexible = 10
	PriorityRequired = 1000
)

// Constraint sizes one segment of a split
type Constraint struct {
	Kind     Kind
	Value    int // length, percent, ratio numerator, or bound
	Den      int // ratio denominator
	Priority int
}

// Length requests exactly n cells
func Length(n int) Constraint {
	return Constraint{Kind: KindLength, Value: n, Priority: PriorityRequired}
}

// Percentage requests pct percent of the available length, rounded
func Percentage(pct int) Constraint {
	return Constraint{Kind: KindPercentage, Value: pct, Priority: PriorityRequired}
}

// Ratio requests num/den of the available length, rounded
func Ratio(num, den int) Constraint {
	return Constraint{Kind: KindRatio, Value: num, Den: den, Priority: PriorityRequired}
}

// Min takes a share of the free length, never less than n
func Min(n int) Constraint {
	return Constraint{Kind: KindMin, Value: n, Priority: PriorityFlexible}
}

// Max takes a share of the free length, never more than n
func Max(n int) Constraint {
	return Constraint{Kind: KindMax, Value: n, Priority: PriorityFlexible}
}

// WithPriority returns a copy with priority p
func (c Constraint) WithPriority(p int) Constraint {
	c.Priority = p
	return c
}

func (c Constraint) flexible() bool {
	return c.Kind == KindMin || c.Kind == KindMax
}

// request returns the raw length asked for by a non-flexible constraint
func (c Constraint) request(total int) int {
	v := max(c.Value, 0)
	switch c.Kind {
	case KindLength:
		return v
	case KindPercentage:
		return roundDiv(total*v, 100)
	case KindRatio:
		if c.Den <= 0 {
			return 0
		}
		return roundDiv(total*v, c.Den)
	}
	return 0
}

// roundDiv divides non-negative n by positive d, rounding half up
func roundDiv(n, d int) int {
	return (2*n + d) / (2 * d)
}
