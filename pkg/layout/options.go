package layout

import "math"

// Strategy selects the positioning algorithm run before overlap resolution.
type Strategy string

const (
	// StrategyRadial places clusters in angular sectors around the root.
	StrategyRadial Strategy = "radial"
	// StrategyForce seeds a spring simulation from the radial layout.
	StrategyForce Strategy = "force"
)

// Valid reports whether s names a known strategy.
func (s Strategy) Valid() bool { return s == StrategyRadial || s == StrategyForce }

// Default tuning values. Angles are in degrees here and converted by DefaultOptions.
const (
	DefaultBaseRadius        = 250.0
	DefaultDepthIncrement    = 170.0
	DefaultChildSpreadDeg    = 50.0
	DefaultSectorGapDeg      = 6.0
	DefaultMinSectorDeg      = 30.0
	DefaultSectorMargin      = 0.05
	DefaultNodePadding       = 20.0
	DefaultRowGap            = 120.0
	DefaultRowPitch          = 220.0
	DefaultMaxPasses         = 30
	DefaultIncrementalPasses = 10
	DefaultForceIterations   = 200
	DefaultSeed              = uint64(42)
)

// pushEpsilon is added to every overlap push so resolved pairs end strictly apart.
const pushEpsilon = 1.0

// Options holds every tunable of the engine. Angles are in radians.
type Options struct {
	Strategy          Strategy
	BaseRadius        float64
	DepthIncrement    float64
	ChildSpread       float64
	SectorGap         float64
	MinSectorAngle    float64
	SectorMargin      float64
	NodePadding       float64
	RowGap            float64
	RowPitch          float64
	MaxPasses         int
	IncrementalPasses int
	ForceIterations   int
	Seed              uint64 // 0 selects DefaultSeed

	// Movable restricts the incremental resolver to pairs involving these IDs.
	// Empty means every pair is considered.
	Movable []string
}

// DefaultOptions returns the engine defaults.
func DefaultOptions() Options {
	return Options{
		Strategy:          StrategyRadial,
		BaseRadius:        DefaultBaseRadius,
		DepthIncrement:    DefaultDepthIncrement,
		ChildSpread:       Radians(DefaultChildSpreadDeg),
		SectorGap:         Radians(DefaultSectorGapDeg),
		MinSectorAngle:    Radians(DefaultMinSectorDeg),
		SectorMargin:      DefaultSectorMargin,
		NodePadding:       DefaultNodePadding,
		RowGap:            DefaultRowGap,
		RowPitch:          DefaultRowPitch,
		MaxPasses:         DefaultMaxPasses,
		IncrementalPasses: DefaultIncrementalPasses,
		ForceIterations:   DefaultForceIterations,
		Seed:              DefaultSeed,
	}
}

// Option configures a layout call.
type Option func(*Options)

// WithOptions replaces all options at once. Zero fields fall back to defaults.
func WithOptions(o Options) Option {
	return func(dst *Options) { *dst = o }
}

// WithStrategy selects the positioning strategy.
func WithStrategy(s Strategy) Option {
	return func(o *Options) { o.Strategy = s }
}

// WithBaseRadius sets the depth-1 ring radius before separation growth.
func WithBaseRadius(r float64) Option {
	return func(o *Options) { o.BaseRadius = r }
}

// WithDepthIncrement sets the radial step between a parent and its children.
func WithDepthIncrement(d float64) Option {
	return func(o *Options) { o.DepthIncrement = d }
}

// WithPadding sets the minimum clearance between node rectangles.
func WithPadding(p float64) Option {
	return func(o *Options) { o.NodePadding = p }
}

// WithMaxPasses caps the number of overlap passes of a full layout.
func WithMaxPasses(n int) Option {
	return func(o *Options) { o.MaxPasses = n }
}

// WithSeed seeds the generator used to break ties between coincident centers
// and to jitter the force strategy. Zero means unset and selects [DefaultSeed],
// so WithSeed(0) and WithSeed(DefaultSeed) produce the same layout.
func WithSeed(seed uint64) Option {
	return func(o *Options) { o.Seed = seed }
}

// WithMovable restricts [ResolveIncremental] to the given node IDs.
func WithMovable(ids ...string) Option {
	return func(o *Options) { o.Movable = append(o.Movable, ids...) }
}

func newOptions(opts []Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	o.sanitize()
	return o
}

// sanitize replaces unusable values with defaults.
func (o *Options) sanitize() {
	d := DefaultOptions()
	if !o.Strategy.Valid() {
		o.Strategy = d.Strategy
	}
	positive := func(v *float64, def float64) {
		if !(*v > 0) || math.IsInf(*v, 0) {
			*v = def
		}
	}
	positive(&o.BaseRadius, d.BaseRadius)
	positive(&o.DepthIncrement, d.DepthIncrement)
	positive(&o.ChildSpread, d.ChildSpread)
	positive(&o.MinSectorAngle, d.MinSectorAngle)
	positive(&o.RowGap, d.RowGap)
	positive(&o.RowPitch, d.RowPitch)
	if o.SectorGap < 0 || o.SectorGap > Radians(30) {
		o.SectorGap = d.SectorGap
	}
	if o.SectorMargin < 0 || o.SectorMargin >= 0.5 {
		o.SectorMargin = d.SectorMargin
	}
	if o.NodePadding < 0 {
		o.NodePadding = d.NodePadding
	}
	if o.MaxPasses <= 0 {
		o.MaxPasses = d.MaxPasses
	}
	if o.IncrementalPasses <= 0 {
		o.IncrementalPasses = d.IncrementalPasses
	}
	if o.ForceIterations <= 0 {
		o.ForceIterations = d.ForceIterations
	}
	if o.Seed == 0 {
		o.Seed = d.Seed
	}
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 { return deg * math.Pi / 180 }

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 { return rad * 180 / math.Pi }
