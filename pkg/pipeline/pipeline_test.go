package pipeline

import (
	"testing"

	"github.com/matzehuels/mindlayout/pkg/config"
	"github.com/matzehuels/mindlayout/pkg/errors"
	"github.com/matzehuels/mindlayout/pkg/layout"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"dot", false},
		{"json", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateStrategy(t *testing.T) {
	tests := []struct {
		strategy string
		wantErr  bool
	}{
		{"radial", false},
		{"force", false},
		{"spiral", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateStrategy(tt.strategy)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateStrategy(%q) error = %v, wantErr %v", tt.strategy, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidStrategy) {
			t.Errorf("ValidateStrategy(%q) code = %s", tt.strategy, errors.GetCode(err))
		}
	}
}

func TestSetLayoutDefaults(t *testing.T) {
	opts := Options{}
	opts.SetLayoutDefaults()

	if opts.Strategy != DefaultStrategy {
		t.Errorf("Strategy should be %s, got %s", DefaultStrategy, opts.Strategy)
	}
	if opts.Seed != DefaultSeed {
		t.Errorf("Seed should be %d, got %d", DefaultSeed, opts.Seed)
	}
	if opts.Logger == nil {
		t.Error("Logger should be set")
	}
}

func TestSetRenderDefaults(t *testing.T) {
	opts := Options{}
	opts.SetRenderDefaults()

	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats should be [svg], got %v", opts.Formats)
	}
	if opts.Scale != 2.0 {
		t.Errorf("Scale should be 2, got %v", opts.Scale)
	}
}

func TestValidateForLayout(t *testing.T) {
	gap := func(v float64) *float64 { return &v }

	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"defaults", Options{}, ""},
		{"force", Options{Strategy: "force"}, ""},
		{"zero gap", Options{SectorGapDeg: gap(0)}, ""},
		{"bad strategy", Options{Strategy: "grid"}, errors.ErrCodeInvalidStrategy},
		{"negative radius", Options{BaseRadius: -1}, errors.ErrCodeInvalidInput},
		{"gap too wide", Options{SectorGapDeg: gap(31)}, errors.ErrCodeInvalidInput},
		{"negative padding", Options{NodePadding: gap(-2)}, errors.ErrCodeInvalidInput},
		{"negative passes", Options{MaxPasses: -1}, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateForLayout()
			if tt.code == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestEngineOptions(t *testing.T) {
	def := layout.DefaultOptions()

	got := (&Options{}).EngineOptions()
	if got.SectorGap != def.SectorGap || got.NodePadding != def.NodePadding || got.BaseRadius != def.BaseRadius {
		t.Errorf("unset options should keep engine defaults: %+v", got)
	}

	zero := 0.0
	got = (&Options{SectorGapDeg: &zero, NodePadding: &zero, ChildSpreadDeg: 90, Strategy: "force"}).EngineOptions()
	if got.SectorGap != 0 {
		t.Errorf("SectorGap = %v, want 0", got.SectorGap)
	}
	if got.NodePadding != 0 {
		t.Errorf("NodePadding = %v, want 0", got.NodePadding)
	}
	if got.ChildSpread != layout.Radians(90) {
		t.Errorf("ChildSpread = %v, want %v", got.ChildSpread, layout.Radians(90))
	}
	if got.Strategy != layout.StrategyForce {
		t.Errorf("Strategy = %v, want force", got.Strategy)
	}
}

func TestLayoutKeyOptsNormalized(t *testing.T) {
	a := (&Options{}).LayoutKeyOpts()
	b := (&Options{Strategy: "radial", Seed: DefaultSeed, BaseRadius: layout.DefaultBaseRadius}).LayoutKeyOpts()
	if a != b {
		t.Errorf("equivalent options should share key options:\n%+v\n%+v", a, b)
	}

	c := (&Options{Seed: 7}).LayoutKeyOpts()
	if a == c {
		t.Error("different seeds should produce different key options")
	}
}

func TestArtifactKeyOptsScale(t *testing.T) {
	opts := Options{Scale: 3}
	if opts.ArtifactKeyOpts(FormatSVG).Scale != 0 {
		t.Error("scale should only affect PNG keys")
	}
	if opts.ArtifactKeyOpts(FormatPNG).Scale != 3 {
		t.Error("PNG key should carry the scale")
	}
}

func TestOptionsFromConfig(t *testing.T) {
	lc := config.Default().Layout
	lc.SectorGapDeg = 0
	lc.Strategy = "force"

	opts := OptionsFromConfig(lc)
	if opts.SectorGapDeg == nil || *opts.SectorGapDeg != 0 {
		t.Error("zero sector gap from config should be preserved")
	}
	if err := opts.ValidateForLayout(); err != nil {
		t.Fatalf("config defaults should validate: %v", err)
	}
	if opts.EngineOptions().Strategy != layout.StrategyForce {
		t.Error("strategy should carry over from config")
	}
}
