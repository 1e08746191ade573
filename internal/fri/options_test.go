package fri

import (
	"testing"

	"github.com/vybium/fri/internal/core"
)

func TestOptionsValidate(t *testing.T) {
	cases := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"valid", Options{BlowupFactor: 4, FoldingFactor: 2, MaxRemainderSize: 4}, false},
		{"bad folding factor", Options{BlowupFactor: 4, FoldingFactor: 3, MaxRemainderSize: 4}, true},
		{"folding factor six", Options{BlowupFactor: 4, FoldingFactor: 6, MaxRemainderSize: 4}, true},
		{"non-power-of-two blowup allowed", Options{BlowupFactor: 3, FoldingFactor: 2, MaxRemainderSize: 4}, false},
		{"zero blowup", Options{BlowupFactor: 0, FoldingFactor: 2, MaxRemainderSize: 4}, true},
		{"remainder below blowup", Options{BlowupFactor: 4, FoldingFactor: 2, MaxRemainderSize: 3}, true},
		{"remainder equal to blowup", Options{BlowupFactor: 8, FoldingFactor: 2, MaxRemainderSize: 8}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.opts.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestOptionsNumLayersAndRemainderSize(t *testing.T) {
	opts := Options{BlowupFactor: 4, FoldingFactor: 2, MaxRemainderSize: 16}

	cases := []struct {
		domainSize  int
		wantLayers  int
		wantRemSize int
	}{
		{16, 0, 16},
		{32, 1, 16},
		{256, 4, 16},
	}

	for _, tc := range cases {
		if got := opts.NumLayers(tc.domainSize); got != tc.wantLayers {
			t.Errorf("NumLayers(%d) = %d, want %d", tc.domainSize, got, tc.wantLayers)
		}
		if got := opts.RemainderSize(tc.domainSize); got != tc.wantRemSize {
			t.Errorf("RemainderSize(%d) = %d, want %d", tc.domainSize, got, tc.wantRemSize)
		}
	}
}

func TestOptionsDomainOffset(t *testing.T) {
	opts := Options{BlowupFactor: 4, FoldingFactor: 2, MaxRemainderSize: 4}
	field := core.DefaultPrimeField

	offset, err := opts.DomainOffset(field)
	if err != nil {
		t.Fatalf("DomainOffset: %v", err)
	}
	if offset.IsZero() {
		t.Error("domain offset must not be zero")
	}
	// NewCosetDomain must be able to build a coset from this offset.
	if _, err := NewCosetDomain(field, offset, 8); err != nil {
		t.Errorf("NewCosetDomain with DomainOffset() result: %v", err)
	}
}

func TestOptionsSupportedFoldingFactors(t *testing.T) {
	for _, k := range []int{2, 4, 8, 16} {
		opts := Options{BlowupFactor: 2, FoldingFactor: k, MaxRemainderSize: k}
		if err := opts.Validate(); err != nil {
			t.Errorf("folding factor %d should be supported: %v", k, err)
		}
	}
}
