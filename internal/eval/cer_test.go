package eval

import (
	"math"
	"testing"
)

func TestComputeCER(t *testing.T) {
	tests := []struct {
		name       string
		reference  string
		hypothesis string
		wantCER    float64
		wantSubs   int
		wantIns    int
		wantDels   int
		wantRef    int
	}{
		{
			name:       "identical",
			reference:  "清华大学",
			hypothesis: "清华大学",
			wantRef:    4,
		},
		{
			name:       "one_substitution",
			reference:  "清华大学",
			hypothesis: "清华大雪",
			wantCER:    0.25,
			wantSubs:   1,
			wantRef:    4,
		},
		{
			name:       "one_insertion",
			reference:  "你好",
			hypothesis: "你很好",
			wantCER:    0.5,
			wantIns:    1,
			wantRef:    2,
		},
		{
			name:       "one_deletion",
			reference:  "世界你好",
			hypothesis: "世界好",
			wantCER:    0.25,
			wantDels:   1,
			wantRef:    4,
		},
		{
			name:       "punctuation_and_space_ignored",
			reference:  "你好，世界。",
			hypothesis: "你好 世界",
			wantRef:    4,
		},
		{
			name:       "empty_hypothesis",
			reference:  "北京",
			hypothesis: "",
			wantCER:    1,
			wantDels:   2,
			wantRef:    2,
		},
		{
			name:       "empty_reference",
			reference:  "",
			hypothesis: "多余",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeCER(tt.reference, tt.hypothesis)
			if math.Abs(got.CER-tt.wantCER) > 1e-9 {
				t.Errorf("CER = %v, want %v", got.CER, tt.wantCER)
			}
			if got.Substitutions != tt.wantSubs || got.Insertions != tt.wantIns || got.Deletions != tt.wantDels {
				t.Errorf("S/I/D = %d/%d/%d, want %d/%d/%d",
					got.Substitutions, got.Insertions, got.Deletions, tt.wantSubs, tt.wantIns, tt.wantDels)
			}
			if got.RefChars != tt.wantRef {
				t.Errorf("RefChars = %d, want %d", got.RefChars, tt.wantRef)
			}
		})
	}
}
