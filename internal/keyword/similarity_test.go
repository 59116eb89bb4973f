package keyword

import (
	"math"
	"strings"
	"testing"
)

func TestRatio(t *testing.T) {
	tests := []struct {
		name     string
		a        string
		b        string
		expected float64
	}{
		{"identical", "hello", "hello", 1},
		{"both empty", "", "", 1},
		{"one empty", "", "abc", 0},
		{"disjoint", "abc", "xyz", 0},
		{"shifted", "abcd", "bcde", 0.75},
		{"inner gap", "abxcd", "abcd", 8.0 / 9.0},
		{"typo swap", "apple", "appel", 0.8},
		{"prefix", "ape", "appel", 0.75},
		{"typo query", "jam buka perpustakaan?", "jam buka perpus", 30.0 / 37.0},
		{"unicode", "café", "cafe", 0.75},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Ratio(tt.a, tt.b)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("Ratio(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.expected)
			}
		})
	}
}

func TestRatio_Autojunk(t *testing.T) {
	// In a target of 200+ characters a character that fills it is junk and
	// cannot anchor a block.
	target := strings.Repeat("a", 200)
	if got := Ratio("xa", target); got != 0 {
		t.Errorf("Ratio against popular-only target = %v, want 0", got)
	}
	// Below the threshold the same character still matches.
	short := strings.Repeat("a", 199)
	if got := Ratio("xa", short); math.Abs(got-2.0/201.0) > 1e-12 {
		t.Errorf("Ratio below threshold = %v, want %v", got, 2.0/201.0)
	}
	// A junk character adjacent to a real match still extends it.
	if got := Ratio("a", target); math.Abs(got-2.0/201.0) > 1e-12 {
		t.Errorf("Ratio with extension = %v, want %v", got, 2.0/201.0)
	}
}

func TestQuickRatiosAreUpperBounds(t *testing.T) {
	pairs := [][2]string{
		{"jadwal kuliah", "jadwal kuliah hari senin"},
		{"berapa biaya kuliah", "biaya pendaftaran"},
		{"kapan wisuda", "dimana lokasi kampus"},
		{"", "x"},
	}
	for _, p := range pairs {
		m := NewSequenceMatcher(p[1])
		r := m.Ratio(p[0])
		if q := m.QuickRatio(p[0]); q+1e-12 < r {
			t.Errorf("QuickRatio(%q,%q)=%v < Ratio %v", p[0], p[1], q, r)
		}
		if rq := m.RealQuickRatio(p[0]); rq+1e-12 < r {
			t.Errorf("RealQuickRatio(%q,%q)=%v < Ratio %v", p[0], p[1], rq, r)
		}
	}
}

func TestFindLongestMatch_PrefersEarliest(t *testing.T) {
	m := NewSequenceMatcher("abab")
	a := []rune("ab")
	i, j, k := m.findLongestMatch(a, 0, len(a), 0, 4)
	if i != 0 || j != 0 || k != 2 {
		t.Errorf("findLongestMatch = (%d,%d,%d), want (0,0,2)", i, j, k)
	}
}
