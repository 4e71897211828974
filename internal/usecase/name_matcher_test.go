package usecase

import (
	"reflect"
	"testing"
)

func TestNewNameMatcher(t *testing.T) {
	testCases := []struct {
		strategy string
		want     interface{}
		wantErr  bool
	}{
		{"", ExactContainsMatcher{}, false},
		{StrategyExact, ExactContainsMatcher{}, false},
		{StrategyCaseFold, CaseFoldMatcher{}, false},
		{StrategySimilarity, &TokenSimilarityMatcher{}, false},
		{"levenshtein", nil, true},
	}

	for _, tc := range testCases {
		t.Run(tc.strategy, func(t *testing.T) {
			got, err := NewNameMatcher(tc.strategy, 0.6)
			if tc.wantErr {
				if err == nil {
					t.Errorf("NewNameMatcher(%q) expected error", tc.strategy)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if reflect.TypeOf(got) != reflect.TypeOf(tc.want) {
				t.Errorf("NewNameMatcher(%q) = %T, want %T", tc.strategy, got, tc.want)
			}
		})
	}
}

func TestExactContainsMatcher(t *testing.T) {
	testCases := []struct {
		name    string
		target  string
		keys    []string
		wantIdx int
		wantOK  bool
	}{
		{"exact match", "Tomatoes", []string{"Milk", "Tomatoes"}, 1, true},
		{"exact beats earlier containment", "Milk", []string{"Milk Bread", "Milk"}, 1, true},
		{"target contains key", "Organic Brown Rice 1kg", []string{"Brown Rice"}, 0, true},
		{"key contains target", "Milk", []string{"Amul Toned Milk"}, 0, true},
		{"first containment wins", "Basmati Rice", []string{"Rice", "Basmati Rice 5kg"}, 0, true},
		{"case sensitive", "brown rice", []string{"Brown Rice"}, -1, false},
		{"no match", "Paneer", []string{"Milk", "Bread"}, -1, false},
		{"empty keys", "Milk", nil, -1, false},
		{"empty target", "", []string{"Milk"}, -1, false},
		{"blank key skipped", "Rice Bag", []string{"", "  ", "Rice"}, 2, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			idx, ok := ExactContainsMatcher{}.Match(tc.target, tc.keys)
			if idx != tc.wantIdx || ok != tc.wantOK {
				t.Errorf("Match(%q) = (%d, %v), want (%d, %v)", tc.target, idx, ok, tc.wantIdx, tc.wantOK)
			}
		})
	}
}

func TestCaseFoldMatcher(t *testing.T) {
	testCases := []struct {
		name    string
		target  string
		keys    []string
		wantIdx int
		wantOK  bool
	}{
		{"ignores case", "brown rice", []string{"Brown Rice"}, 0, true},
		{"collapses whitespace", "ORGANIC   brown rice", []string{"Organic Brown Rice"}, 0, true},
		{"containment after folding", "amul TONED milk 500ml", []string{"Toned Milk"}, 0, true},
		{"no match", "paneer", []string{"Toned Milk"}, -1, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			idx, ok := CaseFoldMatcher{}.Match(tc.target, tc.keys)
			if idx != tc.wantIdx || ok != tc.wantOK {
				t.Errorf("Match(%q) = (%d, %v), want (%d, %v)", tc.target, idx, ok, tc.wantIdx, tc.wantOK)
			}
		})
	}
}

func TestTokenSimilarityMatcher(t *testing.T) {
	m := NewTokenSimilarityMatcher(TokenSimilarityConfig{MinSimilarity: 0.5})

	t.Run("falls back to token overlap", func(t *testing.T) {
		keys := []string{"Basmati Rice 5kg", "Organic Brown Rice"}
		idx, ok := m.Match("organic brown rce pack", keys)
		if !ok || idx != 1 {
			t.Errorf("Match() = (%d, %v), want (1, true)", idx, ok)
		}
	})

	t.Run("tolerates a typo", func(t *testing.T) {
		idx, ok := m.Match("Grilled Chiken Breast", []string{"grilled chicken breast"})
		if !ok || idx != 0 {
			t.Errorf("Match() = (%d, %v), want (0, true)", idx, ok)
		}
	})

	t.Run("keeps exact precedence", func(t *testing.T) {
		idx, ok := m.Match("Milk", []string{"Milk Bread", "Milk"})
		if !ok || idx != 1 {
			t.Errorf("Match() = (%d, %v), want (1, true)", idx, ok)
		}
	})

	t.Run("rejects below threshold", func(t *testing.T) {
		_, ok := m.Match("Amul Butter", []string{"Brown Rice"})
		if ok {
			t.Error("expected no match")
		}
	})

	t.Run("applies defaults", func(t *testing.T) {
		d := NewTokenSimilarityMatcher(TokenSimilarityConfig{MinSimilarity: 2})
		if d.minSimilarity != 0.5 || d.fuzzyEditDistance != 1 {
			t.Errorf("defaults = (%v, %d), want (0.5, 1)", d.minSimilarity, d.fuzzyEditDistance)
		}
	})
}

func TestMatchCandidate(t *testing.T) {
	candidates := []Candidate[int]{{Key: "Tomatoes", Value: 1}, {Key: "Brown Rice", Value: 2}}

	got, ok := MatchCandidate[int](ExactContainsMatcher{}, "Organic Brown Rice 1kg", candidates)
	if !ok || got != 2 {
		t.Errorf("MatchCandidate() = (%d, %v), want (2, true)", got, ok)
	}

	got, ok = MatchCandidate[int](ExactContainsMatcher{}, "Paneer", candidates)
	if ok || got != 0 {
		t.Errorf("MatchCandidate() = (%d, %v), want (0, false)", got, ok)
	}
}

func TestTokenize(t *testing.T) {
	testCases := []struct {
		input string
		want  []string
	}{
		{"Organic Brown Rice 1kg", []string{"organic", "brown", "rice"}},
		{"Amul Taaza Toned Milk, 500 ml Pouch", []string{"amul", "taaza", "toned", "milk"}},
		{"Eggs (Pack of 6)", []string{"eggs"}},
		{"", nil},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got := tokenize(tc.input)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("tokenize(%q) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}

func TestLevenshteinDistance(t *testing.T) {
	testCases := []struct {
		s1   string
		s2   string
		want int
	}{
		{"", "", 0},
		{"a", "", 1},
		{"", "a", 1},
		{"abc", "abc", 0},
		{"abc", "abd", 1},        // substitution
		{"abc", "abcd", 1},       // insertion
		{"abcd", "abc", 1},       // deletion
		{"kitten", "sitting", 3}, // classic example
		{"milk", "mlik", 2},      // transposition (2 edits)
		{"paneer", "panner", 1},
	}

	for _, tc := range testCases {
		t.Run(tc.s1+"_"+tc.s2, func(t *testing.T) {
			got := levenshteinDistance(tc.s1, tc.s2)
			if got != tc.want {
				t.Errorf("levenshteinDistance(%q, %q) = %v, want %v", tc.s1, tc.s2, got, tc.want)
			}
		})
	}
}

func TestFuzzyTokenMatch(t *testing.T) {
	testCases := []struct {
		token1    string
		token2    string
		threshold int
		want      bool
	}{
		{"milk", "milk", 1, true},      // identical
		{"milk", "mlik", 1, false},     // edit distance 2
		{"dal", "daal", 1, false},      // too short for fuzzy
		{"chicken", "chiken", 1, true}, // missing letter
		{"chicken", "chikin", 1, false},
		{"chicken", "chikin", 2, true},
		{"tomatoes", "tomatos", 1, true},
	}

	for _, tc := range testCases {
		t.Run(tc.token1+"_"+tc.token2, func(t *testing.T) {
			got := fuzzyTokenMatch(tc.token1, tc.token2, tc.threshold)
			if got != tc.want {
				t.Errorf("fuzzyTokenMatch(%q, %q, %d) = %v, want %v",
					tc.token1, tc.token2, tc.threshold, got, tc.want)
			}
		})
	}
}
