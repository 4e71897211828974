package usecase

import (
	"fmt"
	"regexp"
	"strings"
)

// Matching strategies selectable from configuration
const (
	StrategyExact      = "exact"
	StrategyCaseFold   = "casefold"
	StrategySimilarity = "similarity"
)

// NameMatcher resolves a target name against an ordered list of candidate keys.
// It returns the index of the winning key, or false when nothing matches.
type NameMatcher interface {
	Match(target string, keys []string) (int, bool)
}

// Candidate pairs a match key with the record it identifies
type Candidate[T any] struct {
	Key   string
	Value T
}

// MatchCandidate resolves target to the record of the winning candidate
func MatchCandidate[T any](m NameMatcher, target string, candidates []Candidate[T]) (T, bool) {
	keys := make([]string, len(candidates))
	for i, c := range candidates {
		keys[i] = c.Key
	}

	idx, ok := m.Match(target, keys)
	if !ok {
		var zero T
		return zero, false
	}
	return candidates[idx].Value, true
}

// NewNameMatcher builds the matcher for a configured strategy.
// minSimilarity only applies to the similarity strategy.
func NewNameMatcher(strategy string, minSimilarity float64) (NameMatcher, error) {
	switch strategy {
	case "", StrategyExact:
		return ExactContainsMatcher{}, nil
	case StrategyCaseFold:
		return CaseFoldMatcher{}, nil
	case StrategySimilarity:
		return NewTokenSimilarityMatcher(TokenSimilarityConfig{MinSimilarity: minSimilarity}), nil
	default:
		return nil, fmt.Errorf("unknown matching strategy %q", strategy)
	}
}

// ExactContainsMatcher matches an identical key first, then the first key
// that contains the target or is contained by it. Case-sensitive.
type ExactContainsMatcher struct{}

// Match implements NameMatcher
func (ExactContainsMatcher) Match(target string, keys []string) (int, bool) {
	return matchExactThenContains(target, keys)
}

// CaseFoldMatcher applies the exact-then-containment rules to lower-cased,
// whitespace-collapsed names.
type CaseFoldMatcher struct{}

// Match implements NameMatcher
func (CaseFoldMatcher) Match(target string, keys []string) (int, bool) {
	folded := make([]string, len(keys))
	for i, k := range keys {
		folded[i] = foldName(k)
	}
	return matchExactThenContains(foldName(target), folded)
}

func matchExactThenContains(target string, keys []string) (int, bool) {
	if strings.TrimSpace(target) == "" {
		return -1, false
	}

	for i, key := range keys {
		if key == target {
			return i, true
		}
	}

	for i, key := range keys {
		// an empty key is a substring of every name
		if strings.TrimSpace(key) == "" {
			continue
		}
		if strings.Contains(target, key) || strings.Contains(key, target) {
			return i, true
		}
	}

	return -1, false
}

func foldName(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// TokenSimilarityConfig holds configuration for the token similarity matcher
type TokenSimilarityConfig struct {
	MinSimilarity     float64
	FuzzyEditDistance int
}

// TokenSimilarityMatcher keeps the exact and containment rules and, when both
// fail, picks the key with the best token overlap above MinSimilarity.
type TokenSimilarityMatcher struct {
	minSimilarity     float64
	fuzzyEditDistance int
}

// NewTokenSimilarityMatcher creates a token similarity matcher with defaults applied
func NewTokenSimilarityMatcher(config TokenSimilarityConfig) *TokenSimilarityMatcher {
	threshold := config.MinSimilarity
	if threshold <= 0 || threshold > 1 {
		threshold = 0.5
	}

	fuzzyDist := config.FuzzyEditDistance
	if fuzzyDist <= 0 {
		fuzzyDist = 1
	}

	return &TokenSimilarityMatcher{
		minSimilarity:     threshold,
		fuzzyEditDistance: fuzzyDist,
	}
}

// Match implements NameMatcher
func (m *TokenSimilarityMatcher) Match(target string, keys []string) (int, bool) {
	if idx, ok := matchExactThenContains(target, keys); ok {
		return idx, true
	}

	targetTokens := tokenize(target)
	if len(targetTokens) == 0 {
		return -1, false
	}

	best, bestScore := -1, 0.0
	for i, key := range keys {
		score := m.similarity(targetTokens, tokenize(key))
		// strict comparison keeps the earliest key on ties
		if score > bestScore {
			best, bestScore = i, score
		}
	}

	if best < 0 || bestScore < m.minSimilarity {
		return -1, false
	}
	return best, true
}

// similarity scores two token lists in [0,1]: coverage of the target weighs
// most, then coverage of the key, then Jaccard overlap.
func (m *TokenSimilarityMatcher) similarity(target, key []string) float64 {
	if len(target) == 0 || len(key) == 0 {
		return 0
	}

	targetMatched := m.countMatched(target, key)
	keyMatched := m.countMatched(key, target)

	targetCoverage := float64(targetMatched) / float64(len(target))
	keyCoverage := float64(keyMatched) / float64(len(key))
	jaccard := float64(targetMatched) / float64(len(target)+len(key)-targetMatched)

	return targetCoverage*0.6 + keyCoverage*0.2 + jaccard*0.2
}

// countMatched counts tokens of a that have an exact or fuzzy partner in b
func (m *TokenSimilarityMatcher) countMatched(a, b []string) int {
	matched := 0
	for _, ta := range a {
		for _, tb := range b {
			if ta == tb || fuzzyTokenMatch(ta, tb, m.fuzzyEditDistance) {
				matched++
				break
			}
		}
	}
	return matched
}

var (
	punctuationRegex = regexp.MustCompile(`[^\w\s]`)
	sizeTokenRegex   = regexp.MustCompile(`^\d+(\.\d+)?(g|gm|kg|ml|l|ltr|pc|pcs|pack)?$`)
)

// noiseTokens are units and packaging words that do not identify a product
var noiseTokens = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "of": true, "with": true,
	"g": true, "gm": true, "kg": true, "ml": true, "l": true, "ltr": true,
	"pc": true, "pcs": true, "pack": true, "packet": true, "pouch": true,
	"box": true, "bag": true, "bottle": true, "jar": true, "combo": true,
	"approx": true, "piece": true, "pieces": true,
}

// tokenize splits a name into lowercase tokens without punctuation, sizes or noise words
func tokenize(s string) []string {
	cleaned := punctuationRegex.ReplaceAllString(strings.ToLower(s), " ")

	var tokens []string
	for _, word := range strings.Fields(cleaned) {
		if len(word) <= 1 || noiseTokens[word] || sizeTokenRegex.MatchString(word) {
			continue
		}
		tokens = append(tokens, word)
	}
	return tokens
}

// fuzzyTokenMatch checks if two tokens are similar within the edit distance threshold
func fuzzyTokenMatch(token1, token2 string, threshold int) bool {
	if token1 == token2 {
		return true
	}

	// short tokens produce too many false positives
	if len(token1) < 4 || len(token2) < 4 {
		return false
	}

	lenDiff := len(token1) - len(token2)
	if lenDiff < 0 {
		lenDiff = -lenDiff
	}
	if lenDiff > threshold {
		return false
	}

	return levenshteinDistance(token1, token2) <= threshold
}

// levenshteinDistance calculates the edit distance between two strings
func levenshteinDistance(s1, s2 string) int {
	r1 := []rune(s1)
	r2 := []rune(s2)
	if len(r1) == 0 {
		return len(r2)
	}
	if len(r2) == 0 {
		return len(r1)
	}

	prev := make([]int, len(r2)+1)
	curr := make([]int, len(r2)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(r1); i++ {
		curr[0] = i
		for j := 1; j <= len(r2); j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(r2)]
}
