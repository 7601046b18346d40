package supplier

import (
	"regexp"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"chemscout/internal/product"
)

// DefaultFuzzyCutoff is the minimum 0-100 similarity score a candidate
// title must reach against the query to be kept.
const DefaultFuzzyCutoff = 40

var nonWordRe = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// Score computes a weighted similarity between the query and a
// candidate title on a 0-100 scale. It takes the best of the plain
// ratio, a partial (substring-window) ratio and token-sort/token-set
// ratios, with the looser measures damped so an exact phrasing still
// outranks a bag-of-words overlap.
func Score(query, title string) float64 {
	q := normalize(query)
	c := normalize(title)
	if q == "" || c == "" {
		return 0
	}
	if q == c {
		return 100
	}

	best := ratio(q, c)
	if s := 0.9 * partialRatio(q, c); s > best {
		best = s
	}
	if s := 0.95 * ratio(sortTokens(q), sortTokens(c)); s > best {
		best = s
	}
	if s := 0.95 * tokenSetRatio(q, c); s > best {
		best = s
	}
	return best
}

// FilterRelevant scores each builder's title against the query, drops
// candidates below the cutoff, and returns the survivors sorted
// descending by score. The sort is stable: ties keep original upstream
// order.
func FilterRelevant(query string, builders []*product.Builder, cutoff float64) []*product.Builder {
	if cutoff <= 0 {
		cutoff = DefaultFuzzyCutoff
	}

	kept := builders[:0:0]
	for _, b := range builders {
		s := Score(query, b.Title())
		if s < cutoff {
			continue
		}
		b.SetRelevance(s)
		kept = append(kept, b)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Relevance() > kept[j].Relevance()
	})
	return kept
}

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.TrimSpace(nonWordRe.ReplaceAllString(s, " "))
}

func ratio(a, b string) float64 {
	if a == "" && b == "" {
		return 100
	}
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 100
	}
	d := levenshtein.ComputeDistance(a, b)
	s := 100 * float64(total-2*d) / float64(total)
	if s < 0 {
		return 0
	}
	return s
}

// partialRatio slides the shorter string over same-length windows of
// the longer one and keeps the best plain ratio.
func partialRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}
	if len(ra) == 0 {
		return 0
	}

	best := 0.0
	for i := 0; i+len(ra) <= len(rb); i++ {
		window := string(rb[i : i+len(ra)])
		if s := ratio(string(ra), window); s > best {
			best = s
			if best == 100 {
				break
			}
		}
	}
	return best
}

func sortTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// tokenSetRatio compares the shared-token intersection against each
// side's full token set, which forgives extra descriptive words
// ("ACS grade", pack sizes) appended by storefronts.
func tokenSetRatio(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)

	var common, onlyA, onlyB []string
	for tok := range setA {
		if setB[tok] {
			common = append(common, tok)
		} else {
			onlyA = append(onlyA, tok)
		}
	}
	for tok := range setB {
		if !setA[tok] {
			onlyB = append(onlyB, tok)
		}
	}
	sort.Strings(common)
	sort.Strings(onlyA)
	sort.Strings(onlyB)

	base := strings.Join(common, " ")
	withA := strings.TrimSpace(base + " " + strings.Join(onlyA, " "))
	withB := strings.TrimSpace(base + " " + strings.Join(onlyB, " "))

	best := ratio(base, withA)
	if s := ratio(base, withB); s > best {
		best = s
	}
	if s := ratio(withA, withB); s > best {
		best = s
	}
	return best
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range strings.Fields(s) {
		set[tok] = true
	}
	return set
}
