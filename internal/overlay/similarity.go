package overlay

// SimilarityFunc scores two strings in [0,1], where 1 means identical.
type SimilarityFunc func(a, b string) float64

// Jaro-Winkler tuning: the prefix bonus applies only above boostThreshold and
// looks at no more than prefixSize leading characters.
const (
	boostThreshold = 0.7
	prefixSize     = 4
	prefixScale    = 0.1
)

// JaroWinkler is the default SimilarityFunc for both deduplication and
// region matching. It compares characters (runes), so each kana or kanji
// counts once. Identical strings, including two empty ones, score 1.
func JaroWinkler(a, b string) float64 {
	if a == b {
		return 1
	}
	ra, rb := []rune(a), []rune(b)

	sim := jaro(ra, rb)
	if sim <= boostThreshold {
		return sim
	}

	limit := min(prefixSize, len(ra), len(rb))
	prefix := 0
	for prefix < limit && ra[prefix] == rb[prefix] {
		prefix++
	}
	return sim + prefixScale*float64(prefix)*(1-sim)
}

func jaro(a, b []rune) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	window := max(len(a), len(b))/2 - 1
	if window < 0 {
		window = 0
	}

	matchedA := make([]bool, len(a))
	matchedB := make([]bool, len(b))
	matches := 0
	for i := range a {
		lo := max(0, i-window)
		hi := min(len(b)-1, i+window)
		for j := lo; j <= hi; j++ {
			if matchedB[j] || a[i] != b[j] {
				continue
			}
			matchedA[i], matchedB[j] = true, true
			matches++
			break
		}
	}
	if matches == 0 {
		return 0
	}

	transposed := 0
	j := 0
	for i := range a {
		if !matchedA[i] {
			continue
		}
		for !matchedB[j] {
			j++
		}
		if a[i] != b[j] {
			transposed++
		}
		j++
	}

	m := float64(matches)
	t := float64(transposed) / 2
	return (m/float64(len(a)) + m/float64(len(b)) + (m-t)/m) / 3
}
