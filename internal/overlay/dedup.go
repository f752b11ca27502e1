package overlay

import "math"

// Dedupe scans items left to right and keeps an item only when its
// similarity to every previously kept item is below threshold. A score equal
// to the threshold counts as a duplicate. Comparisons run against kept items
// only, so the cost is O(n*k) for n items and k survivors.
//
// It returns ErrInvalidConfig when sim is nil or threshold is not a number in
// [0,1]. A nil items slice yields an empty, non-nil result.
func Dedupe[T any](items []T, sim func(a, b T) float64, threshold float64) ([]T, error) {
	if sim == nil {
		return nil, invalidConfig("similarity scorer is nil")
	}
	if err := checkThreshold("dedup threshold", threshold); err != nil {
		return nil, err
	}

	kept := make([]T, 0, len(items))
	for _, item := range items {
		duplicate := false
		for _, k := range kept {
			if sim(item, k) >= threshold {
				duplicate = true
				break
			}
		}
		if !duplicate {
			kept = append(kept, item)
		}
	}
	return kept, nil
}

// DedupeEntries removes near-duplicate entries by comparing their
// translation text.
func DedupeEntries(entries []TranslationEntry, sim SimilarityFunc, threshold float64) ([]TranslationEntry, error) {
	if sim == nil {
		return nil, invalidConfig("similarity scorer is nil")
	}
	return Dedupe(entries, func(a, b TranslationEntry) float64 {
		return sim(a.Translation, b.Translation)
	}, threshold)
}

func checkThreshold(name string, v float64) error {
	if math.IsNaN(v) || v < 0 || v > 1 {
		return invalidConfig("%s must be a number in [0,1], got %v", name, v)
	}
	return nil
}
