package overlay

// OCRRegion is one detected text line: the recognized text and its bounding
// quadrilateral in input image pixels, ordered top-left, top-right,
// bottom-right, bottom-left.
type OCRRegion struct {
	Text string        `json:"text"`
	Box  [4][2]float64 `json:"box"`
}

// TopLeft returns the first corner of the box.
func (r OCRRegion) TopLeft() Point {
	return Point{X: r.Box[0][0], Y: r.Box[0][1]}
}

// BottomRight returns the third corner of the box.
func (r OCRRegion) BottomRight() Point {
	return Point{X: r.Box[2][0], Y: r.Box[2][1]}
}

// BestMatch returns the index and score of the highest scoring item, or -1
// for an empty slice. Ties keep the earliest item.
func BestMatch[T any](items []T, score func(T) float64) (int, float64) {
	if len(items) == 0 {
		return -1, 0
	}
	best, bestScore := 0, score(items[0])
	for i := 1; i < len(items); i++ {
		if s := score(items[i]); s > bestScore {
			best, bestScore = i, s
		}
	}
	return best, bestScore
}

// RegionMatch is the outcome of matching one string against the OCR regions.
type RegionMatch struct {
	Region OCRRegion `json:"region"`
	Index  int       `json:"index"`
	Score  float64   `json:"score"`
}

// BestRegion finds the region whose text is most similar to target. No
// minimum score is applied: any non-empty region list produces a match.
// ok is false only when regions is empty. Regions are never consumed, so
// several entries may match the same region.
func BestRegion(target string, regions []OCRRegion, sim SimilarityFunc) (RegionMatch, bool) {
	idx, score := BestMatch(regions, func(r OCRRegion) float64 {
		return sim(target, r.Text)
	})
	if idx < 0 {
		return RegionMatch{Index: -1}, false
	}
	return RegionMatch{Region: regions[idx], Index: idx, Score: score}, true
}
