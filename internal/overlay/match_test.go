package overlay

import "testing"

func region(text string, x1, y1, x2, y2 float64) OCRRegion {
	return OCRRegion{
		Text: text,
		Box:  [4][2]float64{{x1, y1}, {x2, y1}, {x2, y2}, {x1, y2}},
	}
}

func TestBestRegion(t *testing.T) {
	regions := []OCRRegion{
		region("Options", 0, 0, 10, 10),
		region("Start Game", 20, 20, 30, 30),
		region("Quit", 40, 40, 50, 50),
	}

	m, ok := BestRegion("Start Game", regions, JaroWinkler)
	if !ok {
		t.Fatal("expected a match")
	}
	if m.Index != 1 || m.Region.Text != "Start Game" {
		t.Errorf("matched %d %q, want 1 \"Start Game\"", m.Index, m.Region.Text)
	}
	for i, r := range regions {
		if s := JaroWinkler("Start Game", r.Text); s > m.Score {
			t.Errorf("region %d scores %v above match score %v", i, s, m.Score)
		}
	}
}

func TestBestRegion_Multibyte(t *testing.T) {
	regions := []OCRRegion{
		region("オプション", 0, 0, 10, 10),
		region("ゲームをつづける", 20, 20, 30, 30),
		region("ゲーム を はじめる", 40, 40, 50, 50),
		region("おわる", 60, 60, 70, 70),
	}

	m, ok := BestRegion("ゲームをはじめる", regions, JaroWinkler)
	if !ok {
		t.Fatal("expected a match")
	}
	if m.Index != 2 {
		t.Errorf("matched %d %q, want 2", m.Index, m.Region.Text)
	}
	if s := JaroWinkler("ゲームをはじめる", "オプション"); s != 0 {
		t.Errorf("regions with no shared characters scored %v", s)
	}
}

func TestBestRegion_TieKeepsFirst(t *testing.T) {
	regions := []OCRRegion{
		region("a", 0, 0, 1, 1),
		region("b", 5, 5, 6, 6),
		region("c", 9, 9, 10, 10),
	}
	constant := func(a, b string) float64 { return 0.3 }

	m, ok := BestRegion("anything", regions, constant)
	if !ok || m.Index != 0 {
		t.Errorf("tie should keep first region, got index %d", m.Index)
	}
}

func TestBestRegion_NoFloor(t *testing.T) {
	regions := []OCRRegion{region("xyz", 0, 0, 1, 1)}

	m, ok := BestRegion("abc", regions, JaroWinkler)
	if !ok {
		t.Fatal("a low score must still produce a match")
	}
	if m.Score != 0 {
		t.Errorf("Score: got %v, want 0", m.Score)
	}
}

func TestBestRegion_Empty(t *testing.T) {
	if m, ok := BestRegion("abc", nil, JaroWinkler); ok || m.Index != -1 {
		t.Errorf("empty region list should not match, got %+v", m)
	}
}

func TestBestMatch_Generic(t *testing.T) {
	idx, score := BestMatch([]int{3, 9, 2, 9}, func(v int) float64 { return float64(v) })
	if idx != 1 || score != 9 {
		t.Errorf("got (%d, %v), want (1, 9)", idx, score)
	}
}
