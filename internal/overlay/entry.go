package overlay

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// TranslationEntry is one original/translation pair reported by the
// translation service, together with where on screen the text appeared.
type TranslationEntry struct {
	Location            string `json:"location"`
	Original            string `json:"original"`
	OriginalLanguage    string `json:"originalLanguage"`
	Translation         string `json:"translation"`
	TranslationLanguage string `json:"translationLanguage"`
}

// Translated reports whether the entry changes language. Entries in the same
// language on both sides are passthrough text (menus, numbers, names).
func (e TranslationEntry) Translated() bool {
	return e.OriginalLanguage != e.TranslationLanguage
}

// FilterUntranslated returns the entries whose original and translation
// languages differ, preserving order. The input slice is not modified.
func FilterUntranslated(entries []TranslationEntry) []TranslationEntry {
	out := make([]TranslationEntry, 0, len(entries))
	for _, e := range entries {
		if e.Translated() {
			out = append(out, e)
		}
	}
	return out
}

// wireEntry mirrors TranslationEntry with pointer fields so that a missing
// key can be told apart from an empty string.
type wireEntry struct {
	Location            *string `json:"location"`
	Original            *string `json:"original"`
	OriginalLanguage    *string `json:"originalLanguage"`
	Translation         *string `json:"translation"`
	TranslationLanguage *string `json:"translationLanguage"`
}

func (w wireEntry) entry(index int) (TranslationEntry, error) {
	fields := []struct {
		name  string
		value *string
	}{
		{"location", w.Location},
		{"original", w.Original},
		{"originalLanguage", w.OriginalLanguage},
		{"translation", w.Translation},
		{"translationLanguage", w.TranslationLanguage},
	}
	for _, f := range fields {
		if f.value == nil {
			return TranslationEntry{}, &EntryError{Kind: "entry", Index: index, Field: f.name, Reason: "is required"}
		}
	}
	return TranslationEntry{
		Location:            *w.Location,
		Original:            *w.Original,
		OriginalLanguage:    *w.OriginalLanguage,
		Translation:         *w.Translation,
		TranslationLanguage: *w.TranslationLanguage,
	}, nil
}

// ParseEntries decodes a JSON array of translation entries, enforcing the
// five-field schema strictly: every field is required, unknown fields are
// rejected and trailing data is an error. A surrounding Markdown code fence
// (```json ... ```) is tolerated because chat models add one unprompted.
//
// All failures wrap ErrMalformedEntry.
func ParseEntries(data []byte) ([]TranslationEntry, error) {
	var wire []wireEntry
	if err := decodeStrict(stripCodeFence(data), &wire); err != nil {
		return nil, err
	}

	entries := make([]TranslationEntry, 0, len(wire))
	for i, w := range wire {
		e, err := w.entry(i)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

type wireRegion struct {
	Text *string     `json:"text"`
	Box  [][]float64 `json:"box"`
}

// ParseRegions decodes the OCR service output: a JSON array of
// {"text": string, "box": [[x,y],[x,y],[x,y],[x,y]]} records. Boxes must hold
// exactly four two-element points.
func ParseRegions(data []byte) ([]OCRRegion, error) {
	var wire []wireRegion
	if err := decodeStrict(data, &wire); err != nil {
		return nil, err
	}

	regions := make([]OCRRegion, 0, len(wire))
	for i, w := range wire {
		if w.Text == nil {
			return nil, &EntryError{Kind: "region", Index: i, Field: "text", Reason: "is required"}
		}
		if len(w.Box) != 4 {
			return nil, &EntryError{Kind: "region", Index: i, Field: "box", Reason: fmt.Sprintf("has %d points, want 4", len(w.Box))}
		}
		r := OCRRegion{Text: *w.Text}
		for j, p := range w.Box {
			if len(p) != 2 {
				return nil, &EntryError{Kind: "region", Index: i, Field: "box", Reason: fmt.Sprintf("point %d has %d coordinates, want 2", j, len(p))}
			}
			r.Box[j] = [2]float64{p[0], p[1]}
		}
		regions = append(regions, r)
	}
	return regions, nil
}

func decodeStrict(data []byte, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedEntry, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: unexpected data after JSON array", ErrMalformedEntry)
	}
	return nil
}

// stripCodeFence removes a leading ```lang line and a trailing ``` line.
func stripCodeFence(data []byte) []byte {
	trimmed := bytes.TrimSpace(data)
	if !bytes.HasPrefix(trimmed, []byte("```")) {
		return trimmed
	}
	if nl := bytes.IndexByte(trimmed, '\n'); nl >= 0 {
		trimmed = trimmed[nl+1:]
	} else {
		trimmed = trimmed[3:]
	}
	trimmed = bytes.TrimSpace(trimmed)
	trimmed = bytes.TrimSuffix(trimmed, []byte("```"))
	return bytes.TrimSpace(trimmed)
}
