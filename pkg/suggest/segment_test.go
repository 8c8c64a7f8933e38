package suggest

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSegmentShortValueUnchanged(t *testing.T) {
	got := segmentValue("The Great Gatsby", 80)
	if len(got) != 1 || got[0] != "The Great Gatsby" {
		t.Fatalf("segmentValue = %v; want the value unchanged", got)
	}
}

func TestSegmentLongValue(t *testing.T) {
	// 200 runes of five-char words: "word0 word1 ..." repeated
	var b strings.Builder
	for b.Len() < 200 {
		b.WriteString("lorem ")
	}
	value := b.String()[:200]

	chunks := segmentValue(value, 80)
	if len(chunks) != 2 {
		t.Fatalf("got %d chunks; want exactly 2 (remainder dropped)", len(chunks))
	}
	for i, c := range chunks {
		if n := utf8.RuneCountInString(c); n > 80 {
			t.Errorf("chunk %d is %d runes; want <= 80", i, n)
		}
	}
	joined := strings.Join(chunks, "")
	if !strings.HasPrefix(value, joined) {
		t.Errorf("concatenated chunks %q are not a prefix of the value", joined)
	}
}

func TestSegmentRespectsWordBoundaries(t *testing.T) {
	value := strings.Repeat("alpha beta ", 30) // 330 runes
	for _, c := range segmentValue(value, 40) {
		trimmed := strings.TrimSpace(c)
		if strings.HasSuffix(trimmed, "alph") || strings.HasSuffix(trimmed, "bet") {
			t.Errorf("chunk %q cut inside a word", c)
		}
	}
}

func TestSegmentUnbrokenWord(t *testing.T) {
	value := strings.Repeat("x", 100)
	chunks := segmentValue(value, 30)
	if len(chunks) != 3 {
		t.Fatalf("got %d chunks; want 3 hard cuts", len(chunks))
	}
	for _, c := range chunks {
		if len(c) != 30 {
			t.Errorf("chunk %q has length %d; want hard cut at 30", c, len(c))
		}
	}
}
