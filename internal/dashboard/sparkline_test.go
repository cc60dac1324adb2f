package dashboard

import (
	"testing"
	"unicode/utf8"
)

func eqPoints(values ...string) []EquityPoint {
	out := make([]EquityPoint, 0, len(values))
	for _, v := range values {
		out = append(out, EquityPoint{Y: Num(v)})
	}
	return out
}

func TestSparkline_Basic(t *testing.T) {
	s := sparkline(eqPoints("1", "2", "3", "4"), 10)
	if utf8.RuneCountInString(s) != 4 {
		t.Fatalf("rune count got=%d want=4 (%q)", utf8.RuneCountInString(s), s)
	}
	runes := []rune(s)
	if runes[0] != '▁' || runes[3] != '█' {
		t.Fatalf("expected min..max ramp, got %q", s)
	}
}

func TestSparkline_DownsamplesToWidth(t *testing.T) {
	points := make([]EquityPoint, 100)
	for i := range points {
		points[i] = EquityPoint{Y: Num("1")}
	}
	s := sparkline(points, 20)
	if utf8.RuneCountInString(s) != 20 {
		t.Fatalf("rune count got=%d want=20", utf8.RuneCountInString(s))
	}
}

func TestSparkline_FlatAndEmpty(t *testing.T) {
	if s := sparkline(eqPoints("5", "5", "5"), 10); utf8.RuneCountInString(s) != 3 {
		t.Fatalf("flat series got=%q", s)
	}
	if s := sparkline(nil, 10); s != "" {
		t.Fatalf("empty series got=%q", s)
	}
	// 全是无效值也算空
	if s := sparkline([]EquityPoint{{}, {}}, 10); s != "" {
		t.Fatalf("invalid-only series got=%q", s)
	}
}
