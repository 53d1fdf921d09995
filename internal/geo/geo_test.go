package geo

import (
	"math"
	"testing"
)

func TestComputeBounds(t *testing.T) {
	b := ComputeBounds([]Point{{X: 3, Y: -1}, {X: -2, Y: 5}, {X: 7, Y: 2}})
	want := Bounds{MinX: -2, MinY: -1, MaxX: 7, MaxY: 5}
	if b != want {
		t.Fatalf("got %+v, want %+v", b, want)
	}
}

func TestComputeBoundsEmpty(t *testing.T) {
	b := ComputeBounds(nil)
	if b != (Bounds{}) {
		t.Fatalf("empty slice should give zero bounds, got %+v", b)
	}
	if !b.IsEmpty() {
		t.Fatal("zero bounds should report empty")
	}
}

func TestBoundsTranslate(t *testing.T) {
	b := Bounds{MinX: 0, MinY: 0, MaxX: 10, MaxY: 20}.Translate(5, -3)
	want := Bounds{MinX: 5, MinY: -3, MaxX: 15, MaxY: 17}
	if b != want {
		t.Fatalf("got %+v, want %+v", b, want)
	}
}

func TestPointInPolygonSquare(t *testing.T) {
	square := []Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}}

	cases := []struct {
		p    Point
		want bool
	}{
		{Point{5, 5}, true},
		{Point{1, 9}, true},
		{Point{-1, 5}, false},
		{Point{11, 5}, false},
		{Point{5, -1}, false},
		{Point{5, 11}, false},
	}
	for _, c := range cases {
		if got := PointInPolygon(c.p, square); got != c.want {
			t.Errorf("PointInPolygon(%+v) = %v, want %v", c.p, got, c.want)
		}
	}
}

func TestPointInPolygonConcave(t *testing.T) {
	// U-shape: notch cut out of the top between x=4 and x=6.
	u := []Point{
		{0, 0}, {10, 0}, {10, 10}, {6, 10}, {6, 4}, {4, 4}, {4, 10}, {0, 10},
	}

	if !PointInPolygon(Point{2, 8}, u) {
		t.Fatal("left arm interior should be inside")
	}
	if !PointInPolygon(Point{8, 8}, u) {
		t.Fatal("right arm interior should be inside")
	}
	if PointInPolygon(Point{5, 8}, u) {
		t.Fatal("notch interior should be outside")
	}
	if !PointInPolygon(Point{5, 2}, u) {
		t.Fatal("base interior should be inside")
	}
}

func TestSegmentIntersectionCrossing(t *testing.T) {
	p, tt, ok := SegmentIntersection(
		Point{0, 0}, Point{10, 10},
		Point{0, 10}, Point{10, 0},
	)
	if !ok {
		t.Fatal("expected intersection")
	}
	if math.Abs(p.X-5) > 1e-9 || math.Abs(p.Y-5) > 1e-9 {
		t.Fatalf("intersection at %+v, want (5,5)", p)
	}
	if tt < 0 || tt > 1 {
		t.Fatalf("t = %v, want within [0,1]", tt)
	}
}

func TestSegmentIntersectionParallel(t *testing.T) {
	if _, _, ok := SegmentIntersection(
		Point{0, 0}, Point{10, 0},
		Point{0, 1}, Point{10, 1},
	); ok {
		t.Fatal("parallel segments should not intersect")
	}
}

func TestSegmentIntersectionOutsideSecond(t *testing.T) {
	// The lines cross at (5,5) but the second segment stops well short.
	if _, _, ok := SegmentIntersection(
		Point{0, 0}, Point{10, 10},
		Point{0, 10}, Point{2, 8},
	); ok {
		t.Fatal("intersection outside the second segment should be rejected")
	}
}

func TestSegmentIntersectionFirstUnbounded(t *testing.T) {
	// The crossing lies beyond a2 on the first segment's extension. The
	// primitive still reports it; the returned t tells the caller it is
	// outside [0,1].
	p, tt, ok := SegmentIntersection(
		Point{0, 0}, Point{1, 1},
		Point{0, 10}, Point{10, 0},
	)
	if !ok {
		t.Fatal("expected intersection on the extension of the first segment")
	}
	if tt <= 1 {
		t.Fatalf("t = %v, expected > 1", tt)
	}
	if math.Abs(p.X-5) > 1e-9 || math.Abs(p.Y-5) > 1e-9 {
		t.Fatalf("intersection at %+v, want (5,5)", p)
	}
}
