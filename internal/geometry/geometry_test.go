package geometry

import (
	"image"
	"reflect"
	"testing"
)

func TestRectangle_MoveByKeepsResolution(t *testing.T) {
	rects := []Rectangle{
		Rect(0, 0, 1920, 1080),
		Rect(-1366, -768, 1366, 768),
		Rect(2560, -200, 1080, 1920),
		{},
	}
	moves := []image.Point{{0, 0}, {10, -10}, {-5000, 5000}, {1366, 768}}

	for _, r := range rects {
		w, h := r.Resolution()
		for _, m := range moves {
			gotW, gotH := r.MoveBy(m.X, m.Y).Resolution()
			if gotW != w || gotH != h {
				t.Errorf("MoveBy(%v) of %+v: expected %dx%d, got %dx%d", m, r, w, h, gotW, gotH)
			}
		}
	}
}

func TestRectangle_Normalized(t *testing.T) {
	r := Rectangle{MinX: -100, MaxX: 300, MinY: 50, MaxY: 150}
	got := r.Normalized()
	want := Rectangle{MinX: 0, MaxX: 400, MinY: 0, MaxY: 100}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestFromImageRect(t *testing.T) {
	got := FromImageRect(image.Rect(1920, 1080, 0, 0))
	want := Rect(0, 0, 1920, 1080)
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
	if got.ImageRect() != image.Rect(0, 0, 1920, 1080) {
		t.Errorf("round trip mismatch: %v", got.ImageRect())
	}
}

func TestUnionBounds(t *testing.T) {
	tests := []struct {
		name     string
		displays []Display
		want     Rectangle
	}{
		{
			name:     "Single Display",
			displays: []Display{{Name: "A", Bounds: Rect(100, 100, 800, 600)}},
			want:     Rect(100, 100, 800, 600),
		},
		{
			name: "Side By Side",
			displays: []Display{
				{Name: "A", Bounds: Rect(0, 0, 1920, 1080)},
				{Name: "B", Bounds: Rect(1920, 0, 1920, 1080)},
			},
			want: Rect(0, 0, 3840, 1080),
		},
		{
			name: "Laptop Above External",
			displays: []Display{
				{Name: "External", Bounds: Rect(0, 0, 1920, 1080)},
				{Name: "Laptop", Bounds: Rect(-200, -768, 1366, 768)},
			},
			want: Rectangle{MinX: -200, MaxX: 1920, MinY: -768, MaxY: 1080},
		},
		{
			name:     "Empty",
			displays: nil,
			want:     Rectangle{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UnionBounds(tt.displays); got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestConfiguration_NormalizePreservesRelativeOffsets(t *testing.T) {
	cfg := NewConfiguration([]Display{
		{Name: "External", Bounds: Rect(0, 0, 1920, 1080)},
		{Name: "Laptop", Bounds: Rect(-200, -768, 1366, 768)},
	})
	before := cfg.Displays[1].Bounds.Min().Sub(cfg.Displays[0].Bounds.Min())

	normalized := cfg.Normalized()

	if normalized.Bounds.MinX != 0 || normalized.Bounds.MinY != 0 {
		t.Fatalf("expected bounds at origin, got %+v", normalized.Bounds)
	}
	if w, h := normalized.Bounds.Resolution(); w != 2120 || h != 1848 {
		t.Errorf("expected 2120x1848, got %dx%d", w, h)
	}
	after := normalized.Displays[1].Bounds.Min().Sub(normalized.Displays[0].Bounds.Min())
	if before != after {
		t.Errorf("relative offset changed: before %v, after %v", before, after)
	}
	if normalized.Displays[0].Bounds != Rect(200, 768, 1920, 1080) {
		t.Errorf("unexpected external bounds %+v", normalized.Displays[0].Bounds)
	}
	if normalized.Displays[1].Bounds != Rect(0, 0, 1366, 768) {
		t.Errorf("unexpected laptop bounds %+v", normalized.Displays[1].Bounds)
	}

	// Normalized must not touch the receiver
	if cfg.Displays[1].Bounds.MinX != -200 {
		t.Errorf("original configuration was mutated: %+v", cfg.Displays[1].Bounds)
	}
}

func TestConfiguration_NormalizeIsIdempotent(t *testing.T) {
	configs := []Configuration{
		NewConfiguration([]Display{{Bounds: Rect(0, 0, 1024, 768)}}),
		NewConfiguration([]Display{
			{Bounds: Rect(-1920, 0, 1920, 1080)},
			{Bounds: Rect(0, 0, 2560, 1440)},
			{Bounds: Rect(2560, -500, 1080, 1920)},
		}),
		NewConfiguration([]Display{
			{Bounds: Rect(300, 300, 100, 100)},
			{Bounds: Rect(350, 350, 100, 100)},
		}),
	}

	for i, c := range configs {
		once := c.Normalized()
		twice := once.Normalized()
		if !reflect.DeepEqual(once, twice) {
			t.Errorf("config %d: normalize is not idempotent:\n once=%+v\ntwice=%+v", i, once, twice)
		}
		if once.Bounds != UnionBounds(once.Displays) {
			t.Errorf("config %d: bounds %+v do not match union %+v", i, once.Bounds, UnionBounds(once.Displays))
		}
	}
}

func TestRectangle_Contains(t *testing.T) {
	outer := Rect(0, 0, 100, 100)
	if !outer.Contains(Rect(10, 10, 90, 90)) {
		t.Error("expected inner rectangle to be contained")
	}
	if outer.Contains(Rect(50, 50, 60, 10)) {
		t.Error("expected overflowing rectangle to be rejected")
	}
}
