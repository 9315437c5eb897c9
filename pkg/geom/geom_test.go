package geom

import "testing"

func TestRectEdges(t *testing.T) {
	r := Rect{X: 8, Y: 8, Width: 100, Height: 50}
	if got := r.Right(); got != 108 {
		t.Errorf("Right() = %v, want 108", got)
	}
	if got := r.Bottom(); got != 58 {
		t.Errorf("Bottom() = %v, want 58", got)
	}
	if got := r.CenterX(); got != 58 {
		t.Errorf("CenterX() = %v, want 58", got)
	}
	if got := r.CenterY(); got != 33 {
		t.Errorf("CenterY() = %v, want 33", got)
	}
}

func TestRectIntersects(t *testing.T) {
	tests := []struct {
		name string
		a, b Rect
		want bool
	}{
		{"overlap", Rect{0, 0, 10, 10}, Rect{5, 5, 10, 10}, true},
		{"touching edge", Rect{0, 0, 10, 10}, Rect{10, 0, 10, 10}, false},
		{"disjoint", Rect{0, 0, 10, 10}, Rect{20, 20, 5, 5}, false},
		{"contained", Rect{0, 0, 10, 10}, Rect{2, 2, 2, 2}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Intersects(tt.b); got != tt.want {
				t.Errorf("Intersects() = %v, want %v", got, tt.want)
			}
			if got := tt.b.Intersects(tt.a); got != tt.want {
				t.Errorf("Intersects() not symmetric")
			}
		})
	}
}

func TestRectUnionTranslate(t *testing.T) {
	u := Rect{0, 0, 10, 10}.Union(Rect{20, 5, 5, 20})
	if u != (Rect{0, 0, 25, 25}) {
		t.Errorf("Union() = %+v", u)
	}
	if got := (Rect{1, 2, 3, 4}).Translate(10, 20); got != (Rect{11, 22, 3, 4}) {
		t.Errorf("Translate() = %+v", got)
	}
}

func TestResolveHeightMonotonic(t *testing.T) {
	prev := -1.0
	for a := 0.2; a <= 2.0; a += 0.05 {
		h := ResolveHeight(420, a)
		if h <= prev {
			t.Fatalf("ResolveHeight not monotonic at aspect %v: %v <= %v", a, h, prev)
		}
		prev = h
	}
	if got := ResolveHeight(400, 0.5); got != 200 {
		t.Errorf("ResolveHeight(400, 0.5) = %v, want 200", got)
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(5, 1, 4); got != 4 {
		t.Errorf("Clamp(5,1,4) = %v", got)
	}
	if got := Clamp(-1, 1, 4); got != 1 {
		t.Errorf("Clamp(-1,1,4) = %v", got)
	}
	if got := Clamp(0.5, 0.2, 2.0); got != 0.5 {
		t.Errorf("Clamp(0.5,0.2,2) = %v", got)
	}
}
