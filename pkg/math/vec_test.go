package math

import (
	"testing"
)

func TestVec2Sub(t *testing.T) {
	a := Vec2{4, 6}
	b := Vec2{1, 2}
	got := a.Sub(b)
	want := Vec2{3, 4}
	if got != want {
		t.Errorf("Vec2.Sub() = %v, want %v", got, want)
	}
}

func TestVec2Length(t *testing.T) {
	v := Vec2{3, 4}
	got := v.Length()
	want := float32(5)
	if got != want {
		t.Errorf("Vec2.Length() = %v, want %v", got, want)
	}
}

func TestVec2Midpoint(t *testing.T) {
	got := Vec2{0, 0}.Midpoint(Vec2{4, -2})
	want := Vec2{2, -1}
	if got != want {
		t.Errorf("Vec2.Midpoint() = %v, want %v", got, want)
	}
}

func TestVec2Cross(t *testing.T) {
	x := Vec2{1, 0}
	y := Vec2{0, 1}
	if got := x.Cross(y); got != 1 {
		t.Errorf("x.Cross(y) = %v, want 1", got)
	}
	if got := y.Cross(x); got != -1 {
		t.Errorf("y.Cross(x) = %v, want -1", got)
	}
}

func TestVec2Lift(t *testing.T) {
	got := Vec2{1, 2}.Lift(5)
	want := Vec3{1, 5, 2}
	if got != want {
		t.Errorf("Vec2.Lift() = %v, want %v", got, want)
	}
	if got.XZ() != (Vec2{1, 2}) {
		t.Errorf("XZ() should undo Lift, got %v", got.XZ())
	}
}

func TestVec3Cross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	got := x.Cross(y)
	want := Vec3{0, 0, 1}
	if got != want {
		t.Errorf("Vec3.Cross() = %v, want %v", got, want)
	}
}

func TestVec3Normalize(t *testing.T) {
	n := Vec3{0, 3, 4}.Normalize()
	l := n.Length()
	if l < 0.999 || l > 1.001 {
		t.Errorf("Vec3.Normalize().Length() = %v, want ~1", l)
	}
	if (Vec3{}).Normalize() != (Vec3{}) {
		t.Error("normalizing the zero vector should return zero")
	}
}
