package math

import (
	"testing"
)

func TestVec2Add(t *testing.T) {
	a := Vec2{1, 2}
	b := Vec2{3, 4}
	got := a.Add(b)
	want := Vec2{4, 6}
	if got != want {
		t.Errorf("Vec2.Add() = %v, want %v", got, want)
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

func TestVec2Normalize(t *testing.T) {
	v := Vec2{3, 4}
	n := v.Normalize()
	l := n.Length()
	if l < 0.999 || l > 1.001 {
		t.Errorf("Vec2.Normalize().Length() = %v, want ~1", l)
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

func TestVec3ProjectOnLine(t *testing.T) {
	tests := []struct {
		name  string
		p     Vec3
		wantP Vec3
		wantT float32
	}{
		{"midpoint", Vec3{5, 3, 0}, Vec3{5, 0, 0}, 0.5},
		{"behind start", Vec3{-2, 1, 4}, Vec3{-2, 0, 0}, -0.2},
		{"past end", Vec3{15, 0, -1}, Vec3{15, 0, 0}, 1.5},
	}

	a := Vec3{0, 0, 0}
	b := Vec3{10, 0, 0}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, tp := tt.p.ProjectOnLine(a, b)
			if got.Distance(tt.wantP) > 0.0001 {
				t.Errorf("ProjectOnLine() point = %v, want %v", got, tt.wantP)
			}
			if abs(tp-tt.wantT) > 0.0001 {
				t.Errorf("ProjectOnLine() t = %v, want %v", tp, tt.wantT)
			}
		})
	}
}

func TestVec3ProjectOnDegenerateLine(t *testing.T) {
	a := Vec3{1, 1, 1}
	got, tp := (Vec3{4, 5, 6}).ProjectOnLine(a, a)
	if got != a || tp != 0 {
		t.Errorf("ProjectOnLine on a point = (%v, %v), want (%v, 0)", got, tp, a)
	}
}

func TestPlaneWhichSide(t *testing.T) {
	pl := PlaneFromOriginNormal(Vec3{2, 0, 0}, Vec3{4, 0, 0})

	if got := pl.WhichSide(Vec3{3, 7, 1}); got != SidePositive {
		t.Errorf("WhichSide(in front) = %v, want SidePositive", got)
	}
	if got := pl.WhichSide(Vec3{1, -3, 0}); got != SideNegative {
		t.Errorf("WhichSide(behind) = %v, want SideNegative", got)
	}
	if got := pl.WhichSide(Vec3{2, 5, 5}); got != SideNone {
		t.Errorf("WhichSide(on plane) = %v, want SideNone", got)
	}
	if d := pl.Distance(Vec3{5, 0, 0}); abs(d-3) > 0.0001 {
		t.Errorf("Distance = %v, want 3", d)
	}
}

func TestClampLerp(t *testing.T) {
	if got := Clamp(1.5, 0, 1); got != 1 {
		t.Errorf("Clamp(1.5) = %v", got)
	}
	if got := Clamp(-0.5, 0, 1); got != 0 {
		t.Errorf("Clamp(-0.5) = %v", got)
	}
	if got := Lerp(2, 6, 0.25); got != 3 {
		t.Errorf("Lerp = %v, want 3", got)
	}
}
