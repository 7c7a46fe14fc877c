package domain

import (
	"math"
	"testing"
)

func TestProportionalHeightKeepsAspectRatio(t *testing.T) {
	cases := []struct {
		name                     string
		refW, refH, newW, expect float64
	}{
		{"half scale", 400, 200, 200, 100},
		{"identity", 400, 200, 400, 200},
		{"upscale", 120, 60, 300, 150},
		{"rounding up", 300, 100, 100, 33},
		{"square", 100, 100, 77, 77},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ProportionalHeight(tc.refW, tc.refH, tc.newW)
			if got != tc.expect {
				t.Fatalf("ProportionalHeight(%v,%v,%v) = %v, want %v", tc.refW, tc.refH, tc.newW, got, tc.expect)
			}
			want := math.Round(tc.newW * tc.refH / tc.refW)
			if got != want {
				t.Fatalf("height %v deviates from round(newW*refH/refW) = %v", got, want)
			}
		})
	}
}

func TestProportionalLEDLengthScalesByPerimeter(t *testing.T) {
	// Reference 400x200 with 12 m of LED: perimeter 1200.
	// Requesting 200x100 halves the perimeter, so the strip halves too.
	got := ProportionalLEDLength(400, 200, 12, 200, 100)
	if got != 6.0 {
		t.Fatalf("expected 6.0 m at half scale, got %v", got)
	}

	// Uniform scaling by k scales the length by exactly k (within the one
	// decimal floor).
	for _, k := range []float64{0.5, 1, 1.5, 2, 3} {
		length := ProportionalLEDLength(400, 200, 12, 400*k, 200*k)
		want := math.Floor(12*k*10) / 10
		if want < 1.0 {
			want = 1.0
		}
		if length != want {
			t.Fatalf("scale %v: got %v, want %v", k, length, want)
		}
	}
}

func TestProportionalLEDLengthClampsToMinimum(t *testing.T) {
	got := ProportionalLEDLength(400, 200, 12, 20, 10)
	if got != 1.0 {
		t.Fatalf("tiny signs must still carry 1.0 m of LED, got %v", got)
	}
}

func TestProportionalLEDLengthFloorsToOneDecimal(t *testing.T) {
	// 12 * (2*(301+150.5)) / (2*(400+200)) = 12 * 903/1200 = 9.03 -> 9.0
	got := ProportionalLEDLength(400, 200, 12, 301, 150.5)
	if got != 9.0 {
		t.Fatalf("expected floor to 9.0, got %v", got)
	}
}

func TestPowerFromLEDLength(t *testing.T) {
	cases := []struct {
		length float64
		watts  int
	}{
		{6, 60},
		{12, 120},
		{1, 10},
		{2.5, 25},
		{7.3, 73},
	}
	for _, tc := range cases {
		if got := PowerFromLEDLength(tc.length); got != tc.watts {
			t.Fatalf("PowerFromLEDLength(%v) = %d, want %d", tc.length, got, tc.watts)
		}
	}
}

func TestLongestSide(t *testing.T) {
	if got := LongestSide(120, 60); got != 120 {
		t.Fatalf("expected 120, got %v", got)
	}
	if got := LongestSide(50, 250); got != 250 {
		t.Fatalf("expected 250, got %v", got)
	}
}
