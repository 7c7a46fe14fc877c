package domain

import "math"

const (
	// wattsPerMeter is the nominal power draw of the LED strip per meter.
	wattsPerMeter = 8.0
	// powerSafetyMargin oversizes the supply relative to the nominal draw.
	powerSafetyMargin = 1.25

	// minLEDLengthMeters is the smallest orderable strip length.
	minLEDLengthMeters = 1.0
)

// ProportionalHeight scales a sign's height so the design's reference aspect
// ratio is preserved for the requested width. refWidth must be positive; the
// catalog guarantees this for every published design.
func ProportionalHeight(refWidth, refHeight, newWidth float64) float64 {
	return math.Round(newWidth * refHeight / refWidth)
}

// ProportionalLEDLength scales the design's reference LED strip length by the
// perimeter ratio of the resized sign. A linear feature tracing the outline
// grows with the perimeter, not the area. The result is floored to one
// decimal and never drops below one meter.
func ProportionalLEDLength(refWidth, refHeight, refLength, newWidth, newHeight float64) float64 {
	refPerimeter := 2 * (refWidth + refHeight)
	if refPerimeter <= 0 {
		return minLEDLengthMeters
	}
	newPerimeter := 2 * (newWidth + newHeight)
	length := refLength * (newPerimeter / refPerimeter)
	length = math.Floor(length*10) / 10
	if length < minLEDLengthMeters {
		return minLEDLengthMeters
	}
	return length
}

// PowerFromLEDLength derives the wattage needed to drive a strip of the given
// length, including the safety margin, rounded to the nearest watt.
func PowerFromLEDLength(lengthMeters float64) int {
	return int(math.Round(lengthMeters * wattsPerMeter * powerSafetyMargin))
}

// AreaSquareMeters converts centimeter dimensions to square meters.
func AreaSquareMeters(widthCm, heightCm float64) float64 {
	return widthCm * heightCm / 10000
}

// LongestSide returns the larger of the two dimensions, the sole determinant
// for shipping tiers.
func LongestSide(widthCm, heightCm float64) float64 {
	return math.Max(widthCm, heightCm)
}
