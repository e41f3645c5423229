// Package units formats measurement values for display. Purely a
// presentation concern: nothing here feeds back into the calculation core.
package units

import (
	"fmt"
	"math"
	"strings"
)

const inchesPerFoot = 12

// Format renders a linear value with its unit, e.g. "12.34 ft".
func Format(value float64, unit string) string {
	return fmt.Sprintf("%s %s", trimZeros(value), unit)
}

// FormatArea renders a squared value, e.g. "12.34 sq ft".
func FormatArea(value float64, unit string) string {
	return fmt.Sprintf("%s sq %s", trimZeros(value), unit)
}

// FormatVolume renders a cubed value, e.g. "12.34 cu ft".
func FormatVolume(value float64, unit string) string {
	return fmt.Sprintf("%s cu %s", trimZeros(value), unit)
}

// FormatCount renders a count, e.g. "3 ea".
func FormatCount(value float64) string {
	return fmt.Sprintf("%d ea", int(math.Round(value)))
}

// FormatFeetInches renders a length in feet as feet-and-inches with inches
// rounded to the nearest 1/16, e.g. 12.53 -> `12' 6 3/8"`. Negative values
// keep their sign on the feet part.
func FormatFeetInches(feet float64) string {
	sign := ""
	if feet < 0 {
		sign = "-"
		feet = -feet
	}

	sixteenths := int(math.Round(feet * inchesPerFoot * 16))
	wholeFeet := sixteenths / (inchesPerFoot * 16)
	sixteenths -= wholeFeet * inchesPerFoot * 16
	wholeInches := sixteenths / 16
	sixteenths -= wholeInches * 16

	if wholeInches == 0 && sixteenths == 0 {
		return fmt.Sprintf("%s%d'", sign, wholeFeet)
	}
	if sixteenths == 0 {
		return fmt.Sprintf("%s%d' %d\"", sign, wholeFeet, wholeInches)
	}

	num, den := reduce(sixteenths, 16)
	if wholeInches == 0 {
		return fmt.Sprintf("%s%d' %d/%d\"", sign, wholeFeet, num, den)
	}
	return fmt.Sprintf("%s%d' %d %d/%d\"", sign, wholeFeet, wholeInches, num, den)
}

func reduce(num, den int) (int, int) {
	for num%2 == 0 && den%2 == 0 {
		num /= 2
		den /= 2
	}
	return num, den
}

func trimZeros(value float64) string {
	s := fmt.Sprintf("%.2f", value)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}
