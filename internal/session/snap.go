package session

import "github.com/draftbench/takeoff/pkg/models"

// Snap constrains a candidate point to be exactly horizontal or vertical
// relative to the previous point, whichever axis the candidate has moved
// furthest along.
func Snap(candidate, last models.DocumentPoint) models.DocumentPoint {
	dx := candidate.X - last.X
	dy := candidate.Y - last.Y
	if abs(dx) > abs(dy) {
		return models.DocumentPoint{X: candidate.X, Y: last.Y}
	}
	return models.DocumentPoint{X: last.X, Y: candidate.Y}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
