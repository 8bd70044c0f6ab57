package planner

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

const (
	walkingSpeedKmh  = 4.5
	maxTravelMinutes = 30
)

// TravelMinutes estimates the walking buffer between two places from their
// great-circle distance, rounded up to 5 minutes and capped at half an hour. Places
// without coordinates yield zero.
func TravelMinutes(from, to Place) int {
	if !from.HasCoordinates() || !to.HasCoordinates() {
		return 0
	}
	meters := geo.Distance(orb.Point{from.Lng, from.Lat}, orb.Point{to.Lng, to.Lat})
	minutes := meters / 1000 / walkingSpeedKmh * 60
	rounded := int(math.Ceil(minutes/5)) * 5
	if rounded > maxTravelMinutes {
		return maxTravelMinutes
	}
	return rounded
}
