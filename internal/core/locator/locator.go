// Package locator ranks donation machines for a user by availability and
// great-circle distance.
package locator

import (
	"math"
	"sort"

	"github.com/exes/food-network/internal/core/domain"
)

// EarthRadiusKm is the mean Earth radius used by Distance.
const EarthRadiusKm = 6371.0

// Ranked pairs a machine with its distance from the user. DistanceKm is nil
// when no user position was supplied.
type Ranked struct {
	Machine    domain.Machine
	DistanceKm *float64
}

// Distance returns the haversine distance between a and b in kilometres.
func Distance(a, b domain.Position) float64 {
	lat1 := toRad(a.Lat)
	lat2 := toRad(b.Lat)
	dLat := toRad(b.Lat - a.Lat)
	dLng := toRad(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * EarthRadiusKm * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// Qualifies reports whether m can serve intent: it must be operational and have
// free space (donor) or stocked food (receiver).
func Qualifies(m domain.Machine, intent domain.Intent) bool {
	if m.Status != domain.StatusOperational {
		return false
	}
	if intent == domain.IntentReceiver {
		return m.AvailableFood > 0
	}
	return m.AvailableCapacity > 0
}

// Rank filters machines for intent and, when position is non-nil, orders them
// by ascending distance. Machines at equal distance keep their input order.
// The input slice is not modified.
func Rank(machines []domain.Machine, position *domain.Position, intent domain.Intent) []domain.Machine {
	ranked := RankWithDistance(machines, position, intent)
	out := make([]domain.Machine, len(ranked))
	for i, r := range ranked {
		out[i] = r.Machine
	}
	return out
}

// RankWithDistance is Rank but keeps each machine's computed distance.
func RankWithDistance(machines []domain.Machine, position *domain.Position, intent domain.Intent) []Ranked {
	out := make([]Ranked, 0, len(machines))
	for _, m := range machines {
		if !Qualifies(m, intent) {
			continue
		}
		r := Ranked{Machine: m}
		if position != nil {
			d := Distance(*position, m.Location)
			r.DistanceKm = &d
		}
		out = append(out, r)
	}

	if position == nil {
		return out
	}
	sort.SliceStable(out, func(i, j int) bool {
		return *out[i].DistanceKm < *out[j].DistanceKm
	})
	return out
}
