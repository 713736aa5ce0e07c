package analysis

import (
	"math"

	"github.com/san-kum/ballsim/internal/dynamo"
)

// minApex is the apex height above the floor below which a bounce is treated
// as resting contact and left out of the restitution estimate.
const minApex = 0.05

// BounceReport summarises the floor bounces of one run.
type BounceReport struct {
	FloorBounces int
	BounceTimes  []float64
	// Apexes are the peak heights above the floor of every complete flight,
	// that is every interval ending in a floor contact.
	Apexes       []float64
	Restitution  float64 // NaN when fewer than two usable apexes
	MeanInterval float64 // NaN when fewer than two bounces
}

func AnalyzeBounces(r *dynamo.Result, floor float64) BounceReport {
	report := BounceReport{Restitution: math.NaN(), MeanInterval: math.NaN()}

	peak := math.Inf(-1)
	for i, p := range r.Positions {
		peak = math.Max(peak, p[1])
		if r.Contacts[i]&dynamo.ContactFloor == 0 {
			continue
		}
		report.FloorBounces++
		report.BounceTimes = append(report.BounceTimes, r.Times[i])
		report.Apexes = append(report.Apexes, peak-floor)
		peak = math.Inf(-1)
	}

	var sum float64
	var n int
	for k := 0; k+1 < len(report.Apexes); k++ {
		h0, h1 := report.Apexes[k], report.Apexes[k+1]
		if h0 < minApex || h1 < minApex {
			break
		}
		sum += math.Sqrt(h1 / h0)
		n++
	}
	if n > 0 {
		report.Restitution = sum / float64(n)
	}

	if len(report.BounceTimes) > 1 {
		first, last := report.BounceTimes[0], report.BounceTimes[len(report.BounceTimes)-1]
		report.MeanInterval = (last - first) / float64(len(report.BounceTimes)-1)
	}

	return report
}
