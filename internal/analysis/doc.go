// Package analysis extracts bounce and phase-space structure from a recorded
// trajectory.
//
//   - [AnalyzeBounces]: floor contacts, apex heights between them and the
//     restitution they imply
//   - [NewPhasePortrait]: position against velocity along one axis
//
// # Restitution
//
// A vertical bounce that keeps a fraction D of its speed climbs back to D²
// of its previous apex height, so the estimate is the mean of
// sqrt(h[k+1]/h[k]) with heights measured from the floor:
//
//	report := analysis.AnalyzeBounces(result, consts.MinY)
//	fmt.Println(report.Restitution) // close to consts.Dampening
package analysis
