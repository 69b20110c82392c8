package internal

// SearchInfo describes a search once its runtime matrix is prepared.
type SearchInfo struct {
	Instances  int
	Solvers    []string
	MaxK       int
	BeamWidth  int
	Exhaustive bool

	// mean runtime of the virtual best solver, NaN when unknown
	VbsScore float64
}
