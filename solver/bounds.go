package solver

// traitCeiling is the optimistic score still reachable with remaining slots:
// the weight of every scoring trait below its need whose gap fits in the
// slots left. A single character may close several gaps at once and one
// slot may be counted for several traits, so the ceiling can overestimate;
// it never underestimates, which keeps the bound admissible.
func (e *engine) traitCeiling(remaining int) float64 {
	var ceil float64
	for id, need := range e.needs {
		cur := e.counts[id]
		if cur < need && need-cur <= remaining {
			ceil += e.weights[id]
		}
	}

	return ceil
}

// traitBoundFails reports whether no completion of the current team can
// reach the worst score still retained by the ledger.
func (e *engine) traitBoundFails(remaining int) bool {
	return e.score+e.traitCeiling(remaining) < e.ledger.WorstScore()
}

// roleBoundFails reports whether the role minimums are out of reach even if
// every remaining slot went to a high-cost tank or carry.
func (e *engine) roleBoundFails(remaining int) bool {
	return e.tanks+remaining < e.cons.MinTank || e.carries+remaining < e.cons.MinCarry
}

// valid reports whether the current team already meets the role minimums.
// Team size plays no part, so partial teams qualify.
func (e *engine) valid() bool {
	return e.tanks >= e.cons.MinTank && e.carries >= e.cons.MinCarry
}
