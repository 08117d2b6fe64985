package room

import "sort"

// Match computes the mutual-selection partition for one finished round.
//
// voters is the set of voter IDs in the room and selections maps each voter to
// the voter they chose. A mutual pair exists exactly when two voters chose each
// other; every voter ends up in exactly one pair or in the leftovers, never
// both. The function is pure and deterministic: pairs and leftovers come out
// sorted so redundant invocations on different instances produce identical
// results. Self-selections must have been rejected before this point.
func Match(voters []string, selections map[string]string) MatchResult {
	sorted := make([]string, len(voters))
	copy(sorted, voters)
	sort.Strings(sorted)

	paired := make(map[string]bool, len(sorted))
	result := MatchResult{
		Pairs:     make([]Pair, 0),
		Leftovers: make([]string, 0),
	}

	for _, voter := range sorted {
		if paired[voter] {
			continue
		}

		chosen, ok := selections[voter]
		if !ok || paired[chosen] {
			continue
		}

		// Mutual iff the chosen voter picked this voter back.
		if selections[chosen] == voter {
			result.Pairs = append(result.Pairs, orderedPair(voter, chosen))
			paired[voter] = true
			paired[chosen] = true
		}
	}

	for _, voter := range sorted {
		if !paired[voter] {
			result.Leftovers = append(result.Leftovers, voter)
		}
	}

	return result
}

// orderedPair normalizes member order within a pair so the same match always
// serializes identically.
func orderedPair(a, b string) Pair {
	if a < b {
		return Pair{A: a, B: b}
	}
	return Pair{A: b, B: a}
}
