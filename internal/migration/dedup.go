package migration

// dedupe keeps the first candidate for each key. Candidates with neither
// identity nor email cannot be keyed and are returned as rejected.
func dedupe(cands []Candidate) (kept []Candidate, rejected []Candidate) {
	seen := make(map[Key]bool, len(cands))
	for _, c := range cands {
		k, ok := keyOf(c.Fields)
		if !ok {
			rejected = append(rejected, c)
			continue
		}
		if seen[k] {
			continue
		}
		seen[k] = true
		kept = append(kept, c)
	}
	return kept, rejected
}
