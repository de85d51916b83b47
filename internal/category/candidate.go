package category

import "sort"

// CandidateList orders candidates by priority, then depth, both descending.
// Remaining ties keep traversal order, so ranking is deterministic.
type CandidateList []Candidate

func (l CandidateList) Len() int      { return len(l) }
func (l CandidateList) Swap(i, j int) { l[i], l[j] = l[j], l[i] }

func (l CandidateList) Less(i, j int) bool {
	if l[i].Priority != l[j].Priority {
		return l[i].Priority > l[j].Priority
	}
	if l[i].Depth != l[j].Depth {
		return l[i].Depth > l[j].Depth
	}
	return l[i].Order < l[j].Order
}

// Rank returns a sorted copy
func (l CandidateList) Rank() CandidateList {
	ranked := make(CandidateList, len(l))
	copy(ranked, l)
	sort.Stable(ranked)
	return ranked
}

// Best returns the top ranked candidate
func (l CandidateList) Best() (Candidate, bool) {
	if len(l) == 0 {
		return Candidate{}, false
	}
	return l.Rank()[0], true
}
