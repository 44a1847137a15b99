package temporal

import (
	"github.com/roach88/tempus/internal/base"
)

// normalizeInstants removes instants that do not change the represented
// function: stepwise repeats of the previous value, and linear midpoints
// that are equal to or collinear with their neighbours. The first and last
// instants are always kept.
func normalizeInstants(instants []Instant, interp Interp) []Instant {
	if len(instants) < 3 {
		return instants
	}
	result := make([]Instant, 0, len(instants))
	result = append(result, instants[0])
	inst1, inst2 := instants[0], instants[1]
	for _, inst3 := range instants[2:] {
		if redundantMiddle(inst1, inst2, inst3, interp) {
			inst2 = inst3
			continue
		}
		result = append(result, inst2)
		inst1, inst2 = inst2, inst3
	}
	return append(result, inst2)
}

// NormalizeSequences merges consecutive sequences that are adjacent (they
// touch at one timestamp that exactly one of them includes) when the join is
// lossless. Sequences must be time ordered, disjoint and share one
// interpolation. The result is idempotent under a second pass.
//
// Adjacent pairs are joined when:
//   - the last segment of the first and the first segment of the second are
//     constant and equal, or stepwise with a constant last segment equal to
//     the next value, or linear and collinear across the joint;
//   - the first is stepwise with an exclusive upper bound;
//   - the boundary values are equal.
func NormalizeSequences(sequences []*Sequence) []*Sequence {
	if len(sequences) == 0 {
		return nil
	}
	result := make([]*Sequence, 0, len(sequences))
	seq1 := sequences[0]
	for _, seq2 := range sequences[1:] {
		joined, ok := joinAdjacent(seq1, seq2)
		if ok {
			seq1 = joined
			continue
		}
		result = append(result, seq1)
		seq1 = seq2
	}
	return append(result, seq1)
}

func joinAdjacent(seq1, seq2 *Sequence) (*Sequence, bool) {
	p1, p2 := seq1.period, seq2.period
	if p1.Upper != p2.Lower || p1.UpperInc == p2.LowerInc {
		return nil, false
	}
	n1, n2 := len(seq1.instants), len(seq2.instants)
	last1, first1 := seq1.instants[n1-1], seq2.instants[0]
	linear := seq1.interp == Linear
	if n1 > 1 && n2 > 1 {
		last2, first2 := seq1.instants[n1-2], seq2.instants[1]
		stepJoint := !linear &&
			base.Equal(last2.Value, last1.Value) &&
			base.Equal(last1.Value, first1.Value)
		constantJoint := base.Equal(last2.Value, last1.Value) &&
			base.Equal(last1.Value, first1.Value) &&
			base.Equal(first1.Value, first2.Value)
		collinearJoint := linear &&
			base.Equal(last1.Value, first1.Value) &&
			base.Collinear(last2.Value, first1.Value, first2.Value,
				float64(first1.T-last2.T)/float64(first2.T-last2.T))
		if stepJoint || constantJoint || collinearJoint {
			return join(seq1, seq2, true, true), true
		}
	}
	if !linear && !p1.UpperInc {
		return join(seq1, seq2, true, false), true
	}
	if base.Equal(last1.Value, first1.Value) {
		return join(seq1, seq2, false, true), true
	}
	return nil, false
}

// join concatenates two sequences, optionally dropping the last instant of
// the first and the first instant of the second.
func join(seq1, seq2 *Sequence, removeLast, removeFirst bool) *Sequence {
	a := seq1.instants
	if removeLast {
		a = a[:len(a)-1]
	}
	b := seq2.instants
	if removeFirst {
		b = b[1:]
	}
	instants := make([]Instant, 0, len(a)+len(b))
	instants = append(instants, a...)
	instants = append(instants, b...)
	return newSequence(instants, seq1.period.LowerInc, seq2.period.UpperInc, seq1.interp)
}
