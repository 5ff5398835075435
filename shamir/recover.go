package shamir

import (
	"errors"
	"fmt"
	"math/big"
)

// MaxRecoverSubsets caps the number of k-subsets Recover is willing to try.
var MaxRecoverSubsets int64 = 1 << 20

// ErrSearchTooLarge is returned when C(n, k) exceeds MaxRecoverSubsets.
var ErrSearchTooLarge = errors.New("subset search too large")

// Recovery is the outcome of Recover.
type Recovery struct {
	Secret *big.Int
	// Subset is the k points the winning polynomial was interpolated from.
	Subset []*Point
	// Agreeing holds every input point on the winning polynomial, Subset included.
	Agreeing []*Point
	// Rejected holds the points off the winning polynomial.
	Rejected []*Point
}

// Unanimous reports whether every point lies on the recovered polynomial.
func (r *Recovery) Unanimous() bool {
	return len(r.Rejected) == 0
}

// Corroborated reports whether at least one point outside Subset confirms
// the polynomial. With exactly k points nothing can confirm it.
func (r *Recovery) Corroborated() bool {
	return len(r.Agreeing) > len(r.Subset)
}

// Recover looks for the degree k-1 polynomial passing through the largest
// number of points and returns its constant term. Candidate subsets are tried
// in lexicographic order of their indices. Subsets whose constant term is not
// an integer are skipped. If two polynomials with different constant terms
// tie for the most points, the shares cannot decide and Recover fails with
// ErrInconsistentShares.
func Recover(points []*Point, k int) (*Recovery, error) {
	if _, err := SelectSubset(points, k); err != nil {
		return nil, err
	}
	if err := checkDistinct(points); err != nil {
		return nil, err
	}

	n := len(points)
	total := new(big.Int).Binomial(int64(n), int64(k))
	if !total.IsInt64() || total.Int64() > MaxRecoverSubsets {
		return nil, fmt.Errorf("%w: C(%d, %d) = %s subsets", ErrSearchTooLarge, n, k, total)
	}

	// rival is a candidate with as many agreeing points as best but a
	// different secret; while it exists the vote is undecided.
	var best, rival *Recovery
	zero := new(big.Int)
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}

	for {
		subset := make([]*Point, k)
		for i, j := range idx {
			subset[i] = points[j]
		}

		if secret := lagrange(subset, zero); secret.IsInt() {
			cand := &Recovery{
				Secret: new(big.Int).Set(secret.Num()),
				Subset: subset,
			}
			for _, p := range points {
				if onCurve(subset, p) {
					cand.Agreeing = append(cand.Agreeing, p)
				} else {
					cand.Rejected = append(cand.Rejected, p)
				}
			}
			switch {
			case best == nil || len(cand.Agreeing) > len(best.Agreeing):
				best, rival = cand, nil
			case rival == nil && len(cand.Agreeing) == len(best.Agreeing) && cand.Secret.Cmp(best.Secret) != 0:
				rival = cand
			}
			if best.Unanimous() {
				break
			}
		}

		if !nextCombination(idx, n) {
			break
		}
	}

	if best == nil {
		return nil, fmt.Errorf("%w: no %d-subset of %d points yields an integer secret", ErrInterpolationNotIntegral, k, n)
	}
	if rival != nil {
		return nil, fmt.Errorf("%w: subsets %v and %v each fit %d of %d points with secrets %s and %s",
			ErrInconsistentShares, xValues(best.Subset), xValues(rival.Subset), len(best.Agreeing), n, best.Secret, rival.Secret)
	}
	return best, nil
}

// nextCombination advances idx to the next k-combination of [0, n) in
// lexicographic order and reports false once the last one has been passed.
func nextCombination(idx []int, n int) bool {
	k := len(idx)
	i := k - 1
	for i >= 0 && idx[i] == n-k+i {
		i--
	}
	if i < 0 {
		return false
	}
	idx[i]++
	for j := i + 1; j < k; j++ {
		idx[j] = idx[j-1] + 1
	}
	return true
}

func xValues(points []*Point) []string {
	out := make([]string, len(points))
	for i, p := range points {
		out[i] = p.X.String()
	}
	return out
}
