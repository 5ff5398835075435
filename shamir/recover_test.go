package shamir

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func xs(ps []*Point) []int64 {
	out := make([]int64, len(ps))
	for i, p := range ps {
		out[i] = p.X.Int64()
	}
	return out
}

func TestRecoverUnanimous(t *testing.T) {
	r, err := Recover(points(1, 4, 2, 7, 3, 12, 6, 39), 3)
	require.NoError(t, err)
	assert.Equal(t, int64(3), r.Secret.Int64())
	assert.True(t, r.Unanimous())
	assert.True(t, r.Corroborated())
	assert.Equal(t, []int64{1, 2, 3}, xs(r.Subset))
	assert.Len(t, r.Agreeing, 4)
}

func TestRecoverCorruptedShare(t *testing.T) {
	// f(x) = 5 - 2x + 3x^2 sampled at 1..6 with x = 1 tampered.
	ps := NewPolynomial(5, -2, 3).Sample(1, 2, 3, 4, 5, 6)
	ps[0] = NewPoint(1, big.NewInt(1000))

	_, err := ReconstructVerified(ps, 3)
	assert.ErrorIs(t, err, ErrInconsistentShares)

	r, err := Recover(ps, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(5), r.Secret.Int64())
	assert.False(t, r.Unanimous())
	assert.Equal(t, []int64{1}, xs(r.Rejected))
	assert.Equal(t, []int64{2, 3, 4}, xs(r.Subset))
}

func TestRecoverTiedVote(t *testing.T) {
	// One extra share cannot tell a tampered share from an honest one.
	ps := NewPolynomial(5, -2, 3).Sample(1, 2, 3, 4)
	ps[0] = NewPoint(1, big.NewInt(1000))

	_, err := Recover(ps, 3)
	assert.ErrorIs(t, err, ErrInconsistentShares)

	in := &Instance{
		N: 4,
		K: 3,
		Shares: []Share{
			{X: 1, Base: 10, Value: "1000"},
			{X: 2, Base: 10, Value: "13"},
			{X: 3, Base: 10, Value: "26"},
			{X: 4, Base: 10, Value: "45"},
		},
	}
	_, err = in.Reconstruct(PolicyRecover)
	assert.ErrorIs(t, err, ErrInconsistentShares)

	// A second honest share breaks the tie.
	ps = append(ps, NewPolynomial(5, -2, 3).Sample(5)...)
	r, err := Recover(ps, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(5), r.Secret.Int64())
	assert.Equal(t, []int64{1}, xs(r.Rejected))
}

func TestRecoverExactlyK(t *testing.T) {
	r, err := Recover(points(1, 4, 2, 7, 3, 12), 3)
	require.NoError(t, err)
	assert.Equal(t, int64(3), r.Secret.Int64())
	assert.True(t, r.Unanimous())
	assert.False(t, r.Corroborated())
}

func TestRecoverErrors(t *testing.T) {
	_, err := Recover(points(1, 4), 2)
	assert.ErrorIs(t, err, ErrInsufficientPoints)

	_, err = Recover(points(1, 4, 2, 7, 1, 9), 2)
	assert.ErrorIs(t, err, ErrDuplicateXCoordinate)

	_, err = Recover(points(1, 0, 3, 1), 2)
	assert.ErrorIs(t, err, ErrInterpolationNotIntegral)

	ps := points(1, 4, 2, 7, 3, 12)
	ps = append(ps, &Point{X: big.NewInt(4)})
	_, err = Recover(ps, 3)
	assert.ErrorIs(t, err, ErrInvalidPoint)
	_, err = ReconstructVerified(ps, 3)
	assert.ErrorIs(t, err, ErrInvalidPoint)

	saved := MaxRecoverSubsets
	MaxRecoverSubsets = 5
	defer func() { MaxRecoverSubsets = saved }()
	_, err = Recover(NewPolynomial(1, 1).Sample(1, 2, 3, 4, 5), 2)
	assert.ErrorIs(t, err, ErrSearchTooLarge)
}

func TestNextCombination(t *testing.T) {
	idx := []int{0, 1}
	var seen [][]int
	for {
		seen = append(seen, append([]int(nil), idx...))
		if !nextCombination(idx, 4) {
			break
		}
	}
	assert.Equal(t, [][]int{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3}}, seen)
}
