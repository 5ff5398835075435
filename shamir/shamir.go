package shamir

import (
	"errors"
	"fmt"
	"math/big"
)

var (
	// ErrDuplicateXCoordinate is returned when two points share an x value.
	ErrDuplicateXCoordinate = errors.New("duplicate x coordinate")
	// ErrInsufficientPoints is returned when there are not enough points for the requested threshold.
	ErrInsufficientPoints = errors.New("insufficient points")
	// ErrInterpolationNotIntegral is returned when the interpolated value does not reduce to an integer.
	ErrInterpolationNotIntegral = errors.New("interpolation result is not an integer")
	// ErrInconsistentShares is returned when the points do not all lie on one polynomial of degree k-1.
	ErrInconsistentShares = errors.New("inconsistent shares")
	// ErrInvalidThreshold is returned when k < 1 or k exceeds n.
	ErrInvalidThreshold = errors.New("invalid threshold")
	// ErrInvalidPoint is returned for a nil point or a point with a nil coordinate.
	ErrInvalidPoint = errors.New("invalid point")
)

// Point is a decoded (x, y) sample of the secret polynomial.
type Point struct {
	X *big.Int
	Y *big.Int
}

// NewPoint builds a point from a small x and an arbitrary y.
func NewPoint(x int64, y *big.Int) *Point {
	return &Point{X: big.NewInt(x), Y: y}
}

func (p *Point) String() string {
	return fmt.Sprintf("(%s, %s)", p.X, p.Y)
}

func checkDistinct(points []*Point) error {
	seen := make(map[string]struct{}, len(points))
	for i, p := range points {
		if p == nil || p.X == nil || p.Y == nil {
			return fmt.Errorf("%w: missing coordinate at index %d", ErrInvalidPoint, i)
		}
		key := p.X.String()
		if _, ok := seen[key]; ok {
			return fmt.Errorf("%w: x = %s", ErrDuplicateXCoordinate, key)
		}
		seen[key] = struct{}{}
	}
	return nil
}

// lagrange evaluates the interpolating polynomial of points at target as an
// exact fraction. points must have distinct x values.
func lagrange(points []*Point, target *big.Int) *big.Rat {
	sum := new(big.Rat)
	diff := new(big.Int)

	for i, pI := range points {
		// l_i(target) = prod_{j != i} (target - x_j) / (x_i - x_j)
		num := big.NewInt(1)
		den := big.NewInt(1)

		for j, pJ := range points {
			if i == j {
				continue
			}
			num.Mul(num, diff.Sub(target, pJ.X))
			den.Mul(den, diff.Sub(pI.X, pJ.X))
		}

		num.Mul(num, pI.Y)
		sum.Add(sum, new(big.Rat).SetFrac(num, den))
	}
	return sum
}

// EvaluateAt computes f(target) where f is the unique polynomial of degree
// len(points)-1 through points. The arithmetic is exact: the result is
// returned only if the Lagrange sum reduces to an integer.
func EvaluateAt(points []*Point, target *big.Int) (*big.Int, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: no points provided", ErrInsufficientPoints)
	}
	if err := checkDistinct(points); err != nil {
		return nil, err
	}

	sum := lagrange(points, target)
	if !sum.IsInt() {
		return nil, fmt.Errorf("%w: f(%s) = %s", ErrInterpolationNotIntegral, target, sum.RatString())
	}
	return new(big.Int).Set(sum.Num()), nil
}

// SelectSubset returns the first k points. Any k points of a consistent
// share set define the same polynomial, so the choice only matters when some
// shares are corrupted; see ReconstructVerified and Recover for those cases.
func SelectSubset(points []*Point, k int) ([]*Point, error) {
	if k < 1 {
		return nil, fmt.Errorf("%w: k = %d", ErrInvalidThreshold, k)
	}
	if len(points) < k {
		return nil, fmt.Errorf("%w: need %d, got %d", ErrInsufficientPoints, k, len(points))
	}
	return points[:k:k], nil
}

// ReconstructSecret interpolates the first k points and returns f(0).
func ReconstructSecret(points []*Point, k int) (*big.Int, error) {
	subset, err := SelectSubset(points, k)
	if err != nil {
		return nil, err
	}
	return EvaluateAt(subset, new(big.Int))
}

// ReconstructVerified behaves like ReconstructSecret and additionally checks
// that every point beyond the first k lies on the same polynomial.
func ReconstructVerified(points []*Point, k int) (*big.Int, error) {
	if err := checkDistinct(points); err != nil {
		return nil, err
	}
	secret, err := ReconstructSecret(points, k)
	if err != nil {
		return nil, err
	}

	subset := points[:k]
	for _, p := range points[k:] {
		if !onCurve(subset, p) {
			return nil, fmt.Errorf("%w: point %s is not on the polynomial defined by the first %d points", ErrInconsistentShares, p, k)
		}
	}
	return secret, nil
}

func onCurve(subset []*Point, p *Point) bool {
	v := lagrange(subset, p.X)
	return v.IsInt() && v.Num().Cmp(p.Y) == 0
}
