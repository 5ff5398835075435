package shamir

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/izouxv/goShamir/radix"
)

// ErrInvalidShareIndex is returned for a share whose x is not positive.
var ErrInvalidShareIndex = errors.New("share index must be positive")

// Share is one distributed sample whose y value is written in Base.
type Share struct {
	X     int64
	Base  int
	Value string
}

// Point decodes the share value into an exact point.
func (s Share) Point() (*Point, error) {
	y, err := radix.Decode(s.Value, s.Base)
	if err != nil {
		return nil, fmt.Errorf("share %d: %w", s.X, err)
	}
	return NewPoint(s.X, y), nil
}

// Policy selects how Instance.Reconstruct treats shares beyond the threshold.
type Policy int

const (
	// PolicyFirstK interpolates the first K shares and ignores the rest.
	PolicyFirstK Policy = iota
	// PolicyVerify interpolates the first K shares and fails if any other share disagrees.
	PolicyVerify
	// PolicyRecover uses the polynomial agreeing with the most shares.
	PolicyRecover
)

func (p Policy) String() string {
	switch p {
	case PolicyFirstK:
		return "first-k"
	case PolicyVerify:
		return "verify"
	case PolicyRecover:
		return "recover"
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// ParsePolicy is the inverse of Policy.String.
func ParsePolicy(s string) (Policy, error) {
	for _, p := range []Policy{PolicyFirstK, PolicyVerify, PolicyRecover} {
		if p.String() == s {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown policy %q", s)
}

// Instance is a set of shares with its sharing parameters: N shares were
// issued and any K of them determine the secret.
type Instance struct {
	ID     string
	N      int
	K      int
	Shares []Share
}

// Validate checks the threshold parameters and the share indices.
func (in *Instance) Validate() error {
	if in.K < 1 || in.K > in.N {
		return fmt.Errorf("%w: k = %d, n = %d", ErrInvalidThreshold, in.K, in.N)
	}
	if len(in.Shares) < in.K {
		return fmt.Errorf("%w: need %d shares, got %d", ErrInsufficientPoints, in.K, len(in.Shares))
	}
	seen := make(map[int64]struct{}, len(in.Shares))
	for _, s := range in.Shares {
		if s.X <= 0 {
			return fmt.Errorf("%w: %d", ErrInvalidShareIndex, s.X)
		}
		if _, ok := seen[s.X]; ok {
			return fmt.Errorf("%w: x = %d", ErrDuplicateXCoordinate, s.X)
		}
		seen[s.X] = struct{}{}
	}
	return nil
}

// Points validates the instance and decodes every share, keeping share order.
func (in *Instance) Points() ([]*Point, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	points := make([]*Point, len(in.Shares))
	for i, s := range in.Shares {
		p, err := s.Point()
		if err != nil {
			return nil, err
		}
		points[i] = p
	}
	return points, nil
}

// Reconstruct decodes the shares and returns the secret under the given policy.
func (in *Instance) Reconstruct(policy Policy) (*big.Int, error) {
	points, err := in.Points()
	if err != nil {
		return nil, err
	}
	switch policy {
	case PolicyFirstK:
		return ReconstructSecret(points, in.K)
	case PolicyVerify:
		return ReconstructVerified(points, in.K)
	case PolicyRecover:
		r, err := Recover(points, in.K)
		if err != nil {
			return nil, err
		}
		return r.Secret, nil
	}
	return nil, fmt.Errorf("unknown policy %s", policy)
}
