package shamir

import (
	"bytes"
	"fmt"

	"github.com/izouxv/goShamir/utils"
)

// MarshalPoint serializes a point into a byte slice.
func MarshalPoint(p *Point) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := utils.WriteBigInt(buf, p.X); err != nil {
		return nil, err
	}
	if err := utils.WriteBigInt(buf, p.Y); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalPoint deserializes a byte slice into a point.
func UnmarshalPoint(data []byte) (*Point, error) {
	buf := bytes.NewBuffer(data)

	x, err := utils.ReadBigInt(buf)
	if err != nil {
		return nil, fmt.Errorf("failed to read X value: %w", err)
	}
	y, err := utils.ReadBigInt(buf)
	if err != nil {
		return nil, fmt.Errorf("failed to read Y value: %w", err)
	}
	if buf.Len() != 0 {
		return nil, fmt.Errorf("%d trailing bytes after point", buf.Len())
	}
	return &Point{X: x, Y: y}, nil
}

// Fingerprint identifies a point set in logs. It depends on point order.
func Fingerprint(points []*Point) (string, error) {
	buf := bytes.NewBuffer(nil)
	for _, p := range points {
		data, err := MarshalPoint(p)
		if err != nil {
			return "", err
		}
		if err := utils.WriteVarBytes(buf, data); err != nil {
			return "", err
		}
	}
	return utils.ShortHash(buf.Bytes())
}

// MarshalInstance serializes the sharing parameters and the encoded shares.
// The ID is not included.
func MarshalInstance(in *Instance) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	for _, v := range []int64{int64(in.N), int64(in.K), int64(len(in.Shares))} {
		if err := utils.WriteVarInt(buf, v); err != nil {
			return nil, err
		}
	}
	for _, s := range in.Shares {
		if err := utils.WriteVarInt(buf, s.X); err != nil {
			return nil, err
		}
		if err := utils.WriteVarInt(buf, int64(s.Base)); err != nil {
			return nil, err
		}
		if err := utils.WriteVarBytes(buf, []byte(s.Value)); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// UnmarshalInstance is the inverse of MarshalInstance.
func UnmarshalInstance(data []byte) (*Instance, error) {
	buf := bytes.NewBuffer(data)

	var header [3]int64
	for i := range header {
		v, _, err := utils.ReadVarInt(buf)
		if err != nil {
			return nil, fmt.Errorf("failed to read instance header: %w", err)
		}
		header[i] = v
	}
	count := header[2]
	if count < 0 || count > int64(len(data)) {
		return nil, fmt.Errorf("invalid share count %d", count)
	}

	in := &Instance{N: int(header[0]), K: int(header[1]), Shares: make([]Share, count)}
	for i := range in.Shares {
		x, _, err := utils.ReadVarInt(buf)
		if err != nil {
			return nil, fmt.Errorf("share %d: failed to read X: %w", i, err)
		}
		base, _, err := utils.ReadVarInt(buf)
		if err != nil {
			return nil, fmt.Errorf("share %d: failed to read base: %w", i, err)
		}
		value, _, err := utils.ReadVarBytes(buf)
		if err != nil {
			return nil, fmt.Errorf("share %d: failed to read value: %w", i, err)
		}
		in.Shares[i] = Share{X: x, Base: int(base), Value: string(value)}
	}
	if buf.Len() != 0 {
		return nil, fmt.Errorf("%d trailing bytes after instance", buf.Len())
	}
	return in, nil
}
