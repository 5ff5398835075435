package utils

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math/big"
)

// MaxVarBytes bounds the length prefix accepted by ReadVarBytes.
const MaxVarBytes = 1 << 24

var (
	// ErrLengthOutOfRange is returned for a negative or oversized length prefix.
	ErrLengthOutOfRange = errors.New("length prefix out of range")
	// ErrInvalidSign is returned when a big-int sign byte is neither 0 nor 1.
	ErrInvalidSign = errors.New("invalid sign byte")
)

type readByte struct {
	in   io.Reader
	read int
}

func (s *readByte) ReadByte() (byte, error) {
	var data [1]byte
	_, err := io.ReadFull(s.in, data[:])
	if err != nil {
		return 0, err
	}
	s.read++
	return data[0], nil
}

// ReadVarInt reads a zig-zag varint and reports how many bytes it took.
func ReadVarInt(r io.Reader) (num int64, n int64, err error) {
	rb := &readByte{in: r}
	num, err = binary.ReadVarint(rb)
	return num, int64(rb.read), err
}

// WriteVarInt writes num as a zig-zag varint.
func WriteVarInt(w io.Writer, num int64) error {
	var buf [binary.MaxVarintLen64]byte
	n := binary.PutVarint(buf[:], num)
	_, err := w.Write(buf[:n])
	return err
}

// ReadVarBytes reads a length-prefixed byte slice.
func ReadVarBytes(r io.Reader) (data []byte, varIntLen int, err error) {
	num, n, err := ReadVarInt(r)
	if err != nil {
		return nil, 0, err
	}
	if num < 0 || num > MaxVarBytes {
		return nil, int(n), fmt.Errorf("%w: %d", ErrLengthOutOfRange, num)
	}
	data = make([]byte, num)
	_, err = io.ReadFull(r, data)
	return data, int(n), err
}

// WriteVarBytes writes data prefixed by its length.
func WriteVarBytes(w io.Writer, data []byte) error {
	if err := WriteVarInt(w, int64(len(data))); err != nil {
		return err
	}
	_, err := w.Write(data)
	return err
}

// WriteBigInt writes a sign byte followed by the length-prefixed magnitude.
func WriteBigInt(w io.Writer, v *big.Int) error {
	sign := byte(0)
	if v.Sign() < 0 {
		sign = 1
	}
	if _, err := w.Write([]byte{sign}); err != nil {
		return err
	}
	return WriteVarBytes(w, v.Bytes())
}

// ReadBigInt is the inverse of WriteBigInt.
func ReadBigInt(r io.Reader) (*big.Int, error) {
	var sign [1]byte
	if _, err := io.ReadFull(r, sign[:]); err != nil {
		return nil, err
	}
	if sign[0] > 1 {
		return nil, fmt.Errorf("%w: %#x", ErrInvalidSign, sign[0])
	}
	mag, _, err := ReadVarBytes(r)
	if err != nil {
		return nil, err
	}
	v := new(big.Int).SetBytes(mag)
	if sign[0] == 1 {
		v.Neg(v)
	}
	return v, nil
}
