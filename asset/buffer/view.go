package buffer

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"golang.org/x/exp/constraints"
)

// Size in bytes of a view element.
const ElementSize = 4

var (
	ErrMisaligned  = errors.New("buffer: byte offset is not aligned to the element size")
	ErrOutOfBounds = errors.New("buffer: view exceeds the backing buffer")
)

// Element lists the types that can be stored in a View. They match the
// float and integer texture formats used by the renderer.
type Element interface {
	float32 | uint32
}

// A View provides typed, little-endian access to a window of a shared byte
// buffer. Multiple views may alias the same backing buffer.
type View[T Element] struct {
	buf        []byte
	byteOffset int
	length     int
}

// Create a view over length elements of buf starting at byteOffset.
func NewView[T Element](buf []byte, byteOffset, length int) (*View[T], error) {
	v := &View[T]{buf: buf}
	if err := v.Shift(byteOffset, length); err != nil {
		return nil, err
	}
	return v, nil
}

// Allocate a zeroed buffer holding length elements and return a view over it.
func Alloc[T Element](length int) *View[T] {
	return &View[T]{
		buf:    make([]byte, length*ElementSize),
		length: length,
	}
}

// Move the view to a new window of the backing buffer.
func (v *View[T]) Shift(byteOffset, length int) error {
	if byteOffset < 0 || length < 0 {
		return fmt.Errorf("%w (offset %d, length %d)", ErrOutOfBounds, byteOffset, length)
	}
	if Align(byteOffset, ElementSize) != byteOffset {
		return fmt.Errorf("%w (offset %d)", ErrMisaligned, byteOffset)
	}
	if byteOffset+length*ElementSize > len(v.buf) {
		return fmt.Errorf("%w (offset %d, length %d, buffer size %d)", ErrOutOfBounds, byteOffset, length, len(v.buf))
	}

	v.byteOffset = byteOffset
	v.length = length
	return nil
}

// Number of elements in the view.
func (v *View[T]) Len() int {
	return v.length
}

// Offset of the first element in the backing buffer.
func (v *View[T]) ByteOffset() int {
	return v.byteOffset
}

// Size of the view in bytes.
func (v *View[T]) ByteLength() int {
	return v.length * ElementSize
}

// Get the bytes covered by the view. The returned slice aliases the
// backing buffer.
func (v *View[T]) Bytes() []byte {
	return v.buf[v.byteOffset : v.byteOffset+v.ByteLength()]
}

// Read the element at index. Panics if index is out of range.
func (v *View[T]) Read(index int) T {
	if index < 0 || index >= v.length {
		panic(fmt.Sprintf("buffer: index %d out of range [0, %d)", index, v.length))
	}

	bits := binary.LittleEndian.Uint32(v.buf[v.byteOffset+index*ElementSize:])
	var out T
	switch p := any(&out).(type) {
	case *float32:
		*p = math.Float32frombits(bits)
	case *uint32:
		*p = bits
	}
	return out
}

// Write value at index. Returns false without modifying the buffer if index
// is out of range.
func (v *View[T]) Write(index int, value T) bool {
	if index < 0 || index >= v.length {
		return false
	}

	var bits uint32
	switch val := any(value).(type) {
	case float32:
		bits = math.Float32bits(val)
	case uint32:
		bits = val
	}
	binary.LittleEndian.PutUint32(v.buf[v.byteOffset+index*ElementSize:], bits)
	return true
}

// Set all view elements to value.
func (v *View[T]) Fill(value T) {
	for index := 0; index < v.length; index++ {
		v.Write(index, value)
	}
}

// Copy values into the view starting at index 0. Returns the number of
// copied elements.
func (v *View[T]) Set(values []T) int {
	count := len(values)
	if count > v.length {
		count = v.length
	}
	for index := 0; index < count; index++ {
		v.Write(index, values[index])
	}
	return count
}

// Copy the view contents into a new slice.
func (v *View[T]) Values() []T {
	out := make([]T, v.length)
	for index := range out {
		out[index] = v.Read(index)
	}
	return out
}

// Encode values into a new little-endian byte slice.
func Encode[T Element](values []T) []byte {
	v := Alloc[T](len(values))
	v.Set(values)
	return v.buf
}

// Decode a little-endian byte slice produced by Encode.
func Decode[T Element](data []byte) ([]T, error) {
	if len(data)%ElementSize != 0 {
		return nil, fmt.Errorf("buffer: data length %d is not a multiple of %d", len(data), ElementSize)
	}

	v, err := NewView[T](data, 0, len(data)/ElementSize)
	if err != nil {
		return nil, err
	}
	return v.Values(), nil
}

// Round value up to the next multiple of alignment.
func Align[T constraints.Integer](value, alignment T) T {
	if alignment <= 0 {
		return value
	}
	if rem := value % alignment; rem != 0 {
		return value + alignment - rem
	}
	return value
}
