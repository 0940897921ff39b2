// Package normalize converts raw voxel buffers of any supported NIfTI
// datatype into 8-bit grayscale intensities.
package normalize

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"niftislice/internal/models"
)

var (
	// ErrEmptyInput is returned when there are no samples to normalize
	ErrEmptyInput = errors.New("empty input")

	// ErrUnsupportedDatatype is returned for datatype codes outside the
	// eight scalar kinds the viewer can display
	ErrUnsupportedDatatype = errors.New("unsupported datatype")
)

// Normalize rescales samples linearly into [0,255].
//
// The divisor is max+1-min, so the largest sample stays strictly below 256
// before truncation and no clamp is needed. A constant buffer maps to all
// zeros. NaN samples map to 0.
func Normalize(samples []float64) ([]uint8, error) {
	if len(samples) == 0 {
		return nil, ErrEmptyInput
	}

	min, max := Range(samples)
	factor := 256 / (max + 1 - min)

	out := make([]uint8, len(samples))
	for i, v := range samples {
		scaled := math.Trunc((v - min) * factor)
		switch {
		case math.IsNaN(scaled), scaled <= 0:
			out[i] = 0
		case scaled >= 255:
			out[i] = 255
		default:
			out[i] = uint8(scaled)
		}
	}
	return out, nil
}

// Range returns the minimum and maximum of a non-empty buffer
func Range(samples []float64) (min, max float64) {
	return floats.Min(samples), floats.Max(samples)
}

// Decode reinterprets raw bytes as samples of the given datatype. Bytes
// past the last whole element are ignored.
func Decode(raw []byte, dt models.Datatype, order binary.ByteOrder) ([]float64, error) {
	size := dt.Size()
	if size == 0 {
		return nil, fmt.Errorf("%w: code %d", ErrUnsupportedDatatype, int(dt))
	}
	if order == nil {
		order = binary.LittleEndian
	}

	n := len(raw) / size
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		b := raw[i*size : (i+1)*size]
		switch dt {
		case models.DatatypeUint8:
			out[i] = float64(b[0])
		case models.DatatypeInt8:
			out[i] = float64(int8(b[0]))
		case models.DatatypeUint16:
			out[i] = float64(order.Uint16(b))
		case models.DatatypeInt16:
			out[i] = float64(int16(order.Uint16(b)))
		case models.DatatypeUint32:
			out[i] = float64(order.Uint32(b))
		case models.DatatypeInt32:
			out[i] = float64(int32(order.Uint32(b)))
		case models.DatatypeFloat32:
			out[i] = float64(math.Float32frombits(order.Uint32(b)))
		case models.DatatypeFloat64:
			out[i] = math.Float64frombits(order.Uint64(b))
		}
	}
	return out, nil
}
