// Package niftitest builds in-memory NIfTI-1 files for tests.
package niftitest

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"math"

	"niftislice/internal/models"
)

// Build returns a single-file ("n+1") NIfTI-1 image with the given extents,
// datatype and voxel payload, using a 352 byte voxel offset.
func Build(x, y, z int, dt models.Datatype, order binary.ByteOrder, payload []byte) []byte {
	buf := make([]byte, 352, 352+len(payload))

	order.PutUint32(buf[0:], 348)
	dims := []int16{3, int16(x), int16(y), int16(z), 1, 1, 1, 1}
	for i, d := range dims {
		order.PutUint16(buf[40+2*i:], uint16(d))
	}
	order.PutUint16(buf[70:], uint16(dt))
	order.PutUint16(buf[72:], uint16(dt.Size()*8))
	for i := 0; i < 8; i++ {
		order.PutUint32(buf[76+4*i:], math.Float32bits(1))
	}
	order.PutUint32(buf[108:], math.Float32bits(352))
	order.PutUint32(buf[112:], math.Float32bits(1))
	copy(buf[148:], "niftitest")
	copy(buf[344:], "n+1\x00")

	return append(buf, payload...)
}

// Uint8Volume builds a uint8 volume whose voxels are 0, 1, 2, ...
func Uint8Volume(x, y, z int) []byte {
	payload := make([]byte, x*y*z)
	for i := range payload {
		payload[i] = byte(i)
	}
	return Build(x, y, z, models.DatatypeUint8, binary.LittleEndian, payload)
}

// Int16Payload encodes values as int16 samples
func Int16Payload(order binary.AppendByteOrder, values ...int16) []byte {
	out := make([]byte, 0, 2*len(values))
	for _, v := range values {
		out = order.AppendUint16(out, uint16(v))
	}
	return out
}

// Gzip compresses data
func Gzip(data []byte) []byte {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, _ = zw.Write(data)
	_ = zw.Close()
	return buf.Bytes()
}
