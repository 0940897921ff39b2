// Package nifti decodes single-file NIfTI-1 volumes, optionally gzip
// compressed, into a header and a raw voxel byte buffer.
package nifti

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"niftislice/internal/models"
)

// HeaderSize is the size of a NIfTI-1 header in bytes
const HeaderSize = 348

const magicOffset = 344

var (
	// ErrFormat is returned when the input is not a decodable NIfTI-1 volume
	ErrFormat = errors.New("not a NIFTI image")

	// ErrDetachedImage is returned for .hdr/.img pairs, whose voxels are not
	// stored in the same buffer as the header
	ErrDetachedImage = errors.New("detached header/image pair not supported")
)

var gzipMagic = []byte{0x1f, 0x8b}

// IsCompressed reports whether data starts with a gzip member header
func IsCompressed(data []byte) bool {
	return bytes.HasPrefix(data, gzipMagic)
}

// Decompress inflates gzip compressed data
func Decompress(data []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	defer zr.Close()

	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("%w: decompress: %v", ErrFormat, err)
	}
	return out, nil
}

// IsNIFTI reports whether data carries a NIfTI-1 magic string
func IsNIFTI(data []byte) bool {
	if len(data) < HeaderSize {
		return false
	}
	m := data[magicOffset : magicOffset+4]
	return m[0] == 'n' && (m[1] == '+' || m[1] == 'i') && m[2] == '1' && m[3] == 0
}

// isSingleFile reports whether the magic is "n+1", meaning the voxels
// follow the header in the same buffer
func isSingleFile(data []byte) bool {
	return data[magicOffset+1] == '+'
}

// byteOrder detects the header byte order from sizeof_hdr, falling back to
// the sanity range of dim[0]
func byteOrder(data []byte) (binary.ByteOrder, error) {
	if binary.LittleEndian.Uint32(data[0:4]) == HeaderSize {
		return binary.LittleEndian, nil
	}
	if binary.BigEndian.Uint32(data[0:4]) == HeaderSize {
		return binary.BigEndian, nil
	}
	for _, order := range []binary.ByteOrder{binary.LittleEndian, binary.BigEndian} {
		if d := int16(order.Uint16(data[40:42])); d >= 1 && d <= 7 {
			return order, nil
		}
	}
	return nil, fmt.Errorf("%w: cannot determine byte order", ErrFormat)
}

// ReadHeader decodes the NIfTI-1 header fields at the start of data
func ReadHeader(data []byte) (*models.Header, error) {
	if !IsNIFTI(data) {
		return nil, ErrFormat
	}
	order, err := byteOrder(data)
	if err != nil {
		return nil, err
	}

	h := &models.Header{ByteOrder: order}
	for i := 0; i < 8; i++ {
		h.Dims[i] = int(int16(order.Uint16(data[40+2*i:])))
		h.PixDim[i] = float64(math.Float32frombits(order.Uint32(data[76+4*i:])))
	}
	if h.Dims[0] < 1 || h.Dims[0] > 7 {
		return nil, fmt.Errorf("%w: invalid dimension count %d", ErrFormat, h.Dims[0])
	}
	// unused trailing dimensions are allowed to be 0
	for i := h.Dims[0] + 1; i < 8; i++ {
		if h.Dims[i] < 1 {
			h.Dims[i] = 1
		}
	}
	for i := 1; i <= h.Dims[0] && i <= 3; i++ {
		if h.Dims[i] < 1 {
			return nil, fmt.Errorf("%w: invalid extent dim[%d]=%d", ErrFormat, i, h.Dims[i])
		}
	}

	h.Datatype = models.Datatype(int16(order.Uint16(data[70:72])))
	h.BitPix = int(int16(order.Uint16(data[72:74])))
	h.VoxOffset = int(math.Float32frombits(order.Uint32(data[108:112])))
	h.SclSlope = float64(math.Float32frombits(order.Uint32(data[112:116])))
	h.SclInter = float64(math.Float32frombits(order.Uint32(data[116:120])))
	h.Description = strings.TrimRight(string(data[148:228]), "\x00 ")

	return h, nil
}

// ReadImage returns the raw voxel bytes described by h. The result is
// truncated when data ends early.
func ReadImage(h *models.Header, data []byte) ([]byte, error) {
	if !IsNIFTI(data) {
		return nil, ErrFormat
	}
	if !isSingleFile(data) {
		return nil, ErrDetachedImage
	}

	offset := h.VoxOffset
	if offset < HeaderSize {
		offset = HeaderSize
	}
	if offset > len(data) {
		return nil, fmt.Errorf("%w: voxel offset %d past end of data (%d bytes)", ErrFormat, offset, len(data))
	}

	// unknown datatypes fall back to bitpix so the caller can reject the code
	elemSize := h.Datatype.Size()
	if elemSize == 0 {
		if h.BitPix < 0 {
			return nil, fmt.Errorf("%w: invalid bitpix %d", ErrFormat, h.BitPix)
		}
		elemSize = h.BitPix / 8
	}
	end := offset + h.VoxelCount()*elemSize
	if end < offset || end > len(data) {
		end = len(data)
	}
	return data[offset:end], nil
}

// Decode runs the full decode sequence on a file's contents
func Decode(data []byte) (*models.Header, []byte, error) {
	if IsCompressed(data) {
		var err error
		if data, err = Decompress(data); err != nil {
			return nil, nil, err
		}
	}
	if !IsNIFTI(data) {
		return nil, nil, ErrFormat
	}

	h, err := ReadHeader(data)
	if err != nil {
		return nil, nil, err
	}
	img, err := ReadImage(h, data)
	if err != nil {
		return nil, nil, err
	}
	return h, img, nil
}

// ReadFile reads and decodes a .nii or .nii.gz file
func ReadFile(path string) (*models.Header, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("error reading %s: %w", path, err)
	}
	return Decode(data)
}
