package dds

import (
	"fmt"
)

// ImageFormat tags the layout of a decoded pixel buffer.
// Multi-byte channels are stored in DDS memory order: Rgb24 is B, G, R and
// Rgba32 is B, G, R, A.
type ImageFormat int

const (
	FormatUnknown ImageFormat = iota
	// Rgb8 is a single 8-bit channel.
	Rgb8
	// R5g5b5 is 16-bit X1R5G5B5.
	R5g5b5
	// R5g6b5 is 16-bit R5G6B5.
	R5g6b5
	// R5g5b5a1 is 16-bit A1R5G5B5.
	R5g5b5a1
	// Rgba16 is 16-bit A4R4G4B4.
	Rgba16
	// Rgb24 is 24-bit B, G, R.
	Rgb24
	// Rgba32 is 32-bit B, G, R, A.
	Rgba32
)

// String returns the format name.
func (f ImageFormat) String() string {
	switch f {
	case Rgb8:
		return "Rgb8"
	case R5g5b5:
		return "R5g5b5"
	case R5g6b5:
		return "R5g6b5"
	case R5g5b5a1:
		return "R5g5b5a1"
	case Rgba16:
		return "Rgba16"
	case Rgb24:
		return "Rgb24"
	case Rgba32:
		return "Rgba32"
	default:
		return fmt.Sprintf("ImageFormat(%d)", int(f))
	}
}

// BytesPerPixel returns the storage size of one pixel, or 0 if unknown.
func (f ImageFormat) BytesPerPixel() int {
	switch f {
	case Rgb8:
		return 1
	case R5g5b5, R5g6b5, R5g5b5a1, Rgba16:
		return 2
	case Rgb24:
		return 3
	case Rgba32:
		return 4
	default:
		return 0
	}
}

// CompressionAlgorithm identifies the block compression of the payload.
type CompressionAlgorithm int

const (
	CompressionNone CompressionAlgorithm = iota
	CompressionDXT1
	CompressionDXT2
	CompressionDXT3
	CompressionDXT4
	CompressionDXT5
	CompressionBC4
	CompressionBC5
)

// String returns the algorithm name.
func (a CompressionAlgorithm) String() string {
	switch a {
	case CompressionNone:
		return "none"
	case CompressionDXT1:
		return "DXT1"
	case CompressionDXT2:
		return "DXT2"
	case CompressionDXT3:
		return "DXT3"
	case CompressionDXT4:
		return "DXT4"
	case CompressionDXT5:
		return "DXT5"
	case CompressionBC4:
		return "BC4"
	case CompressionBC5:
		return "BC5"
	default:
		return fmt.Sprintf("CompressionAlgorithm(%d)", int(a))
	}
}

var fourCCDX10 = makeFourCC('D', 'X', '1', '0')

// AlgorithmFromFourCC maps a pixel format FourCC to its compression algorithm.
// Zero means uncompressed; unknown codes are ErrUnknownFourCC.
func AlgorithmFromFourCC(fourCC uint32) (CompressionAlgorithm, error) {
	if fourCC == 0 {
		return CompressionNone, nil
	}

	switch FourCCString(fourCC) {
	case "DXT1":
		return CompressionDXT1, nil
	case "DXT2":
		return CompressionDXT2, nil
	case "DXT3":
		return CompressionDXT3, nil
	case "DXT4":
		return CompressionDXT4, nil
	case "DXT5":
		return CompressionDXT5, nil
	case "ATI1", "BC4U":
		return CompressionBC4, nil
	case "ATI2", "BC5U":
		return CompressionBC5, nil
	default:
		return CompressionNone, fmt.Errorf("%w: %q (0x%08x)", ErrUnknownFourCC, FourCCString(fourCC), fourCC)
	}
}

// dxgiFormat maps DX10 DXGI formats to an algorithm, or to an uncompressed
// 32-bit layout with its channel order.
func dxgiFormat(dxgi uint32) (alg CompressionAlgorithm, swap bool, err error) {
	switch dxgi {
	case 70, 71, 72:
		return CompressionDXT1, false, nil
	case 73, 74, 75:
		return CompressionDXT3, false, nil
	case 76, 77, 78:
		return CompressionDXT5, false, nil
	case 79, 80:
		return CompressionBC4, false, nil
	case 82, 83:
		return CompressionBC5, false, nil
	case 28, 29:
		return CompressionNone, true, nil
	case 87, 91:
		return CompressionNone, false, nil
	default:
		return CompressionNone, false, fmt.Errorf("%w: DXGI %d", ErrUnknownDXGIFormat, dxgi)
	}
}

// FourCCString renders a FourCC as its four characters.
func FourCCString(value uint32) string {
	return string([]byte{
		byte(value & 0xff),
		byte((value >> 8) & 0xff),
		byte((value >> 16) & 0xff),
		byte((value >> 24) & 0xff),
	})
}

func makeFourCC(a, b, c, d byte) uint32 {
	return uint32(a) | uint32(b)<<8 | uint32(c)<<16 | uint32(d)<<24
}

// Override holds an explicit value that replaces a header-derived default.
// The zero value derives.
type Override[T any] struct {
	value T
	set   bool
}

// Use returns an override forcing v.
func Use[T any](v T) Override[T] {
	return Override[T]{value: v, set: true}
}

// Or returns the override value if set, def otherwise.
func (o Override[T]) Or(def T) T {
	if o.set {
		return o.value
	}
	return def
}

// IsSet reports whether the override carries a value.
func (o Override[T]) IsSet() bool {
	return o.set
}

// Overrides replace header-derived layout decisions for uncompressed data,
// for callers that already know the intended layout.
type Overrides struct {
	BitsPerPixel Override[uint32]
	Swap         Override[bool]
}

// LoadInfo carries the decode parameters derived from a header.
type LoadInfo struct {
	Algorithm  CompressionAlgorithm
	Compressed bool
	// Swap requests a red/blue exchange after copying uncompressed pixels.
	Swap bool
	// DivSize is the block edge in pixels; 1 when uncompressed.
	DivSize int
	// BlockBytes is the compressed size of one block.
	BlockBytes int
	// Depth is the number of output bytes per pixel.
	Depth  int
	Format ImageFormat
	// Decoder decodes one block; nil when uncompressed.
	Decoder BlockDecoder
}

// validate checks the block geometry invariants.
func (li LoadInfo) validate() error {
	if li.Depth < 1 {
		return fmt.Errorf("%w: depth %d", ErrInvalidLoadInfo, li.Depth)
	}
	if !li.Compressed {
		if li.DivSize != 1 {
			return fmt.Errorf("%w: uncompressed div size %d", ErrInvalidLoadInfo, li.DivSize)
		}
		return nil
	}
	if li.DivSize < 1 || li.BlockBytes < 1 {
		return fmt.Errorf("%w: div size %d, block bytes %d", ErrInvalidLoadInfo, li.DivSize, li.BlockBytes)
	}
	if li.Decoder == nil {
		return fmt.Errorf("%w: %s", ErrNoBlockDecoder, li.Algorithm)
	}
	return nil
}

// NewLoadInfo derives decode parameters from h. Overrides apply to
// uncompressed layouts only.
func NewLoadInfo(h *Header, o Overrides) (LoadInfo, error) {
	if h.DX10 != nil {
		alg, swap, err := dxgiFormat(h.DX10.DXGIFormat)
		if err != nil {
			return LoadInfo{}, err
		}
		if alg != CompressionNone {
			return compressedLoadInfo(alg)
		}
		return uncompressedLoadInfo(h.PixelFormat, o.BitsPerPixel.Or(32), o.Swap.Or(swap))
	}

	alg, err := AlgorithmFromFourCC(h.PixelFormat.FourCC)
	if err != nil {
		return LoadInfo{}, err
	}
	if alg != CompressionNone {
		return compressedLoadInfo(alg)
	}

	pf := h.PixelFormat
	return uncompressedLoadInfo(pf, o.BitsPerPixel.Or(pf.RGBBitCount), o.Swap.Or(pf.RBitMask < pf.GBitMask))
}

func compressedLoadInfo(alg CompressionAlgorithm) (LoadInfo, error) {
	bf, ok := compressionTable[alg]
	if !ok {
		return LoadInfo{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, alg)
	}

	return LoadInfo{
		Algorithm:  alg,
		Compressed: true,
		DivSize:    bf.divSize,
		BlockBytes: bf.blockBytes,
		Depth:      bf.depth,
		Format:     Rgba32,
		Decoder:    bf.decoder,
	}, nil
}

func uncompressedLoadInfo(pf PixelFormat, bitsPerPixel uint32, swap bool) (LoadInfo, error) {
	var format ImageFormat
	switch bitsPerPixel {
	case 8:
		format = Rgb8
	case 16:
		format = sixteenBitFormat(pf)
	case 24:
		format = Rgb24
	case 32:
		format = Rgba32
	default:
		return LoadInfo{}, fmt.Errorf("%w: %d", ErrBitCount, bitsPerPixel)
	}

	return LoadInfo{
		Algorithm: CompressionNone,
		Swap:      swap,
		DivSize:   1,
		Depth:     format.BytesPerPixel(),
		Format:    format,
	}, nil
}

func sixteenBitFormat(pf PixelFormat) ImageFormat {
	if pf.ABitMask == 0xF000 && pf.RBitMask == 0xF00 && pf.GBitMask == 0xF0 && pf.BBitMask == 0xF {
		return Rgba16
	}
	if pf.Flags&PFAlphaPixels != 0 {
		return R5g5b5a1
	}
	if pf.GBitMask == 0x7E0 {
		return R5g6b5
	}
	return R5g5b5
}

// expectedDataLength returns the payload size of a width x height surface,
// counting partial edge blocks as full blocks.
func expectedDataLength(info LoadInfo, width, height int) int {
	if !info.Compressed {
		return width * height * info.Format.BytesPerPixel()
	}
	blocksW := (width + info.DivSize - 1) / info.DivSize
	blocksH := (height + info.DivSize - 1) / info.DivSize
	return blocksW * blocksH * info.BlockBytes
}
