package dds

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/woozymasta/bcn"
)

const (
	// Magic is the little-endian "DDS " marker that starts every file.
	Magic = 0x20534444
	// HeaderSize is the size of the header body, excluding the magic.
	HeaderSize = 124
	// PixelFormatSize is the size of the nested pixel format structure.
	PixelFormatSize = 32

	prefixSize = 4 + HeaderSize
)

// Header flags.
const (
	FlagCaps        = 0x1
	FlagHeight      = 0x2
	FlagWidth       = 0x4
	FlagPitch       = 0x8
	FlagPixelFormat = 0x1000
	FlagMipMapCount = 0x20000
	FlagLinearSize  = 0x80000
	FlagDepth       = 0x800000
)

// Pixel format flags.
const (
	PFAlphaPixels = 0x1
	PFAlpha       = 0x2
	PFFourCC      = 0x4
	PFRGB         = 0x40
	PFYUV         = 0x200
	PFLuminance   = 0x20000
)

// Caps flags.
const (
	CapsComplex = 0x8
	CapsTexture = 0x1000
	CapsMipmap  = 0x400000
)

// PixelFormat describes how pixels of the surface are stored.
type PixelFormat struct {
	Size        uint32
	Flags       uint32
	FourCC      uint32
	RGBBitCount uint32
	RBitMask    uint32
	GBitMask    uint32
	BBitMask    uint32
	ABitMask    uint32
}

// Header is the parsed DDS header. It is not modified after ReadHeader returns.
type Header struct {
	Magic             uint32
	Size              uint32
	Flags             uint32
	Height            uint32
	Width             uint32
	PitchOrLinearSize uint32
	Depth             uint32
	MipMapCount       uint32
	Reserved1         [11]uint32
	PixelFormat       PixelFormat
	Caps              uint32
	Caps2             uint32
	Caps3             uint32
	Caps4             uint32
	Reserved2         uint32

	// DX10 is set when the pixel format FourCC is "DX10".
	DX10 *bcn.DDSHeaderDX10
}

// HasFourCC reports whether the pixel format names a compression FourCC.
func (h *Header) HasFourCC() bool {
	return h.PixelFormat.FourCC != 0
}

// ReadHeader reads the 128-byte DDS prefix from r and parses it.
// When the FourCC is "DX10" the 20-byte extension header is read as well.
func ReadHeader(r io.Reader) (*Header, error) {
	var buf [prefixSize]byte
	if n, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, fmt.Errorf("%w: got %d of %d bytes: %v", ErrHeaderRead, n, prefixSize, err)
	}

	h, err := ParseHeader(buf[:])
	if err != nil {
		return nil, err
	}

	if h.PixelFormat.FourCC == fourCCDX10 {
		dx10, err := bcn.ReadDDSHeaderDX10(r, h.bcnHeader())
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDX10Read, err)
		}
		if dx10 == nil {
			return nil, ErrDX10Read
		}
		h.DX10 = dx10
	}

	return h, nil
}

// ParseHeader parses a DDS header from the first 128 bytes of b.
// Bytes after the prefix are ignored; the DX10 extension is not parsed.
func ParseHeader(b []byte) (*Header, error) {
	if len(b) < prefixSize {
		return nil, fmt.Errorf("%w: got %d of %d bytes", ErrHeaderRead, len(b), prefixSize)
	}

	c := &cursor{buf: b[:prefixSize]}
	h := &Header{}

	if h.Magic = c.u32(); h.Magic != Magic {
		return nil, fmt.Errorf("%w: 0x%08x", ErrBadMagic, h.Magic)
	}
	if h.Size = c.u32(); h.Size != HeaderSize {
		return nil, fmt.Errorf("%w: %d", ErrBadHeaderSize, h.Size)
	}

	h.Flags = c.u32()
	h.Height = c.u32()
	h.Width = c.u32()
	h.PitchOrLinearSize = c.u32()
	h.Depth = c.u32()
	h.MipMapCount = c.u32()
	for i := range h.Reserved1 {
		h.Reserved1[i] = c.u32()
	}

	pf := &h.PixelFormat
	pf.Size = c.u32()
	pf.Flags = c.u32()
	pf.FourCC = c.u32()
	pf.RGBBitCount = c.u32()
	pf.RBitMask = c.u32()
	pf.GBitMask = c.u32()
	pf.BBitMask = c.u32()
	pf.ABitMask = c.u32()

	h.Caps = c.u32()
	h.Caps2 = c.u32()
	h.Caps3 = c.u32()
	h.Caps4 = c.u32()
	h.Reserved2 = c.u32()

	if c.err != nil {
		return nil, c.err
	}

	return h, nil
}

// bcnHeader converts the header for use with the bcn package.
func (h *Header) bcnHeader() *bcn.DDSHeader {
	hdr := &bcn.DDSHeader{
		Size:              h.Size,
		Flags:             h.Flags,
		Height:            h.Height,
		Width:             h.Width,
		PitchOrLinearSize: h.PitchOrLinearSize,
		Depth:             h.Depth,
		MipMapCount:       h.MipMapCount,
		Reserved1:         h.Reserved1,
		Caps:              h.Caps,
	}
	hdr.PixelFormat.Size = h.PixelFormat.Size
	hdr.PixelFormat.Flags = h.PixelFormat.Flags
	hdr.PixelFormat.FourCC = h.PixelFormat.FourCC
	hdr.PixelFormat.RGBBitCount = h.PixelFormat.RGBBitCount
	hdr.PixelFormat.RBitMask = h.PixelFormat.RBitMask
	hdr.PixelFormat.GBitMask = h.PixelFormat.GBitMask
	hdr.PixelFormat.BBitMask = h.PixelFormat.BBitMask
	hdr.PixelFormat.ABitMask = h.PixelFormat.ABitMask

	return hdr
}

// cursor extracts little-endian words from a validated buffer.
// The first read past the end records an error and yields zeros afterwards.
type cursor struct {
	buf []byte
	off int
	err error
}

func (c *cursor) u32() uint32 {
	if c.err != nil {
		return 0
	}
	if c.off+4 > len(c.buf) {
		c.err = fmt.Errorf("%w: read at offset %d past %d bytes", ErrHeaderRead, c.off, len(c.buf))
		return 0
	}

	v := binary.LittleEndian.Uint32(c.buf[c.off:])
	c.off += 4
	return v
}
