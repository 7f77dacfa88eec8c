package dds

import (
	"bytes"
	"encoding/binary"
	"testing"
)

// testHeader returns a header for a width x height surface with pf.
func testHeader(width, height uint32, pf PixelFormat) Header {
	pf.Size = PixelFormatSize
	return Header{
		Magic:       Magic,
		Size:        HeaderSize,
		Flags:       FlagCaps | FlagHeight | FlagWidth | FlagPixelFormat,
		Height:      height,
		Width:       width,
		Depth:       1,
		MipMapCount: 1,
		PixelFormat: pf,
		Caps:        CapsTexture,
	}
}

// fourCCFormat returns a pixel format naming a compression FourCC.
func fourCCFormat(code string) PixelFormat {
	return PixelFormat{
		Flags:  PFFourCC,
		FourCC: makeFourCC(code[0], code[1], code[2], code[3]),
	}
}

// rgbFormat returns an uncompressed pixel format.
func rgbFormat(bits, r, g, b, a uint32) PixelFormat {
	flags := uint32(PFRGB)
	if a != 0 {
		flags |= PFAlphaPixels
	}
	return PixelFormat{
		Flags:       flags,
		RGBBitCount: bits,
		RBitMask:    r,
		GBitMask:    g,
		BBitMask:    b,
		ABitMask:    a,
	}
}

// headerBytes serializes h as the 128-byte DDS prefix.
func headerBytes(h Header) []byte {
	words := []uint32{
		h.Magic, h.Size, h.Flags, h.Height, h.Width,
		h.PitchOrLinearSize, h.Depth, h.MipMapCount,
	}
	words = append(words, h.Reserved1[:]...)
	pf := h.PixelFormat
	words = append(words,
		pf.Size, pf.Flags, pf.FourCC, pf.RGBBitCount,
		pf.RBitMask, pf.GBitMask, pf.BBitMask, pf.ABitMask,
		h.Caps, h.Caps2, h.Caps3, h.Caps4, h.Reserved2,
	)

	buf := make([]byte, 0, 4*len(words))
	for _, w := range words {
		buf = binary.LittleEndian.AppendUint32(buf, w)
	}
	return buf
}

// ddsFile concatenates a serialized header and payload.
func ddsFile(h Header, payload []byte) []byte {
	var buf bytes.Buffer
	buf.Write(headerBytes(h))
	buf.Write(payload)
	return buf.Bytes()
}

// filled returns n copies of pattern.
func filled(n int, pattern ...byte) []byte {
	return bytes.Repeat(pattern, n)
}

// sentinelDecoder writes pixel to every position of the block footprint.
func sentinelDecoder(divSize int, pixel []byte) BlockDecoder {
	return func(_, dst []byte, offset, rowStride int) {
		for row := 0; row < divSize; row++ {
			for col := 0; col < divSize; col++ {
				copy(dst[offset+row*rowStride+col*len(pixel):], pixel)
			}
		}
	}
}

// indexDecoder fills every pixel of the block footprint with the first byte
// of the block, so the output shows which input block landed where.
func indexDecoder(divSize, depth int) BlockDecoder {
	return func(block, dst []byte, offset, rowStride int) {
		for row := 0; row < divSize; row++ {
			for col := 0; col < divSize; col++ {
				p := offset + row*rowStride + col*depth
				for k := 0; k < depth; k++ {
					dst[p+k] = block[0]
				}
			}
		}
	}
}

// indexedBlocks returns count blocks of blockBytes, block i filled with byte i+1.
func indexedBlocks(count, blockBytes int) []byte {
	out := make([]byte, 0, count*blockBytes)
	for i := 0; i < count; i++ {
		out = append(out, bytes.Repeat([]byte{byte(i + 1)}, blockBytes)...)
	}
	return out
}

func mustLoadInfo(t testing.TB, h Header, o Overrides) LoadInfo {
	t.Helper()

	info, err := NewLoadInfo(&h, o)
	if err != nil {
		t.Fatalf("NewLoadInfo: %v", err)
	}
	return info
}
