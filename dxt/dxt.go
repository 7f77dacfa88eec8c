// Package dxt decodes single S3TC (DXT1-DXT5) blocks in place.
//
// Every decoder writes a 4x4 block of B, G, R, A pixels into a caller-owned
// raster at offset + row*rowStride + col*4. Nothing outside that footprint is
// written and no reference to either buffer is kept.
package dxt

import "encoding/binary"

const (
	// BlockSize is the block edge in pixels.
	BlockSize = 4
	// PixelDepth is the number of bytes written per pixel.
	PixelDepth = 4

	// DXT1BlockBytes is the size of a DXT1 block.
	DXT1BlockBytes = 8
	// DXT3BlockBytes is the size of a DXT2/DXT3 block.
	DXT3BlockBytes = 16
	// DXT5BlockBytes is the size of a DXT4/DXT5 block.
	DXT5BlockBytes = 16
)

// palette holds four B, G, R, A colors.
type palette [4][4]byte

// DecodeDXT1 decodes an 8-byte DXT1 block. When the first endpoint is not
// greater than the second, index 3 is transparent black.
func DecodeDXT1(block, dst []byte, offset, rowStride int) {
	_ = block[DXT1BlockBytes-1]

	c0 := binary.LittleEndian.Uint16(block[0:])
	c1 := binary.LittleEndian.Uint16(block[2:])
	indices := binary.LittleEndian.Uint32(block[4:])

	pal := colorPalette(c0, c1, c0 > c1)
	for i := range pal {
		pal[i][3] = 0xff
	}
	if c0 <= c1 {
		pal[3] = [4]byte{}
	}

	for row := 0; row < BlockSize; row++ {
		p := offset + row*rowStride
		for col := 0; col < BlockSize; col++ {
			c := pal[indices&0x3]
			indices >>= 2
			dst[p], dst[p+1], dst[p+2], dst[p+3] = c[0], c[1], c[2], c[3]
			p += PixelDepth
		}
	}
}

// DecodeDXT3 decodes a 16-byte DXT3 block: 4-bit explicit alpha followed by
// a four-color DXT1-style color block.
func DecodeDXT3(block, dst []byte, offset, rowStride int) {
	_ = block[DXT3BlockBytes-1]

	alpha := binary.LittleEndian.Uint64(block[0:])
	c0 := binary.LittleEndian.Uint16(block[8:])
	c1 := binary.LittleEndian.Uint16(block[10:])
	indices := binary.LittleEndian.Uint32(block[12:])

	pal := colorPalette(c0, c1, true)
	for row := 0; row < BlockSize; row++ {
		p := offset + row*rowStride
		for col := 0; col < BlockSize; col++ {
			c := pal[indices&0x3]
			indices >>= 2
			a := byte(alpha & 0xf)
			alpha >>= 4
			dst[p], dst[p+1], dst[p+2], dst[p+3] = c[0], c[1], c[2], a<<4|a
			p += PixelDepth
		}
	}
}

// DecodeDXT5 decodes a 16-byte DXT5 block: two alpha endpoints with 3-bit
// indices followed by a four-color DXT1-style color block.
func DecodeDXT5(block, dst []byte, offset, rowStride int) {
	_ = block[DXT5BlockBytes-1]

	alphas := alphaPalette(block[0], block[1])
	var alphaBits uint64
	for i := 0; i < 6; i++ {
		alphaBits |= uint64(block[2+i]) << (8 * i)
	}

	c0 := binary.LittleEndian.Uint16(block[8:])
	c1 := binary.LittleEndian.Uint16(block[10:])
	indices := binary.LittleEndian.Uint32(block[12:])

	pal := colorPalette(c0, c1, true)
	for row := 0; row < BlockSize; row++ {
		p := offset + row*rowStride
		for col := 0; col < BlockSize; col++ {
			c := pal[indices&0x3]
			indices >>= 2
			a := alphas[alphaBits&0x7]
			alphaBits >>= 3
			dst[p], dst[p+1], dst[p+2], dst[p+3] = c[0], c[1], c[2], a
			p += PixelDepth
		}
	}
}

// colorPalette expands two RGB565 endpoints. fourColor selects the 1/3, 2/3
// interpolation; otherwise index 2 is the midpoint and index 3 is black.
// Alpha is left zero.
func colorPalette(c0, c1 uint16, fourColor bool) palette {
	var pal palette
	b0, g0, r0 := expand565(c0)
	b1, g1, r1 := expand565(c1)

	pal[0] = [4]byte{b0, g0, r0, 0}
	pal[1] = [4]byte{b1, g1, r1, 0}
	if fourColor {
		pal[2] = [4]byte{lerp(b0, b1, 2, 1, 3), lerp(g0, g1, 2, 1, 3), lerp(r0, r1, 2, 1, 3), 0}
		pal[3] = [4]byte{lerp(b0, b1, 1, 2, 3), lerp(g0, g1, 1, 2, 3), lerp(r0, r1, 1, 2, 3), 0}
	} else {
		pal[2] = [4]byte{lerp(b0, b1, 1, 1, 2), lerp(g0, g1, 1, 1, 2), lerp(r0, r1, 1, 1, 2), 0}
	}

	return pal
}

func alphaPalette(a0, a1 byte) [8]byte {
	pal := [8]byte{a0, a1}
	if a0 > a1 {
		for i := 1; i <= 6; i++ {
			pal[1+i] = lerp(a0, a1, 7-i, i, 7)
		}
	} else {
		for i := 1; i <= 4; i++ {
			pal[1+i] = lerp(a0, a1, 5-i, i, 5)
		}
		pal[6] = 0
		pal[7] = 0xff
	}

	return pal
}

// expand565 unpacks an RGB565 color with bit replication.
func expand565(c uint16) (b, g, r byte) {
	r5 := byte(c >> 11 & 0x1f)
	g6 := byte(c >> 5 & 0x3f)
	b5 := byte(c & 0x1f)

	return b5<<3 | b5>>2, g6<<2 | g6>>4, r5<<3 | r5>>2
}

func lerp(a, b byte, wa, wb, div int) byte {
	return byte((wa*int(a) + wb*int(b)) / div)
}
