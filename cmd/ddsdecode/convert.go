package main

import (
	"encoding/binary"
	"fmt"
	"image"

	"github.com/woozymasta/dds"
)

// toNRGBA converts a decoded surface into an image.NRGBA.
func toNRGBA(src *dds.Image) (*image.NRGBA, error) {
	bpp := src.Format.BytesPerPixel()
	if bpp == 0 {
		return nil, fmt.Errorf("cannot convert %s", src.Format)
	}
	if len(src.Data) != src.Width*src.Height*bpp {
		return nil, fmt.Errorf("pixel buffer is %d bytes, want %d", len(src.Data), src.Width*src.Height*bpp)
	}

	// 32-bit surfaces without an alpha channel carry undefined padding there.
	opaque := !src.Info.Compressed && src.Header != nil && src.Header.DX10 == nil &&
		src.Header.PixelFormat.Flags&dds.PFAlphaPixels == 0

	dst := image.NewNRGBA(image.Rect(0, 0, src.Width, src.Height))
	p := dst.Pix
	for i, o := 0, 0; i < len(src.Data); i, o = i+bpp, o+4 {
		px := src.Data[i : i+bpp]
		switch src.Format {
		case dds.Rgb8:
			p[o], p[o+1], p[o+2], p[o+3] = px[0], px[0], px[0], 0xff
		case dds.R5g5b5:
			v := binary.LittleEndian.Uint16(px)
			p[o], p[o+1], p[o+2], p[o+3] = expand5(v>>10), expand5(v>>5), expand5(v), 0xff
		case dds.R5g5b5a1:
			v := binary.LittleEndian.Uint16(px)
			p[o], p[o+1], p[o+2], p[o+3] = expand5(v>>10), expand5(v>>5), expand5(v), byte(v>>15)*0xff
		case dds.R5g6b5:
			v := binary.LittleEndian.Uint16(px)
			p[o], p[o+1], p[o+2], p[o+3] = expand5(v>>11), expand6(v>>5), expand5(v), 0xff
		case dds.Rgba16:
			v := binary.LittleEndian.Uint16(px)
			p[o], p[o+1], p[o+2], p[o+3] = expand4(v>>8), expand4(v>>4), expand4(v), expand4(v>>12)
		case dds.Rgb24:
			p[o], p[o+1], p[o+2], p[o+3] = px[2], px[1], px[0], 0xff
		case dds.Rgba32:
			a := px[3]
			if opaque {
				a = 0xff
			}
			p[o], p[o+1], p[o+2], p[o+3] = px[2], px[1], px[0], a
		}
	}

	return dst, nil
}

func expand4(v uint16) byte {
	return byte(v&0xf) * 0x11
}

func expand5(v uint16) byte {
	c := byte(v & 0x1f)
	return c<<3 | c>>2
}

func expand6(v uint16) byte {
	c := byte(v & 0x3f)
	return c<<2 | c>>4
}
