package dds

import (
	"image"
	"image/color"

	"github.com/woozymasta/bcn"

	"github.com/woozymasta/dds/dxt"
)

// BlockDecoder decodes one compressed block into dst. It writes DivSize x
// DivSize pixels of Depth bytes at offset + row*rowStride + col*Depth and
// must not touch dst outside that footprint or keep block or dst after
// returning.
type BlockDecoder func(block, dst []byte, offset, rowStride int)

type blockFormat struct {
	divSize    int
	blockBytes int
	depth      int
	decoder    BlockDecoder
}

// compressionTable lists the geometry and decoder of every supported algorithm.
// DXT2 and DXT4 store premultiplied alpha, which is passed through as is.
var compressionTable = map[CompressionAlgorithm]blockFormat{
	CompressionDXT1: {divSize: dxt.BlockSize, blockBytes: dxt.DXT1BlockBytes, depth: dxt.PixelDepth, decoder: dxt.DecodeDXT1},
	CompressionDXT2: {divSize: dxt.BlockSize, blockBytes: dxt.DXT3BlockBytes, depth: dxt.PixelDepth, decoder: dxt.DecodeDXT3},
	CompressionDXT3: {divSize: dxt.BlockSize, blockBytes: dxt.DXT3BlockBytes, depth: dxt.PixelDepth, decoder: dxt.DecodeDXT3},
	CompressionDXT4: {divSize: dxt.BlockSize, blockBytes: dxt.DXT5BlockBytes, depth: dxt.PixelDepth, decoder: dxt.DecodeDXT5},
	CompressionDXT5: {divSize: dxt.BlockSize, blockBytes: dxt.DXT5BlockBytes, depth: dxt.PixelDepth, decoder: dxt.DecodeDXT5},
	CompressionBC4:  {divSize: 4, blockBytes: 8, depth: 4, decoder: bcnBlockDecoder(bcn.FormatBC4)},
	CompressionBC5:  {divSize: 4, blockBytes: 16, depth: 4, decoder: bcnBlockDecoder(bcn.FormatBC5)},
}

// bcnBlockDecoder adapts the bcn image decoder to a single 4x4 block.
// bcn only fails on a short payload, which the engine never passes; on
// failure the footprint is left untouched.
func bcnBlockDecoder(format bcn.Format) BlockDecoder {
	return func(block, dst []byte, offset, rowStride int) {
		img, err := bcn.DecodeImageWithOptions(block, 4, 4, format, nil)
		if err != nil {
			return
		}
		putBGRA(img, dst, offset, rowStride)
	}
}

// putBGRA writes img into dst as B, G, R, A pixels.
func putBGRA(img image.Image, dst []byte, offset, rowStride int) {
	b := img.Bounds()
	if nrgba, ok := img.(*image.NRGBA); ok {
		for y := 0; y < b.Dy(); y++ {
			src := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+b.Dx()*4]
			p := offset + y*rowStride
			for i := 0; i < len(src); i += 4 {
				dst[p], dst[p+1], dst[p+2], dst[p+3] = src[i+2], src[i+1], src[i], src[i+3]
				p += 4
			}
		}
		return
	}

	for y := 0; y < b.Dy(); y++ {
		p := offset + y*rowStride
		for x := 0; x < b.Dx(); x++ {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			dst[p], dst[p+1], dst[p+2], dst[p+3] = c.B, c.G, c.R, c.A
			p += 4
		}
	}
}
