package dds

import (
	"errors"
	"fmt"
	"io"
)

// DecodeBlocks decodes block-compressed pixel data from r into a new
// width*height*info.Depth raster.
//
// Input is consumed one row of blocks (a stride) at a time through a bounded
// working buffer, so r may return short reads. Dimensions that are not a
// multiple of the block size are padded: edge blocks are read in full and
// only their visible pixels are stored. Bytes after the last stride are left
// unread in the working buffer and must not be relied on by the caller.
func DecodeBlocks(r io.Reader, width, height int, info LoadInfo, opts *DecodeOptions) ([]byte, error) {
	if !info.Compressed {
		return nil, fmt.Errorf("%w: %s is not block compressed", ErrInvalidLoadInfo, info.Format)
	}
	if err := info.validate(); err != nil {
		return nil, err
	}

	size, err := rasterSize(width, height, info.Depth)
	if err != nil {
		return nil, err
	}

	div := info.DivSize
	depth := info.Depth
	rowStride := width * depth
	blocksPerStride := (width + div - 1) / div
	bytesPerStride := blocksPerStride * info.BlockBytes
	fullBlocks := width / div

	out := make([]byte, size)

	// The working buffer must hold at least one full stride.
	bufSize := opts.bufferSize()
	if bufSize < bytesPerStride {
		bufSize = bytesPerStride
	}
	buf := make([]byte, bufSize)

	// scratch receives edge blocks that would overflow the raster.
	var scratch []byte
	if fullBlocks != blocksPerStride || height%div != 0 {
		scratch = make([]byte, div*div*depth)
	}

	pixelsLeft := width * height
	bytesRemaining := 0
	bIndex := 0
	rowBase := 0

	for pixelsLeft > 0 {
		if bytesRemaining < bytesPerStride {
			copy(buf, buf[bIndex:bIndex+bytesRemaining])
			bIndex = 0

			n, err := io.ReadAtLeast(r, buf[bytesRemaining:], bytesPerStride-bytesRemaining)
			bytesRemaining += n
			if err != nil {
				if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
					return nil, fmt.Errorf("%w: have %d of %d bytes, %d pixels left",
						ErrStrideTruncated, bytesRemaining, bytesPerStride, pixelsLeft)
				}
				return nil, fmt.Errorf("%w: %v", ErrTruncatedInput, err)
			}
		}

		rows := div
		if left := pixelsLeft / width; left < rows {
			rows = left
		}

		rgbIndex := rowBase
		for i := 0; i < blocksPerStride; i++ {
			block := buf[bIndex : bIndex+info.BlockBytes]
			if i < fullBlocks && rows == div {
				info.Decoder(block, out, rgbIndex, rowStride)
			} else {
				cols := width - i*div
				if cols > div {
					cols = div
				}
				decodeEdgeBlock(info, block, scratch, out, rgbIndex, rowStride, cols, rows)
			}

			bIndex += info.BlockBytes
			rgbIndex += div * depth
		}

		pixelsLeft -= width * rows
		bytesRemaining -= bytesPerStride
		rowBase += rowStride * rows
	}

	return out, nil
}

// decodeEdgeBlock decodes a block into scratch and copies its visible
// cols x rows corner into out.
func decodeEdgeBlock(info LoadInfo, block, scratch, out []byte, offset, rowStride, cols, rows int) {
	tileStride := info.DivSize * info.Depth
	clear(scratch)
	info.Decoder(block, scratch, 0, tileStride)

	n := cols * info.Depth
	for row := 0; row < rows; row++ {
		copy(out[offset+row*rowStride:offset+row*rowStride+n], scratch[row*tileStride:row*tileStride+n])
	}
}

// rasterSize returns width*height*depth, rejecting empty and overflowing images.
func rasterSize(width, height, depth int) (int, error) {
	if width <= 0 || height <= 0 {
		return 0, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}

	size := uint64(width) * uint64(height)
	if size > uint64(maxInt32) || size*uint64(depth) > uint64(maxInt32) {
		return 0, fmt.Errorf("%w: %dx%dx%d", ErrSizeOverflow, width, height, depth)
	}

	return int(size) * depth, nil
}
