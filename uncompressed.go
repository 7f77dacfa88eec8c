package dds

import (
	"bytes"
	"fmt"
	"io"
)

// DecodeUncompressed reads width*height pixels of info.Format from r and
// applies the red/blue swap when info.Swap is set.
//
// A *bytes.Buffer source is treated as fully buffered and copied in one step;
// any other reader is consumed in reads of at most the configured buffer size.
func DecodeUncompressed(r io.Reader, width, height int, info LoadInfo, opts *DecodeOptions) ([]byte, error) {
	if info.Compressed {
		return nil, fmt.Errorf("%w: %s is block compressed", ErrInvalidLoadInfo, info.Algorithm)
	}

	bpp := info.Format.BytesPerPixel()
	if bpp == 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, info.Format)
	}

	size, err := rasterSize(width, height, bpp)
	if err != nil {
		return nil, err
	}

	data := make([]byte, size)
	if mem, ok := r.(*bytes.Buffer); ok {
		if mem.Len() < size {
			return nil, fmt.Errorf("%w: have %d of %d bytes", ErrPixelsTruncated, mem.Len(), size)
		}
		copy(data, mem.Next(size))
	} else if err := fill(r, data, opts.bufferSize()); err != nil {
		return nil, err
	}

	if info.Swap {
		if err := swapChannels(data, info.Format); err != nil {
			return nil, err
		}
	}

	return data, nil
}

// fill reads len(data) bytes from r in chunks of at most chunk bytes.
func fill(r io.Reader, data []byte, chunk int) error {
	for off := 0; off < len(data); {
		end := off + chunk
		if end > len(data) {
			end = len(data)
		}

		n, err := io.ReadFull(r, data[off:end])
		off += n
		if err != nil {
			return fmt.Errorf("%w: have %d of %d bytes: %v", ErrPixelsTruncated, off, len(data), err)
		}
	}

	return nil
}

// swapChannels exchanges red and blue in place. Applying it twice restores
// the input.
func swapChannels(data []byte, format ImageFormat) error {
	switch format {
	case Rgba32:
		for i := 0; i+3 < len(data); i += 4 {
			data[i], data[i+2] = data[i+2], data[i]
		}
	case Rgba16:
		for i := 0; i+1 < len(data); i += 2 {
			lo := data[i] & 0x0f
			data[i] = data[i]&0xf0 | data[i+1]&0x0f
			data[i+1] = data[i+1]&0xf0 | lo
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedSwap, format)
	}

	return nil
}
