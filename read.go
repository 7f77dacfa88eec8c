package dds

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
)

// DefaultBufferSize is the working buffer size used when DecodeOptions
// does not set one.
const DefaultBufferSize = 0x8000

// DecodeOptions configures decoding.
type DecodeOptions struct {
	// BufferSize bounds the working buffer used for streamed input.
	// Zero or negative uses DefaultBufferSize. The block engine grows it to
	// at least one row of blocks.
	BufferSize int
	// Overrides replace header-derived bit depth and channel order of
	// uncompressed surfaces.
	Overrides Overrides
}

func (o *DecodeOptions) bufferSize() int {
	if o == nil || o.BufferSize <= 0 {
		return DefaultBufferSize
	}
	return o.BufferSize
}

func (o *DecodeOptions) overrides() Overrides {
	if o == nil {
		return Overrides{}
	}
	return o.Overrides
}

// Image is a decoded top-level surface. Data is owned by the caller.
type Image struct {
	Header *Header
	Info   LoadInfo
	Width  int
	Height int
	Format ImageFormat
	// Data holds Width*Height pixels of Format.BytesPerPixel() bytes each.
	Data []byte
}

// Stride returns the number of bytes per pixel row.
func (img *Image) Stride() int {
	return img.Width * img.Format.BytesPerPixel()
}

// Decode reads a DDS stream and decodes its top-level surface.
func Decode(r io.Reader) (*Image, error) {
	return DecodeWithOptions(r, nil)
}

// DecodeWithOptions reads a DDS stream with the given options.
// Nil opts uses defaults.
func DecodeWithOptions(r io.Reader, opts *DecodeOptions) (*Image, error) {
	header, err := ReadHeader(r)
	if err != nil {
		return nil, err
	}

	info, err := NewLoadInfo(header, opts.overrides())
	if err != nil {
		return nil, err
	}

	return decodeSurface(r, header, info, opts)
}

// DecodeFile opens path and decodes it as DDS.
func DecodeFile(path string) (*Image, error) {
	return DecodeFileWithOptions(path, nil)
}

// DecodeFileWithOptions opens path and decodes it as DDS with the given options.
func DecodeFileWithOptions(path string, opts *DecodeOptions) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrOpenFile, path, err)
	}
	defer func() { _ = f.Close() }()

	return DecodeWithOptions(f, opts)
}

// ReadConfig reads the DDS header of path without decoding pixel data.
func ReadConfig(path string) (image.Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return image.Config{}, fmt.Errorf("%w: %q: %v", ErrOpenFile, path, err)
	}
	defer func() { _ = f.Close() }()

	header, err := ReadHeader(f)
	if err != nil {
		return image.Config{}, err
	}

	info, err := NewLoadInfo(header, Overrides{})
	if err != nil {
		return image.Config{}, err
	}

	model := color.RGBAModel
	if info.Format == Rgb8 {
		model = color.GrayModel
	}

	return image.Config{
		Width:      int(header.Width),
		Height:     int(header.Height),
		ColorModel: model,
	}, nil
}

// decodeSurface routes the pixel payload in r to the engine matching info.
func decodeSurface(r io.Reader, header *Header, info LoadInfo, opts *DecodeOptions) (*Image, error) {
	width, height := int(header.Width), int(header.Height)

	var (
		data []byte
		err  error
	)
	if info.Compressed {
		data, err = DecodeBlocks(r, width, height, info, opts)
	} else {
		data, err = DecodeUncompressed(r, width, height, info, opts)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s %dx%d: %w", ErrDecodeImage, info.Format, width, height, err)
	}

	return &Image{
		Header: header,
		Info:   info,
		Width:  width,
		Height: height,
		Format: info.Format,
		Data:   data,
	}, nil
}
