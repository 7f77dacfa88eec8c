// Package main provides ddsdecode, a command-line tool that decodes DDS and
// EDDS textures to PNG, BMP or TIFF.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/woozymasta/dds"
)

var (
	eddsFlag   bool
	infoFlag   bool
	formatFlag string
	outputFlag string
	bufferFlag int
)

const usageStr = `ddsdecode decodes the top-level surface of a DDS or EDDS texture.

Usage:

    ddsdecode [flags] [path]

The path is optional; if omitted, stdin is read. Inputs ending in .zst are
inflated with zstd first. Inputs ending in .edds (or with -edds) are read as
Enfusion EDDS containers.

Flags:
`

func init() {
	flag.BoolVar(&eddsFlag, "edds", false, "Read input as an EDDS container")
	flag.BoolVar(&infoFlag, "info", false, "Print header and format information only")
	flag.StringVar(&formatFlag, "format", "png", "Output format: png, bmp, tiff")
	flag.StringVar(&outputFlag, "o", "", "Output path (default stdout)")
	flag.IntVar(&bufferFlag, "buffer", dds.DefaultBufferSize, "Working buffer size in bytes")

	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usageStr)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if flag.NArg() > 1 {
		flag.Usage()
		return fmt.Errorf("expected at most one input path, got %d", flag.NArg())
	}

	encode, err := encoderFor(formatFlag)
	if err != nil {
		return err
	}

	path := flag.Arg(0)
	in, err := openInput(path)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	opts := &dds.DecodeOptions{BufferSize: bufferFlag}
	isEDDS := eddsFlag || strings.EqualFold(filepath.Ext(strings.TrimSuffix(path, ".zst")), ".edds")

	if infoFlag {
		return printInfo(os.Stdout, in, opts)
	}

	var decoded *dds.Image
	if isEDDS {
		// EDDS skips smaller mips by seeking, so the stream is buffered.
		data, err := io.ReadAll(in)
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}
		decoded, err = dds.DecodeEDDS(bytes.NewReader(data), opts)
		if err != nil {
			return err
		}
	} else {
		decoded, err = dds.DecodeWithOptions(in, opts)
		if err != nil {
			return err
		}
	}

	img, err := toNRGBA(decoded)
	if err != nil {
		return err
	}

	return writeOutput(outputFlag, img, encode)
}

func printInfo(w io.Writer, r io.Reader, opts *dds.DecodeOptions) error {
	h, err := dds.ReadHeader(r)
	if err != nil {
		return err
	}

	info, err := dds.NewLoadInfo(h, opts.Overrides)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Dimensions:  %dx%d\n", h.Width, h.Height)
	fmt.Fprintf(w, "Mipmaps:     %d\n", h.MipMapCount)
	if h.HasFourCC() {
		fmt.Fprintf(w, "FourCC:      %s\n", dds.FourCCString(h.PixelFormat.FourCC))
	} else {
		fmt.Fprintf(w, "Bit count:   %d\n", h.PixelFormat.RGBBitCount)
	}
	if h.DX10 != nil {
		fmt.Fprintf(w, "DXGI format: %d\n", h.DX10.DXGIFormat)
	}
	fmt.Fprintf(w, "Algorithm:   %s\n", info.Algorithm)
	fmt.Fprintf(w, "Format:      %s\n", info.Format)
	fmt.Fprintf(w, "Swapped:     %t\n", info.Swap)
	if info.Compressed {
		fmt.Fprintf(w, "Block:       %dx%d, %d bytes\n", info.DivSize, info.DivSize, info.BlockBytes)
	}

	return nil
}

type encodeFunc func(io.Writer, image.Image) error

func encoderFor(format string) (encodeFunc, error) {
	switch strings.ToLower(format) {
	case "png":
		return png.Encode, nil
	case "bmp":
		return bmp.Encode, nil
	case "tiff", "tif":
		return func(w io.Writer, m image.Image) error {
			return tiff.Encode(w, m, &tiff.Options{Compression: tiff.Deflate})
		}, nil
	default:
		return nil, fmt.Errorf("unknown output format: %s", format)
	}
}

// openInput opens path, or stdin when path is empty, inflating .zst inputs.
func openInput(path string) (io.ReadCloser, error) {
	var f io.ReadCloser = os.Stdin
	if path != "" {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening input: %w", err)
		}
		f = file
	}

	if !strings.HasSuffix(path, ".zst") {
		return f, nil
	}

	dec, err := zstd.NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("creating zstd reader: %w", err)
	}

	return &zstdReadCloser{Decoder: dec, file: f}, nil
}

type zstdReadCloser struct {
	*zstd.Decoder
	file io.Closer
}

func (z *zstdReadCloser) Close() error {
	z.Decoder.Close()
	return z.file.Close()
}

func writeOutput(path string, img image.Image, encode encodeFunc) error {
	if path == "" || path == "-" {
		return encode(os.Stdout, img)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}

	if err := encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("encoding output: %w", err)
	}

	return f.Close()
}
