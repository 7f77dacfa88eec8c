package dds

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"
	"testing/iotest"

	"github.com/woozymasta/bcn"
)

func TestParseHeaderFieldOrder(t *testing.T) {
	t.Parallel()

	// Every word after the fixed constants carries its own index.
	raw := make([]byte, prefixSize)
	for i := 0; i < prefixSize/4; i++ {
		binary.LittleEndian.PutUint32(raw[i*4:], uint32(1000+i))
	}
	binary.LittleEndian.PutUint32(raw[0:], Magic)
	binary.LittleEndian.PutUint32(raw[4:], HeaderSize)

	h, err := ParseHeader(raw)
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}

	got := []uint32{
		h.Flags, h.Height, h.Width, h.PitchOrLinearSize, h.Depth, h.MipMapCount,
	}
	got = append(got, h.Reserved1[:]...)
	pf := h.PixelFormat
	got = append(got,
		pf.Size, pf.Flags, pf.FourCC, pf.RGBBitCount,
		pf.RBitMask, pf.GBitMask, pf.BBitMask, pf.ABitMask,
		h.Caps, h.Caps2, h.Caps3, h.Caps4, h.Reserved2,
	)

	for i, v := range got {
		if want := uint32(1000 + i + 2); v != want {
			t.Fatalf("word %d = %d, want %d", i+2, v, want)
		}
	}
}

func TestReadHeaderErrors(t *testing.T) {
	t.Parallel()

	valid := headerBytes(testHeader(4, 4, fourCCFormat("DXT1")))

	badMagic := bytes.Clone(valid)
	copy(badMagic, "DDS?")

	badSize := bytes.Clone(valid)
	binary.LittleEndian.PutUint32(badSize[4:], 128)

	tests := []struct {
		name     string
		data     []byte
		wantErr  error
		category error
	}{
		{name: "bad-magic", data: badMagic, wantErr: ErrBadMagic, category: ErrFormat},
		{name: "png-magic", data: append([]byte("\x89PNG"), valid[4:]...), wantErr: ErrBadMagic, category: ErrFormat},
		{name: "bad-size", data: badSize, wantErr: ErrBadHeaderSize, category: ErrFormat},
		{name: "empty", data: nil, wantErr: ErrHeaderRead, category: ErrTruncatedInput},
		{name: "magic-only", data: valid[:4], wantErr: ErrHeaderRead, category: ErrTruncatedInput},
		{name: "one-short", data: valid[:prefixSize-1], wantErr: ErrHeaderRead, category: ErrTruncatedInput},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := ReadHeader(bytes.NewReader(tc.data))
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
			if !errors.Is(err, tc.category) {
				t.Fatalf("expected category %v, got %v", tc.category, err)
			}
		})
	}
}

func TestParseHeaderShortBuffer(t *testing.T) {
	t.Parallel()

	valid := headerBytes(testHeader(4, 4, fourCCFormat("DXT1")))
	if _, err := ParseHeader(valid[:100]); !errors.Is(err, ErrTruncatedInput) {
		t.Fatalf("expected ErrTruncatedInput, got %v", err)
	}
}

func TestReadHeaderConsumesPrefixOnly(t *testing.T) {
	t.Parallel()

	payload := []byte{1, 2, 3, 4, 5}
	r := iotest.OneByteReader(bytes.NewReader(ddsFile(testHeader(8, 2, rgbFormat(32, 0xff0000, 0xff00, 0xff, 0xff000000)), payload)))

	h, err := ReadHeader(r)
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if h.Width != 8 || h.Height != 2 || h.PixelFormat.RGBBitCount != 32 {
		t.Fatalf("unexpected header: %+v", h)
	}

	rest, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if !bytes.Equal(rest, payload) {
		t.Fatalf("remaining = %v, want %v", rest, payload)
	}
}

func TestReadHeaderMatchesBCN(t *testing.T) {
	t.Parallel()

	hdr := &bcn.DDSHeader{
		Size:        bcn.DDSHeaderSize,
		Flags:       uint32(bcn.DDSFlagCaps | bcn.DDSFlagHeight | bcn.DDSFlagWidth | bcn.DDSFlagPixelFormat | bcn.DDSFlagLinearSize),
		Height:      64,
		Width:       32,
		Depth:       1,
		MipMapCount: 1,
		Caps:        uint32(bcn.DDSCapsTexture),
	}
	hdr.PixelFormat.Size = bcn.DDSPixelFormatSize
	hdr.PixelFormat.Flags = bcn.DDSPFFourCC
	hdr.PixelFormat.FourCC = makeFourCC('D', 'X', 'T', '5')

	var buf bytes.Buffer
	if err := bcn.WriteDDSMagic(&buf); err != nil {
		t.Fatalf("WriteDDSMagic: %v", err)
	}
	if err := bcn.WriteDDSHeader(&buf, hdr); err != nil {
		t.Fatalf("WriteDDSHeader: %v", err)
	}

	h, err := ReadHeader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if h.Width != 32 || h.Height != 64 || h.Flags != hdr.Flags {
		t.Fatalf("geometry mismatch: %+v", h)
	}
	if got := FourCCString(h.PixelFormat.FourCC); got != "DXT5" {
		t.Fatalf("FourCC = %q, want DXT5", got)
	}

	// And the other way around.
	ours := testHeader(16, 8, rgbFormat(32, 0xff0000, 0xff00, 0xff, 0xff000000))
	theirs, err := bcn.ReadDDSHeader(bytes.NewReader(headerBytes(ours)))
	if err != nil {
		t.Fatalf("bcn.ReadDDSHeader: %v", err)
	}
	if theirs.Width != 16 || theirs.Height != 8 || theirs.PixelFormat.RBitMask != 0xff0000 {
		t.Fatalf("bcn parsed %+v", theirs)
	}
}

func TestReadHeaderDX10(t *testing.T) {
	t.Parallel()

	h := testHeader(8, 8, fourCCFormat("DX10"))
	ext := make([]byte, 0, 20)
	for _, w := range []uint32{77, 3, 0, 1, 0} {
		ext = binary.LittleEndian.AppendUint32(ext, w)
	}

	got, err := ReadHeader(bytes.NewReader(ddsFile(h, ext)))
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if got.DX10 == nil || got.DX10.DXGIFormat != 77 {
		t.Fatalf("DX10 = %+v, want DXGI 77", got.DX10)
	}

	info, err := NewLoadInfo(got, Overrides{})
	if err != nil {
		t.Fatalf("NewLoadInfo: %v", err)
	}
	if info.Algorithm != CompressionDXT5 || info.BlockBytes != 16 {
		t.Fatalf("info = %+v, want DXT5", info)
	}
}

func TestReadHeaderDX10Truncated(t *testing.T) {
	t.Parallel()

	h := testHeader(8, 8, fourCCFormat("DX10"))
	_, err := ReadHeader(bytes.NewReader(ddsFile(h, []byte{77, 0, 0})))
	if !errors.Is(err, ErrDX10Read) {
		t.Fatalf("expected ErrDX10Read, got %v", err)
	}
}
