package dds

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/pierrec/lz4/v4"
)

const (
	// BlockMagicCOPY marks an uncompressed EDDS block.
	BlockMagicCOPY = "COPY"
	// BlockMagicLZ4 marks an LZ4-compressed EDDS block.
	BlockMagicLZ4 = "LZ4 "

	// ChunkSize is the Enfusion chunk size for LZ4 streams.
	ChunkSize = 64 * 1024
)

// Block is one EDDS mipmap block body.
type Block struct {
	Magic            string
	Data             []byte
	Size             int32
	UncompressedSize int32
}

// DecodeEDDS decodes the largest mipmap of an Enfusion EDDS container.
//
// EDDS stores the DDS header, then a table of per-mip blocks ordered from the
// smallest level to the largest, then the block bodies. The largest body is
// inflated and decoded like a plain DDS payload.
func DecodeEDDS(r io.ReadSeeker, opts *DecodeOptions) (*Image, error) {
	header, err := ReadHeader(r)
	if err != nil {
		return nil, err
	}

	info, err := NewLoadInfo(header, opts.overrides())
	if err != nil {
		return nil, err
	}

	if _, err := rasterSize(int(header.Width), int(header.Height), info.Depth); err != nil {
		return nil, err
	}

	mipMapCount := uint32(1)
	if header.Caps&CapsMipmap != 0 && header.MipMapCount > 0 {
		mipMapCount = header.MipMapCount
	}
	maxMips, err := calculateMipMapCount(int(header.Width), int(header.Height))
	if err != nil {
		return nil, err
	}
	if mipMapCount > uint32(maxMips) {
		return nil, fmt.Errorf("%w: %d > %d", ErrMipCount, mipMapCount, maxMips)
	}

	payload, err := readLargestMipFromBlocks(r, header, info, mipMapCount)
	if err != nil {
		payload, err = readLegacySingleBlock(r, header, info)
		if err != nil {
			return nil, err
		}
	}

	return decodeSurface(bytes.NewBuffer(payload), header, info, opts)
}

// DecodeEDDSFile opens path and decodes it as EDDS.
func DecodeEDDSFile(path string, opts *DecodeOptions) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrOpenFile, path, err)
	}
	defer func() { _ = f.Close() }()

	return DecodeEDDS(f, opts)
}

// headerLength returns the number of bytes taken by the DDS headers.
func headerLength(header *Header) int64 {
	n := int64(prefixSize)
	if header.DX10 != nil {
		n += 20
	}
	return n
}

// readLargestMipFromBlocks reads and inflates the level 0 body.
func readLargestMipFromBlocks(r io.ReadSeeker, header *Header, info LoadInfo, mipMapCount uint32) ([]byte, error) {
	table, err := readBlockTable(r, mipMapCount)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadBlockTable, err)
	}

	for i := uint32(0); i < mipMapCount; i++ {
		mipLevel := mipMapCount - i - 1
		if mipLevel != 0 {
			if _, err := r.Seek(int64(table[i].Size), io.SeekCurrent); err != nil {
				return nil, fmt.Errorf("%w: mipmap %d: %v", ErrSkipBlockBody, i, err)
			}
			continue
		}

		block, err := readBlockBody(r, table[i])
		if err != nil {
			return nil, fmt.Errorf("%w: mipmap %d: %v", ErrReadBlockBody, i, err)
		}

		mipW := mipDimension(int(header.Width), int(mipLevel))
		mipH := mipDimension(int(header.Height), int(mipLevel))

		decompressed, err := decompressBlock(block, expectedDataLength(info, mipW, mipH))
		if err != nil {
			return nil, fmt.Errorf("%w: mipmap %d: %v", ErrDecompressBlock, i, err)
		}

		return decompressed, nil
	}

	return nil, fmt.Errorf("%w: mipmaps=%d", ErrPickLargestMip, mipMapCount)
}

// readLegacySingleBlock is a fallback for older EDDS files that store a
// single payload blob instead of a block table. The blob is tried as an LZ4
// chunk stream first and accepted raw when its size already matches.
func readLegacySingleBlock(r io.ReadSeeker, header *Header, info LoadInfo) ([]byte, error) {
	if _, err := r.Seek(headerLength(header), io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSeekDataStart, err)
	}

	remainingData, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadRemainingData, err)
	}

	expectedSize := expectedDataLength(info, int(header.Width), int(header.Height))

	size, err := i32FromInt(len(remainingData))
	if err != nil {
		return nil, err
	}

	block := &Block{Magic: BlockMagicLZ4, Size: size, Data: remainingData}
	decompressed, err := decompressBlock(block, expectedSize)
	if err == nil {
		return decompressed, nil
	}

	if len(remainingData) == expectedSize {
		return remainingData, nil
	}

	return nil, fmt.Errorf("%w: %v", ErrParseSingleBlock, err)
}

// decompressBlock inflates an EDDS block into raw data.
func decompressBlock(block *Block, expectedUncompressedSize int) ([]byte, error) {
	if block.Magic == BlockMagicCOPY {
		if len(block.Data) != expectedUncompressedSize {
			return nil, fmt.Errorf("%w: expected %d, got %d", ErrCopySizeMismatch, expectedUncompressedSize, len(block.Data))
		}
		return block.Data, nil
	}
	if block.Magic != BlockMagicLZ4 {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBlockMagic, block.Magic)
	}

	targetSize := expectedUncompressedSize
	if block.UncompressedSize > 0 {
		targetSize = int(block.UncompressedSize)
	}
	if targetSize <= 0 || targetSize > maxInt32 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTargetSize, targetSize)
	}

	// Block bodies start with the uncompressed size when it was not
	// carried separately.
	data := block.Data
	if len(data) >= 8 {
		peek := int(binary.LittleEndian.Uint32(data[:4]))
		c0 := int(data[4]) | (int(data[5]) << 8) | (int(data[6]) << 16)
		if (peek == expectedUncompressedSize || peek == targetSize) && c0 > 0 && c0 < (1<<20) {
			targetSize = peek
			data = data[4:]
		}
	}

	const dictCap = 64 * 1024
	dict := make([]byte, dictCap)
	dictSize := 0

	target := make([]byte, targetSize)
	outIdx := 0

	r := bytes.NewReader(data)

	for {
		if r.Len() < 4 {
			return nil, fmt.Errorf("%w: need 4 bytes header, have %d", ErrChunkStreamTruncated, r.Len())
		}

		var hdr [4]byte
		if _, err := io.ReadFull(r, hdr[:]); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrChunkHeaderRead, err)
		}

		cSize := int(hdr[0]) | (int(hdr[1]) << 8) | (int(hdr[2]) << 16)
		flags := hdr[3]
		if (flags &^ 0x80) != 0 {
			return nil, fmt.Errorf("%w: 0x%02x", ErrUnknownLZ4Flags, flags)
		}
		if cSize <= 0 || cSize > r.Len() {
			return nil, fmt.Errorf("%w: %d (remaining %d)", ErrInvalidChunkSize, cSize, r.Len())
		}

		compressed := make([]byte, cSize)
		if _, err := io.ReadFull(r, compressed); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrChunkDataRead, err)
		}

		remaining := targetSize - outIdx
		if remaining <= 0 {
			return nil, ErrDecodeOverrun
		}
		want := min(ChunkSize, remaining)
		dst := target[outIdx : outIdx+want]

		n, err := lz4.UncompressBlockWithDict(compressed, dst, dict[:dictSize])
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLZ4Decode, err)
		}

		outIdx += n
		dictSize = slideDict(dict, dictSize, target[outIdx-n:outIdx])

		if (flags & 0x80) != 0 {
			break
		}
	}

	if outIdx != targetSize {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrDecodedSizeMismatch, targetSize, outIdx)
	}
	if r.Len() != 0 {
		return nil, fmt.Errorf("%w: %d bytes left after decode", ErrBlockLengthMismatch, r.Len())
	}

	return target, nil
}

// slideDict appends decoded to the rolling dictionary, keeping its newest
// len(dict) bytes, and returns the new dictionary size.
func slideDict(dict []byte, dictSize int, decoded []byte) int {
	dictCap := len(dict)
	if len(decoded) >= dictCap {
		copy(dict, decoded[len(decoded)-dictCap:])
		return dictCap
	}

	avail := dictCap - dictSize
	if len(decoded) <= avail {
		copy(dict[dictSize:], decoded)
		return dictSize + len(decoded)
	}

	shift := len(decoded) - avail
	copy(dict, dict[shift:dictSize])
	copy(dict[dictCap-len(decoded):], decoded)
	return dictCap
}

type blockHeader struct {
	Magic string
	Size  int32
}

func readBlockTable(r io.Reader, mipMapCount uint32) ([]blockHeader, error) {
	hdrs := make([]blockHeader, 0, mipMapCount)
	for i := uint32(0); i < mipMapCount; i++ {
		var magicBytes [4]byte
		if _, err := io.ReadFull(r, magicBytes[:]); err != nil {
			return nil, fmt.Errorf("%w: %d: %v", ErrBlockTableMagicRead, i, err)
		}

		magic := string(magicBytes[:])
		var size int32
		if err := binary.Read(r, binary.LittleEndian, &size); err != nil {
			return nil, fmt.Errorf("%w: %d: %v", ErrBlockTableSizeRead, i, err)
		}

		if magic != BlockMagicCOPY && magic != BlockMagicLZ4 {
			return nil, fmt.Errorf("%w: %d: %q", ErrBlockTableUnknownMagic, i, magic)
		}
		if size < 0 {
			return nil, fmt.Errorf("%w: %d: %d", ErrBlockTableInvalidSize, i, size)
		}

		hdrs = append(hdrs, blockHeader{Magic: magic, Size: size})
	}

	return hdrs, nil
}

func readBlockBody(r io.Reader, h blockHeader) (*Block, error) {
	data := make([]byte, h.Size)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrBlockBodyRead, h.Magic, err)
	}

	return &Block{Magic: h.Magic, Size: h.Size, Data: data}, nil
}
