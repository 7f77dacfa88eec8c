package dds

import (
	"errors"
	"fmt"
)

var (
	// ErrFormat indicates structurally invalid DDS data.
	ErrFormat = errors.New("invalid DDS format")
	// ErrTruncatedInput indicates the input ended before a required structure.
	ErrTruncatedInput = errors.New("truncated input")
	// ErrUnsupportedFormat indicates a bit depth or FourCC outside the supported set.
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrUnsupportedSwap indicates a channel swap requested for a format without one.
	ErrUnsupportedSwap = errors.New("unsupported channel swap")
	// ErrSizeOverflow indicates a size or dimension exceeds supported limits.
	ErrSizeOverflow = errors.New("size overflow")
)

var (
	// ErrBadMagic indicates the input does not start with "DDS ".
	ErrBadMagic = fmt.Errorf("%w: bad magic", ErrFormat)
	// ErrBadHeaderSize indicates a header size field other than 124.
	ErrBadHeaderSize = fmt.Errorf("%w: bad header size", ErrFormat)
	// ErrInvalidDimensions indicates a zero width or height.
	ErrInvalidDimensions = fmt.Errorf("%w: invalid dimensions", ErrFormat)
	// ErrInvalidLoadInfo indicates inconsistent block geometry.
	ErrInvalidLoadInfo = fmt.Errorf("%w: invalid block geometry", ErrFormat)
	// ErrUnknownFourCC indicates an unrecognized compression FourCC.
	ErrUnknownFourCC = fmt.Errorf("%w: unknown FourCC", ErrUnsupportedFormat)
	// ErrUnknownDXGIFormat indicates an unsupported DX10 DXGI format.
	ErrUnknownDXGIFormat = fmt.Errorf("%w: unknown DXGI format", ErrUnsupportedFormat)
	// ErrBitCount indicates an unsupported uncompressed bit count.
	ErrBitCount = fmt.Errorf("%w: unsupported RGB bit count", ErrUnsupportedFormat)
	// ErrNoBlockDecoder indicates compressed load info without a block decoder.
	ErrNoBlockDecoder = fmt.Errorf("%w: no block decoder", ErrUnsupportedFormat)
	// ErrHeaderRead indicates the DDS header could not be read in full.
	ErrHeaderRead = fmt.Errorf("%w: reading DDS header failed", ErrTruncatedInput)
	// ErrDX10Read indicates the DX10 extension header could not be read.
	ErrDX10Read = fmt.Errorf("%w: reading DDS DX10 header failed", ErrTruncatedInput)
	// ErrStrideTruncated indicates the stream ended inside a row of blocks.
	ErrStrideTruncated = fmt.Errorf("%w: stream ended inside a block row", ErrTruncatedInput)
	// ErrPixelsTruncated indicates uncompressed pixel data is shorter than the image.
	ErrPixelsTruncated = fmt.Errorf("%w: pixel data shorter than image", ErrTruncatedInput)
)

var (
	// ErrOpenFile indicates file open failed.
	ErrOpenFile = errors.New("open file failed")
	// ErrDecodeImage indicates image decode failed.
	ErrDecodeImage = errors.New("decode image failed")
	// ErrMipCount indicates a mipmap count larger than the full chain.
	ErrMipCount = fmt.Errorf("%w: mipmap count exceeds chain length", ErrFormat)
	// ErrCopySizeMismatch indicates COPY block data size mismatch.
	ErrCopySizeMismatch = errors.New("COPY block size mismatch")
	// ErrUnknownBlockMagic indicates an unknown block magic.
	ErrUnknownBlockMagic = errors.New("unknown block magic")
	// ErrInvalidTargetSize indicates invalid decoded target size.
	ErrInvalidTargetSize = errors.New("invalid target size")
	// ErrLZ4Decode indicates LZ4 decode failed.
	ErrLZ4Decode = errors.New("LZ4 decode failed")
	// ErrChunkStreamTruncated indicates LZ4 chunk stream is truncated.
	ErrChunkStreamTruncated = errors.New("LZ4 chunk-stream truncated")
	// ErrUnknownLZ4Flags indicates unknown LZ4 chunk flags.
	ErrUnknownLZ4Flags = errors.New("unknown LZ4 flags")
	// ErrInvalidChunkSize indicates invalid LZ4 chunk size.
	ErrInvalidChunkSize = errors.New("invalid compressed chunk size")
	// ErrDecodeOverrun indicates decoded data overruns target buffer.
	ErrDecodeOverrun = errors.New("decoded LZ4 overruns target buffer")
	// ErrDecodedSizeMismatch indicates decoded size mismatch.
	ErrDecodedSizeMismatch = errors.New("LZ4 decoded size mismatch")
	// ErrBlockLengthMismatch indicates leftover bytes after decode.
	ErrBlockLengthMismatch = errors.New("LZ4 block length mismatch")
	// ErrBlockTableMagicRead indicates block table magic read failed.
	ErrBlockTableMagicRead = errors.New("reading block table magic failed")
	// ErrBlockTableSizeRead indicates block table size read failed.
	ErrBlockTableSizeRead = errors.New("reading block table size failed")
	// ErrBlockTableUnknownMagic indicates unknown block magic in table.
	ErrBlockTableUnknownMagic = errors.New("unknown block magic in table")
	// ErrBlockTableInvalidSize indicates invalid size in block table.
	ErrBlockTableInvalidSize = errors.New("invalid block size in table")
	// ErrBlockBodyRead indicates block body read failed.
	ErrBlockBodyRead = errors.New("reading block body failed")
	// ErrReadBlockTable indicates block table read failed.
	ErrReadBlockTable = errors.New("read block table failed")
	// ErrSkipBlockBody indicates skipping block body failed.
	ErrSkipBlockBody = errors.New("skip block body failed")
	// ErrReadBlockBody indicates block body read failed.
	ErrReadBlockBody = errors.New("read block body failed")
	// ErrDecompressBlock indicates block decompression failed.
	ErrDecompressBlock = errors.New("decompress block failed")
	// ErrPickLargestMip indicates failure selecting largest mip.
	ErrPickLargestMip = errors.New("failed to pick largest mip")
	// ErrSeekDataStart indicates seek to data start failed.
	ErrSeekDataStart = errors.New("seek to data start failed")
	// ErrReadRemainingData indicates reading remaining data failed.
	ErrReadRemainingData = errors.New("reading remaining data failed")
	// ErrParseSingleBlock indicates failure parsing legacy single block.
	ErrParseSingleBlock = errors.New("failed to parse single block")
	// ErrChunkHeaderRead indicates LZ4 chunk header read failed.
	ErrChunkHeaderRead = errors.New("reading chunk header failed")
	// ErrChunkDataRead indicates LZ4 chunk data read failed.
	ErrChunkDataRead = errors.New("reading chunk data failed")
)
