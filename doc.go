/*
Package dds decodes DirectDraw Surface (DDS) textures into raw pixel buffers
without a GPU or DirectX dependency.

Decoding runs in three steps: ReadHeader parses the fixed 128-byte prefix,
NewLoadInfo turns the header into decode parameters, and the pixel payload
goes either through DecodeUncompressed or through the streaming block engine
DecodeBlocks. The engine reads compressed input through a bounded working
buffer and hands every block to a BlockDecoder that writes straight into the
output raster.

Block decoders for DXT1-DXT5 live in the dxt subpackage; BC4 and BC5 are
served by github.com/woozymasta/bcn. Enfusion EDDS containers with LZ4
chunk-stream compressed mip bodies are read by DecodeEDDS.

Only the top-level surface is decoded. Mipmap chains, cube faces and volume
slices that follow it are left unread.
*/
package dds
