package wire

// Magic marker after the length field; detects protocol boundary / desync.
var Magic = [4]byte{'V', 'T', '0', '1'}

// HeaderSize: length (4) + magic (4) = 8 bytes.
const HeaderSize = 8

// KindSize: leading signed i32 kind code of every payload.
const KindSize = 4

// MaxPayloadSize 16MiB.
const MaxPayloadSize = 1024 * 1024 * 16
