package handshake

import (
	"encoding/binary"
	"hash/crc32"

	"dev.ventlab.steamnet/internal/wire"
)

const (
	encryptRequestSize = 40
	encryptResultSize  = 20
)

// ResultOK: success code in ChannelEncryptResult.
const ResultOK uint32 = 1

// NoJobID: all-ones sentinel meaning "no job correlation".
const NoJobID uint64 = ^uint64(0)

// ChannelEncryptRequest: server opens the negotiation. Fixed 40-byte
// little-endian layout.
type ChannelEncryptRequest struct {
	TargetJobID uint64
	SourceJobID uint64
	Protocol    uint32
	Universe    uint32
	Nonce       [16]byte
}

// DecodeChannelEncryptRequest parses body; the length must match exactly.
func DecodeChannelEncryptRequest(body []byte) (*ChannelEncryptRequest, error) {
	if len(body) != encryptRequestSize {
		return nil, &Error{Reason: "malformed encrypt request"}
	}
	req := &ChannelEncryptRequest{
		TargetJobID: binary.LittleEndian.Uint64(body[0:8]),
		SourceJobID: binary.LittleEndian.Uint64(body[8:16]),
		Protocol:    binary.LittleEndian.Uint32(body[16:20]),
		Universe:    binary.LittleEndian.Uint32(body[20:24]),
	}
	copy(req.Nonce[:], body[24:40])
	return req, nil
}

// ChannelEncryptResult: server's verdict on the proposed key. Fixed
// 20-byte little-endian layout.
type ChannelEncryptResult struct {
	TargetJobID uint64
	SourceJobID uint64
	Result      uint32
}

// DecodeChannelEncryptResult parses body; the length must match exactly.
func DecodeChannelEncryptResult(body []byte) (*ChannelEncryptResult, error) {
	if len(body) != encryptResultSize {
		return nil, &Error{Reason: "invalid encrypt result body"}
	}
	return &ChannelEncryptResult{
		TargetJobID: binary.LittleEndian.Uint64(body[0:8]),
		SourceJobID: binary.LittleEndian.Uint64(body[8:16]),
		Result:      binary.LittleEndian.Uint32(body[16:20]),
	}, nil
}

// Checksum computes the u32 checksum over the encrypted key bytes;
// swappable in tests. nil means CRC-32/IEEE.
type Checksum func([]byte) uint32

// ClientEncryptResponse: client's reply carrying the encrypted session
// key. Wire layout, all little-endian:
//
//	i32   kind code (negative magnitude of ChannelEncryptResponse)
//	u64   target job id
//	u64   source job id
//	u32   protocol
//	u32   encrypted key length
//	...   encrypted key
//	u32   CRC-32/IEEE of the encrypted key
//	u32   reserved, zero
type ClientEncryptResponse struct {
	TargetJobID  uint64
	SourceJobID  uint64
	Protocol     uint32
	EncryptedKey []byte
}

// EncodedSize returns the full payload size of the encoded response.
func (r *ClientEncryptResponse) EncodedSize() int {
	return 4 + 8 + 8 + 4 + 4 + len(r.EncryptedKey) + 4 + 4
}

// Encode serializes the response. The kind code leads the payload: it is
// the same 4 bytes the peer's resolver consumes, so the result is written
// as one frame payload with no further wrapping.
func (r *ClientEncryptResponse) Encode(sum Checksum) []byte {
	if sum == nil {
		sum = crc32.ChecksumIEEE
	}
	code := -int32(wire.EMsgChannelEncryptResponse)

	buf := make([]byte, 0, r.EncodedSize())
	buf = binary.LittleEndian.AppendUint32(buf, uint32(code))
	buf = binary.LittleEndian.AppendUint64(buf, r.TargetJobID)
	buf = binary.LittleEndian.AppendUint64(buf, r.SourceJobID)
	buf = binary.LittleEndian.AppendUint32(buf, r.Protocol)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(r.EncryptedKey)))
	buf = append(buf, r.EncryptedKey...)
	buf = binary.LittleEndian.AppendUint32(buf, sum(r.EncryptedKey))
	buf = binary.LittleEndian.AppendUint32(buf, 0)
	return buf
}
