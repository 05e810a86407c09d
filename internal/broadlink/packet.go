package broadlink

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/binary"
	"fmt"
)

// Wire-format constants shared by all RM-class devices.
const (
	headerSize = 0x38

	// packetTypeAuth carries the key-exchange handshake.
	packetTypeAuth = 0x65

	// packetTypeCommand carries an encrypted device command.
	packetTypeCommand = 0x6a

	// checksumSeed is the initial value of the additive checksum.
	checksumSeed = 0xbeaf

	// statusNoData is the device status meaning "learning buffer empty".
	statusNoData = -10
)

// factoryKey and cbcIV are the well-known pre-auth AES parameters every
// Broadlink device ships with. Auth replaces the key with a per-session one;
// the IV is fixed for the life of the protocol.
var (
	factoryKey = []byte{
		0x09, 0x76, 0x28, 0x34, 0x3f, 0xe9, 0x9e, 0x23,
		0x76, 0x5c, 0x15, 0x13, 0xac, 0xcf, 0x8b, 0x02,
	}
	cbcIV = []byte{
		0x56, 0x2e, 0x17, 0x99, 0x6d, 0x09, 0x3d, 0x28,
		0xdd, 0xb3, 0xba, 0x69, 0x5a, 0x2e, 0x6f, 0x58,
	}
)

// checksum computes the protocol's additive 16-bit checksum.
func checksum(data []byte) uint16 {
	sum := uint32(checksumSeed)
	for _, b := range data {
		sum += uint32(b)
	}
	return uint16(sum & 0xffff)
}

// padBlock zero-pads data to a whole number of AES blocks.
func padBlock(data []byte) []byte {
	rem := len(data) % aes.BlockSize
	if rem == 0 {
		return data
	}
	padded := make([]byte, len(data)+aes.BlockSize-rem)
	copy(padded, data)
	return padded
}

// encrypt CBC-encrypts a payload with the given session key.
func encrypt(key, payload []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("broadlink: cipher: %w", err)
	}
	padded := padBlock(payload)
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, cbcIV).CryptBlocks(out, padded)
	return out, nil
}

// decrypt CBC-decrypts a payload with the given session key.
func decrypt(key, payload []byte) ([]byte, error) {
	if len(payload)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: payload length %d", ErrBadResponse, len(payload))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("broadlink: cipher: %w", err)
	}
	out := make([]byte, len(payload))
	cipher.NewCBCDecrypter(block, cbcIV).CryptBlocks(out, payload)
	return out, nil
}

// buildPacket frames one request datagram: header, device identity, rolling
// counter, payload checksum, then the encrypted payload, and finally the
// whole-packet checksum.
//
// The caller owns the counter; each request must bump it so the device can
// discard replays.
func buildPacket(packetType uint16, devType uint16, mac [6]byte, id uint32, count uint16, key, payload []byte) ([]byte, error) {
	packet := make([]byte, headerSize)
	copy(packet[0x00:0x08], []byte{0x5a, 0xa5, 0xaa, 0x55, 0x5a, 0xa5, 0xaa, 0x55})
	binary.LittleEndian.PutUint16(packet[0x24:0x26], devType)
	binary.LittleEndian.PutUint16(packet[0x26:0x28], packetType)
	binary.LittleEndian.PutUint16(packet[0x28:0x2a], count)
	// MAC travels reversed on the wire.
	for i := 0; i < 6; i++ {
		packet[0x2a+i] = mac[5-i]
	}
	binary.LittleEndian.PutUint32(packet[0x30:0x34], id)
	binary.LittleEndian.PutUint16(packet[0x34:0x36], checksum(payload))

	enc, err := encrypt(key, payload)
	if err != nil {
		return nil, err
	}
	packet = append(packet, enc...)
	binary.LittleEndian.PutUint16(packet[0x20:0x22], checksum(packet))
	return packet, nil
}

// parseResponse validates one response datagram and returns the decrypted
// payload. A non-zero device status is surfaced as an error; statusNoData
// maps to errNoData so the learning flow can poll.
func parseResponse(key, resp []byte) ([]byte, error) {
	if len(resp) < headerSize {
		return nil, fmt.Errorf("%w: short datagram (%d bytes)", ErrBadResponse, len(resp))
	}

	wantSum := binary.LittleEndian.Uint16(resp[0x20:0x22])
	scratch := make([]byte, len(resp))
	copy(scratch, resp)
	binary.LittleEndian.PutUint16(scratch[0x20:0x22], 0)
	if got := checksum(scratch); got != wantSum {
		return nil, fmt.Errorf("%w: checksum %#04x, want %#04x", ErrBadResponse, got, wantSum)
	}

	status := int16(binary.LittleEndian.Uint16(resp[0x22:0x24]))
	switch {
	case status == statusNoData:
		return nil, errNoData
	case status != 0:
		return nil, fmt.Errorf("%w: device status %d", ErrCommandRejected, status)
	}

	if len(resp) == headerSize {
		return nil, nil
	}
	return decrypt(key, resp[headerSize:])
}
