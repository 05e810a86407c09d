package broadlink

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"testing"
)

func TestChecksum(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want uint16
	}{
		{name: "empty", data: nil, want: 0xbeaf},
		{name: "single byte", data: []byte{0x01}, want: 0xbeb0},
		{name: "wraps at 16 bits", data: bytes.Repeat([]byte{0xff}, 0x100), want: uint16((0xbeaf + 0xff*0x100) & 0xffff)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := checksum(tt.data); got != tt.want {
				t.Errorf("checksum() = %#04x, want %#04x", got, tt.want)
			}
		})
	}
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	payload := []byte("not a multiple of the aes block size")

	enc, err := encrypt(factoryKey, payload)
	if err != nil {
		t.Fatalf("encrypt() error = %v", err)
	}
	if len(enc)%16 != 0 {
		t.Errorf("encrypted length = %d, want multiple of block size", len(enc))
	}

	dec, err := decrypt(factoryKey, enc)
	if err != nil {
		t.Fatalf("decrypt() error = %v", err)
	}
	if !bytes.Equal(dec[:len(payload)], payload) {
		t.Errorf("round trip = %x, want %x", dec[:len(payload)], payload)
	}
}

func TestBuildPacket_Layout(t *testing.T) {
	mac := [6]byte{0xe8, 0x16, 0x56, 0xa1, 0x70, 0xdb}
	payload := []byte{0x01, 0x02, 0x03}

	packet, err := buildPacket(packetTypeCommand, defaultDevType, mac, 0xdeadbeef, 0x8001, factoryKey, payload)
	if err != nil {
		t.Fatalf("buildPacket() error = %v", err)
	}

	if got := binary.LittleEndian.Uint16(packet[0x24:0x26]); got != defaultDevType {
		t.Errorf("device type = %#04x, want %#04x", got, defaultDevType)
	}
	if got := binary.LittleEndian.Uint16(packet[0x26:0x28]); got != packetTypeCommand {
		t.Errorf("packet type = %#04x, want %#04x", got, packetTypeCommand)
	}
	if got := binary.LittleEndian.Uint16(packet[0x28:0x2a]); got != 0x8001 {
		t.Errorf("counter = %#04x, want 0x8001", got)
	}
	// MAC is reversed on the wire.
	for i := 0; i < 6; i++ {
		if packet[0x2a+i] != mac[5-i] {
			t.Fatalf("mac byte %d = %#02x, want %#02x", i, packet[0x2a+i], mac[5-i])
		}
	}
	if got := binary.LittleEndian.Uint32(packet[0x30:0x34]); got != 0xdeadbeef {
		t.Errorf("session id = %#08x, want 0xdeadbeef", got)
	}
	if got := binary.LittleEndian.Uint16(packet[0x34:0x36]); got != checksum(payload) {
		t.Errorf("payload checksum = %#04x, want %#04x", got, checksum(payload))
	}

	// Whole-packet checksum validates with its own field zeroed.
	scratch := append([]byte(nil), packet...)
	want := binary.LittleEndian.Uint16(scratch[0x20:0x22])
	binary.LittleEndian.PutUint16(scratch[0x20:0x22], 0)
	if got := checksum(scratch); got != want {
		t.Errorf("packet checksum = %#04x, header says %#04x", got, want)
	}
}

// buildResponse frames a device response the way parseResponse expects it.
func buildResponse(t *testing.T, status int16, payload []byte) []byte {
	t.Helper()
	resp := make([]byte, headerSize)
	binary.LittleEndian.PutUint16(resp[0x22:0x24], uint16(status))
	if payload != nil {
		enc, err := encrypt(factoryKey, payload)
		if err != nil {
			t.Fatalf("encrypt() error = %v", err)
		}
		resp = append(resp, enc...)
	}
	scratch := append([]byte(nil), resp...)
	binary.LittleEndian.PutUint16(scratch[0x20:0x22], 0)
	binary.LittleEndian.PutUint16(resp[0x20:0x22], checksum(scratch))
	return resp
}

func TestParseResponse(t *testing.T) {
	payload := []byte{0xaa, 0xbb, 0xcc, 0xdd}

	t.Run("success with payload", func(t *testing.T) {
		resp := buildResponse(t, 0, payload)
		got, err := parseResponse(factoryKey, resp)
		if err != nil {
			t.Fatalf("parseResponse() error = %v", err)
		}
		if !bytes.Equal(got[:len(payload)], payload) {
			t.Errorf("payload = %x, want %x", got[:len(payload)], payload)
		}
	})

	t.Run("no data maps to pending", func(t *testing.T) {
		resp := buildResponse(t, statusNoData, nil)
		if _, err := parseResponse(factoryKey, resp); !errors.Is(err, errNoData) {
			t.Errorf("parseResponse() error = %v, want errNoData", err)
		}
	})

	t.Run("non-zero status rejected", func(t *testing.T) {
		resp := buildResponse(t, -7, nil)
		if _, err := parseResponse(factoryKey, resp); !errors.Is(err, ErrCommandRejected) {
			t.Errorf("parseResponse() error = %v, want ErrCommandRejected", err)
		}
	})

	t.Run("short datagram rejected", func(t *testing.T) {
		if _, err := parseResponse(factoryKey, []byte{0x01, 0x02}); !errors.Is(err, ErrBadResponse) {
			t.Errorf("parseResponse() error = %v, want ErrBadResponse", err)
		}
	})

	t.Run("corrupt checksum rejected", func(t *testing.T) {
		resp := buildResponse(t, 0, payload)
		resp[len(resp)-1] ^= 0xff
		if _, err := parseResponse(factoryKey, resp); !errors.Is(err, ErrBadResponse) {
			t.Errorf("parseResponse() error = %v, want ErrBadResponse", err)
		}
	})
}

func TestNewDevice_Validation(t *testing.T) {
	if _, err := newDevice(Config{MAC: "e8:16:56:a1:70:db"}); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("missing host error = %v, want ErrInvalidConfig", err)
	}
	if _, err := newDevice(Config{Host: "192.168.0.108", MAC: "nope"}); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("bad mac error = %v, want ErrInvalidConfig", err)
	}

	d, err := newDevice(Config{Host: "192.168.0.108", MAC: "e8:16:56:a1:70:db"})
	if err != nil {
		t.Fatalf("newDevice() error = %v", err)
	}
	if d.devType != defaultDevType {
		t.Errorf("devType = %#04x, want RM4 default %#04x", d.devType, defaultDevType)
	}
	if d.IsConnected() {
		t.Error("IsConnected() true before Dial")
	}
}

func TestSend_NotConnectedFailsFast(t *testing.T) {
	d, err := newDevice(Config{Host: "192.168.0.108", MAC: "e8:16:56:a1:70:db"})
	if err != nil {
		t.Fatalf("newDevice() error = %v", err)
	}

	if err := d.Send(context.Background(), []byte{0x26, 0x00}); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Send() error = %v, want ErrNotConnected", err)
	}
}
