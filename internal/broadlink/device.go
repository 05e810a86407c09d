package broadlink

import (
	"context"
	"encoding/binary"
	"fmt"
	"net"
	"sync"
	"time"
)

// Device command identifiers (RM4 inner protocol).
const (
	cmdSendData     = 0x02
	cmdEnterLearn   = 0x03
	cmdCheckData    = 0x04
	cmdFindRFPacket = 0x1b
)

const (
	// defaultDevType is the RM4 pro product id.
	defaultDevType = 0x520b

	// devicePort is the fixed UDP control port.
	devicePort = 80

	defaultTimeout = 5 * time.Second

	// responseBufferSize is large enough for any learned code payload.
	responseBufferSize = 2048

	// authPayloadSize is the fixed size of the auth request payload.
	authPayloadSize = 0x50
)

// Config identifies one emitter on the LAN.
type Config struct {
	// Host is the device IP address or hostname.
	Host string

	// MAC is the device hardware address ("e8:16:56:a1:70:db").
	MAC string

	// DeviceType is the Broadlink product id. Zero selects the RM4 pro.
	DeviceType uint16

	// Timeout bounds each request/response exchange.
	Timeout time.Duration
}

// Device is one authenticated emitter. All methods are safe for concurrent
// use; exchanges are serialised because the protocol's rolling counter and
// the single UDP socket are shared state.
type Device struct {
	addr    string
	mac     [6]byte
	devType uint16
	timeout time.Duration

	mu        sync.Mutex
	conn      net.Conn
	key       []byte
	id        uint32
	count     uint16
	connected bool
}

// Dial connects and authenticates with the emitter.
//
// On failure the returned Device is still usable for wiring (every
// operation on it fails fast with ErrNotConnected) and the error describes
// whether the device was unreachable or rejected authentication. The
// distinction matters: an auth failure will not fix itself, an unreachable
// device might.
func Dial(ctx context.Context, cfg Config) (*Device, error) {
	d, err := newDevice(cfg)
	if err != nil {
		return nil, err
	}

	if err := d.connect(ctx); err != nil {
		return d, err
	}
	return d, nil
}

func newDevice(cfg Config) (*Device, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("%w: host is required", ErrInvalidConfig)
	}
	hw, err := net.ParseMAC(cfg.MAC)
	if err != nil || len(hw) != 6 {
		return nil, fmt.Errorf("%w: mac %q", ErrInvalidConfig, cfg.MAC)
	}

	d := &Device{
		addr:    net.JoinHostPort(cfg.Host, fmt.Sprint(devicePort)),
		devType: cfg.DeviceType,
		timeout: cfg.Timeout,
	}
	copy(d.mac[:], hw)
	if d.devType == 0 {
		d.devType = defaultDevType
	}
	if d.timeout <= 0 {
		d.timeout = defaultTimeout
	}
	return d, nil
}

// connect opens the UDP socket and runs the auth handshake.
func (d *Device) connect(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "udp", d.addr)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrUnreachable, d.addr, err)
	}
	d.conn = conn
	d.key = append([]byte(nil), factoryKey...)
	d.id = 0

	if err := d.authLocked(ctx); err != nil {
		d.conn.Close() //nolint:errcheck // Already failing
		d.conn = nil
		return err
	}
	d.connected = true
	return nil
}

// authLocked performs the key exchange. Callers hold d.mu.
func (d *Device) authLocked(ctx context.Context) error {
	payload := make([]byte, authPayloadSize)
	for i := 0x04; i < 0x13; i++ {
		payload[i] = 0x31
	}
	payload[0x1e] = 0x01
	payload[0x2d] = 0x01
	copy(payload[0x30:], "roomcore")

	resp, err := d.exchangeLocked(ctx, packetTypeAuth, payload)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrAuthFailed, err)
	}
	if len(resp) < 0x14 {
		return fmt.Errorf("%w: short auth payload (%d bytes)", ErrAuthFailed, len(resp))
	}

	d.id = binary.LittleEndian.Uint32(resp[0x00:0x04])
	d.key = append([]byte(nil), resp[0x04:0x14]...)
	return nil
}

// IsConnected reports whether the auth handshake succeeded.
func (d *Device) IsConnected() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.connected
}

// Close releases the UDP socket. The device cannot be reused afterwards.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.connected = false
	if d.conn == nil {
		return nil
	}
	err := d.conn.Close()
	d.conn = nil
	return err
}

// Send transmits a raw learned code. It fails fast with ErrNotConnected on a
// device whose handshake failed; a broken link is never retried here.
func (d *Device) Send(ctx context.Context, code []byte) error {
	if len(code) == 0 {
		return fmt.Errorf("%w: empty code", ErrInvalidConfig)
	}
	_, err := d.command(ctx, cmdSendData, code)
	return err
}

// command runs one RM4 inner command against a connected device.
func (d *Device) command(ctx context.Context, cmd uint32, data []byte) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.connected {
		return nil, ErrNotConnected
	}

	// RM4 inner framing: uint16 length (command + data), uint32 command.
	inner := make([]byte, 6+len(data))
	binary.LittleEndian.PutUint16(inner[0:2], uint16(4+len(data)))
	binary.LittleEndian.PutUint32(inner[2:6], cmd)
	copy(inner[6:], data)

	payload, err := d.exchangeLocked(ctx, packetTypeCommand, inner)
	if err != nil {
		return nil, err
	}
	if len(payload) < 6 {
		return nil, fmt.Errorf("%w: short command payload (%d bytes)", ErrBadResponse, len(payload))
	}

	// Response framing mirrors the request: uint16 length, uint32 echo.
	pLen := int(binary.LittleEndian.Uint16(payload[0:2]))
	end := pLen + 2
	if end > len(payload) {
		end = len(payload)
	}
	return payload[6:end], nil
}

// exchangeLocked sends one framed packet and waits for the response.
// Callers hold d.mu.
func (d *Device) exchangeLocked(ctx context.Context, packetType uint16, payload []byte) ([]byte, error) {
	d.count = (d.count + 1) | 0x8000

	packet, err := buildPacket(packetType, d.devType, d.mac, d.id, d.count, d.key, payload)
	if err != nil {
		return nil, err
	}

	deadline := time.Now().Add(d.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	if err := d.conn.SetDeadline(deadline); err != nil {
		return nil, fmt.Errorf("broadlink: setting deadline: %w", err)
	}

	if _, err := d.conn.Write(packet); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreachable, err)
	}

	buf := make([]byte, responseBufferSize)
	n, err := d.conn.Read(buf)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreachable, err)
	}

	return parseResponse(d.key, buf[:n])
}
