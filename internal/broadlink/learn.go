package broadlink

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/sawa9885/roomcore/internal/signal"
)

// BeginLearning puts the emitter into capture mode and returns a pollable
// session. frequencyKHz zero selects infrared capture; a positive value arms
// the RF receiver at that carrier frequency in kilohertz (a 433.92 MHz
// remote is 433920).
//
// Implements signal.LearningTransport.
func (d *Device) BeginLearning(ctx context.Context, frequencyKHz float64) (signal.Session, error) {
	if frequencyKHz > 0 {
		// Arm the RF receiver at a known carrier frequency.
		freq := make([]byte, 4)
		binary.LittleEndian.PutUint32(freq, uint32(frequencyKHz))
		if _, err := d.command(ctx, cmdFindRFPacket, freq); err != nil {
			return nil, fmt.Errorf("arming rf capture: %w", err)
		}
	} else {
		if _, err := d.command(ctx, cmdEnterLearn, nil); err != nil {
			return nil, fmt.Errorf("entering learning mode: %w", err)
		}
	}
	return &learnSession{dev: d}, nil
}

// learnSession polls the device's capture buffer.
type learnSession struct {
	dev *Device
}

// Poll reads the capture buffer once. Returns signal.ErrPending while the
// operator has not pressed the remote button yet.
func (s *learnSession) Poll(ctx context.Context) ([]byte, error) {
	code, err := s.dev.command(ctx, cmdCheckData, nil)
	if errors.Is(err, errNoData) {
		return nil, signal.ErrPending
	}
	if err != nil {
		return nil, err
	}
	if len(code) == 0 {
		return nil, signal.ErrPending
	}
	return code, nil
}
