package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/sawa9885/roomcore/internal/infrastructure/config"
	"github.com/sawa9885/roomcore/internal/room"
)

func TestConnect_Disabled(t *testing.T) {
	_, err := Connect(config.InfluxDBConfig{Enabled: false})
	if !errors.Is(err, ErrDisabled) {
		t.Errorf("Connect() error = %v, want ErrDisabled", err)
	}
}

func TestRecordActivation_DisconnectedIsNoOp(t *testing.T) {
	c := &Client{}

	// Must not panic without a write API.
	c.RecordActivation(room.RoomOutcome{
		ActivationID: "act-test",
		Mode:         room.ModeDesk,
		Status:       room.StatusSuccess,
		Results: []room.DeviceOutcome{
			{DeviceID: "plug", Outcome: room.Success("switched on")},
		},
	})
}

func TestHealthCheck_Disconnected(t *testing.T) {
	c := &Client{}
	if err := c.HealthCheck(context.Background()); !errors.Is(err, ErrNotConnected) {
		t.Errorf("HealthCheck() error = %v, want ErrNotConnected", err)
	}
}

func TestClose_NeverConnected(t *testing.T) {
	c := &Client{}
	if err := c.Close(); err != nil {
		t.Errorf("Close() error = %v, want nil", err)
	}
}
