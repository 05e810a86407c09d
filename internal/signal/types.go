package signal

import "fmt"

// Kind distinguishes infrared from radio-frequency signals. RF descriptors
// additionally carry the sweep frequency they were captured at.
type Kind string

const (
	KindIR Kind = "ir"
	KindRF Kind = "rf"
)

// ParseKind validates a signal kind string.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindIR:
		return KindIR, nil
	case KindRF:
		return KindRF, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidKind, s)
	}
}

// Descriptor is one learned signal, keyed by its logical button name
// ("projector_power", "screen_down"). Descriptors are immutable once stored;
// re-learning the same name replaces the whole descriptor.
type Descriptor struct {
	Name string `json:"name"`
	Kind Kind   `json:"kind"`

	// FrequencyKHz is the RF sweep frequency. Nil for IR signals.
	FrequencyKHz *float64 `json:"frequency_khz,omitempty"`

	// Code is the raw emitter payload, opaque to this package.
	Code []byte `json:"-"`
}

// Validate checks the descriptor's structural invariants.
func (d Descriptor) Validate() error {
	if d.Name == "" {
		return ErrInvalidName
	}
	if _, err := ParseKind(string(d.Kind)); err != nil {
		return err
	}
	if d.Kind == KindRF && d.FrequencyKHz == nil {
		return fmt.Errorf("%w: descriptor %q", ErrFrequencyRequired, d.Name)
	}
	if len(d.Code) == 0 {
		return fmt.Errorf("signal: descriptor %q has no code", d.Name)
	}
	return nil
}
