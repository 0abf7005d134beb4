package vault

import "time"

// Mode identifies the active storage mode. Exactly one mode is active at any
// time; runtime transitions only ever move toward weaker modes.
type Mode string

const (
	// ModeHybridEncrypted splits key material (keyring store) from sealed
	// payloads (general store). Strongest mode; native targets only.
	ModeHybridEncrypted Mode = "hybrid-encrypted"

	// ModePlainPersistent stores plaintext values in the general store.
	ModePlainPersistent Mode = "plain-persistent"

	// ModeWebPersistent stores plaintext values in the web-class store.
	ModeWebPersistent Mode = "web-persistent"

	// ModeVolatile stores values in an in-process map. Last resort; entries
	// are lost when the process exits.
	ModeVolatile Mode = "volatile"
)

// Encrypted reports whether values are encrypted before hitting a backend.
func (m Mode) Encrypted() bool { return m == ModeHybridEncrypted }

// Persistent reports whether values survive a process restart.
func (m Mode) Persistent() bool { return m != ModeVolatile && m != "" }

// strength orders modes for the one-directional demotion check.
func (m Mode) strength() int {
	switch m {
	case ModeHybridEncrypted:
		return 3
	case ModePlainPersistent, ModeWebPersistent:
		return 2
	case ModeVolatile:
		return 1
	default:
		return 0
	}
}

// Status is an immutable snapshot of the store's negotiated state. Callers
// receive copies, never shared references.
type Status struct {
	Mode       Mode      `json:"mode"`
	Encrypted  bool      `json:"encrypted"`
	Persistent bool      `json:"persistent"`
	Err        string    `json:"error,omitempty"`
	DegradedAt time.Time `json:"degraded_at,omitzero"`
}

// newStatus derives a Status from a mode and an optional error description.
func newStatus(mode Mode, errText string) Status {
	return Status{
		Mode:       mode,
		Encrypted:  mode.Encrypted(),
		Persistent: mode.Persistent(),
		Err:        errText,
	}
}
