package caps

import "fmt"

// Effect identifies a category of externally observable operation that a
// module must be explicitly granted. The set is closed; there is no dynamic
// effect registration.
type Effect uint8

const (
	// EffectDatabase grants SQL query and statement execution
	EffectDatabase Effect = iota

	// EffectNetwork grants outbound HTTP requests
	EffectNetwork

	// EffectClock grants wall-clock reads
	EffectClock

	// EffectKeyManagement grants envelope encryption and decryption
	EffectKeyManagement

	// EffectSerialIO grants serial port reads and writes
	EffectSerialIO
)

// AllEffects returns the closed effect set in declaration order.
func AllEffects() []Effect {
	return []Effect{
		EffectDatabase,
		EffectNetwork,
		EffectClock,
		EffectKeyManagement,
		EffectSerialIO,
	}
}

// String returns the canonical name of the effect.
func (e Effect) String() string {
	switch e {
	case EffectDatabase:
		return "Database"
	case EffectNetwork:
		return "Network"
	case EffectClock:
		return "Clock"
	case EffectKeyManagement:
		return "KeyManagement"
	case EffectSerialIO:
		return "SerialIO"
	default:
		return "unknown"
	}
}

// WireName returns the short name used by weft manifests and compiler output.
func (e Effect) WireName() string {
	switch e {
	case EffectDatabase:
		return "Db"
	case EffectNetwork:
		return "Net"
	case EffectClock:
		return "Now"
	case EffectKeyManagement:
		return "Kms"
	case EffectSerialIO:
		return "Serial"
	default:
		return "unknown"
	}
}

// IsValid checks if the effect is a member of the closed set.
func (e Effect) IsValid() bool {
	switch e {
	case EffectDatabase, EffectNetwork, EffectClock, EffectKeyManagement, EffectSerialIO:
		return true
	default:
		return false
	}
}

// ParseEffect resolves an effect from either its canonical name or its
// manifest wire name.
func ParseEffect(name string) (Effect, error) {
	switch name {
	case "Database", "Db":
		return EffectDatabase, nil
	case "Network", "Net":
		return EffectNetwork, nil
	case "Clock", "Now":
		return EffectClock, nil
	case "KeyManagement", "Kms":
		return EffectKeyManagement, nil
	case "SerialIO", "Serial":
		return EffectSerialIO, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownEffect, name)
	}
}

// ParseEffects resolves a list of effect names, failing on the first
// unknown name.
func ParseEffects(names []string) ([]Effect, error) {
	effects := make([]Effect, 0, len(names))
	for _, name := range names {
		effect, err := ParseEffect(name)
		if err != nil {
			return nil, err
		}
		effects = append(effects, effect)
	}
	return effects, nil
}
