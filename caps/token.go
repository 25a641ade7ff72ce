package caps

import (
	"fmt"
	"sort"
	"time"
)

// Token is an immutable per-module credential naming the effects that
// module instance may invoke. A token's effect set is the sole authority
// for what its actor may do; tokens have no hierarchy or inheritance.
type Token struct {
	module   string
	effects  map[Effect]struct{}
	issuedAt time.Time
	devOnly  bool
}

// IssueToken creates a production token for the named module. The effect
// list must be drawn from the closed effect set; duplicates are collapsed.
func IssueToken(module string, effects []Effect) (*Token, error) {
	return issueToken(module, effects, false)
}

// IssueDevToken creates a development-only token. Development tokens carry
// the same authority as production tokens; the flag exists so hosts can
// refuse them outside development environments.
func IssueDevToken(module string, effects []Effect) (*Token, error) {
	return issueToken(module, effects, true)
}

func issueToken(module string, effects []Effect, devOnly bool) (*Token, error) {
	if module == "" {
		return nil, ErrEmptyModule
	}

	granted := make(map[Effect]struct{}, len(effects))
	for _, effect := range effects {
		if !effect.IsValid() {
			return nil, fmt.Errorf("%w: %d", ErrUnknownEffect, effect)
		}
		granted[effect] = struct{}{}
	}

	return &Token{
		module:   module,
		effects:  granted,
		issuedAt: time.Now(),
		devOnly:  devOnly,
	}, nil
}

// Module returns the module name the token was issued for.
func (t *Token) Module() string {
	return t.module
}

// IssuedAt returns the issuance timestamp.
func (t *Token) IssuedAt() time.Time {
	return t.issuedAt
}

// DevOnly reports whether the token is restricted to development use.
func (t *Token) DevOnly() bool {
	return t.devOnly
}

// Allows reports whether the token grants the given effect.
func (t *Token) Allows(effect Effect) bool {
	_, ok := t.effects[effect]
	return ok
}

// Effects returns a sorted copy of the granted effect set. Mutating the
// returned slice does not affect the token.
func (t *Token) Effects() []Effect {
	effects := make([]Effect, 0, len(t.effects))
	for effect := range t.effects {
		effects = append(effects, effect)
	}
	sort.Slice(effects, func(i, j int) bool { return effects[i] < effects[j] })
	return effects
}

// String returns a printable summary of the token.
func (t *Token) String() string {
	names := make([]string, 0, len(t.effects))
	for _, effect := range t.Effects() {
		names = append(names, effect.String())
	}
	return fmt.Sprintf("token(%s %v devOnly=%v)", t.module, names, t.devOnly)
}
