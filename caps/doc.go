// Package caps implements the capability layer of the weft runtime.
//
// This package provides the closed Effect set, immutable CapabilityToken
// issuance, and the Facade that checks every effectful call against the
// token it was bound to before delegating to a low-level implementation.
package caps
