// Package effects provides stock low-level implementations for the five
// effect kinds enforced by package caps: a database/sql backend, an HTTP
// client with an endpoint allowlist, the system clock, a development-only
// key manager, and serial port access.
//
// The kernel depends only on the caps interfaces; everything here can be
// swapped for test doubles or production replacements.
package effects
