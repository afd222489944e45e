// Package auth emulates the credential and session subsystem of the hosted
// backend for offline demo mode.
//
// Credentials live in the reserved auth_users collection; the single active
// session lives in a store slot. The state machine is a cycle: signed-out
// transitions to signed-in on sign-up or a matching sign-in, and back on
// sign-out. Passwords are stored verbatim: they never represent production
// secrets in this emulation.
//
// Session transitions share the backend's lock, so they are atomic with
// respect to queries and mutations. Lifecycle events fan out to registered
// subscribers after the lock is released.
package auth
