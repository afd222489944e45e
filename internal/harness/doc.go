// Package harness runs declarative conformance scenarios against the
// emulator.
//
// A scenario is a YAML file: seed rows, a flow of query/mutation/auth
// steps, and assertions on the final state. Each run gets a fresh in-memory
// store, sequence-generated ids and tokens, and a fixed clock, so the
// recorded trace is byte-for-byte reproducible and can be compared against
// golden files.
//
// Steps that are meant to fail declare expect_error with the error code;
// a step failing with a different code, or succeeding, fails the scenario.
package harness
