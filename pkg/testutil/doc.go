// Package testutil provides utilities for testing autopage components.
//
// Key components:
//   - MockClient: function-field mock of controller.Client that records calls
//   - FakeService: an in-memory controller service built on MockClient
//   - WriteRepo / WriteDefinition: on-disk recipe fixtures under t.TempDir()
//   - Isolate: points config, state and data dirs at a temp directory
//
// Tests never touch the session bus.
package testutil
