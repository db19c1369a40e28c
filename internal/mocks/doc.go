// Package mocks provides centralized mock implementations for testing.
//
// This package contains mock implementations of interfaces used throughout the
// application, facilitating consistent and DRY testing across the codebase.
// Instead of defining inline mocks in individual test files, these
// standardized mock implementations can be reused.
//
// Usage:
//
// Import the mocks package in your test file and create the required mock:
//
//	import "github.com/tuesdayhq/tuesday-api/internal/mocks"
//
//	func TestSomething(t *testing.T) {
//	    mockJWTService := &mocks.MockJWTService{Token: "mocked-token"}
//
//	    // Use the mock in your test...
//	}
package mocks
