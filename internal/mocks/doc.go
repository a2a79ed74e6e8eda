// Package mocks provides centralized mock implementations for testing.
//
// Mocks record their calls and return either fixed values or the result of
// an optional function field, so tests can assert both outputs and how often
// a collaborator was reached.
//
// Usage:
//
// Import the mocks package in your test file and create the required mock:
//
//	import "github.com/phrazzld/inception-api/internal/mocks"
//
//	func TestSomething(t *testing.T) {
//	    gen := mocks.NewMockTextGeneratorWithText(`{"overall_review": "Solid deck."}`)
//	    // ... exercise code that reviews a deck ...
//	    assert.Equal(t, 1, gen.CallCount())
//	}
//
// When adding a new mock to this package:
//  1. Create a new file named after the interface being mocked
//  2. Implement the mock struct with function fields for each interface method
//  3. Document any helper methods or special functionality
//  4. Update existing tests to use the centralized mock implementation
package mocks
