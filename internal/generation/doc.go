// Package generation defines the boundary between the application and
// external text generation services. It abstracts the details of the LLM
// integration (Gemini), so deck reviews can be produced without coupling
// the review logic to a specific provider.
package generation
