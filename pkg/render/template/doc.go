// Package template defines the renderer-agnostic template seam used by the
// preview renderer. Engines live in subpackages.
package template
