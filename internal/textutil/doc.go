// Package textutil provides small text helpers shared by the parser, the
// dispatcher and the renderer: Unicode normalization for filter matching,
// display-width aware truncation, and filename sanitization for downloaded
// images.
package textutil
