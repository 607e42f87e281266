// Package render converts API payloads into go-pretty tables.
//
// A Renderer owns the output sink, the target width, the colour flag and the
// clock used for relative timestamps; every method is a pure function of its
// inputs and those four settings, which keeps the output deterministic in
// tests. The content table mirrors the two-column layout of the hollow feed:
// metadata on the left (20%) and wrapped text on the right (80%).
package render
