// Package deb provides a streaming reader for Debian binary packages.
//
// # Design Philosophy
//
// A .deb file is an ar archive wrapping two compressed tar archives: one for the
// package metadata (control.tar.gz) and one for the payload (data.tar.xz). The
// package walks that nesting in a single forward pass over an io.Reader and hands
// each interesting piece to a caller supplied Visitor. Nothing is buffered beyond
// the control fields, which makes it suitable for inspecting large packages
// straight from a network stream or stdin.
//
// # Features
//
// Walking:
//   - Walk a .deb from any io.Reader and receive the control fields once.
//   - Receive every payload entry (files, directories, symlinks) in archive order.
//   - Optionally receive the conffiles list by implementing ConffilesVisitor.
//   - Entries are scoped handles: reading one after its callback returned fails
//     with ErrEntryReleased.
//
// Errors:
//   - Malformed input aborts the walk with an error wrapping one of
//     ErrArchiveFormat, ErrDecompression, ErrInnerArchiveFormat or ErrControlFormat.
//
// Inspection:
//   - Inspect builds a Package summary (metadata, conffiles, file list with
//     SHA256 digests) on top of Walk.
//
// Only the canonical member names control.tar.gz and data.tar.xz are recognized
// unless WithMemberVariants is set.
package deb
