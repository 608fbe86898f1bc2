// Package cli provides the interactive comic reader terminal client.
//
// It wires configuration, the local credential slot, the REST client and the
// session, profile and bookmark stores, then restores any persisted session
// before handing control to a line-oriented REPL.
//
// Key features:
//   - Register / Login / Logout, profile edits and password changes
//   - Catalog browsing: comics, genres, chapters and chapter pages
//   - Comments and ratings for signed-in readers
//   - Bookmarks with optimistic toggling reconciled against the backend
//   - Interactive search and bookmark filter boxes with debounced input
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See NewApp and runREPL for details.
package cli
