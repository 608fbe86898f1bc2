// Package buildinfo exposes version data stamped at link time, e.g.
//
//	go build -ldflags "-X github.com/dmitrijs2005/comicreader/internal/buildinfo.Version=v1.2.0"
package buildinfo

import (
	"fmt"
	"io"
)

var (
	Version = "N/A"
	Date    = "N/A"
	Commit  = "N/A"
)

// String renders the build data on one line.
func String() string {
	return fmt.Sprintf("comicreader %s (commit %s, built %s)", Version, Commit, Date)
}

// PrintBuildData writes the build data to w, one field per line.
func PrintBuildData(w io.Writer) {
	fmt.Fprintf(w, "Build version: %s\n", Version)
	fmt.Fprintf(w, "Build date: %s\n", Date)
	fmt.Fprintf(w, "Build commit: %s\n", Commit)
}
