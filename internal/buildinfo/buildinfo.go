// Package buildinfo exposes version metadata injected at link time:
//
//	go build -ldflags "-X github.com/dmitrijs2005/smartcalc/internal/buildinfo.Version=v1.2.0 \
//	  -X github.com/dmitrijs2005/smartcalc/internal/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	  -X github.com/dmitrijs2005/smartcalc/internal/buildinfo.Date=$(date -u +%Y-%m-%d)"
package buildinfo

import (
	"fmt"
	"io"
)

var (
	Version = "N/A"
	Commit  = "N/A"
	Date    = "N/A"
)

// PrintBuildData writes the build metadata, one field per line.
func PrintBuildData(w io.Writer) {
	fmt.Fprintf(w, "Build version: %s\n", orNA(Version))
	fmt.Fprintf(w, "Build date: %s\n", orNA(Date))
	fmt.Fprintf(w, "Build commit: %s\n", orNA(Commit))
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
