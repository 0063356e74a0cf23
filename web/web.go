// Package web serves the embedded single-page frontend. The assets are
// compiled into the binary with go:embed, so a deployment is exactly
// one file: the server executable.
package web

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static
var assets embed.FS

// Handler returns the file server for the UI. Mounted at "/";
// index.html is served for the root path by the fileserver's
// index behaviour.
func Handler() http.Handler {
	// Strip the embedded "static" prefix so /index.html resolves.
	sub, err := fs.Sub(assets, "static")
	if err != nil {
		// Impossible unless the embed directive and the directory
		// name drift apart, which go:embed catches at compile time.
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}
