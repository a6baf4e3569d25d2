package server

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed assets/*.html assets/*.js assets/*.css
var embeddedAssets embed.FS

// AssetsFS exposes the browser client: index.html, live.js and app.css.
func AssetsFS() fs.FS {
	sub, err := fs.Sub(embeddedAssets, "assets")
	if err != nil {
		return embeddedAssets
	}
	return sub
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	http.ServeFileFS(w, r, AssetsFS(), "index.html")
}
