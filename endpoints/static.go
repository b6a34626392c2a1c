package endpoints

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
)

// StaticHandler serves files from dir. Paths without a file resolve to
// "<path>.html" when present, otherwise to index.html so client-side
// routes keep working.
func StaticHandler(dir string) http.HandlerFunc {
	files := http.FileServer(http.Dir(dir))
	return func(w http.ResponseWriter, r *http.Request) {
		full := filepath.Join(dir, filepath.FromSlash(path.Clean("/"+r.URL.Path)))

		if info, err := os.Stat(full); err == nil {
			if !info.IsDir() {
				files.ServeHTTP(w, r)
				return
			}
			if _, err := os.Stat(filepath.Join(full, "index.html")); err == nil {
				files.ServeHTTP(w, r)
				return
			}
		}
		if info, err := os.Stat(full + ".html"); err == nil && !info.IsDir() {
			http.ServeFile(w, r, full+".html")
			return
		}
		http.ServeFile(w, r, filepath.Join(dir, "index.html"))
	}
}
