package chiext

import (
	"io/fs"
	"net/http"
	"strings"
)

type StaticFSConfig struct {
	FileSystem fs.FS
	Root       string
}

// StaticEmbedFS serves requests for files present in the filesystem and
// passes everything else through. "/" serves index.html.
func StaticEmbedFS(config StaticFSConfig) func(next http.Handler) http.Handler {
	fsys := config.FileSystem
	if config.Root != "" {
		sub, err := fs.Sub(fsys, config.Root)
		if err != nil {
			panic(err)
		}
		fsys = sub
	}

	files := http.StripPrefix("/", http.FileServer(http.FS(fsys)))
	index := func(w http.ResponseWriter, r *http.Request) {
		f, err := http.FS(fsys).Open("/index.html")
		if err != nil {
			panic(err)
		}
		defer f.Close()

		stat, err := f.Stat()
		if err != nil {
			panic(err)
		}

		http.ServeContent(w, r, "index.html", stat.ModTime(), f)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := strings.TrimPrefix(r.URL.Path, "/")
			if path == "" || path == "index.html" {
				index(w, r)
				return
			}
			if _, err := fs.Stat(fsys, path); err == nil {
				files.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
