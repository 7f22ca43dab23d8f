package chiext

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"
)

func TestStaticEmbedFS(t *testing.T) {
	fsys := fstest.MapFS{
		"dist/index.html": &fstest.MapFile{Data: []byte("<html>wall</html>")},
		"dist/app.js":     &fstest.MapFile{Data: []byte("let x = 1")},
	}

	mw := StaticEmbedFS(StaticFSConfig{FileSystem: fsys, Root: "dist"})
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	tests := []struct {
		path       string
		wantStatus int
		wantBody   string
	}{
		{"/", http.StatusOK, "<html>wall</html>"},
		{"/index.html", http.StatusOK, "<html>wall</html>"},
		{"/app.js", http.StatusOK, "let x = 1"},
		{"/api/state", http.StatusTeapot, ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if w.Code != tt.wantStatus {
				t.Errorf("GET %s status = %d, want %d", tt.path, w.Code, tt.wantStatus)
			}
			if tt.wantBody != "" && w.Body.String() != tt.wantBody {
				t.Errorf("GET %s body = %q, want %q", tt.path, w.Body.String(), tt.wantBody)
			}
		})
	}
}
