package controller

import (
	"io"
	"net/http"

	"go.uber.org/zap"

	"wikiref/internal/web/renderer"
)

// Misc provides miscellaneous handlers
type Misc struct {
	Logger *zap.Logger
}

// Register registers the misc routes
func (m *Misc) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /_preview", m.preview)
}

func (m *Misc) preview(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		http.Error(w, "Error reading request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	html, err := renderer.Render(string(body))
	if err != nil {
		m.Logger.Error("converting org-mode content to HTML", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html")
	w.Write([]byte(html))
}
