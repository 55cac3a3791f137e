package server

import (
	"bytes"
	_ "embed"
	"html/template"
	"log"
	"net/http"

	"github.com/jonathan/cover-letter/internal/export"
)

//go:embed web/index.html
var indexHTML string

var indexTemplate = template.Must(template.New("index").Parse(indexHTML))

type pageData struct {
	Title   string
	Formats []export.Format
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, pageData{Title: "AI Cover Letter Generator", Formats: export.Formats}); err != nil {
		log.Printf("[server] render page: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to render page")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w) //nolint:errcheck
}
