package server

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/rs/zerolog/log"
)

//go:embed templates/*.html
var templateFiles embed.FS

// ParseTemplate parses one template from the embedded templates directory
func ParseTemplate(name string) (*template.Template, error) {
	return template.ParseFS(templateFiles, "templates/"+name)
}

func (s *Server) renderSuccess(w http.ResponseWriter) {
	data := map[string]interface{}{
		"AppName": s.config.GetAppName(),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.successPage.Execute(w, data); err != nil {
		log.Error().Err(err).Msg("Failed to render success page")
	}
}
