package controller

import (
	"html/template"
	"net/http"

	"go.uber.org/zap"
)

func render(w http.ResponseWriter, logger *zap.Logger, tmpl *template.Template, data any) {
	if err := tmpl.ExecuteTemplate(w, "layout.html", data); err != nil {
		logger.Error("rendering template", zap.String("template", tmpl.Name()), zap.Error(err))
	}
}

func serverError(w http.ResponseWriter, logger *zap.Logger, err error) {
	logger.Error("request failed", zap.Error(err))
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}
