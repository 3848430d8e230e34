package handler

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"go.uber.org/zap"
)

//go:embed templates
var templatesFS embed.FS

var pageNames = []string{"orders", "receipt", "invoice", "login"}

// pageTemplates хранит разобранные шаблоны страниц; каждая страница
// собирается из общего каркаса и собственного содержимого.
type pageTemplates struct {
	pages map[string]*template.Template
}

func parsePageTemplates() (*pageTemplates, error) {
	pages := make(map[string]*template.Template, len(pageNames))

	for _, name := range pageNames {
		t, err := template.ParseFS(templatesFS, "templates/layout.gohtml", "templates/"+name+".gohtml")
		if err != nil {
			return nil, fmt.Errorf("parse template %q: %w", name, err)
		}
		pages[name] = t
	}

	return &pageTemplates{pages: pages}, nil
}

// render выполняет шаблон страницы в буфер и отдаёт результат целиком,
// чтобы ошибка шаблона не обрывала наполовину записанный ответ.
func (h *Handler) render(w http.ResponseWriter, status int, page string, data any) {
	t, ok := h.pages.pages[page]
	if !ok {
		h.logger.Error("unknown page template", zap.String("page", page))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		h.logger.Error("execute page template", zap.String("page", page), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
