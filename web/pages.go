package web

import (
	"bytes"
	"net/http"
	"sort"

	"go.uber.org/zap"

	storev1alpha1 "github.com/dtomasi/storectl/api/v1alpha1"
	"github.com/dtomasi/storectl/cli-runtime/handlers"
	"github.com/dtomasi/storectl/core/catalog"
	"github.com/dtomasi/storectl/core/validation"
)

const (
	notFoundTitle    = "404 - Page not found"
	serverErrorTitle = "Server error"
)

type indexPage struct {
	Products       []storev1alpha1.Product
	Categories     []string
	MaxTitleLength int
}

type errorPage struct {
	Title   string
	Message string
}

func (s *Server) productsPage(w http.ResponseWriter, r *http.Request) {
	resp, err := s.handlers.Get().Handle(r.Context(), &handlers.GetRequest{})
	if err != nil {
		s.pageError(w, r, err)
		return
	}

	s.render(w, r, http.StatusOK, "index.html", indexPage{
		Products:       resp.List.Items,
		Categories:     formCategories(resp.List.Items),
		MaxTitleLength: validation.MaxTitleLength,
	})
}

func (s *Server) productPage(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		s.notFoundPage(w, r)
		return
	}

	resp, err := s.handlers.Get().Handle(r.Context(), &handlers.GetRequest{ID: &id})
	if err != nil {
		s.pageError(w, r, err)
		return
	}

	s.render(w, r, http.StatusOK, "product.html", resp.Product)
}

func (s *Server) notFoundPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusNotFound, "error.html", errorPage{Title: notFoundTitle})
}

// pageError renders a missing product as the 404 page and anything else as
// the server error page.
func (s *Server) pageError(w http.ResponseWriter, r *http.Request, err error) {
	if statusFor(err) == http.StatusNotFound {
		s.notFoundPage(w, r)
		return
	}

	s.logger.Error("Request failed",
		zap.String("path", r.URL.Path),
		zap.String("request_id", RequestIDFrom(r.Context())),
		zap.Error(err),
	)
	s.render(w, r, http.StatusInternalServerError, "error.html", errorPage{
		Title:   serverErrorTitle,
		Message: err.Error(),
	})
}

// render executes the template into a buffer first so that a template error
// still produces a complete 500 response.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		s.logger.Error("Failed to render page",
			zap.String("template", name),
			zap.String("request_id", RequestIDFrom(r.Context())),
			zap.Error(err),
		)
		http.Error(w, serverErrorTitle, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// formCategories merges DefaultCategories with the categories of the listed products.
func formCategories(products []storev1alpha1.Product) []string {
	seen := make(map[string]struct{}, len(DefaultCategories))
	out := make([]string, 0, len(DefaultCategories))
	for _, c := range append(append([]string{}, DefaultCategories...), catalog.CategoriesOf(products)...) {
		if _, ok := seen[c]; ok || c == "" {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
