package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	storev1alpha1 "github.com/dtomasi/storectl/api/v1alpha1"
	"github.com/dtomasi/storectl/cli-runtime/handlers"
	"github.com/dtomasi/storectl/core/catalog"
	"github.com/dtomasi/storectl/core/validation"
)

const maxBodyBytes = 1 << 20

// createProductRequest is the body of POST /api/products. Price may be sent as
// a JSON number or as a numeric string, which is what HTML forms produce.
type createProductRequest struct {
	Title       string          `json:"title"`
	Price       json.RawMessage `json:"price"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Image       string          `json:"image"`
}

func (r *createProductRequest) product() (*storev1alpha1.Product, error) {
	price, err := parseJSONPrice(r.Price)
	if err != nil {
		return nil, err
	}
	return &storev1alpha1.Product{
		Title:       r.Title,
		Price:       price,
		Description: r.Description,
		Category:    r.Category,
		Image:       r.Image,
	}, nil
}

func parseJSONPrice(raw json.RawMessage) (float64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, badRequest("price is required")
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, badRequest("price must be a number or a numeric string")
		}
		price, err := validation.ParsePrice(s)
		if err != nil {
			return 0, badRequest(err.Error())
		}
		return price, nil
	}

	var price float64
	if err := json.Unmarshal(raw, &price); err != nil {
		return 0, badRequest("price must be a number or a numeric string")
	}
	return price, nil
}

func (s *Server) createProduct(w http.ResponseWriter, r *http.Request) {
	var body createProductRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&body); err != nil {
		s.apiError(w, r, badRequest(fmt.Sprintf("invalid JSON body: %v", err)))
		return
	}

	product, err := body.product()
	if err != nil {
		s.apiError(w, r, err)
		return
	}

	resp, err := s.handlers.Create().Handle(r.Context(), &handlers.CreateRequest{Product: product})
	if err != nil {
		s.apiError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp.Product)
}

func (s *Server) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		s.apiError(w, r, err)
		return
	}

	resp, err := s.handlers.Delete().Handle(r.Context(), &handlers.DeleteRequest{ID: id})
	if err != nil {
		s.apiError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp.Deleted)
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		s.apiError(w, r, err)
		return
	}

	resp, err := s.handlers.Get().Handle(r.Context(), &handlers.GetRequest{ID: &id})
	if err != nil {
		s.apiError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp.Product)
}

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	opts, err := listOptionsFrom(r)
	if err != nil {
		s.apiError(w, r, err)
		return
	}

	resp, err := s.handlers.Get().Handle(r.Context(), &handlers.GetRequest{ListOptions: opts})
	if err != nil {
		s.apiError(w, r, err)
		return
	}

	items := resp.List.Items
	if items == nil {
		items = []storev1alpha1.Product{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) {
	resp, err := s.handlers.Categories().Handle(r.Context())
	if err != nil {
		s.apiError(w, r, err)
		return
	}

	names := make([]string, 0, len(resp.Categories.Items))
	for _, c := range resp.Categories.Items {
		names = append(names, c.Name)
	}
	writeJSON(w, http.StatusOK, names)
}

func (s *Server) apiError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("Request failed",
			zap.String("path", r.URL.Path),
			zap.String("request_id", RequestIDFrom(r.Context())),
			zap.Error(err),
		)
	}
	writeError(w, status, err.Error())
}

func productID(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, badRequest(fmt.Sprintf("invalid product id: %q", raw))
	}
	return id, nil
}

func listOptionsFrom(r *http.Request) (catalog.ListOptions, error) {
	q := r.URL.Query()
	opts := catalog.ListOptions{
		Sort:     q.Get("sort"),
		Category: q.Get("category"),
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return opts, badRequest(fmt.Sprintf("invalid limit: %q", raw))
		}
		opts.Limit = limit
	}
	if err := opts.Validate(); err != nil {
		return opts, badRequest(err.Error())
	}
	return opts, nil
}
