package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	storev1alpha1 "github.com/dtomasi/storectl/api/v1alpha1"
)

const (
	// DefaultBaseURL is the public Fake Store API.
	DefaultBaseURL = "https://fakestoreapi.com"

	// DefaultTimeout bounds a single catalog call.
	DefaultTimeout = 10 * time.Second

	productsEndpoint = "/products"
	maxResponseBytes = 10 << 20
	maxErrorBody     = 512
)

// HTTPClient abstracts HTTP operations for dependency injection.
// The standard *http.Client satisfies this interface.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Remote is a Client backed by the catalog REST API.
type Remote struct {
	baseURL    string
	httpClient HTTPClient
	userAgent  string
	logger     *zap.Logger
}

// RemoteOption configures a Remote client.
type RemoteOption func(*Remote)

// WithHTTPClient replaces the HTTP client used for catalog calls.
func WithHTTPClient(c HTTPClient) RemoteOption {
	return func(r *Remote) {
		if c != nil {
			r.httpClient = c
		}
	}
}

// WithTimeout sets the timeout of the default HTTP client.
func WithTimeout(d time.Duration) RemoteOption {
	return func(r *Remote) {
		if d > 0 {
			r.httpClient = newHTTPClient(d)
		}
	}
}

// WithUserAgent sets the User-Agent header sent with each call.
func WithUserAgent(ua string) RemoteOption {
	return func(r *Remote) {
		r.userAgent = ua
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *zap.Logger) RemoteOption {
	return func(r *Remote) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRemote creates a catalog client for the API at baseURL.
func NewRemote(baseURL string, opts ...RemoteOption) (*Remote, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog URL %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("catalog URL %q must use http or https", baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("catalog URL %q has no host", baseURL)
	}

	r := &Remote{
		baseURL:    strings.TrimRight(u.String(), "/"),
		httpClient: newHTTPClient(DefaultTimeout),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

// Name returns the name of this backend
func (r *Remote) Name() string {
	return "remote"
}

// BaseURL returns the catalog API root this client talks to.
func (r *Remote) BaseURL() string {
	return r.baseURL
}

// List retrieves products, optionally restricted to one category.
func (r *Remote) List(ctx context.Context, opts ListOptions) (*storev1alpha1.ProductList, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	endpoint := productsEndpoint
	if opts.Category != "" {
		endpoint = productsEndpoint + "/category/" + url.PathEscape(opts.Category)
	}

	query := url.Values{}
	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Sort != "" {
		query.Set("sort", opts.Sort)
	}

	var items []storev1alpha1.Product
	if err := r.do(ctx, http.MethodGet, endpoint, query, nil, &items); err != nil && !errors.Is(err, errEmptyBody) {
		return nil, err
	}
	if items == nil {
		items = []storev1alpha1.Product{}
	}
	return &storev1alpha1.ProductList{Items: items}, nil
}

// Get retrieves a single product.
func (r *Remote) Get(ctx context.Context, id int) (*storev1alpha1.Product, error) {
	product := &storev1alpha1.Product{}
	if err := r.do(ctx, http.MethodGet, productPath(id), nil, nil, product); err != nil {
		return nil, notFoundOr(id, err)
	}
	return product, nil
}

// Categories retrieves all category names.
func (r *Remote) Categories(ctx context.Context) (*storev1alpha1.CategoryList, error) {
	var names []string
	if err := r.do(ctx, http.MethodGet, productsEndpoint+"/categories", nil, nil, &names); err != nil && !errors.Is(err, errEmptyBody) {
		return nil, err
	}
	return storev1alpha1.CategoryListFromNames(names), nil
}

// Create sends a new product to the catalog.
func (r *Remote) Create(ctx context.Context, product *storev1alpha1.Product) (*storev1alpha1.Product, error) {
	if product == nil {
		return nil, fmt.Errorf("product cannot be nil")
	}

	created := &storev1alpha1.Product{}
	if err := r.do(ctx, http.MethodPost, productsEndpoint, nil, payloadFor(product), created); err != nil {
		if errors.Is(err, errEmptyBody) {
			return nil, fmt.Errorf("failed to create product: %w", err)
		}
		return nil, err
	}
	return created, nil
}

// Update replaces an existing product.
func (r *Remote) Update(ctx context.Context, id int, product *storev1alpha1.Product) (*storev1alpha1.Product, error) {
	if product == nil {
		return nil, fmt.Errorf("product cannot be nil")
	}

	updated := &storev1alpha1.Product{}
	if err := r.do(ctx, http.MethodPut, productPath(id), nil, payloadFor(product), updated); err != nil {
		return nil, notFoundOr(id, err)
	}
	if updated.ID == 0 {
		updated.ID = id
	}
	return updated, nil
}

// Delete removes a product.
func (r *Remote) Delete(ctx context.Context, id int) (*storev1alpha1.Product, error) {
	deleted := &storev1alpha1.Product{}
	if err := r.do(ctx, http.MethodDelete, productPath(id), nil, nil, deleted); err != nil {
		return nil, notFoundOr(id, err)
	}
	return deleted, nil
}

// productPayload is the document the catalog expects on create and update.
type productPayload struct {
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	Category    string  `json:"category"`
}

func payloadFor(p *storev1alpha1.Product) productPayload {
	return productPayload{
		Title:       p.Title,
		Price:       p.Price,
		Description: p.Description,
		Image:       p.Image,
		Category:    p.Category,
	}
}

func productPath(id int) string {
	return productsEndpoint + "/" + strconv.Itoa(id)
}

// notFoundOr maps the catalog's ways of saying "no such product" (404 or an
// empty 200) to a NotFound error and passes everything else through.
func notFoundOr(id int, err error) error {
	var statusErr *StatusError
	if errors.Is(err, errEmptyBody) || (errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound) {
		return NewNotFound(id)
	}
	return err
}

// do forwards one request to the catalog and decodes the JSON answer into out.
func (r *Remote) do(ctx context.Context, method, endpoint string, query url.Values, body, out any) error {
	target := r.baseURL + endpoint
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.userAgent != "" {
		req.Header.Set("User-Agent", r.userAgent)
	}

	start := time.Now()
	resp, err := r.httpClient.Do(req)
	if err != nil {
		r.logger.Debug("catalog request failed",
			zap.String("method", method), zap.String("url", target), zap.Error(err))
		return fmt.Errorf("failed to reach catalog API: %w", err)
	}
	defer resp.Body.Close()

	r.logger.Debug("catalog request",
		zap.String("method", method),
		zap.String("url", target),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := string(data)
		if len(snippet) > maxErrorBody {
			snippet = snippet[:maxErrorBody]
		}
		return &StatusError{StatusCode: resp.StatusCode, Method: method, URL: target, Body: snippet}
	}

	if out == nil {
		return nil
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return errEmptyBody
	}
	if err := json.Unmarshal(trimmed, out); err != nil {
		return fmt.Errorf("failed to decode catalog response: %w", err)
	}
	return nil
}
