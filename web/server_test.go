package web_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	storev1alpha1 "github.com/dtomasi/storectl/api/v1alpha1"
	"github.com/dtomasi/storectl/cli-runtime/handlers"
	"github.com/dtomasi/storectl/core/catalog"
	"github.com/dtomasi/storectl/core/defaulting"
	"github.com/dtomasi/storectl/storage/memory"
	"github.com/dtomasi/storectl/web"
)

// unavailableClient answers every call like a failing upstream API.
type unavailableClient struct {
	catalog.Client
}

func (unavailableClient) List(context.Context, catalog.ListOptions) (*storev1alpha1.ProductList, error) {
	return nil, &catalog.StatusError{StatusCode: http.StatusServiceUnavailable}
}

func (unavailableClient) Delete(context.Context, int) (*storev1alpha1.Product, error) {
	return nil, &catalog.StatusError{StatusCode: http.StatusServiceUnavailable}
}

func newServer(client catalog.Client) http.Handler {
	factory, err := handlers.NewHandlerFactory(client)
	Expect(err).NotTo(HaveOccurred())
	srv, err := web.NewServer(factory)
	Expect(err).NotTo(HaveOccurred())
	return srv.Handler()
}

func do(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(rec *httptest.ResponseRecorder) string {
	var body struct {
		Error string `json:"error"`
	}
	Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
	return body.Error
}

var _ = Describe("Server", func() {
	var (
		store   *memory.Store
		handler http.Handler
	)

	BeforeEach(func() {
		store = memory.NewStore(
			storev1alpha1.Product{ID: 1, Title: "Backpack", Price: 109.95, Category: "men's clothing",
				Description: "Fits laptops", Image: "https://example.com/1.jpg",
				Rating: &storev1alpha1.Rating{Rate: 3.9, Count: 120}},
			storev1alpha1.Product{ID: 2, Title: "Ring", Price: 695, Category: "jewelery",
				Image: "https://example.com/2.jpg"},
		)
		handler = newServer(store)
	})

	Describe("NewServer", func() {
		It("should reject a nil handler factory", func() {
			_, err := web.NewServer(nil)
			Expect(err).To(MatchError("handler factory cannot be nil"))
		})

		It("should default the listen address", func() {
			factory, err := handlers.NewHandlerFactory(store)
			Expect(err).NotTo(HaveOccurred())
			srv, err := web.NewServer(factory)
			Expect(err).NotTo(HaveOccurred())
			Expect(srv.Addr()).To(Equal(web.DefaultAddr))

			srv, err = web.NewServer(factory, web.WithAddr("127.0.0.1:8080"))
			Expect(err).NotTo(HaveOccurred())
			Expect(srv.Addr()).To(Equal("127.0.0.1:8080"))
		})
	})

	Describe("health and request ids", func() {
		It("should answer OK on /healthz", func() {
			rec := do(handler, http.MethodGet, "/healthz", "")
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(Equal("OK"))
		})

		It("should assign a request id to every response", func() {
			rec := do(handler, http.MethodGet, "/healthz", "")
			_, err := uuid.Parse(rec.Header().Get(web.RequestIDHeader))
			Expect(err).NotTo(HaveOccurred())

			rec = do(handler, http.MethodGet, "/does-not-exist", "")
			Expect(rec.Header().Get(web.RequestIDHeader)).NotTo(BeEmpty())
		})

		It("should keep a valid incoming request id", func() {
			id := uuid.NewString()
			req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
			req.Header.Set(web.RequestIDHeader, id)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			Expect(rec.Header().Get(web.RequestIDHeader)).To(Equal(id))
		})

		It("should replace an invalid incoming request id", func() {
			req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
			req.Header.Set(web.RequestIDHeader, "not-a-uuid")
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			Expect(rec.Header().Get(web.RequestIDHeader)).NotTo(Equal("not-a-uuid"))
		})
	})

	Describe("HTML pages", func() {
		It("should list products on / and /products", func() {
			for _, path := range []string{"/", "/products"} {
				rec := do(handler, http.MethodGet, path, "")
				Expect(rec.Code).To(Equal(http.StatusOK))
				Expect(rec.Header().Get("Content-Type")).To(HavePrefix("text/html"))
				body := rec.Body.String()
				Expect(body).To(ContainSubstring("Backpack"))
				Expect(body).To(ContainSubstring(`href="/product/1"`))
				Expect(body).To(ContainSubstring("$109.95"))
				Expect(body).To(ContainSubstring("$695"))
				Expect(body).To(ContainSubstring(`data-delete="2"`))
			}
		})

		It("should offer the default and listed categories in the form", func() {
			_, err := store.Delete(context.Background(), 2)
			Expect(err).NotTo(HaveOccurred())
			_, err = store.Create(context.Background(), &storev1alpha1.Product{Title: "Mug", Price: 5, Category: "kitchen"})
			Expect(err).NotTo(HaveOccurred())

			body := do(handler, http.MethodGet, "/", "").Body.String()
			for _, c := range []string{"electronics", "jewelery", "women&#39;s clothing", "kitchen"} {
				Expect(body).To(ContainSubstring(`<option value="` + c + `">`))
			}
		})

		It("should escape product fields", func() {
			_, err := store.Create(context.Background(), &storev1alpha1.Product{
				Title: "<script>alert(1)</script>", Price: 1, Category: "electronics",
			})
			Expect(err).NotTo(HaveOccurred())

			body := do(handler, http.MethodGet, "/products", "").Body.String()
			Expect(body).NotTo(ContainSubstring("<script>alert(1)</script>"))
			Expect(body).To(ContainSubstring("&lt;script&gt;alert(1)&lt;/script&gt;"))
		})

		It("should render the product detail page", func() {
			rec := do(handler, http.MethodGet, "/product/1", "")
			Expect(rec.Code).To(Equal(http.StatusOK))
			body := rec.Body.String()
			Expect(body).To(ContainSubstring("<h1>Backpack</h1>"))
			Expect(body).To(ContainSubstring("Fits laptops"))
			Expect(body).To(ContainSubstring("$109.95"))
			Expect(body).To(ContainSubstring("Rated 3.9 by 120 customers"))
			Expect(body).To(ContainSubstring(`href="/products"`))
		})

		It("should answer unknown products and ids with the 404 page", func() {
			for _, path := range []string{"/product/99", "/product/abc", "/nowhere"} {
				rec := do(handler, http.MethodGet, path, "")
				Expect(rec.Code).To(Equal(http.StatusNotFound), path)
				Expect(rec.Body.String()).To(ContainSubstring("404 - Page not found"))
			}
		})

		It("should answer unsupported methods on pages with the 404 page", func() {
			for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
				rec := do(handler, method, "/products", "")
				Expect(rec.Code).To(Equal(http.StatusNotFound), method)
				Expect(rec.Header().Get("Content-Type")).To(HavePrefix("text/html"))
				Expect(rec.Body.String()).To(ContainSubstring("404 - Page not found"))
			}
		})

		It("should render upstream failures as the server error page", func() {
			h := newServer(unavailableClient{Client: store})
			rec := do(h, http.MethodGet, "/products", "")
			Expect(rec.Code).To(Equal(http.StatusInternalServerError))
			body := rec.Body.String()
			Expect(body).To(ContainSubstring("Server error"))
			Expect(body).To(ContainSubstring("<pre>failed to list products: HTTP error! status: 503</pre>"))
		})
	})

	Describe("POST /api/products", func() {
		It("should create a product from a numeric string price", func() {
			rec := do(handler, http.MethodPost, "/api/products",
				`{"title":"Lamp","price":"19.99","category":"electronics"}`)
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Header().Get("Content-Type")).To(Equal("application/json"))

			var created storev1alpha1.Product
			Expect(json.Unmarshal(rec.Body.Bytes(), &created)).To(Succeed())
			Expect(created.ID).To(Equal(3))
			Expect(created.Price).To(Equal(19.99))
			Expect(created.Description).To(Equal("Description of product Lamp"))
			Expect(created.Image).To(Equal(defaulting.DefaultImage))
			Expect(store.Len()).To(Equal(3))
		})

		It("should accept a JSON number price", func() {
			rec := do(handler, http.MethodPost, "/api/products",
				`{"title":"Lamp","price":5,"category":"electronics","image":"https://example.com/l.png"}`)
			Expect(rec.Code).To(Equal(http.StatusOK))

			stored, err := store.Get(context.Background(), 3)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Price).To(Equal(5.0))
			Expect(stored.Image).To(Equal("https://example.com/l.png"))
		})

		DescribeTable("should reject bad input with 400",
			func(body, message string) {
				rec := do(handler, http.MethodPost, "/api/products", body)
				Expect(rec.Code).To(Equal(http.StatusBadRequest))
				Expect(decodeError(rec)).To(ContainSubstring(message))
				Expect(store.Len()).To(Equal(2))
			},
			Entry("malformed JSON", `{"title":`, "invalid JSON body"),
			Entry("missing price", `{"title":"Lamp","category":"electronics"}`, "price is required"),
			Entry("non-numeric price", `{"title":"Lamp","price":"abc","category":"electronics"}`, "price must be a valid number"),
			Entry("negative price", `{"title":"Lamp","price":-1,"category":"electronics"}`, "invalid product"),
			Entry("boolean price", `{"title":"Lamp","price":true,"category":"electronics"}`, "price must be a number or a numeric string"),
			Entry("missing title", `{"price":3,"category":"electronics"}`, "title"),
			Entry("missing category", `{"title":"Lamp","price":3}`, "category"),
		)
	})

	Describe("DELETE /api/products/{id}", func() {
		It("should delete and return the product", func() {
			rec := do(handler, http.MethodDelete, "/api/products/2", "")
			Expect(rec.Code).To(Equal(http.StatusOK))

			var deleted storev1alpha1.Product
			Expect(json.Unmarshal(rec.Body.Bytes(), &deleted)).To(Succeed())
			Expect(deleted.Title).To(Equal("Ring"))
			Expect(store.Len()).To(Equal(1))
		})

		It("should map errors to status codes", func() {
			rec := do(handler, http.MethodDelete, "/api/products/99", "")
			Expect(rec.Code).To(Equal(http.StatusNotFound))
			Expect(decodeError(rec)).To(ContainSubstring(`"99" not found`))

			rec = do(handler, http.MethodDelete, "/api/products/abc", "")
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			Expect(decodeError(rec)).To(Equal(`invalid product id: "abc"`))

			rec = do(newServer(unavailableClient{Client: store}), http.MethodDelete, "/api/products/1", "")
			Expect(rec.Code).To(Equal(http.StatusBadGateway))
			Expect(decodeError(rec)).To(ContainSubstring("HTTP error! status: 503"))
		})
	})

	Describe("read API", func() {
		It("should list products with query options", func() {
			rec := do(handler, http.MethodGet, "/api/products?sort=desc&limit=1", "")
			Expect(rec.Code).To(Equal(http.StatusOK))

			var items []storev1alpha1.Product
			Expect(json.Unmarshal(rec.Body.Bytes(), &items)).To(Succeed())
			Expect(items).To(HaveLen(1))
			Expect(items[0].ID).To(Equal(2))
		})

		It("should answer an empty category with an empty array", func() {
			rec := do(handler, http.MethodGet, "/api/products?category=toys", "")
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(strings.TrimSpace(rec.Body.String())).To(Equal("[]"))
		})

		It("should reject invalid query options", func() {
			Expect(do(handler, http.MethodGet, "/api/products?limit=x", "").Code).To(Equal(http.StatusBadRequest))
			Expect(do(handler, http.MethodGet, "/api/products?sort=up", "").Code).To(Equal(http.StatusBadRequest))
		})

		It("should get a single product", func() {
			rec := do(handler, http.MethodGet, "/api/products/1", "")
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(ContainSubstring(`"title":"Backpack"`))

			Expect(do(handler, http.MethodGet, "/api/products/99", "").Code).To(Equal(http.StatusNotFound))
		})

		It("should list categories", func() {
			rec := do(handler, http.MethodGet, "/api/categories", "")
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(Equal(`["jewelery","men's clothing"]`))
		})

		It("should answer unknown API routes with JSON", func() {
			rec := do(handler, http.MethodGet, "/api/nothing", "")
			Expect(rec.Code).To(Equal(http.StatusNotFound))
			Expect(decodeError(rec)).To(Equal("not found"))
		})

		It("should answer unsupported API methods with JSON", func() {
			rec := do(handler, http.MethodPut, "/api/products/1", `{"title":"Lamp"}`)
			Expect(rec.Code).To(Equal(http.StatusNotFound))
			Expect(rec.Header().Get("Content-Type")).To(Equal("application/json"))
			Expect(decodeError(rec)).To(Equal("not found"))
			Expect(store.Len()).To(Equal(2))
		})
	})
})
