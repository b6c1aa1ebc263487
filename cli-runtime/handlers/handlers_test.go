package handlers_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	apierrors "k8s.io/apimachinery/pkg/api/errors"

	storev1alpha1 "github.com/dtomasi/storectl/api/v1alpha1"
	"github.com/dtomasi/storectl/cli-runtime/handlers"
	"github.com/dtomasi/storectl/core/catalog"
	"github.com/dtomasi/storectl/core/defaulting"
	"github.com/dtomasi/storectl/core/validation"
	"github.com/dtomasi/storectl/storage/memory"
)

// failingClient wraps a catalog and fails every write.
type failingClient struct {
	catalog.Client
}

func (failingClient) Create(context.Context, *storev1alpha1.Product) (*storev1alpha1.Product, error) {
	return nil, &catalog.StatusError{StatusCode: 500}
}

var _ = Describe("Handlers", func() {
	var (
		ctx     context.Context
		store   *memory.Store
		factory *handlers.HandlerFactory
	)

	BeforeEach(func() {
		ctx = context.Background()
		store = memory.NewStore(
			storev1alpha1.Product{ID: 1, Title: "Backpack", Price: 109.95, Category: "men's clothing",
				Description: "Fits laptops", Image: "https://example.com/1.jpg",
				Rating: &storev1alpha1.Rating{Rate: 3.9, Count: 120}},
			storev1alpha1.Product{ID: 2, Title: "Ring", Price: 695, Category: "jewelery",
				Description: "Gold", Image: "https://example.com/2.jpg"},
		)

		var err error
		factory, err = handlers.NewHandlerFactory(store)
		Expect(err).NotTo(HaveOccurred())
	})

	It("should require a client", func() {
		_, err := handlers.NewHandlerFactory(nil)
		Expect(err).To(HaveOccurred())
	})

	Describe("Get", func() {
		It("should get a single product", func() {
			id := 2
			resp, err := factory.Get().Handle(ctx, &handlers.GetRequest{ID: &id})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.IsCollection).To(BeFalse())
			Expect(resp.Product.Title).To(Equal("Ring"))
		})

		It("should list products", func() {
			resp, err := factory.Get().Handle(ctx, &handlers.GetRequest{ListOptions: catalog.ListOptions{Sort: catalog.SortDesc}})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.IsCollection).To(BeTrue())
			Expect(resp.List.Items).To(HaveLen(2))
			Expect(resp.List.Items[0].ID).To(Equal(2))
		})

		It("should keep not found errors detectable", func() {
			id := 9
			_, err := factory.Get().Handle(ctx, &handlers.GetRequest{ID: &id})
			Expect(apierrors.IsNotFound(err)).To(BeTrue())
			Expect(err.Error()).To(Equal(`failed to get product 9: products "9" not found`))
		})

		It("should reject nil requests", func() {
			_, err := factory.Get().Handle(ctx, nil)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Create", func() {
		It("should default, validate and forward the product", func() {
			resp, err := factory.Create().Handle(ctx, &handlers.CreateRequest{
				Product: &storev1alpha1.Product{Title: "Lamp", Price: 12.5, Category: "home"},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Created).To(BeTrue())
			Expect(resp.Product.ID).To(Equal(3))
			Expect(resp.Product.Description).To(Equal("Description of product Lamp"))
			Expect(resp.Product.Image).To(Equal(defaulting.DefaultImage))
			Expect(store.Len()).To(Equal(3))
		})

		It("should not send anything on dry run", func() {
			req := &handlers.CreateRequest{
				Product: &storev1alpha1.Product{Title: "Lamp", Price: 12.5, Category: "home"},
				DryRun:  true,
			}
			resp, err := factory.Create().Handle(ctx, req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Created).To(BeFalse())
			Expect(resp.Product.Description).To(Equal("Description of product Lamp"))
			Expect(req.Product.Description).To(BeEmpty())
			Expect(store.Len()).To(Equal(2))
		})

		It("should return validation errors unwrapped", func() {
			_, err := factory.Create().Handle(ctx, &handlers.CreateRequest{
				Product: &storev1alpha1.Product{Title: "Lamp", Price: -1, Category: "home"},
			})
			var verrs validation.ValidationErrors
			Expect(errors.As(err, &verrs)).To(BeTrue())
			Expect(verrs[0].Field).To(Equal("price"))
			Expect(store.Len()).To(Equal(2))
		})

		It("should wrap catalog errors", func() {
			f, err := handlers.NewHandlerFactory(failingClient{Client: store})
			Expect(err).NotTo(HaveOccurred())
			_, err = f.Create().Handle(ctx, &handlers.CreateRequest{
				Product: &storev1alpha1.Product{Title: "Lamp", Price: 1, Category: "home"},
			})
			Expect(err).To(MatchError(`failed to create product "Lamp": HTTP error! status: 500`))
		})

		It("should reject requests without a product", func() {
			_, err := factory.Create().Handle(ctx, &handlers.CreateRequest{})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Apply", func() {
		It("should create, update and leave products unchanged", func() {
			resp, err := factory.Apply().Handle(ctx, &handlers.ApplyRequest{Products: []*storev1alpha1.Product{
				{Title: "Lamp", Price: 12.5, Category: "home"},
				{ID: 2, Title: "Ring", Price: 700, Category: "jewelery", Description: "Gold", Image: "https://example.com/2.jpg"},
				{ID: 1, Title: "Backpack", Price: 109.95, Category: "men's clothing", Description: "Fits laptops", Image: "https://example.com/1.jpg"},
				{ID: 40, Title: "Mug", Price: 3, Category: "home"},
			}})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Results).To(HaveLen(4))

			ops := []handlers.ApplyOperation{}
			for _, r := range resp.Results {
				ops = append(ops, r.Applied)
			}
			Expect(ops).To(Equal([]handlers.ApplyOperation{
				handlers.ApplyOperationCreated,
				handlers.ApplyOperationUpdated,
				handlers.ApplyOperationUnchanged,
				handlers.ApplyOperationCreated,
			}))
			Expect(resp.Results[3].Product.ID).To(Equal(4))

			ring, err := store.Get(ctx, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(ring.Price).To(Equal(700.0))
		})

		It("should keep the catalog untouched on dry run", func() {
			resp, err := factory.Apply().Handle(ctx, &handlers.ApplyRequest{
				DryRun:   true,
				Products: []*storev1alpha1.Product{{ID: 2, Title: "Ring", Price: 1, Category: "jewelery"}},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Results[0].Applied).To(Equal(handlers.ApplyOperationUpdated))

			ring, err := store.Get(ctx, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(ring.Price).To(Equal(695.0))
		})

		It("should stop at the first invalid product", func() {
			resp, err := factory.Apply().Handle(ctx, &handlers.ApplyRequest{Products: []*storev1alpha1.Product{
				{Title: "Lamp", Price: 1, Category: "home"},
				{Title: "", Price: 1, Category: "home"},
			}})
			Expect(err).To(HaveOccurred())
			Expect(resp.Results).To(HaveLen(1))
		})

		It("should reject empty requests", func() {
			_, err := factory.Apply().Handle(ctx, &handlers.ApplyRequest{})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Delete", func() {
		It("should delete and return the product", func() {
			resp, err := factory.Delete().Handle(ctx, &handlers.DeleteRequest{ID: 1})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Deleted.Title).To(Equal("Backpack"))
			Expect(store.Len()).To(Equal(1))
		})

		It("should report missing products unless ignored", func() {
			_, err := factory.Delete().Handle(ctx, &handlers.DeleteRequest{ID: 9})
			Expect(apierrors.IsNotFound(err)).To(BeTrue())

			resp, err := factory.Delete().Handle(ctx, &handlers.DeleteRequest{ID: 9, IgnoreNotFound: true})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Deleted).To(BeNil())
		})

		It("should require an id", func() {
			_, err := factory.Delete().Handle(ctx, &handlers.DeleteRequest{})
			Expect(err).To(MatchError(ContainSubstring("must specify a product id")))
		})
	})

	Describe("Categories", func() {
		It("should list categories", func() {
			resp, err := factory.Categories().Handle(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Categories.Names()).To(Equal([]string{"jewelery", "men's clothing"}))
		})
	})
})
