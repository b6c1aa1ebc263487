// Package storagetest holds the behaviour every offline catalog backend must share
// with the catalog API. Backends call DescribeCatalog from their ginkgo suites.
package storagetest

import (
	"context"

	. "github.com/onsi/ginkgo/v2" //nolint:revive,staticcheck
	. "github.com/onsi/gomega"    //nolint:revive,staticcheck
	apierrors "k8s.io/apimachinery/pkg/api/errors"

	storev1alpha1 "github.com/dtomasi/storectl/api/v1alpha1"
	"github.com/dtomasi/storectl/core/catalog"
)

// Fixtures returns three products in two categories, without ids.
func Fixtures() []storev1alpha1.Product {
	return []storev1alpha1.Product{
		{Title: "Backpack", Price: 109.95, Category: "men's clothing", Description: "Fits 15 inch laptops"},
		{Title: "Ring", Price: 695, Category: "jewelery"},
		{Title: "T-Shirt", Price: 22.3, Category: "men's clothing", Rating: &storev1alpha1.Rating{Rate: 4.1, Count: 259}},
	}
}

// DescribeCatalog registers the shared catalog specs. newClient is called
// before every spec and must return an empty backend.
func DescribeCatalog(name string, newClient func() catalog.Client) bool {
	return Describe(name+" catalog behaviour", func() {
		var (
			ctx    context.Context
			client catalog.Client
		)

		seed := func() {
			for _, p := range Fixtures() {
				_, err := client.Create(ctx, p.DeepCopy())
				Expect(err).NotTo(HaveOccurred())
			}
		}

		BeforeEach(func() {
			ctx = context.Background()
			client = newClient()
		})

		It("should number created products from 1", func() {
			fixtures := Fixtures()
			created, err := client.Create(ctx, &fixtures[0])
			Expect(err).NotTo(HaveOccurred())
			Expect(created.ID).To(Equal(1))
			Expect(created.Title).To(Equal("Backpack"))

			created, err = client.Create(ctx, &fixtures[1])
			Expect(err).NotTo(HaveOccurred())
			Expect(created.ID).To(Equal(2))
		})

		It("should ignore ids passed to create", func() {
			created, err := client.Create(ctx, &storev1alpha1.Product{ID: 42, Title: "Lamp", Price: 1, Category: "home"})
			Expect(err).NotTo(HaveOccurred())
			Expect(created.ID).To(Equal(1))
		})

		It("should list products ordered by id", func() {
			seed()
			list, err := client.List(ctx, catalog.ListOptions{})
			Expect(err).NotTo(HaveOccurred())
			Expect(list.Items).To(HaveLen(3))
			Expect([]int{list.Items[0].ID, list.Items[1].ID, list.Items[2].ID}).To(Equal([]int{1, 2, 3}))
			Expect(list.Items[2].Rating).To(Equal(&storev1alpha1.Rating{Rate: 4.1, Count: 259}))
		})

		It("should apply list options", func() {
			seed()
			list, err := client.List(ctx, catalog.ListOptions{Sort: catalog.SortDesc, Limit: 2})
			Expect(err).NotTo(HaveOccurred())
			Expect(list.Items).To(HaveLen(2))
			Expect(list.Items[0].ID).To(Equal(3))

			list, err = client.List(ctx, catalog.ListOptions{Category: "jewelery"})
			Expect(err).NotTo(HaveOccurred())
			Expect(list.Items).To(HaveLen(1))
			Expect(list.Items[0].Title).To(Equal("Ring"))
		})

		It("should reject invalid list options", func() {
			_, err := client.List(ctx, catalog.ListOptions{Sort: "sideways"})
			Expect(err).To(HaveOccurred())
		})

		It("should return an empty list for an empty catalog", func() {
			list, err := client.List(ctx, catalog.ListOptions{})
			Expect(err).NotTo(HaveOccurred())
			Expect(list.Items).To(BeEmpty())
		})

		It("should get a product by id", func() {
			seed()
			p, err := client.Get(ctx, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Title).To(Equal("Ring"))
		})

		It("should report missing products as not found", func() {
			_, err := client.Get(ctx, 99)
			Expect(apierrors.IsNotFound(err)).To(BeTrue())
			Expect(err.Error()).To(Equal(`products "99" not found`))
		})

		It("should not share state with returned products", func() {
			seed()
			p, err := client.Get(ctx, 1)
			Expect(err).NotTo(HaveOccurred())
			p.Title = "changed"

			again, err := client.Get(ctx, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(again.Title).To(Equal("Backpack"))
		})

		It("should update existing products only", func() {
			seed()
			updated, err := client.Update(ctx, 1, &storev1alpha1.Product{Title: "Bag", Price: 99, Category: "bags"})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.ID).To(Equal(1))

			p, err := client.Get(ctx, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Title).To(Equal("Bag"))

			_, err = client.Update(ctx, 99, &storev1alpha1.Product{Title: "x"})
			Expect(apierrors.IsNotFound(err)).To(BeTrue())
		})

		It("should delete products and return them", func() {
			seed()
			deleted, err := client.Delete(ctx, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(deleted.Title).To(Equal("Ring"))

			_, err = client.Get(ctx, 2)
			Expect(apierrors.IsNotFound(err)).To(BeTrue())

			_, err = client.Delete(ctx, 2)
			Expect(apierrors.IsNotFound(err)).To(BeTrue())
		})

		It("should not reuse ids of deleted products", func() {
			seed()
			_, err := client.Delete(ctx, 3)
			Expect(err).NotTo(HaveOccurred())

			created, err := client.Create(ctx, &storev1alpha1.Product{Title: "Lamp", Price: 1, Category: "home"})
			Expect(err).NotTo(HaveOccurred())
			Expect(created.ID).To(Equal(4))
		})

		It("should list sorted distinct categories", func() {
			seed()
			categories, err := client.Categories(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(categories.Names()).To(Equal([]string{"jewelery", "men's clothing"}))
		})

		It("should honour cancelled contexts", func() {
			cancelled, cancel := context.WithCancel(ctx)
			cancel()
			_, err := client.List(cancelled, catalog.ListOptions{})
			Expect(err).To(MatchError(context.Canceled))
		})
	})
}
