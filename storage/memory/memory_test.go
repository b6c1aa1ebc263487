package memory_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	storev1alpha1 "github.com/dtomasi/storectl/api/v1alpha1"
	"github.com/dtomasi/storectl/core/catalog"
	"github.com/dtomasi/storectl/storage/memory"
	"github.com/dtomasi/storectl/storage/storagetest"
)

var _ = storagetest.DescribeCatalog("memory", func() catalog.Client {
	return memory.NewStore()
})

var _ = Describe("NewStore", func() {
	It("should number seeded products after the highest id", func() {
		store := memory.NewStore(
			storev1alpha1.Product{ID: 5, Title: "Five"},
			storev1alpha1.Product{Title: "Unnumbered"},
		)
		Expect(store.Len()).To(Equal(2))

		p, err := store.Get(context.Background(), 6)
		Expect(err).NotTo(HaveOccurred())
		Expect(p.Title).To(Equal("Unnumbered"))

		created, err := store.Create(context.Background(), &storev1alpha1.Product{Title: "Next"})
		Expect(err).NotTo(HaveOccurred())
		Expect(created.ID).To(Equal(7))
	})

	It("should reject nil products", func() {
		store := memory.NewStore()
		_, err := store.Create(context.Background(), nil)
		Expect(err).To(HaveOccurred())
	})
})
