package validation_test

import (
	"context"
	"errors"
	"math"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	storev1alpha1 "github.com/dtomasi/storectl/api/v1alpha1"
	"github.com/dtomasi/storectl/core/validation"
)

var _ = Describe("ProductValidator", func() {
	var (
		validator *validation.ProductValidator
		ctx       context.Context
	)

	validProduct := func() *storev1alpha1.Product {
		return &storev1alpha1.Product{
			Title:    "Backpack",
			Price:    109.95,
			Category: "men's clothing",
			Image:    "https://fakestoreapi.com/img/81fPKd-2AYL._AC_SL1500_.jpg",
		}
	}

	fieldsOf := func(err error) []string {
		var verrs validation.ValidationErrors
		ExpectWithOffset(1, errors.As(err, &verrs)).To(BeTrue())
		fields := make([]string, 0, len(verrs))
		for _, v := range verrs {
			fields = append(fields, v.Field)
		}
		return fields
	}

	BeforeEach(func() {
		var err error
		validator, err = validation.NewProductValidator()
		Expect(err).NotTo(HaveOccurred())
		ctx = context.Background()
	})

	It("should accept a valid product", func() {
		Expect(validator.Validate(ctx, validProduct())).To(Succeed())
	})

	It("should accept a product without an image", func() {
		p := validProduct()
		p.Image = ""
		Expect(validator.Validate(ctx, p)).To(Succeed())
	})

	It("should require a title", func() {
		p := validProduct()
		p.Title = ""
		Expect(fieldsOf(validator.Validate(ctx, p))).To(ConsistOf("title"))
	})

	It("should reject long titles", func() {
		p := validProduct()
		p.Title = strings.Repeat("x", validation.MaxTitleLength+1)
		err := validator.Validate(ctx, p)
		Expect(fieldsOf(err)).To(ConsistOf("title"))
		Expect(err.Error()).To(ContainSubstring("at most 200 characters"))
	})

	DescribeTable("should reject non-positive prices",
		func(price float64) {
			p := validProduct()
			p.Price = price
			err := validator.Validate(ctx, p)
			Expect(fieldsOf(err)).To(ConsistOf("price"))
		},
		Entry("zero", 0.0),
		Entry("negative", -3.5),
		Entry("infinite", math.Inf(1)),
	)

	It("should require a category", func() {
		p := validProduct()
		p.Category = ""
		Expect(fieldsOf(validator.Validate(ctx, p))).To(ConsistOf("category"))
	})

	It("should reject images that are not http urls", func() {
		p := validProduct()
		p.Image = "ftp://example.com/image.png"
		Expect(fieldsOf(validator.Validate(ctx, p))).To(ConsistOf("image"))
	})

	It("should aggregate every failing rule", func() {
		err := validator.Validate(ctx, &storev1alpha1.Product{})
		Expect(fieldsOf(err)).To(ConsistOf("title", "price", "category"))
		Expect(err.Error()).To(HavePrefix("invalid product: "))
	})

	It("should reject other object types", func() {
		err := validator.Validate(ctx, &storev1alpha1.ProductList{})
		Expect(err).To(MatchError(ContainSubstring("expected *Product")))
	})
})

var _ = Describe("ParsePrice", func() {
	DescribeTable("valid prices",
		func(in string, want float64) {
			got, err := validation.ParsePrice(in)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(BeNumerically("~", want, 1e-9))
		},
		Entry("integer", "10", 10.0),
		Entry("decimal", "29.99", 29.99),
		Entry("padded", " 5.5 ", 5.5),
	)

	DescribeTable("invalid prices",
		func(in string, msg string) {
			_, err := validation.ParsePrice(in)
			Expect(err).To(MatchError(ContainSubstring(msg)))
		},
		Entry("text", "abc", "valid number"),
		Entry("trailing text", "12abc", "valid number"),
		Entry("empty", "", "valid number"),
		Entry("zero", "0", "positive number"),
		Entry("negative", "-1", "positive number"),
		Entry("not a number", "NaN", "positive number"),
		Entry("infinite", "Inf", "positive number"),
	)
})
