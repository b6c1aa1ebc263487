package runtime_test

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	storev1alpha1 "github.com/dtomasi/storectl/api/v1alpha1"
	"github.com/dtomasi/storectl/core/catalog"
	"github.com/dtomasi/storectl/core/events"
	storeruntime "github.com/dtomasi/storectl/core/runtime"
	"github.com/dtomasi/storectl/storage/memory"
)

// lifecycleClient records Start and Close calls.
type lifecycleClient struct {
	catalog.Client
	started  int
	closed   int
	startErr error
}

func (c *lifecycleClient) Start(context.Context) error {
	c.started++
	return c.startErr
}

func (c *lifecycleClient) Close() error {
	c.closed++
	return nil
}

var _ = Describe("Runtime", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	Describe("NewRuntime", func() {
		It("should reject a nil client", func() {
			_, err := storeruntime.NewRuntime(nil)
			Expect(err).To(MatchError("catalog client cannot be nil"))
		})

		It("should expose the catalog client", func() {
			store := memory.NewStore()
			rt, err := storeruntime.NewRuntime(store)
			Expect(err).NotTo(HaveOccurred())
			Expect(rt.Catalog()).To(BeIdenticalTo(store))
			Expect(rt.IsStarted()).To(BeFalse())
		})
	})

	Describe("lifecycle", func() {
		It("should start and stop the backend once", func() {
			client := &lifecycleClient{Client: memory.NewStore()}
			rt, err := storeruntime.NewRuntime(client)
			Expect(err).NotTo(HaveOccurred())

			Expect(rt.Start(ctx)).To(Succeed())
			Expect(rt.IsStarted()).To(BeTrue())
			Expect(rt.Start(ctx)).To(MatchError("runtime is already started"))

			Expect(rt.Stop(ctx)).To(Succeed())
			Expect(rt.Stop(ctx)).To(Succeed())
			Expect(rt.IsStarted()).To(BeFalse())

			Expect(client.started).To(Equal(1))
			Expect(client.closed).To(Equal(1))
			Expect(rt.Start(ctx)).To(MatchError("runtime is stopped"))
		})

		It("should not close a backend that never started", func() {
			client := &lifecycleClient{Client: memory.NewStore()}
			rt, err := storeruntime.NewRuntime(client)
			Expect(err).NotTo(HaveOccurred())

			Expect(rt.Stop(ctx)).To(Succeed())
			Expect(client.closed).To(BeZero())
		})

		It("should report backend start failures", func() {
			client := &lifecycleClient{Client: memory.NewStore(), startErr: errors.New("disk full")}
			rt, err := storeruntime.NewRuntime(client)
			Expect(err).NotTo(HaveOccurred())

			err = rt.Start(ctx)
			Expect(err).To(MatchError(ContainSubstring("failed to start memory backend: disk full")))
			Expect(rt.IsStarted()).To(BeFalse())
		})
	})

	Describe("events", func() {
		It("should log recorded events through the runtime logger", func() {
			core, logs := observer.New(zapcore.DebugLevel)
			rt, err := storeruntime.NewRuntime(memory.NewStore(), storeruntime.WithLogger(zap.New(core)))
			Expect(err).NotTo(HaveOccurred())

			Expect(rt.Start(ctx)).To(Succeed())
			rt.EventRecorder("test").Event(&storev1alpha1.Product{ID: 4, Title: "Lamp"},
				events.EventTypeNormal, events.ReasonCreated, "Created product")
			Expect(rt.Stop(ctx)).To(Succeed())

			entries := logs.FilterMessage("event").All()
			Expect(entries).To(HaveLen(1))
			Expect(entries[0].LoggerName).To(Equal("events"))
			Expect(entries[0].ContextMap()).To(HaveKeyWithValue("object", "Product/4"))
		})

		It("should hand out a discarding recorder when events are disabled", func() {
			core, logs := observer.New(zapcore.DebugLevel)
			rt, err := storeruntime.NewRuntime(memory.NewStore(),
				storeruntime.WithLogger(zap.New(core)),
				storeruntime.WithEvents(false, zapcore.InfoLevel))
			Expect(err).NotTo(HaveOccurred())

			Expect(rt.Start(ctx)).To(Succeed())
			rt.EventRecorder("test").Event(&storev1alpha1.Product{ID: 4}, events.EventTypeNormal, events.ReasonCreated, "x")
			Expect(rt.Stop(ctx)).To(Succeed())

			Expect(logs.FilterMessage("event").All()).To(BeEmpty())
		})
	})

	Describe("NewRuntimeFromConfig", func() {
		It("should default to the remote backend", func() {
			rt, err := storeruntime.NewRuntimeFromConfig(storeruntime.SimpleRuntimeConfig{
				APIURL:  "https://fakestoreapi.com",
				Timeout: time.Second,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(rt.Catalog().Name()).To(Equal("remote"))
		})

		It("should reject an invalid API URL", func() {
			_, err := storeruntime.NewRuntimeFromConfig(storeruntime.SimpleRuntimeConfig{
				Type:   storeruntime.RuntimeTypeRemote,
				APIURL: "ftp://example.com",
			})
			Expect(err).To(MatchError(ContainSubstring("failed to create remote catalog")))
		})

		It("should create a memory runtime", func() {
			rt, err := storeruntime.NewRuntimeFromConfig(storeruntime.SimpleRuntimeConfig{Type: storeruntime.RuntimeTypeMemory})
			Expect(err).NotTo(HaveOccurred())
			Expect(rt.Catalog().Name()).To(Equal("memory"))
		})

		It("should persist products with the pebble runtime", func() {
			cfg := storeruntime.SimpleRuntimeConfig{
				Type:   storeruntime.RuntimeTypePebble,
				DBPath: filepath.Join(GinkgoT().TempDir(), "db"),
			}

			rt, err := storeruntime.NewRuntimeFromConfig(cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(rt.Catalog().Name()).To(Equal("pebble"))
			Expect(rt.Start(ctx)).To(Succeed())
			_, err = rt.Catalog().Create(ctx, &storev1alpha1.Product{Title: "Lamp", Price: 3, Category: "home"})
			Expect(err).NotTo(HaveOccurred())
			Expect(rt.Stop(ctx)).To(Succeed())

			rt, err = storeruntime.NewRuntimeFromConfig(cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(rt.Start(ctx)).To(Succeed())
			defer func() { _ = rt.Stop(ctx) }()

			product, err := rt.Catalog().Get(ctx, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(product.Title).To(Equal("Lamp"))
		})

		It("should log the resolved pebble path", func() {
			core, logs := observer.New(zapcore.DebugLevel)
			dir := GinkgoT().TempDir()

			_, err := storeruntime.NewRuntimeFromConfig(storeruntime.SimpleRuntimeConfig{
				Type:   storeruntime.RuntimeTypePebble,
				DBPath: filepath.Join(dir, "db"),
				Logger: zap.New(core),
			})
			Expect(err).NotTo(HaveOccurred())

			entries := logs.FilterMessage("using pebble storage").All()
			Expect(entries).To(HaveLen(1))
			Expect(entries[0].ContextMap()).To(HaveKeyWithValue("path", filepath.Join(dir, "db")))
		})

		It("should reject unknown types", func() {
			_, err := storeruntime.NewRuntimeFromConfig(storeruntime.SimpleRuntimeConfig{Type: "sqlite"})
			Expect(err).To(MatchError("unsupported runtime type: sqlite"))
		})
	})
})
