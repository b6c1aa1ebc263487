package config_test

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/pflag"

	"github.com/dtomasi/storectl/internal/config"
)

var _ = Describe("Config", func() {
	BeforeEach(func() {
		// Keep the developer's own config out of the tests.
		GinkgoT().Setenv("HOME", GinkgoT().TempDir())
		GinkgoT().Setenv(config.EnvConfigFile, "")
	})

	It("should provide defaults", func() {
		v := config.New()
		Expect(config.ReadConfigFile(v, "")).To(Succeed())
		c, err := config.Load(v)
		Expect(err).NotTo(HaveOccurred())
		Expect(c.APIURL).To(Equal("https://fakestoreapi.com"))
		Expect(c.Backend).To(Equal(config.BackendRemote))
		Expect(c.Timeout).To(Equal(10 * time.Second))
		Expect(c.Addr).To(Equal(":3000"))
		Expect(c.ShutdownTimeout).To(Equal(5 * time.Second))
		Expect(c.LogLevel).To(Equal("info"))
	})

	It("should layer file, environment and flags", func() {
		path := filepath.Join(GinkgoT().TempDir(), "storectl.yaml")
		Expect(os.WriteFile(path, []byte("backend: memory\naddr: \":8080\"\ntimeout: 3s\nlog-level: debug\n"), 0o600)).To(Succeed())
		GinkgoT().Setenv("STORECTL_ADDR", ":9090")

		fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
		fs.String(config.KeyLogLevel, "info", "")
		fs.String("unrelated", "", "")
		Expect(fs.Parse([]string{"--log-level", "error"})).To(Succeed())

		v := config.New()
		Expect(config.BindFlags(v, fs)).To(Succeed())
		Expect(config.ReadConfigFile(v, path)).To(Succeed())

		c, err := config.Load(v)
		Expect(err).NotTo(HaveOccurred())
		Expect(c.Backend).To(Equal(config.BackendMemory))
		Expect(c.Timeout).To(Equal(3 * time.Second))
		Expect(c.Addr).To(Equal(":9090"))
		Expect(c.LogLevel).To(Equal("error"))
	})

	It("should read the file named by STORECTL_CONFIG", func() {
		path := filepath.Join(GinkgoT().TempDir(), "env.yaml")
		Expect(os.WriteFile(path, []byte("api-url: http://localhost:8081\n"), 0o600)).To(Succeed())
		GinkgoT().Setenv(config.EnvConfigFile, path)

		v := config.New()
		Expect(config.ReadConfigFile(v, "")).To(Succeed())
		c, err := config.Load(v)
		Expect(err).NotTo(HaveOccurred())
		Expect(c.APIURL).To(Equal("http://localhost:8081"))
	})

	It("should fail on a missing explicit file", func() {
		v := config.New()
		err := config.ReadConfigFile(v, filepath.Join(GinkgoT().TempDir(), "missing.yaml"))
		Expect(err).To(MatchError(ContainSubstring("read config")))
	})

	DescribeTable("should reject invalid values",
		func(key string, value interface{}, msg string) {
			v := config.New()
			v.Set(key, value)
			_, err := config.Load(v)
			Expect(err).To(MatchError(ContainSubstring(msg)))
		},
		Entry("backend", config.KeyBackend, "sqlite", "invalid backend"),
		Entry("api url", config.KeyAPIURL, "ftp://example.com", "invalid api-url"),
		Entry("timeout", config.KeyTimeout, "0s", "invalid timeout"),
		Entry("shutdown timeout", config.KeyShutdownTimeout, "-1s", "invalid shutdown-timeout"),
	)

	It("should accept backends case-insensitively", func() {
		v := config.New()
		v.Set(config.KeyBackend, "PEBBLE")
		c, err := config.Load(v)
		Expect(err).NotTo(HaveOccurred())
		Expect(c.Backend).To(Equal(config.BackendPebble))
	})
})
