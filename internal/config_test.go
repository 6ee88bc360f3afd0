package internal_test

import (
	"os"
	"time"

	"github.com/frahmantamala/lead-management/internal"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Config", func() {
	var cfg *internal.Config

	BeforeEach(func() {
		cfg = &internal.Config{}
		cfg.ApplyDefaults()
	})

	It("fills a runnable default", func() {
		Expect(cfg.Server.Port).To(Equal(8080))
		Expect(cfg.Storage.Driver).To(Equal(internal.StorageDriverSQLite))
		Expect(cfg.Storage.Source).NotTo(BeEmpty())
		Expect(cfg.Account.Timeout).To(Equal(10 * time.Second))
		Expect(cfg.Session.VerifyToken).To(Equal(internal.TokenVerifyPresence))
		Expect(cfg.Validate()).To(Succeed())
	})

	It("allows an empty account base url", func() {
		cfg.Account.BaseURL = ""
		Expect(cfg.Validate()).To(Succeed())
	})

	It("collects every invalid section", func() {
		cfg.Storage.Driver = "mysql"
		cfg.Account.BaseURL = "not a url"
		cfg.Session.VerifyToken = "signature"
		cfg.Observability.Logging.Format = "xml"

		err := cfg.Validate()
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("storage config"))
		Expect(err.Error()).To(ContainSubstring("account config"))
		Expect(err.Error()).To(ContainSubstring("session config"))
		Expect(err.Error()).To(ContainSubstring("logging config"))
	})

	It("requires a source for database drivers only", func() {
		cfg.Storage.Driver = internal.StorageDriverPostgres
		cfg.Storage.Source = ""
		Expect(cfg.Storage.Validate()).NotTo(Succeed())

		cfg.Storage.Driver = internal.StorageDriverMemory
		Expect(cfg.Storage.Validate()).To(Succeed())
	})

	It("checks the account stub security settings", func() {
		Expect(cfg.Security.Validate()).NotTo(Succeed())

		cfg.Security.JWTSecret = "0123456789abcdef"
		Expect(cfg.Security.Validate()).To(Succeed())
	})

	Describe("LoadConfigFromEnv", func() {
		set := func(key, value string) {
			old, had := os.LookupEnv(key)
			Expect(os.Setenv(key, value)).To(Succeed())
			DeferCleanup(func() {
				if had {
					os.Setenv(key, old)
				} else {
					os.Unsetenv(key)
				}
			})
		}

		It("reads plain environment variables", func() {
			set("HTTP_PORT", "9090")
			set("STORAGE_DRIVER", "memory")
			set("ACCOUNT_BASE_URL", "http://accounts.local")
			set("ACCOUNT_TIMEOUT", "3s")
			set("SESSION_VERIFY_TOKEN", "jwt-expiry")

			env := internal.LoadConfigFromEnv()
			Expect(env.Server.Port).To(Equal(9090))
			Expect(env.Storage.Driver).To(Equal(internal.StorageDriverMemory))
			Expect(env.Account.BaseURL).To(Equal("http://accounts.local"))
			Expect(env.Account.Timeout).To(Equal(3 * time.Second))
			Expect(env.Session.VerifyToken).To(Equal(internal.TokenVerifyJWTExpiry))
			Expect(env.Validate()).To(Succeed())
		})

		It("ignores unparsable numbers", func() {
			set("HTTP_PORT", "eighty")
			Expect(internal.LoadConfigFromEnv().Server.Port).To(Equal(8080))
		})
	})
})
