package account_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/frahmantamala/lead-management/internal/account"
	accountRepository "github.com/frahmantamala/lead-management/internal/account/postgres"
	accountDatamodel "github.com/frahmantamala/lead-management/internal/core/datamodel/account"
	"github.com/frahmantamala/lead-management/internal/session"
	"github.com/frahmantamala/lead-management/internal/storage"
	"github.com/frahmantamala/lead-management/internal/storage/memory"
	"github.com/frahmantamala/lead-management/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var _ = Describe("Account stub over HTTP", func() {
	var (
		ctx    context.Context
		db     *gorm.DB
		server *httptest.Server
		lg     *slog.Logger
	)

	BeforeEach(func() {
		var err error
		ctx = context.Background()
		lg = slog.New(slog.NewTextHandler(io.Discard, nil))

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)
		Expect(db.AutoMigrate(&accountDatamodel.Account{})).To(Succeed())

		svc := account.NewService(accountRepository.NewAccountRepository(db), "0123456789abcdef", time.Hour, 4, lg)
		router := chi.NewRouter()
		account.NewHandler(transport.NewBaseHandler(lg), svc).Routes(router)
		server = httptest.NewServer(router)
	})

	AfterEach(func() {
		server.Close()
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	post := func(path, body string) *http.Response {
		resp, err := http.Post(server.URL+path, "application/json", strings.NewReader(body))
		Expect(err).NotTo(HaveOccurred())
		return resp
	}

	It("answers 401 for unknown credentials", func() {
		resp := post("/api/account/login", `{"email":"ghost@example.com","password":"x"}`)
		defer resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusUnauthorized))
	})

	It("answers 409 for a second registration of an email", func() {
		body := `{"id":"u1","email":"ops@example.com","password":"pw","firstName":"Ops","lastName":"Team"}`
		first := post("/api/account/register", body)
		first.Body.Close()
		Expect(first.StatusCode).To(Equal(http.StatusCreated))

		second := post("/api/account/register", body)
		second.Body.Close()
		Expect(second.StatusCode).To(Equal(http.StatusConflict))
	})

	It("answers 400 for a malformed body", func() {
		resp := post("/api/account/login", `{`)
		resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
	})

	It("lets the console register, log in and restore its session", func() {
		store := memory.NewStore()
		client := session.NewClient(session.ClientConfig{BaseURL: server.URL, Timeout: time.Second}, store, lg)
		controller := session.NewController(store, client, session.JWTExpiryVerifier{}, nil, lg)
		controller.Initialize(ctx)

		_, err := controller.Register(ctx, session.RegisterFields{
			Email: "ops@example.com", Password: "pw", FirstName: "Ops", LastName: "Team",
		})
		Expect(err).NotTo(HaveOccurred())

		user, err := controller.Login(ctx, session.Credentials{Email: "ops@example.com", Password: "pw"})
		Expect(err).NotTo(HaveOccurred())
		Expect(user.FirstName).To(Equal("Ops"))

		_, found := storage.LoadValue[string](ctx, store, storage.KeyServiceToken)
		Expect(found).To(BeTrue())

		restarted := session.NewController(store, client, session.JWTExpiryVerifier{}, nil, lg)
		Expect(restarted.Initialize(ctx)).To(Equal(session.StateLoggedIn))
		Expect(restarted.Snapshot().User.Email).To(Equal("ops@example.com"))

		profile, err := restarted.Profile(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(profile.LastName).To(Equal("Team"))
	})

	It("answers 401 on the profile lookup without a valid token", func() {
		resp, err := http.Get(server.URL + "/api/account/me")
		Expect(err).NotTo(HaveOccurred())
		resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusUnauthorized))

		req, err := http.NewRequest(http.MethodGet, server.URL+"/api/account/me", nil)
		Expect(err).NotTo(HaveOccurred())
		req.Header.Set("Authorization", "Bearer not-a-token")
		resp, err = http.DefaultClient.Do(req)
		Expect(err).NotTo(HaveOccurred())
		resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusUnauthorized))
	})

	It("fails the console login on a wrong password", func() {
		store := memory.NewStore()
		client := session.NewClient(session.ClientConfig{BaseURL: server.URL, Timeout: time.Second}, store, lg)
		controller := session.NewController(store, client, nil, nil, lg)

		_, err := controller.Login(ctx, session.Credentials{Email: "ops@example.com", Password: "nope"})
		Expect(err).To(MatchError(ContainSubstring("401")))
	})
})
