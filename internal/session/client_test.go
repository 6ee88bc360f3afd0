package session_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/frahmantamala/lead-management/internal"
	"github.com/frahmantamala/lead-management/internal/session"
	"github.com/frahmantamala/lead-management/internal/storage"
	"github.com/frahmantamala/lead-management/internal/storage/memory"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Client", func() {
	var (
		ctx      context.Context
		store    *memory.Store
		server   *httptest.Server
		requests []*http.Request
		bodies   []map[string]interface{}
		status   int
		client   *session.Client
	)

	BeforeEach(func() {
		ctx = context.Background()
		store = memory.NewStore()
		requests = nil
		bodies = nil
		status = http.StatusOK

		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var body map[string]interface{}
			_ = json.NewDecoder(r.Body).Decode(&body)
			requests = append(requests, r)
			bodies = append(bodies, body)

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			switch r.URL.Path {
			case "/api/account/login":
				w.Write([]byte(`{"serviceToken":"tok","user":{"id":"u1","email":"ops@example.com"}}`))
			case "/api/account/register":
				w.Write([]byte(`[{"id":"u1"},{"id":"u2"}]`))
			case "/api/account/me":
				w.Write([]byte(`{"id":"u1","email":"ops@example.com","firstName":"Ops"}`))
			default:
				w.Write([]byte(`{"ok":true}`))
			}
		}))
		client = session.NewClient(session.ClientConfig{BaseURL: server.URL + "/", Timeout: time.Second}, store, quietLogger())
	})

	AfterEach(func() {
		server.Close()
	})

	It("posts credentials to the login endpoint", func() {
		resp, err := client.Login(ctx, session.Credentials{Email: "ops@example.com", Password: "pw"})
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.ServiceToken).To(Equal("tok"))
		Expect(resp.User.Email).To(Equal("ops@example.com"))

		Expect(requests).To(HaveLen(1))
		Expect(requests[0].Method).To(Equal(http.MethodPost))
		Expect(requests[0].URL.Path).To(Equal("/api/account/login"))
		Expect(requests[0].Header.Get("Authorization")).To(BeEmpty())
		Expect(bodies[0]).To(HaveKeyWithValue("email", "ops@example.com"))
		Expect(bodies[0]).To(HaveKeyWithValue("password", "pw"))
	})

	It("posts the registration with its id", func() {
		resp, err := client.Register(ctx, session.RegisterRequest{ID: "u2", Email: "a@b.co", Password: "pw", FirstName: "A", LastName: "B"})
		Expect(err).NotTo(HaveOccurred())
		Expect(resp).To(HaveLen(2))
		Expect(bodies[0]).To(HaveKeyWithValue("id", "u2"))
		Expect(bodies[0]).To(HaveKeyWithValue("firstName", "A"))
	})

	It("reports non-2xx answers", func() {
		status = http.StatusUnauthorized

		_, err := client.Login(ctx, session.Credentials{Email: "ops@example.com", Password: "bad"})
		Expect(err).To(MatchError(ContainSubstring("401")))
	})

	It("refuses to call out without a base url", func() {
		unconfigured := session.NewClient(session.ClientConfig{}, store, quietLogger())

		_, err := unconfigured.Login(ctx, session.Credentials{Email: "ops@example.com", Password: "pw"})
		Expect(err).To(MatchError(session.ErrAccountNotConfigured))
	})

	Describe("DoAuthenticated", func() {
		It("sends the stored token as a bearer header", func() {
			Expect(storage.SaveValue(ctx, store, storage.KeyServiceToken, "stored-token")).To(Succeed())

			var out map[string]bool
			err := client.DoAuthenticated(ctx, http.MethodGet, "/api/other", nil, &out)
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(HaveKeyWithValue("ok", true))
			Expect(requests[0].Header.Get("Authorization")).To(Equal("Bearer stored-token"))
		})

		It("looks up the token owner through Me", func() {
			Expect(storage.SaveValue(ctx, store, storage.KeyServiceToken, "stored-token")).To(Succeed())

			user, err := client.Me(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(user.FirstName).To(Equal("Ops"))
			Expect(requests[0].URL.Path).To(Equal("/api/account/me"))
			Expect(requests[0].Header.Get("Authorization")).To(Equal("Bearer stored-token"))
		})

		It("fails with a missing session and sends nothing", func() {
			err := client.DoAuthenticated(ctx, http.MethodGet, "/api/account/me", nil, nil)
			Expect(err).To(MatchError(internal.ErrSessionMissing))
			Expect(requests).To(BeEmpty())
		})
	})
})
