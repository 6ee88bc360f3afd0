package session_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/frahmantamala/lead-management/internal"
	"github.com/frahmantamala/lead-management/internal/session"
	"github.com/frahmantamala/lead-management/internal/storage"
	"github.com/frahmantamala/lead-management/internal/storage/memory"
	"github.com/frahmantamala/lead-management/internal/transport"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Handler", func() {
	var (
		ctx        context.Context
		store      *memory.Store
		account    *fakeAccount
		controller *session.Controller
		handler    *session.Handler
		protected  http.Handler
		operator   string
	)

	BeforeEach(func() {
		ctx = context.Background()
		store = memory.NewStore()
		account = &fakeAccount{
			loginResp: &session.LoginResponse{ServiceToken: "tok", User: session.User{ID: "u1", Email: "ops@example.com"}},
		}
		controller = session.NewController(store, account, nil, nil, quietLogger())
		handler = session.NewHandler(&transport.BaseHandler{Logger: quietLogger()}, controller)

		operator = ""
		protected = handler.RequireSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			operator = internal.OperatorFromContext(r.Context())
			w.WriteHeader(http.StatusNoContent)
		}))
	})

	serve := func(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w
	}

	Describe("RequireSession", func() {
		It("answers 503 with a loading body before initialization", func() {
			w := serve(protected, http.MethodGet, "/role-permission/role/", "")

			Expect(w.Code).To(Equal(http.StatusServiceUnavailable))
			Expect(w.Header().Get("Retry-After")).NotTo(BeEmpty())
			Expect(w.Body.String()).To(MatchJSON(`{"status":"loading","state":"uninitialized"}`))
		})

		It("redirects to the landing view when logged out", func() {
			controller.Initialize(ctx)

			w := serve(protected, http.MethodGet, "/role-permission/role/", "")
			Expect(w.Code).To(Equal(http.StatusSeeOther))
			Expect(w.Header().Get("Location")).To(Equal("/"))
		})

		It("passes through with the operator when logged in", func() {
			Expect(storage.SaveValue(ctx, store, storage.KeyServiceToken, "tok")).To(Succeed())
			Expect(storage.SaveValue(ctx, store, storage.KeyPersonalInfo, session.User{Email: "ops@example.com"})).To(Succeed())
			controller.Initialize(ctx)

			w := serve(protected, http.MethodGet, "/role-permission/role/", "")
			Expect(w.Code).To(Equal(http.StatusNoContent))
			Expect(operator).To(Equal("ops@example.com"))
		})
	})

	It("logs in and out", func() {
		controller.Initialize(ctx)

		w := serve(http.HandlerFunc(handler.Login), http.MethodPost, "/login", `{"email":"ops@example.com","password":"pw"}`)
		Expect(w.Code).To(Equal(http.StatusOK))
		var snap session.Snapshot
		Expect(json.Unmarshal(w.Body.Bytes(), &snap)).To(Succeed())
		Expect(snap.State).To(Equal(session.StateLoggedIn))

		w = serve(http.HandlerFunc(handler.Logout), http.MethodPost, "/logout", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(controller.State()).To(Equal(session.StateLoggedOut))
	})

	It("maps a failed login to 502", func() {
		account.loginErr = errRemote

		w := serve(http.HandlerFunc(handler.Login), http.MethodPost, "/login", `{"email":"ops@example.com","password":"pw"}`)
		Expect(w.Code).To(Equal(http.StatusBadGateway))
		Expect(w.Body.String()).To(ContainSubstring("REMOTE_CALL_FAILED"))
	})

	It("rejects malformed bodies", func() {
		w := serve(http.HandlerFunc(handler.Login), http.MethodPost, "/login", `{"email":`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("registers with 201", func() {
		w := serve(http.HandlerFunc(handler.Register), http.MethodPost, "/register",
			`{"email":"new@example.com","password":"pw","firstName":"New","lastName":"User"}`)
		Expect(w.Code).To(Equal(http.StatusCreated))
		Expect(w.Body.String()).To(ContainSubstring("new@example.com"))
		Expect(w.Body.String()).NotTo(ContainSubstring("password"))
	})
})
