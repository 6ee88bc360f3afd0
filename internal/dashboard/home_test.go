package dashboard_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"

	"github.com/frahmantamala/lead-management/internal/core/events"
	"github.com/frahmantamala/lead-management/internal/dashboard"
	"github.com/frahmantamala/lead-management/internal/session"
	"github.com/frahmantamala/lead-management/internal/storage"
	"github.com/frahmantamala/lead-management/internal/storage/memory"
	"github.com/frahmantamala/lead-management/internal/transport"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("HomeHandler", func() {
	var (
		ctx        context.Context
		store      *memory.Store
		controller *session.Controller
		handler    *dashboard.HomeHandler
	)

	BeforeEach(func() {
		ctx = context.Background()
		store = memory.NewStore()
		lg := slog.New(slog.NewTextHandler(io.Discard, nil))
		bus := events.NewEventBus(lg)
		inbox := events.NewInbox(5)
		inbox.Attach(bus)
		controller = session.NewController(store, nil, nil, bus, lg)
		handler = dashboard.NewHomeHandler(&transport.BaseHandler{Logger: lg}, controller, inbox)
	})

	home := func() dashboard.HomeResponse {
		w := httptest.NewRecorder()
		handler.Home(w, httptest.NewRequest(http.MethodGet, "/", nil))
		Expect(w.Code).To(Equal(http.StatusOK))

		var resp dashboard.HomeResponse
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		return resp
	}

	It("hides the views while logged out", func() {
		controller.Initialize(ctx)

		resp := home()
		Expect(resp.Session.State).To(Equal(session.StateLoggedOut))
		Expect(resp.Views).To(BeEmpty())
	})

	It("lists every view once logged in", func() {
		Expect(storage.SaveValue(ctx, store, storage.KeyServiceToken, "tok")).To(Succeed())
		controller.Initialize(ctx)

		resp := home()
		Expect(resp.Session.State).To(Equal(session.StateLoggedIn))
		Expect(resp.Views).To(HaveLen(7))
		Expect(resp.Views).To(ContainElement(dashboard.View{Name: "lead", Route: "/lead/list"}))
	})

	It("shows the logout notification", func() {
		controller.Logout(ctx)

		resp := home()
		Expect(resp.Notifications).To(HaveLen(1))
		Expect(resp.Notifications[0].Type).To(Equal(events.EventTypeSessionLoggedOut))
	})

	It("lists registered users", func() {
		Expect(storage.Save(ctx, store, storage.KeyUsers, []session.ShadowUser{{ID: "1", Email: "a@b.co"}})).To(Succeed())

		w := httptest.NewRecorder()
		handler.Users(w, httptest.NewRequest(http.MethodGet, "/account/users", nil))
		Expect(w.Body.String()).To(ContainSubstring(`"a@b.co"`))
	})
})
