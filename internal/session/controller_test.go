package session_test

import (
	"context"

	"github.com/frahmantamala/lead-management/internal"
	"github.com/frahmantamala/lead-management/internal/core/events"
	"github.com/frahmantamala/lead-management/internal/session"
	"github.com/frahmantamala/lead-management/internal/storage"
	"github.com/frahmantamala/lead-management/internal/storage/memory"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Controller", func() {
	var (
		ctx        context.Context
		store      *memory.Store
		account    *fakeAccount
		bus        *events.EventBus
		inbox      *events.Inbox
		controller *session.Controller
	)

	BeforeEach(func() {
		ctx = context.Background()
		store = memory.NewStore()
		account = &fakeAccount{
			loginResp: &session.LoginResponse{
				ServiceToken: "token-1",
				User:         session.User{ID: "u1", Email: "ops@example.com", FirstName: "Ops"},
			},
		}
		bus = events.NewEventBus(quietLogger())
		inbox = events.NewInbox(10)
		inbox.Attach(bus)
		controller = session.NewController(store, account, session.PresenceVerifier{}, bus, quietLogger())
	})

	Describe("Initialize", func() {
		It("starts uninitialized", func() {
			Expect(controller.State()).To(Equal(session.StateUninitialized))
			Expect(controller.State().Ready()).To(BeFalse())
		})

		It("is logged out without a token", func() {
			Expect(controller.Initialize(ctx)).To(Equal(session.StateLoggedOut))
			Expect(controller.Snapshot().User).To(BeNil())
		})

		It("is logged in with any non-empty token", func() {
			Expect(storage.SaveValue(ctx, store, storage.KeyServiceToken, "anything")).To(Succeed())

			Expect(controller.Initialize(ctx)).To(Equal(session.StateLoggedIn))
			Expect(controller.State().Ready()).To(BeTrue())
		})

		It("restores the user from personal info", func() {
			Expect(storage.SaveValue(ctx, store, storage.KeyServiceToken, "anything")).To(Succeed())
			Expect(storage.SaveValue(ctx, store, storage.KeyPersonalInfo, session.User{ID: "u1", Email: "ops@example.com"})).To(Succeed())

			controller.Initialize(ctx)
			Expect(controller.Snapshot().User).To(Equal(&session.User{ID: "u1", Email: "ops@example.com"}))
		})

		It("is logged out with an empty token", func() {
			Expect(storage.SaveValue(ctx, store, storage.KeyServiceToken, "")).To(Succeed())
			Expect(controller.Initialize(ctx)).To(Equal(session.StateLoggedOut))
		})

		It("defers to the verifier", func() {
			Expect(storage.SaveValue(ctx, store, storage.KeyServiceToken, "not-a-jwt")).To(Succeed())
			strict := session.NewController(store, account, session.JWTExpiryVerifier{}, bus, quietLogger())

			Expect(strict.Initialize(ctx)).To(Equal(session.StateLoggedOut))
		})
	})

	Describe("Login", func() {
		It("stores the token and user and logs in", func() {
			controller.Initialize(ctx)

			user, err := controller.Login(ctx, session.Credentials{Email: "ops@example.com", Password: "secret"})
			Expect(err).NotTo(HaveOccurred())
			Expect(user.Email).To(Equal("ops@example.com"))
			Expect(controller.State()).To(Equal(session.StateLoggedIn))

			token, found := storage.LoadValue[string](ctx, store, storage.KeyServiceToken)
			Expect(found).To(BeTrue())
			Expect(token).To(Equal("token-1"))

			info, found := storage.LoadValue[session.User](ctx, store, storage.KeyPersonalInfo)
			Expect(found).To(BeTrue())
			Expect(info.ID).To(Equal("u1"))

			Expect(inbox.Recent()[0].Type).To(Equal(events.EventTypeSessionLoggedIn))
		})

		It("rejects invalid credentials before calling out", func() {
			_, err := controller.Login(ctx, session.Credentials{Email: "nope", Password: ""})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.FieldErrors()).To(HaveKey("email"))
			Expect(appErr.FieldErrors()).To(HaveKey("password"))
			Expect(account.logins).To(BeEmpty())
		})

		It("surfaces remote failures without retrying or changing state", func() {
			controller.Initialize(ctx)
			account.loginErr = errRemote

			_, err := controller.Login(ctx, session.Credentials{Email: "ops@example.com", Password: "secret"})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeRemoteCallFailed))
			Expect(err).To(MatchError(errRemote))

			Expect(account.logins).To(HaveLen(1))
			Expect(controller.State()).To(Equal(session.StateLoggedOut))
			_, found := storage.LoadValue[string](ctx, store, storage.KeyServiceToken)
			Expect(found).To(BeFalse())

			Expect(inbox.Recent()).NotTo(BeEmpty())
			Expect(inbox.Recent()[0].Type).To(Equal(events.EventTypeSessionLoginFailed))
			Expect(inbox.Recent()[0].Level).To(Equal(events.LevelError))
		})

		It("rejects a response without a token", func() {
			account.loginResp = &session.LoginResponse{User: session.User{Email: "ops@example.com"}}

			_, err := controller.Login(ctx, session.Credentials{Email: "ops@example.com", Password: "secret"})
			Expect(err).To(MatchError(session.ErrEmptyToken))
		})
	})

	Describe("Logout", func() {
		It("drops the token and personal info", func() {
			_, err := controller.Login(ctx, session.Credentials{Email: "ops@example.com", Password: "secret"})
			Expect(err).NotTo(HaveOccurred())

			controller.Logout(ctx)

			Expect(controller.State()).To(Equal(session.StateLoggedOut))
			Expect(store.Keys()).NotTo(ContainElement(storage.KeyServiceToken))
			Expect(store.Keys()).NotTo(ContainElement(storage.KeyPersonalInfo))
			Expect(controller.Initialize(ctx)).To(Equal(session.StateLoggedOut))
		})
	})

	Describe("Register", func() {
		fields := session.RegisterFields{Email: "new@example.com", Password: "pw", FirstName: "New", LastName: "User"}

		It("sends a generated id and keeps a copy without the password", func() {
			shadow, err := controller.Register(ctx, fields)
			Expect(err).NotTo(HaveOccurred())

			Expect(account.registers).To(HaveLen(1))
			Expect(account.registers[0].ID).NotTo(BeEmpty())
			Expect(account.registers[0].Password).To(Equal("pw"))
			Expect(shadow.ID).To(Equal(account.registers[0].ID))

			raw, _, _ := store.Get(ctx, storage.KeyUsers)
			Expect(string(raw)).NotTo(ContainSubstring("password"))
			Expect(controller.Users(ctx)).To(ConsistOf(*shadow))
		})

		It("does not change the session state", func() {
			controller.Initialize(ctx)
			_, err := controller.Register(ctx, fields)
			Expect(err).NotTo(HaveOccurred())
			Expect(controller.State()).To(Equal(session.StateLoggedOut))
		})

		It("keeps nothing when the remote call fails", func() {
			account.registerErr = errRemote

			_, err := controller.Register(ctx, fields)
			Expect(err).To(MatchError(errRemote))
			Expect(controller.Users(ctx)).To(BeEmpty())

			Expect(inbox.Recent()).To(HaveLen(1))
			Expect(inbox.Recent()[0].Type).To(Equal(events.EventTypeSessionRegisterFailed))
			Expect(inbox.Recent()[0].Level).To(Equal(events.LevelError))
		})

		It("validates the form", func() {
			_, err := controller.Register(ctx, session.RegisterFields{Email: "new@example.com"})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.FieldErrors()).To(HaveKey("firstName"))
			Expect(account.registers).To(BeEmpty())
		})
	})

	Describe("Profile", func() {
		It("refreshes personal info for a logged in session", func() {
			_, err := controller.Login(ctx, session.Credentials{Email: "ops@example.com", Password: "secret"})
			Expect(err).NotTo(HaveOccurred())
			account.me = &session.User{ID: "u1", Email: "ops@example.com", FirstName: "Renamed"}

			user, err := controller.Profile(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(user.FirstName).To(Equal("Renamed"))
			Expect(controller.Snapshot().User.FirstName).To(Equal("Renamed"))

			info, found := storage.LoadValue[session.User](ctx, store, storage.KeyPersonalInfo)
			Expect(found).To(BeTrue())
			Expect(info.FirstName).To(Equal("Renamed"))
		})

		It("reports a missing session as unauthorized", func() {
			account.meErr = internal.ErrSessionMissing

			_, err := controller.Profile(ctx)
			Expect(err).To(Equal(internal.ErrSessionMissing))
		})

		It("wraps other failures as remote call errors", func() {
			account.meErr = errRemote

			_, err := controller.Profile(ctx)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeRemoteCallFailed))
		})
	})

	Describe("Initialize racing Login and Logout", func() {
		It("keeps a logout that finished while the token was being read", func() {
			slow := newPausingStore(storage.KeyServiceToken)
			Expect(storage.SaveValue(ctx, slow, storage.KeyServiceToken, "tok")).To(Succeed())
			racing := session.NewController(slow, account, nil, nil, quietLogger())

			done := make(chan session.State, 1)
			go func() { done <- racing.Initialize(ctx) }()
			Eventually(slow.entered).Should(Receive())

			racing.Logout(ctx)
			close(slow.release)

			Eventually(done).Should(Receive(Equal(session.StateLoggedOut)))
			Expect(racing.State()).To(Equal(session.StateLoggedOut))
			_, found := storage.LoadValue[string](ctx, slow, storage.KeyServiceToken)
			Expect(found).To(BeFalse())
		})

		It("keeps a login that finished while the token was being read", func() {
			slow := newPausingStore(storage.KeyServiceToken)
			racing := session.NewController(slow, account, nil, nil, quietLogger())

			done := make(chan session.State, 1)
			go func() { done <- racing.Initialize(ctx) }()
			Eventually(slow.entered).Should(Receive())

			_, err := racing.Login(ctx, session.Credentials{Email: "ops@example.com", Password: "secret"})
			Expect(err).NotTo(HaveOccurred())
			close(slow.release)

			Eventually(done).Should(Receive(Equal(session.StateLoggedIn)))
			Expect(racing.Snapshot().User.Email).To(Equal("ops@example.com"))
		})

		It("answers Snapshot while personal info is still loading", func() {
			slow := newPausingStore(storage.KeyPersonalInfo)
			Expect(storage.SaveValue(ctx, slow, storage.KeyServiceToken, "tok")).To(Succeed())
			Expect(storage.SaveValue(ctx, slow, storage.KeyPersonalInfo, session.User{Email: "ops@example.com"})).To(Succeed())
			racing := session.NewController(slow, account, nil, nil, quietLogger())

			done := make(chan session.State, 1)
			go func() { done <- racing.Initialize(ctx) }()
			Eventually(slow.entered).Should(Receive())

			snap := make(chan session.Snapshot, 1)
			go func() { snap <- racing.Snapshot() }()
			Eventually(snap).Should(Receive(HaveField("State", session.StateInitializing)))

			close(slow.release)
			Eventually(done).Should(Receive(Equal(session.StateLoggedIn)))
			Expect(racing.Snapshot().User.Email).To(Equal("ops@example.com"))
		})
	})
})
