package session_test

import (
	"time"

	"github.com/frahmantamala/lead-management/internal/session"
	"github.com/golang-jwt/jwt/v5"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Verifiers", func() {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	sign := func(claims jwt.RegisteredClaims) string {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("any-secret-will-do"))
		Expect(err).NotTo(HaveOccurred())
		return token
	}

	It("accepts any non-empty token by presence", func() {
		v := session.PresenceVerifier{}
		Expect(v.Verify("x")).To(BeTrue())
		Expect(v.Verify("")).To(BeFalse())
	})

	Describe("JWTExpiryVerifier", func() {
		v := session.JWTExpiryVerifier{Now: func() time.Time { return now }}

		It("accepts unexpired tokens", func() {
			Expect(v.Verify(sign(jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour))}))).To(BeTrue())
		})

		It("rejects expired tokens", func() {
			Expect(v.Verify(sign(jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(-time.Minute))}))).To(BeFalse())
		})

		It("accepts tokens without an expiry", func() {
			Expect(v.Verify(sign(jwt.RegisteredClaims{Subject: "u1"}))).To(BeTrue())
		})

		It("rejects strings that are not tokens", func() {
			Expect(v.Verify("opaque")).To(BeFalse())
			Expect(v.Verify("")).To(BeFalse())
		})
	})
})
