package internal_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/frahmantamala/lead-management/internal"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("AppError", func() {
	It("is found through wrapping", func() {
		wrapped := fmt.Errorf("submit: %w", internal.NewConflictError("dup", internal.ErrCodeDuplicateIdentity))

		appErr, ok := internal.IsAppError(wrapped)
		Expect(ok).To(BeTrue())
		Expect(appErr.StatusCode).To(Equal(http.StatusConflict))

		_, ok = internal.IsAppError(errors.New("plain"))
		Expect(ok).To(BeFalse())
	})

	It("unwraps to its cause", func() {
		cause := errors.New("dial tcp: refused")
		err := internal.NewExternalError("login failed", cause)

		Expect(errors.Is(err, cause)).To(BeTrue())
		Expect(err.StatusCode).To(Equal(http.StatusBadGateway))
		Expect(err.Error()).To(ContainSubstring("refused"))
	})

	It("renders the error envelope without internals", func() {
		err := internal.NewInternalError("save failed", errors.New("secret detail"))
		_, body := err.ToHTTPResponse()

		raw, marshalErr := json.Marshal(body)
		Expect(marshalErr).NotTo(HaveOccurred())
		Expect(raw).To(MatchJSON(`{"error":{"type":"INTERNAL_ERROR","code":"INTERNAL_ERROR","message":"save failed"}}`))
	})

	It("flattens validation details by field", func() {
		err := internal.NewValidationFieldError("name", "name is required", internal.ErrCodeRequired)
		Expect(err.FieldErrors()).To(Equal(map[string]string{"name": "name is required"}))
		Expect(err.Error()).To(Equal("name is required"))
	})
})
