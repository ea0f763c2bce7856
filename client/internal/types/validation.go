package types

import (
	"strings"

	"github.com/drydotai/dry-go/client/internal/apierrors"
)

// ------------------------------
// Shared Validation
// ------------------------------
//
// The service is the authority on input semantics; the SDK only rejects
// input that is structurally unusable, and does so before any network call.

// RequireText rejects empty or whitespace-only natural-language input.
// The field name appears in the error so callers can display it directly.
func RequireText(field, s string) error {
	if strings.TrimSpace(s) == "" {
		return apierrors.Newf(apierrors.KindValidation, "%s must not be empty", field)
	}
	return nil
}

// RequireID rejects blank identifiers.
func RequireID(field, s string) error {
	if strings.TrimSpace(s) == "" {
		return apierrors.Newf(apierrors.KindValidation, "%s is required", field)
	}
	return nil
}

// RequireEmail applies the minimal shape check the service itself performs
// on registration input.
func RequireEmail(email string) error {
	e := strings.TrimSpace(email)
	if e == "" || !strings.Contains(e, "@") {
		return apierrors.New(apierrors.KindValidation, "a valid email address is required")
	}
	return nil
}
