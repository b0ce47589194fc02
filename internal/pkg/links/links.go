package links

import (
	"strings"

	"github.com/talentr-app/talentr/internal/pkg/env"
)

// BaseURL returns the public base URL without a trailing slash.
func BaseURL() string {
	return strings.TrimRight(env.GetEnv("APP_BASE_URL", "http://localhost:4000"), "/")
}

// VendorEdit builds the passwordless vendor edit link.
func VendorEdit(editToken string) string {
	return BaseURL() + "/vendor/edit/" + editToken
}

// GigShare builds the public share link for a gig slug.
func GigShare(shareSlug string) string {
	return BaseURL() + "/g/" + shareSlug
}

// OnboardingInvite builds the invite link for a pending vendor.
func OnboardingInvite(confirmationToken string) string {
	return BaseURL() + "/onboarding?invite=" + confirmationToken
}
