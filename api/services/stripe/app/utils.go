package app

import "fmt"

// resolveOrigin returns the redirect base for a request, falling back when the caller sent none.
func resolveOrigin(origin, fallback string) string {
	if origin == "" {
		return fallback
	}
	return origin
}

func portalReturnURL(origin string) string { return origin + "/profile" }

func checkoutSuccessURL(origin string) string { return origin + "/profile?success=true" }

func checkoutCancelURL(origin string) string { return origin + "/profile?canceled=true" }

// customerName prefers the profile's full name and falls back to the email.
func customerName(fullName, email string) string {
	if fullName == "" {
		return email
	}
	return fullName
}

func customerDescription(email string) string {
	return fmt.Sprintf("Customer for %s", email)
}
