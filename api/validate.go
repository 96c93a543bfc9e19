package api

import (
	"errors"
	"regexp"
	"strings"

	"github.com/andreasstove999/ecommerce-system/storefront-client-go/client"
)

var emailRx = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func requireEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return &client.ValidationError{Field: "email", Message: "email is required"}
	}
	if !emailRx.MatchString(email) {
		return &client.ValidationError{Field: "email", Message: "malformed email address"}
	}
	return nil
}

func require(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &client.ValidationError{Field: field, Message: field + " is required"}
	}
	return nil
}

func requirePositive(field string, n int) error {
	if n <= 0 {
		return &client.ValidationError{Field: field, Message: field + " must be a positive integer"}
	}
	return nil
}

// fallback fills in a resource-specific message when the server provided
// none. Classification is preserved: only the message changes.
func fallback(err error, msg string) error {
	if err == nil {
		return nil
	}
	var he *client.HTTPError
	if errors.As(err, &he) && he.Message == "" {
		he.Message = msg
	}
	return err
}
