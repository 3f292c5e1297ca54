// pkg/utils/validator.go

package utils

import "regexp"

// Phone-like: optional leading +, then 2..15 digits. Anything else is
// treated as an email or other identifier and routed to the email channel.
var phonePattern = regexp.MustCompile(`^\+?[0-9]{2,15}$`)

// IsPhoneNumber classifies an identifier for delivery-channel selection.
func IsPhoneNumber(identifier string) bool {
	return phonePattern.MatchString(identifier)
}
