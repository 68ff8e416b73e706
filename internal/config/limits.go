package config

const (
	// MaxUsernameLength is the maximum length for usernames.
	// Limited to 64 so usernames stay readable in portal UIs.
	MaxUsernameLength = 64

	// MaxEmailLength is the maximum length for email addresses (RFC 5321 path limit).
	MaxEmailLength = 254

	// MinPasswordLength is the minimum accepted password length at signup.
	MinPasswordLength = 1

	// MaxPasswordLength is the maximum password length.
	// bcrypt only consumes the first 72 bytes of its input.
	MaxPasswordLength = 72

	// MaxPortalNameLength is the maximum length for portal slugs.
	MaxPortalNameLength = 255
)
