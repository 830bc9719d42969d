package secrets

import "strings"

// placeholderMinLength is the shortest masked string the remote API emits
// for an obfuscated secret.
const placeholderMinLength = 8

// IsPlaceholder reports whether a remote-read value is an obfuscated
// stand-in rather than the true secret. Recognition is deliberately
// conservative: only a string made up entirely of asterisks, at least eight
// long, qualifies. Anything else is compared as a real value.
func IsPlaceholder(value any) bool {
	text, ok := value.(string)
	if !ok {
		return false
	}
	if len(text) < placeholderMinLength {
		return false
	}
	return strings.Count(text, "*") == len(text)
}

// Mask returns the placeholder representation used when printing or
// exporting a secret value.
func Mask() string {
	return strings.Repeat("*", placeholderMinLength)
}

// Resolve picks the value to send on a write. The remote API requires the
// real secret on every write, so a placeholder read back from the remote is
// always replaced with the locally declared value.
func Resolve(desired any, remote any) any {
	if desired == nil {
		if IsPlaceholder(remote) {
			return nil
		}
		return remote
	}
	return desired
}

// Equal compares a desired secret against its remote counterpart. A
// placeholder on the remote side never counts as different, regardless of
// the desired value; a real remote value compares literally.
func Equal(desired any, remote any) bool {
	if IsPlaceholder(remote) {
		return true
	}
	return desired == remote
}
