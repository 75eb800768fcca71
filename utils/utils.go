// Package utils holds small helpers shared across packages.
package utils

// ToPtr returns a pointer to v, for optional struct fields.
func ToPtr[T any](v T) *T {
	return &v
}

// IsTrue treats a nil *bool as false.
func IsTrue(b *bool) bool {
	return b != nil && *b
}
