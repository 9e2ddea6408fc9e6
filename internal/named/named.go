// Package named implements lookups over name-keyed collections embedded in
// a parent resource (authorization policies, linked hubs, routes, routing
// endpoints). Names are compared case-insensitively, matching the service's
// uniqueness rules. All functions are pure: Remove returns a new slice and
// never mutates its input.
package named

import (
	"strings"

	"github.com/samber/lo"
)

// Find returns the first element whose key equals name, ignoring case.
func Find[T any](items []T, name string, key func(T) string) (T, bool) {
	return lo.Find(items, func(item T) bool {
		return strings.EqualFold(key(item), name)
	})
}

// Exists reports whether any element's key equals name, ignoring case.
func Exists[T any](items []T, name string, key func(T) string) bool {
	_, ok := Find(items, name, key)
	return ok
}

// Remove returns a new slice excluding every element whose key equals name,
// ignoring case. Relative order of the remaining elements is preserved.
func Remove[T any](items []T, name string, key func(T) string) []T {
	return lo.Reject(items, func(item T, _ int) bool {
		return strings.EqualFold(key(item), name)
	})
}
