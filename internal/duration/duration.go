// Package duration formats the ISO-8601 duration strings expected by the
// Resource Manager API for TTL and lock-duration fields.
package duration

import "fmt"

// Hours renders n as an ISO-8601 duration, e.g. 4 -> "PT4H".
func Hours(n int64) string {
	return fmt.Sprintf("PT%dH", n)
}

// Seconds renders n as an ISO-8601 duration, e.g. 300 -> "PT300S".
func Seconds(n int64) string {
	return fmt.Sprintf("PT%dS", n)
}
