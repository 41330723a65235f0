// Package stage resolves which of the four call stages a customer is in.
package stage

// Count is the number of call stages in the formation journey.
const Count = 4

// Resolve returns the first stage whose completion flag is false.
// A customer with all four calls completed resolves to stage 4: they stay
// available for follow-up calls rather than advancing to a fifth stage.
// Pure and idempotent; both routing and prompt generation call it repeatedly.
func Resolve(completed [Count]bool) int {
	for i, done := range completed {
		if !done {
			return i + 1
		}
	}
	return Count
}

// AllComplete reports whether the customer has finished every call stage.
func AllComplete(completed [Count]bool) bool {
	for _, done := range completed {
		if !done {
			return false
		}
	}
	return true
}
