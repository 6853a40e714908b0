package viewer

import (
	"github.com/tanema/gween/ease"
)

// FocusAnimatorOption configures a FocusAnimator during construction.
type FocusAnimatorOption func(*focusAnimator)

// WithFocusDuration sets how long a focus transition takes in seconds.
// A duration of zero or less snaps the target immediately.
//
// Parameters:
//   - seconds: transition length
//
// Returns:
//   - FocusAnimatorOption: the option function
func WithFocusDuration(seconds float32) FocusAnimatorOption {
	return func(f *focusAnimator) {
		f.duration = seconds
	}
}

// WithFocusEasing sets the easing curve applied to the target transition.
//
// Parameters:
//   - fn: the easing function
//
// Returns:
//   - FocusAnimatorOption: the option function
func WithFocusEasing(fn ease.TweenFunc) FocusAnimatorOption {
	return func(f *focusAnimator) {
		if fn != nil {
			f.easing = fn
		}
	}
}
