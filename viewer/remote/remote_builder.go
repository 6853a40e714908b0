package remote

// ServerOption configures a Server during construction.
type ServerOption func(*server)

// WithSelectCallback sets the function called when a page selects a point.
//
// Parameters:
//   - callback: function receiving the selected point ID
//
// Returns:
//   - ServerOption: the option function
func WithSelectCallback(callback func(pointID string)) ServerOption {
	return func(s *server) {
		s.onSelect = callback
	}
}

// WithClearCallback sets the function called when a page clears the selection.
//
// Parameters:
//   - callback: function to call
//
// Returns:
//   - ServerOption: the option function
func WithClearCallback(callback func()) ServerOption {
	return func(s *server) {
		s.onClear = callback
	}
}

// WithViewport sets the trackpad viewport size assumed before any page
// reports its real dimensions.
//
// Parameters:
//   - width: viewport width in pixels
//   - height: viewport height in pixels
//
// Returns:
//   - ServerOption: the option function
func WithViewport(width, height int) ServerOption {
	return func(s *server) {
		if width > 0 && height > 0 {
			s.viewportWidth = width
			s.viewportHeight = height
		}
	}
}
