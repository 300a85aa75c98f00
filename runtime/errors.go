package runtime

import "errors"

var (
	// ErrNotMounted is returned when a component calls into the renderer before being attached.
	ErrNotMounted = errors.New("component not mounted")

	// ErrNoRouter is returned by Navigate when the renderer has no NavigationManager.
	ErrNoRouter = errors.New("no router configured for navigation")
)
