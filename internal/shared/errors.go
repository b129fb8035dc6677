package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig  = fmt.Errorf("configuration not found")
	ErrInvalidConfig  = fmt.Errorf("invalid configuration")
	ErrMissingSession = fmt.Errorf("missing browser session")
	ErrInvalidSession = fmt.Errorf("invalid browser session")

	// Job submission errors
	ErrEmptyTargetList  = fmt.Errorf("no targets to process")
	ErrNoPlaylists      = fmt.Errorf("no playlists resolved")
	ErrJobActive        = fmt.Errorf("a job is already active")
	ErrJobNotFound      = fmt.Errorf("no active job")
	ErrTimeout          = fmt.Errorf("operation timed out")

	// Surface errors
	ErrSurfaceRefused  = fmt.Errorf("surface acquisition refused")
	ErrSurfaceClosed   = fmt.Errorf("surface closed")
	ErrSurfaceDisposed = fmt.Errorf("surface already disposed")

	// Platform and service errors
	ErrAPIRequest       = fmt.Errorf("API request failed")
	ErrUnavailable      = fmt.Errorf("service unavailable")
	ErrPlaylistNotFound = fmt.Errorf("playlist not found")
	ErrElementNotFound  = fmt.Errorf("page element not found")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
