package generate

import "errors"

// Error kinds surfaced to the user. None of them are retried; all leave
// persisted state untouched.
var (
	// ErrMissingCatalogKey is returned before any network call when the TMDB
	// API key has not been configured.
	ErrMissingCatalogKey = errors.New("catalog API key is not configured")

	// ErrMissingGenerationKey is returned before any network call when the
	// text-generation credential has not been established.
	ErrMissingGenerationKey = errors.New("generation API key is not configured")

	// ErrEmptyTrending is returned when the catalog provider has nothing
	// trending for the requested media type.
	ErrEmptyTrending = errors.New("trending list is empty")

	// ErrGenerationAuth marks a provider response that invalidates the stored
	// credential; callers should prompt for re-authentication instead of
	// showing a generic failure.
	ErrGenerationAuth = errors.New("generation API rejected the credential")

	// ErrBusy is returned when another generation run already holds the lock.
	ErrBusy = errors.New("a generation run is already in progress")
)
