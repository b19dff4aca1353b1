package feeds

import (
	"errors"
	"fmt"
)

var (
	// ErrUnreadableSource indicates a feed document or folder could not be parsed.
	// Callers skip the source and carry on with the others.
	ErrUnreadableSource = errors.New("unreadable source")

	// ErrFolderNotFound indicates a local channel folder does not exist
	ErrFolderNotFound = errors.New("local folder not found")
)

// FetchError represents a non-success HTTP response for a feed
type FetchError struct {
	URL        string
	StatusCode int
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching feed %s: unexpected status %d", e.URL, e.StatusCode)
}

func unreadable(locator string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrUnreadableSource, locator, err)
}
