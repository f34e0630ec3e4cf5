package feed

import "errors"

var (
	// ErrBadStatus indicates the feed answered with a non-2xx status code.
	ErrBadStatus = errors.New("feed: unexpected status")
	// ErrDecode indicates the feed body could not be decoded.
	ErrDecode = errors.New("feed: decode response")
)
