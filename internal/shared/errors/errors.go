package errors

import "errors"

var (
	ErrMissingConfig        = errors.New("required configuration is missing")
	ErrUnauthorized         = errors.New("unauthorized user")
	ErrContentNotFound      = errors.New("content not found")
	ErrFeedbackNotFound     = errors.New("feedback not found")
	ErrEmptyFeedback        = errors.New("feedback has no title or message")
	ErrInvalidID            = errors.New("invalid id")
	ErrMetadataNotFound     = errors.New("metadata not found")
	ErrSeriesCreationFailed = errors.New("series could not be created")
	ErrMalformedCommand     = errors.New("malformed command")
)
