package tagsanitizer

import "errors"

// Error definitions for the `cybergodev/tagsanitizer` package.
var (
	// ErrInputTooLarge is returned when input exceeds MaxInputSize.
	ErrInputTooLarge = errors.New("tagsanitizer: input size exceeds maximum")

	// ErrInvalidHTML is returned when the HTML input cannot be read or parsed.
	ErrInvalidHTML = errors.New("tagsanitizer: invalid HTML")

	// ErrSanitizerClosed is returned when operations are attempted on a closed sanitizer.
	ErrSanitizerClosed = errors.New("tagsanitizer: sanitizer closed")

	// ErrMaxDepthExceeded is returned when tree nesting exceeds MaxDepth.
	ErrMaxDepthExceeded = errors.New("tagsanitizer: max depth exceeded")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("tagsanitizer: invalid config")

	// ErrProcessingTimeout is returned when sanitizing exceeds ProcessingTimeout.
	ErrProcessingTimeout = errors.New("tagsanitizer: processing timeout exceeded")

	// ErrFileNotFound is returned when the specified file does not exist.
	ErrFileNotFound = errors.New("tagsanitizer: file not found")

	// ErrInvalidFilePath is returned when file path validation fails.
	ErrInvalidFilePath = errors.New("tagsanitizer: invalid file path")

	// ErrUnknownCharset is returned when a forced charset label is not recognized.
	ErrUnknownCharset = errors.New("tagsanitizer: unknown charset")

	// ErrInvalidRules is returned when a rules document fails to load or validate.
	ErrInvalidRules = errors.New("tagsanitizer: invalid rules")
)
