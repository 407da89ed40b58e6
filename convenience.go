package tagsanitizer

import "sync"

var (
	defaultSanitizer     *Sanitizer
	defaultSanitizerOnce sync.Once
)

// shared returns the Sanitizer behind the package-level functions. It uses
// DefaultConfig and is never closed.
func shared() *Sanitizer {
	defaultSanitizerOnce.Do(func() {
		defaultSanitizer = NewWithDefaults()
	})
	return defaultSanitizer
}

// Sanitize sanitizes htmlContent under policy with a shared default Sanitizer.
func Sanitize(htmlContent string, policy Policy) (string, error) {
	return shared().Sanitize(htmlContent, policy)
}

// SanitizeBytes is Sanitize for raw bytes in any supported encoding.
func SanitizeBytes(data []byte, policy Policy) (string, error) {
	return shared().SanitizeBytes(data, policy)
}

// SanitizeFile reads and sanitizes an HTML file with the shared Sanitizer.
func SanitizeFile(filePath string, policy Policy) (string, error) {
	return shared().SanitizeFile(filePath, policy)
}
