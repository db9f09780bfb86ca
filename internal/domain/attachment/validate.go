package attachment

// MaxSizeBytes is the upload ceiling. Anything larger is rejected before
// any storage or network write happens.
const MaxSizeBytes = 10 << 20

var allowedTypes = map[string]bool{
	"application/pdf":    true,
	"image/png":          true,
	"image/jpeg":         true,
	"image/gif":          true,
	"image/webp":         true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/vnd.ms-excel": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
	"text/plain": true,
}

// AllowedType reports whether the MIME type is on the upload allow-list:
// pdf, common images, Word, Excel and plain text.
func AllowedType(contentType string) bool {
	return allowedTypes[contentType]
}

// Validate checks type and size before anything is written.
func Validate(contentType string, size int64) error {
	if !AllowedType(contentType) {
		return ErrTypeNotAllowed
	}
	if size <= 0 {
		return ErrEmptyFile
	}
	if size > MaxSizeBytes {
		return ErrTooLarge
	}
	return nil
}
