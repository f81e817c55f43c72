// internal/app/system/limits/limits.go
package limits

// Request body size limits. Handlers wrap r.Body with http.MaxBytesReader
// before parsing.
const (
	// MaxFormSize bounds plain form posts.
	MaxFormSize = 1 << 20 // 1 MB

	// MaxImageSize bounds a single uploaded image (avatar or issue photo).
	MaxImageSize = 8 << 20 // 8 MB

	// MaxUploadBody bounds a multipart post carrying one image.
	MaxUploadBody = MaxImageSize + MaxFormSize

	// MultipartMemory is how much of a multipart body is held in memory;
	// the rest spills to temp files.
	MultipartMemory = 2 << 20 // 2 MB
)
