package body

import (
	"mime"
	"path/filepath"
)

// DefaultContentType is used for file parts whose type is unknown or not
// looked up.
const DefaultContentType = "application/octet-stream"

// ResolveMimeType returns the content type of a file part. Unless detect is
// set, or when the path's extension is unknown, it is DefaultContentType.
func ResolveMimeType(f FileLike, detect bool) string {
	if !detect || f == nil {
		return DefaultContentType
	}
	ext := filepath.Ext(f.Path())
	if ext == "" {
		return DefaultContentType
	}
	t := mime.TypeByExtension(ext)
	if t == "" {
		return DefaultContentType
	}
	// Drop parameters such as "; charset=utf-8" that the host tables may add.
	mt, _, err := mime.ParseMediaType(t)
	if err != nil {
		return DefaultContentType
	}
	return mt
}
