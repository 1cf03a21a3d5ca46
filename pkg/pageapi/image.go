package pageapi

import (
	"encoding/base64"
	"net/http"
	"strings"
)

// allowedImageTypes are the sniffed MIME types accepted for upload.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// decodeImageDataURI parses a data:image/<subtype>;base64,<payload> string
// and returns the decoded bytes plus the client-declared MIME type. The
// declared type is informational only; callers must branch on sniffed bytes.
func decodeImageDataURI(s string) (data []byte, declared string, err error) {
	rest, ok := strings.CutPrefix(s, "data:image/")
	if !ok {
		return nil, "", ErrInvalidImageFormat
	}

	subtype, payload, ok := strings.Cut(rest, ";base64,")
	if !ok || !validSubtype(subtype) {
		return nil, "", ErrInvalidImageFormat
	}

	data, decErr := base64.StdEncoding.DecodeString(payload)
	if decErr != nil {
		return nil, "", ErrImageDecode
	}
	return data, "image/" + subtype, nil
}

// sniffImageType derives the authoritative MIME type from the byte
// signature, ignoring whatever the client declared.
func sniffImageType(data []byte) string {
	return http.DetectContentType(data)
}

func validSubtype(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '.' || r == '+' || r == '-':
		default:
			return false
		}
	}
	return true
}
