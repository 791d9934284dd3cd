package docview

import (
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
)

const MIMEPDF = "application/pdf"

// DeclaredMIME returns the MIME type implied by a file name's extension, the
// way a browser file picker declares it. Unknown extensions yield "".
func DeclaredMIME(name string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	if ext == "" {
		return ""
	}
	t := filetype.GetType(ext)
	if t == filetype.Unknown {
		return ""
	}
	return t.MIME.Value
}
