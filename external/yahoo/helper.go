package yahoo

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"strings"

	"github.com/valyala/bytebufferpool"
)

const (
	maxResponseBytes = 6 << 20
	maxLoggedBody    = 240
)

// resourceURL appends the mandatory format=json parameter to base+path.
func resourceURL(baseURL, path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return baseURL + path + sep + "format=json"
}

// resourceLabel reduces a path to its first segment for metric labels, so
// "/league/nfl.l.1/scoreboard;week=3" becomes "league".
func resourceLabel(path string) string {
	trimmed := strings.TrimLeft(path, "/")
	if i := strings.IndexAny(trimmed, "/;?"); i >= 0 {
		trimmed = trimmed[:i]
	}
	if trimmed == "" {
		return "root"
	}
	return trimmed
}

// readBody drains r through a pooled buffer and returns an owned copy.
func readBody(r io.Reader) ([]byte, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if _, err := buf.ReadFrom(io.LimitReader(r, maxResponseBytes)); err != nil {
		return nil, err
	}
	return append([]byte(nil), buf.B...), nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= maxLoggedBody {
		return text
	}
	return text[:maxLoggedBody] + "..."
}
