package storage

import (
	"net/url"
	"strconv"
	"strings"
)

func formatImageName(ms int64, index int, ext string) string {
	return strconv.FormatInt(ms, 10) + "_" + strconv.Itoa(index) + "." + ext
}

// publicURLBuilder turns object keys into public URLs under base and back.
type publicURLBuilder struct {
	base string // no trailing slash
}

func newPublicURLBuilder(base string) publicURLBuilder {
	return publicURLBuilder{base: strings.TrimRight(base, "/")}
}

func (b publicURLBuilder) url(objectKey string) string {
	segments := strings.Split(strings.TrimLeft(objectKey, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return b.base + "/" + strings.Join(segments, "/")
}

func (b publicURLBuilder) key(rawURL string) (string, error) {
	prefix := b.base + "/"
	if !strings.HasPrefix(rawURL, prefix) {
		return "", ErrForeignURL
	}
	rest := rawURL[len(prefix):]
	if i := strings.IndexAny(rest, "?#"); i >= 0 {
		rest = rest[:i]
	}
	key, err := url.PathUnescape(rest)
	if err != nil || key == "" {
		return "", ErrForeignURL
	}
	return key, nil
}
