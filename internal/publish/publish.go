// Package publish stores uploaded PDFs somewhere remote and reports the
// public URL the catalog should point at.
package publish

import (
	"context"
	"net/url"
	"path"
	"strings"
)

// Object is a file ready to be published.
type Object struct {
	FileName    string
	Title       string
	ContentType string
	Data        []byte
}

// Published describes where an Object ended up.
type Published struct {
	// Path is the location inside the remote store (repository path or object key).
	Path string
	URL  string
}

// Publisher pushes an Object to a remote store. Implementations must return
// an error for every non-success response so callers can abort before
// recording the document.
type Publisher interface {
	Publish(ctx context.Context, obj Object) (Published, error)
}

// objectPath joins prefix and the base name of fileName.
func objectPath(prefix, fileName string) string {
	name := path.Base(strings.ReplaceAll(fileName, "\\", "/"))
	if prefix == "" {
		return name
	}
	return path.Join(prefix, name)
}

// joinURL appends p to base, escaping each path segment.
func joinURL(base, p string) string {
	segments := strings.Split(p, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.TrimSuffix(base, "/") + "/" + strings.Join(segments, "/")
}
