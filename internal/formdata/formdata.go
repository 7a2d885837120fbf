// Package formdata decodes multipart/form-data bodies that are already fully
// buffered in memory.
//
// Decoding never fails: parts that cannot be understood are skipped and the
// scan resumes at the next boundary marker. All slicing stays within the
// input buffer.
package formdata

import (
	"bytes"
	"errors"
	"mime"
	"strings"
)

// FileNameKey makes Form.Value return the uploaded file name.
const FileNameKey = "fileName"

var ErrNoBoundary = errors.New("content type has no multipart boundary")

// Form is the decoded body. Text holds every non-file field by name.
// File and FileName come from the last part that declared a filename.
type Form struct {
	Text     map[string]string
	File     []byte
	FileName string
}

// HasFile reports whether a part with a filename was seen.
func (f *Form) HasFile() bool {
	return f.FileName != ""
}

// Value returns a text field, or the file name for FileNameKey.
func (f *Form) Value(name string) string {
	if name == FileNameKey {
		return f.FileName
	}
	return f.Text[name]
}

// BoundaryFromContentType extracts the boundary parameter of a
// multipart/form-data Content-Type header.
func BoundaryFromContentType(contentType string) (string, error) {
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(mediaType, "multipart/") || params["boundary"] == "" {
		return "", ErrNoBoundary
	}
	return params["boundary"], nil
}

// Decode splits body on "--"+boundary markers and collects the parts.
func Decode(body []byte, boundary string) *Form {
	form := &Form{Text: make(map[string]string)}
	if boundary == "" {
		return form
	}
	marker := []byte("--" + boundary)

	pos := nextMarker(body, marker, 0)
	for pos >= 0 {
		partStart := pos + len(marker)
		if bytes.HasPrefix(body[partStart:], []byte("--")) {
			break // closing delimiter
		}

		next := nextMarker(body, marker, partStart)
		partEnd := len(body)
		if next >= 0 {
			partEnd = next
		}
		decodePart(form, body[partStart:partEnd], next >= 0)
		pos = next
	}
	return form
}

// nextMarker finds marker at or after from. A match must start a line and be
// followed by a line break, "--", whitespace or the end of the body, so
// boundary text inside a body is not mistaken for a delimiter.
func nextMarker(body, marker []byte, from int) int {
	for from <= len(body) {
		i := bytes.Index(body[from:], marker)
		if i < 0 {
			return -1
		}
		at := from + i
		if (at == 0 || body[at-1] == '\n') && delimiterEnds(body[at+len(marker):]) {
			return at
		}
		from = at + 1
	}
	return -1
}

func delimiterEnds(rest []byte) bool {
	if len(rest) == 0 || bytes.HasPrefix(rest, []byte("--")) {
		return true
	}
	switch rest[0] {
	case '\r', '\n', ' ', '\t':
		return true
	}
	return false
}

func decodePart(form *Form, part []byte, delimited bool) {
	headerEnd, bodyStart := splitHeader(part)
	if headerEnd < 0 {
		return
	}
	content := part[bodyStart:]
	if delimited {
		// The line break before the next marker belongs to the delimiter.
		content = bytes.TrimSuffix(content, []byte("\n"))
		content = bytes.TrimSuffix(content, []byte("\r"))
	}

	name, fileName, ok := disposition(string(part[:headerEnd]))
	if !ok {
		return
	}
	if fileName != "" {
		form.File = content
		form.FileName = fileName
		return
	}
	if name == "" {
		return
	}
	form.Text[name] = string(content)
}

// splitHeader returns the end of the header block and the start of the body,
// or -1 when the part has no blank line.
// Whichever separator appears first wins, so an LF header followed by a body
// containing CRLFCRLF keeps its body intact.
func splitHeader(part []byte) (int, int) {
	crlf := bytes.Index(part, []byte("\r\n\r\n"))
	lf := bytes.Index(part, []byte("\n\n"))
	switch {
	case crlf >= 0 && (lf < 0 || crlf < lf):
		return crlf, crlf + 4
	case lf >= 0:
		return lf, lf + 2
	}
	return -1, -1
}

// disposition reads name and filename from the Content-Disposition header line.
func disposition(header string) (name, fileName string, ok bool) {
	for _, line := range strings.Split(header, "\n") {
		line = strings.TrimSpace(line)
		key, value, found := strings.Cut(line, ":")
		if !found || !strings.EqualFold(strings.TrimSpace(key), "Content-Disposition") {
			continue
		}
		value = strings.TrimSpace(value)
		if _, params, err := mime.ParseMediaType(value); err == nil {
			return params["name"], params["filename"], true
		}
		return quotedParam(value, "name"), quotedParam(value, "filename"), true
	}
	return "", "", false
}

// quotedParam is the lenient fallback for headers mime rejects, such as
// unescaped quotes inside a filename.
func quotedParam(value, key string) string {
	for _, field := range strings.Split(value, ";") {
		k, v, found := strings.Cut(strings.TrimSpace(field), "=")
		if !found || !strings.EqualFold(k, key) {
			continue
		}
		return strings.Trim(v, `"`)
	}
	return ""
}
