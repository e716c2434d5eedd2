package converter

import (
	"bytes"
	"strings"
)

// Render serializes a Document to the final UTF-8 file content: optional
// front-matter block, body with exactly one trailing newline, and a single
// space-separated tag line when tags are present.
func Render(doc Document, includeMetadata bool) []byte {
	var buf bytes.Buffer

	if includeMetadata {
		writeFrontMatter(&buf, doc.Metadata)
		buf.WriteString("\n")
	}

	buf.WriteString(doc.Body)
	if !strings.HasSuffix(doc.Body, "\n") {
		buf.WriteString("\n")
	}

	if len(doc.Tags) > 0 {
		buf.WriteString("\n")
		for i, tag := range doc.Tags {
			if i > 0 {
				buf.WriteString(" ")
			}
			buf.WriteString("#")
			buf.WriteString(tag)
		}
		buf.WriteString("\n")
	}

	return buf.Bytes()
}
