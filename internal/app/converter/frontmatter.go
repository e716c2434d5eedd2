package converter

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const frontMatterDelim = "---"

func writeFrontMatter(buf *bytes.Buffer, fields []MetaField) {
	buf.WriteString(frontMatterDelim)
	buf.WriteString("\n")
	for _, f := range fields {
		buf.WriteString(f.Key)
		buf.WriteString(": ")
		buf.WriteString(formatMetaValue(f.Value))
		buf.WriteString("\n")
	}
	buf.WriteString(frontMatterDelim)
	buf.WriteString("\n")
}

// formatMetaValue writes a value as its plain representation, unescaped.
// Titles or labels containing ':', quotes, or newlines can therefore yield
// front matter the target app will not parse; the shape is kept as-is so
// tooling built against existing exports keeps working.
func formatMetaValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		if t {
			return "True"
		}
		return "False"
	case []string:
		if len(t) == 0 {
			return "[]"
		}
		quoted := make([]string, len(t))
		for i, s := range t {
			quoted[i] = "'" + s + "'"
		}
		return "[" + strings.Join(quoted, ", ") + "]"
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// ParseFrontMatter splits a rendered document into its front-matter fields,
// in document order, and the remaining body. Content without a leading
// front-matter block is returned entirely as body.
func ParseFrontMatter(data []byte) ([]MetaField, string, error) {
	trimmed := bytes.TrimLeft(data, "\n\r")
	if !bytes.HasPrefix(trimmed, []byte(frontMatterDelim)) {
		return nil, string(data), nil
	}

	rest := trimmed[len(frontMatterDelim):]
	idx := bytes.Index(rest, []byte("\n"+frontMatterDelim))
	if idx < 0 {
		return nil, string(data), nil
	}
	block := rest[:idx]
	after := rest[idx+1+len(frontMatterDelim):]
	body := strings.TrimLeft(string(after), "\n\r")

	var node yaml.Node
	if err := yaml.Unmarshal(block, &node); err != nil {
		return nil, "", fmt.Errorf("parse front matter: %w", err)
	}
	if len(node.Content) == 0 {
		return nil, body, nil
	}
	mapping := node.Content[0]
	if mapping.Kind != yaml.MappingNode {
		return nil, "", fmt.Errorf("front matter is not a mapping")
	}

	fields := make([]MetaField, 0, len(mapping.Content)/2)
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		var value any
		if err := mapping.Content[i+1].Decode(&value); err != nil {
			return nil, "", fmt.Errorf("decode front matter value %q: %w", mapping.Content[i].Value, err)
		}
		fields = append(fields, MetaField{Key: mapping.Content[i].Value, Value: value})
	}
	return fields, body, nil
}
