package keep

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrNotANote marks a document that decoded fine but carries neither text
// nor list content. Callers skip such files silently.
var ErrNotANote = errors.New("keep: document is not a note")

type rename struct {
	from string
	to   string
}

// renameTable maps Takeout vendor field names to canonical ones. Order
// matters only in that later renames never re-read already-renamed keys.
var renameTable = []rename{
	{"textContent", "text_content"},
	{"listContent", "list_content"},
	{"isTrashed", "trashed"},
	{"isPinned", "pinned"},
	{"isArchived", "archived"},
	{"userEditedTimestampUsec", "mtime_us"},
	{"createdTimestampUsec", "ctime_us"},
}

// mandatoryKeys are the canonical fields every note must carry after
// normalization. A document missing any of them fails construction.
var mandatoryKeys = []string{"title", "color", "mtime_us", "ctime_us", "archived", "pinned", "trashed"}

// Normalize returns a copy of raw with vendor field names renamed to their
// canonical equivalents and the labels list collapsed to display names.
// A rename is a move: the old key is removed, the new key is set only when
// the old one was present. Unknown fields pass through untouched.
func Normalize(raw map[string]any) map[string]any {
	out := make(map[string]any, len(raw))
	for k, v := range raw {
		out[k] = v
	}
	for _, r := range renameTable {
		if v, ok := out[r.from]; ok {
			out[r.to] = v
			delete(out, r.from)
		}
	}
	if labels, ok := out["labels"]; ok {
		names := make([]string, 0)
		for _, item := range asAnySlice(labels) {
			if m, ok := item.(map[string]any); ok {
				if name := asString(m["name"]); name != "" {
					names = append(names, name)
				}
			}
		}
		out["labels"] = names
	}
	return out
}

// FromRaw builds a Record from a normalized mapping. It returns ErrNotANote
// when neither list_content nor text_content is present, and an error when
// a mandatory common attribute is missing.
func FromRaw(raw map[string]any) (Record, error) {
	_, isList := raw["list_content"]
	_, isText := raw["text_content"]
	if !isList && !isText {
		return nil, ErrNotANote
	}

	for _, key := range mandatoryKeys {
		if _, ok := raw[key]; !ok {
			return nil, fmt.Errorf("keep: note is missing mandatory field %q", key)
		}
	}

	note := Note{
		Title:       asString(raw["title"]),
		Color:       asString(raw["color"]),
		CTimeUS:     asInt64(raw["ctime_us"]),
		MTimeUS:     asInt64(raw["mtime_us"]),
		Archived:    asBool(raw["archived"]),
		Pinned:      asBool(raw["pinned"]),
		Trashed:     asBool(raw["trashed"]),
		Labels:      asStringSlice(raw["labels"]),
		Annotations: parseAnnotations(raw["annotations"]),
		Attachments: parseAttachments(raw["attachments"]),
	}

	if isList {
		return ListNote{Note: note, Items: parseListItems(raw["list_content"])}, nil
	}
	return TextNote{Note: note, Body: asString(raw["text_content"])}, nil
}

func parseListItems(v any) []ListItem {
	items := asAnySlice(v)
	out := make([]ListItem, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, ListItem{
			Text:    asString(m["text"]),
			Checked: asBool(m["isChecked"]),
		})
	}
	return out
}

func parseAnnotations(v any) []Annotation {
	items := asAnySlice(v)
	if len(items) == 0 {
		return nil
	}
	out := make([]Annotation, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, Annotation{
			Title:       asString(m["title"]),
			Description: asString(m["description"]),
			URL:         asString(m["url"]),
		})
	}
	return out
}

func parseAttachments(v any) []Attachment {
	items := asAnySlice(v)
	if len(items) == 0 {
		return nil
	}
	out := make([]Attachment, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			// Kept with an empty path so the mapper can skip the spec
			// without dropping the note.
			out = append(out, Attachment{})
			continue
		}
		out = append(out, Attachment{FilePath: asString(m["filePath"])})
	}
	return out
}

func asString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	default:
		return ""
	}
}

// asInt64 accepts Takeout timestamps both as JSON numbers and as decimal
// strings; both forms occur in the wild.
func asInt64(v any) int64 {
	switch t := v.(type) {
	case float64:
		return int64(t)
	case int:
		return int64(t)
	case int64:
		return t
	case string:
		i, _ := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		return i
	default:
		return 0
	}
}

func asBool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return strings.EqualFold(strings.TrimSpace(t), "true")
	default:
		return false
	}
}

func asAnySlice(v any) []any {
	if out, ok := v.([]any); ok {
		return out
	}
	return nil
}

func asStringSlice(v any) []string {
	switch t := v.(type) {
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s := asString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
