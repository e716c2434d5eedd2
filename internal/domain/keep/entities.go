// Package keep models a single note from a Google Keep Takeout export and
// the normalization from the vendor JSON shape to the canonical one.
package keep

import "strings"

// ListItem is one checklist entry of a list note.
type ListItem struct {
	Text    string
	Checked bool
}

// Annotation is a link preview attached to a note.
type Annotation struct {
	Title       string
	Description string
	URL         string
}

// Attachment references a file exported next to the note document.
type Attachment struct {
	FilePath string
}

// Note holds the attributes every Keep note carries.
type Note struct {
	Title       string
	Color       string
	CTimeUS     int64
	MTimeUS     int64
	Archived    bool
	Pinned      bool
	Trashed     bool
	Labels      []string
	Annotations []Annotation
	Attachments []Attachment
}

// Record is one normalized note: exactly a TextNote or a ListNote.
// The interface is sealed so consumers go through the variant methods
// instead of probing concrete types.
type Record interface {
	// Meta returns the attributes shared by both note kinds.
	Meta() Note
	// Text returns the note content rendered as Markdown text.
	Text() string

	record()
}

// TextNote is a plain free-text note.
type TextNote struct {
	Note
	Body string
}

func (n TextNote) Meta() Note   { return n.Note }
func (n TextNote) Text() string { return n.Body }
func (TextNote) record()        {}

// ListNote is a checklist note.
type ListNote struct {
	Note
	Items []ListItem
}

func (n ListNote) Meta() Note { return n.Note }

// Text renders one checklist line per item, in item order.
func (n ListNote) Text() string {
	lines := make([]string, 0, len(n.Items))
	for _, item := range n.Items {
		check := " "
		if item.Checked {
			check = "x"
		}
		lines = append(lines, "- ["+check+"] "+item.Text)
	}
	return strings.Join(lines, "\n")
}

func (ListNote) record() {}
