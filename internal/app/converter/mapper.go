package converter

import (
	"fmt"
	"path"
	"strings"
	"time"

	keepdomain "github.com/soryn/keep-to-obsidian/internal/domain/keep"
)

// summaryLen bounds the content excerpt used in generated filenames.
const summaryLen = 10

// MetaField is one front-matter entry. Order of fields is significant.
type MetaField struct {
	Key   string
	Value any
}

// Document is one converted note ready for serialization: a vault-relative
// slash path, ordered front-matter, tags without the '#' prefix, and the
// rendered body.
type Document struct {
	Path     string
	Metadata []MetaField
	Tags     []string
	Body     string
	CTimeUS  int64
	MTimeUS  int64
}

// MapNote applies the conversion policy to one note record.
func MapNote(rec keepdomain.Record, opts Options) Document {
	meta := rec.Meta()

	title := meta.Title
	if title == "" {
		title = untitledName(rec, opts.UntitledFormat)
	}
	stem := slugifyTitle(title)

	segments := make([]string, 0, 3)
	if meta.Archived && opts.ArchiveDir != "" {
		segments = append(segments, opts.ArchiveDir)
	} else if meta.Trashed && opts.TrashedDir != "" {
		segments = append(segments, opts.TrashedDir)
	}
	if opts.LabelsAsFolders && len(meta.Labels) > 0 {
		segments = append(segments, folderSegment(meta.Labels[0]))
	}
	segments = append(segments, stem+".md")

	var tags []string
	if opts.LabelsAsTags {
		tags = append(tags, meta.Labels...)
	}
	if opts.TagPinned && meta.Pinned {
		tags = append(tags, "pinned")
	}

	return Document{
		Path:     path.Join(segments...),
		Metadata: noteMetadata(meta),
		Tags:     tags,
		Body:     renderBody(rec, opts),
		CTimeUS:  meta.CTimeUS,
		MTimeUS:  meta.MTimeUS,
	}
}

// noteMetadata surfaces the Keep state under namespaced keys so the vault's
// own front-matter keys are never shadowed. Key order is fixed.
func noteMetadata(meta keepdomain.Note) []MetaField {
	labels := meta.Labels
	if labels == nil {
		labels = []string{}
	}
	return []MetaField{
		{Key: "x-keep-color", Value: meta.Color},
		{Key: "x-keep-archived", Value: meta.Archived},
		{Key: "x-keep-pinned", Value: meta.Pinned},
		{Key: "x-keep-trashed", Value: meta.Trashed},
		{Key: "x-keep-labels", Value: labels},
	}
}

func renderBody(rec keepdomain.Record, opts Options) string {
	body := rec.Text()
	meta := rec.Meta()

	if opts.IncludeAttachments {
		embeds := make([]string, 0, len(meta.Attachments))
		for _, spec := range meta.Attachments {
			if spec.FilePath == "" {
				continue
			}
			embeds = append(embeds, "![["+path.Join(opts.AttachmentDir, spec.FilePath)+"]]")
		}
		if len(embeds) > 0 {
			body += "\n\n" + strings.Join(embeds, "\n")
		}
	}

	if opts.IncludeAnnotations && len(meta.Annotations) > 0 {
		var b strings.Builder
		b.WriteString("\n\n§ Annotations:\n")
		for _, a := range meta.Annotations {
			fmt.Fprintf(&b, "- %s: [%s](%s)\n", a.Title, a.Description, a.URL)
		}
		body += b.String()
	}

	return body
}

// slugifyTitle derives a filename stem: every '/' becomes '_', nothing else
// changes.
func slugifyTitle(s string) string {
	return strings.ReplaceAll(s, "/", "_")
}

// folderSegment cleanses a user-supplied folder name so it always stays a
// single path segment under the vault root.
func folderSegment(s string) string {
	s = slugifyTitle(s)
	if s == "" || s == "." || s == ".." {
		return "_"
	}
	return s
}

// untitledName expands the untitled-note format against the record. The
// placeholder survives time.Format untouched because it contains no layout
// characters.
func untitledName(rec keepdomain.Record, format string) string {
	const placeholder = "\x00#\x00"
	layout := strings.ReplaceAll(format, "%@", "2006-01-02T15:04:05")
	layout = strings.ReplaceAll(layout, "%#", placeholder)
	name := time.UnixMicro(rec.Meta().CTimeUS).Format(layout)
	return strings.ReplaceAll(name, placeholder, truncate(rec.Text(), summaryLen))
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) > max {
		return string(runes[:max]) + "..."
	}
	return s
}
