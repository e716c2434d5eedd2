package converter

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Options is the conversion policy for one run. Defaults are defined once
// in DefaultOptions; the struct is passed by value and never mutated.
type Options struct {
	// LabelsAsFolders prefixes the note path with its first label.
	LabelsAsFolders bool `yaml:"labels_as_folders"`
	// LabelsAsTags appends every label to the note's tag line.
	LabelsAsTags bool `yaml:"labels_as_tags"`
	// TagPinned adds a "pinned" tag to pinned notes.
	TagPinned bool `yaml:"tag_pinned"`

	// IncludeArchived converts archived notes instead of skipping them.
	IncludeArchived bool `yaml:"include_archived"`
	// ArchiveDir is the subfolder for archived notes; empty disables the prefix.
	ArchiveDir string `yaml:"archive_dir"`
	// IncludeTrashed converts trashed notes instead of skipping them.
	IncludeTrashed bool `yaml:"include_trashed"`
	// TrashedDir is the subfolder for trashed notes; empty disables the prefix.
	TrashedDir string `yaml:"trashed_dir"`

	// IncludeAnnotations appends link preview annotations to the body.
	IncludeAnnotations bool `yaml:"include_annotations"`
	// IncludeAttachments embeds attachment references and schedules copies.
	IncludeAttachments bool `yaml:"include_attachments"`
	// AttachmentDir is the vault subfolder attachments are copied into.
	AttachmentDir string `yaml:"attachment_dir"`

	// IncludeMetadata emits the front-matter block.
	IncludeMetadata bool `yaml:"include_metadata"`
	// PreserveModTime restores each note's edit time on the written file.
	PreserveModTime bool `yaml:"preserve_mtime"`
	// Recursive scans the source directory recursively.
	Recursive bool `yaml:"recursive"`

	// UntitledFormat names notes without a title. %@ expands to a local
	// ISO-8601 timestamp from the creation time, %# to a truncated content
	// summary; everything else follows Go reference-time layout syntax.
	UntitledFormat string `yaml:"untitled_format"`
}

// DefaultOptions returns the conversion defaults.
func DefaultOptions() Options {
	return Options{
		LabelsAsFolders:    true,
		TagPinned:          true,
		ArchiveDir:         "Archived",
		TrashedDir:         "Trashed",
		IncludeAttachments: true,
		AttachmentDir:      "Attachments",
		IncludeMetadata:    true,
		PreserveModTime:    true,
		Recursive:          true,
		UntitledFormat:     "%@ %#",
	}
}

// Validate checks the options before a run.
func (o Options) Validate() error {
	return validation.ValidateStruct(&o,
		validation.Field(&o.UntitledFormat, validation.Required),
		validation.Field(&o.ArchiveDir, validation.By(folderName)),
		validation.Field(&o.TrashedDir, validation.By(folderName)),
		validation.Field(&o.AttachmentDir,
			validation.Required.When(o.IncludeAttachments).Error("required when attachments are included"),
			validation.By(folderName)),
	)
}

// folderName accepts only a single clean path segment.
func folderName(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if s == "." || s == ".." || strings.ContainsAny(s, `/\`) {
		return errors.New("must be a single folder name")
	}
	return nil
}
