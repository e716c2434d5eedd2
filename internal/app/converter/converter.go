// Package converter turns Google Keep note records into an Obsidian-style
// vault: it maps each record to a target document, serializes it, and
// drives the per-file conversion loop.
package converter

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"time"

	keepdomain "github.com/soryn/keep-to-obsidian/internal/domain/keep"
	"github.com/soryn/keep-to-obsidian/internal/infra/keepjson"
	"github.com/soryn/keep-to-obsidian/internal/infra/vaultfs"
)

// Converter runs one conversion batch from Source into DestDir.
type Converter struct {
	Source  string
	DestDir string
	Options Options
	Logger  *slog.Logger
}

// Stats summarizes a finished run.
type Stats struct {
	Notes       int
	Attachments int
	Skipped     int
	Failed      int
}

// Run converts every note document under Source, then copies the collected
// attachments. Notes are processed one at a time to completion; attachment
// copies run as a second phase after the note stream is exhausted.
func (c Converter) Run() (Stats, error) {
	if c.Source == "" || c.DestDir == "" {
		return Stats{}, fmt.Errorf("source and destination are required")
	}
	log := c.Logger
	if log == nil {
		log = slog.Default()
	}
	opts := c.Options
	if err := opts.Validate(); err != nil {
		return Stats{}, fmt.Errorf("invalid options: %w", err)
	}

	files, err := keepjson.ListNoteFiles(c.Source, opts.Recursive)
	if err != nil {
		return Stats{}, err
	}
	vault, err := vaultfs.New(c.DestDir)
	if err != nil {
		return Stats{}, err
	}

	bar := newProgressBar(len(files) + 1)
	defer bar.Close()

	var stats Stats
	var copies []vaultfs.CopyInstruction
	for _, file := range files {
		bar.Advance("converting notes")

		data, err := os.ReadFile(file)
		if err != nil {
			log.Warn("skipping unreadable file", "file", file, "error", err)
			stats.Failed++
			continue
		}
		rec, err := keepjson.ParseNote(data)
		if errors.Is(err, keepdomain.ErrNotANote) {
			stats.Skipped++
			continue
		}
		if err != nil {
			log.Warn("skipping malformed note", "file", file, "error", err)
			stats.Failed++
			continue
		}

		meta := rec.Meta()
		if meta.Archived && !opts.IncludeArchived {
			stats.Skipped++
			continue
		}
		if meta.Trashed && !opts.IncludeTrashed {
			stats.Skipped++
			continue
		}

		if opts.IncludeAttachments {
			copies = append(copies, attachmentCopies(file, meta.Attachments, opts.AttachmentDir)...)
		}

		doc := MapNote(rec, opts)
		if err := vault.WriteNote(doc.Path, Render(doc, opts.IncludeMetadata)); err != nil {
			return stats, fmt.Errorf("write note %s: %w", doc.Path, err)
		}
		if opts.PreserveModTime {
			if err := vault.SetModTime(doc.Path, time.UnixMicro(doc.MTimeUS)); err != nil {
				log.Warn("could not restore note mtime", "path", doc.Path, "error", err)
			}
		}
		stats.Notes++
	}

	bar.Advance("copying attachments")
	for _, inst := range copies {
		if err := vault.CopyAttachment(inst); err != nil {
			log.Warn("skipping attachment", "source", inst.Source, "error", err)
			continue
		}
		stats.Attachments++
	}
	bar.Finish("done")

	if stats.Failed > 0 {
		log.Warn("some documents could not be converted", "failed", stats.Failed)
	}
	return stats, nil
}

// attachmentCopies schedules the copies for one note. Specs without a file
// path are skipped; a recorded .jpeg path is resolved against the files
// actually present next to the note.
func attachmentCopies(noteFile string, attachments []keepdomain.Attachment, attachmentDir string) []vaultfs.CopyInstruction {
	srcDir := filepath.Dir(noteFile)
	out := make([]vaultfs.CopyInstruction, 0, len(attachments))
	for _, spec := range attachments {
		if spec.FilePath == "" {
			continue
		}
		out = append(out, vaultfs.CopyInstruction{
			Source: vaultfs.ResolveAttachmentSource(filepath.Join(srcDir, spec.FilePath)),
			Dest:   path.Join(attachmentDir, spec.FilePath),
		})
	}
	return out
}
