package converter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeNoteFile(t *testing.T, path string, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

const shoppingNote = `{
	"title": "Shopping",
	"textContent": "milk\neggs",
	"color": "DEFAULT",
	"isPinned": true,
	"isArchived": false,
	"isTrashed": false,
	"createdTimestampUsec": "1600000000000000",
	"userEditedTimestampUsec": "1600000100000000"
}`

func TestConverterEndToEnd(t *testing.T) {
	root := t.TempDir()
	input := filepath.Join(root, "Keep")
	output := filepath.Join(root, "vault")

	writeNoteFile(t, filepath.Join(input, "shopping.json"), shoppingNote)

	stats, err := (Converter{Source: input, DestDir: output, Options: DefaultOptions()}).Run()
	if err != nil {
		t.Fatalf("run converter: %v", err)
	}
	if stats.Notes != 1 {
		t.Fatalf("expected 1 note, got %d", stats.Notes)
	}

	notePath := filepath.Join(output, "Shopping.md")
	noteBytes, err := os.ReadFile(notePath)
	if err != nil {
		t.Fatalf("read note: %v", err)
	}
	want := "---\n" +
		"x-keep-color: DEFAULT\n" +
		"x-keep-archived: False\n" +
		"x-keep-pinned: True\n" +
		"x-keep-trashed: False\n" +
		"x-keep-labels: []\n" +
		"---\n" +
		"\n" +
		"milk\neggs\n" +
		"\n" +
		"#pinned\n"
	if string(noteBytes) != want {
		t.Fatalf("unexpected note content:\n%s\nwant:\n%s", noteBytes, want)
	}

	info, err := os.Stat(notePath)
	if err != nil {
		t.Fatalf("stat note: %v", err)
	}
	if wantTime := time.UnixMicro(1600000100000000); !info.ModTime().Equal(wantTime) {
		t.Fatalf("expected mtime %v, got %v", wantTime, info.ModTime())
	}
}

func TestConverterSkipsArchivedAndTrashedByDefault(t *testing.T) {
	root := t.TempDir()
	input := filepath.Join(root, "Keep")
	output := filepath.Join(root, "vault")

	writeNoteFile(t, filepath.Join(input, "archived.json"), `{
		"title": "Old", "textContent": "x", "color": "DEFAULT",
		"isPinned": false, "isArchived": true, "isTrashed": false,
		"createdTimestampUsec": 1600000000000000, "userEditedTimestampUsec": 1600000100000000
	}`)
	writeNoteFile(t, filepath.Join(input, "trashed.json"), `{
		"title": "Gone", "textContent": "x", "color": "DEFAULT",
		"isPinned": false, "isArchived": false, "isTrashed": true,
		"createdTimestampUsec": 1600000000000000, "userEditedTimestampUsec": 1600000100000000
	}`)

	stats, err := (Converter{Source: input, DestDir: output, Options: DefaultOptions()}).Run()
	if err != nil {
		t.Fatalf("run converter: %v", err)
	}
	if stats.Notes != 0 || stats.Skipped != 2 {
		t.Fatalf("expected 0 notes and 2 skipped, got %+v", stats)
	}

	opts := DefaultOptions()
	opts.IncludeArchived = true
	opts.IncludeTrashed = true
	if _, err := (Converter{Source: input, DestDir: output, Options: opts}).Run(); err != nil {
		t.Fatalf("run converter with inclusion: %v", err)
	}
	if _, err := os.Stat(filepath.Join(output, "Archived", "Old.md")); err != nil {
		t.Fatalf("expected archived note under archive folder: %v", err)
	}
	if _, err := os.Stat(filepath.Join(output, "Trashed", "Gone.md")); err != nil {
		t.Fatalf("expected trashed note under trashed folder: %v", err)
	}
}

func TestConverterSkipsMalformedAndForeignDocuments(t *testing.T) {
	root := t.TempDir()
	input := filepath.Join(root, "Keep")
	output := filepath.Join(root, "vault")

	writeNoteFile(t, filepath.Join(input, "broken.json"), `{"title": "broken`)
	writeNoteFile(t, filepath.Join(input, "foreign.json"), `{"kind": "contact-card"}`)
	writeNoteFile(t, filepath.Join(input, "good.json"), shoppingNote)

	stats, err := (Converter{Source: input, DestDir: output, Options: DefaultOptions()}).Run()
	if err != nil {
		t.Fatalf("run converter: %v", err)
	}
	if stats.Notes != 1 {
		t.Fatalf("expected 1 converted note, got %+v", stats)
	}
	if stats.Failed != 1 {
		t.Fatalf("expected 1 failed document, got %+v", stats)
	}
	if stats.Skipped != 1 {
		t.Fatalf("expected 1 silently skipped document, got %+v", stats)
	}
}

func TestConverterCopiesAttachmentsAfterNotes(t *testing.T) {
	root := t.TempDir()
	input := filepath.Join(root, "Keep")
	output := filepath.Join(root, "vault")

	// The note records photo.jpeg while the export shipped photo.jpg.
	writeNoteFile(t, filepath.Join(input, "photo-note.json"), `{
		"title": "Trip", "textContent": "see photo", "color": "DEFAULT",
		"isPinned": false, "isArchived": false, "isTrashed": false,
		"createdTimestampUsec": 1600000000000000, "userEditedTimestampUsec": 1600000100000000,
		"attachments": [{"filePath": "photo.jpeg", "mimetype": "image/jpeg"}]
	}`)
	if err := os.WriteFile(filepath.Join(input, "photo.jpg"), []byte("jpeg-bytes"), 0o644); err != nil {
		t.Fatalf("write attachment: %v", err)
	}

	stats, err := (Converter{Source: input, DestDir: output, Options: DefaultOptions()}).Run()
	if err != nil {
		t.Fatalf("run converter: %v", err)
	}
	if stats.Attachments != 1 {
		t.Fatalf("expected 1 copied attachment, got %+v", stats)
	}

	copied, err := os.ReadFile(filepath.Join(output, "Attachments", "photo.jpeg"))
	if err != nil {
		t.Fatalf("read copied attachment: %v", err)
	}
	if string(copied) != "jpeg-bytes" {
		t.Fatalf("unexpected attachment content: %q", copied)
	}

	noteBytes, err := os.ReadFile(filepath.Join(output, "Trip.md"))
	if err != nil {
		t.Fatalf("read note: %v", err)
	}
	if want := "![[Attachments/photo.jpeg]]"; !strings.Contains(string(noteBytes), want) {
		t.Fatalf("expected embed %q in note:\n%s", want, noteBytes)
	}
}

func TestConverterLabelFoldersAndTags(t *testing.T) {
	root := t.TempDir()
	input := filepath.Join(root, "Keep")
	output := filepath.Join(root, "vault")

	writeNoteFile(t, filepath.Join(input, "labeled.json"), `{
		"title": "Plan", "textContent": "x", "color": "DEFAULT",
		"isPinned": true, "isArchived": false, "isTrashed": false,
		"createdTimestampUsec": 1600000000000000, "userEditedTimestampUsec": 1600000100000000,
		"labels": [{"name": "Work"}, {"name": "Later"}]
	}`)

	opts := DefaultOptions()
	opts.LabelsAsTags = true
	if _, err := (Converter{Source: input, DestDir: output, Options: opts}).Run(); err != nil {
		t.Fatalf("run converter: %v", err)
	}

	noteBytes, err := os.ReadFile(filepath.Join(output, "Work", "Plan.md"))
	if err != nil {
		t.Fatalf("read note: %v", err)
	}
	if want := "\n#Work #Later #pinned\n"; !strings.Contains(string(noteBytes), want) {
		t.Fatalf("expected tag line %q in note:\n%s", want, noteBytes)
	}
}
