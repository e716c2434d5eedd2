// Package keepjson reads Google Keep Takeout note documents from disk:
// it enumerates candidate files and parses one JSON document into a
// normalized note record.
package keepjson

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	keepdomain "github.com/soryn/keep-to-obsidian/internal/domain/keep"
)

// ParseNote turns the raw text of one note document into a Record.
// A JSON syntax error is reported upward so the caller can skip the file;
// a well-formed document without note content yields keep.ErrNotANote.
func ParseNote(data []byte) (keepdomain.Record, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode note: %w", err)
	}
	return keepdomain.FromRaw(keepdomain.Normalize(raw))
}

// ListNoteFiles enumerates the note documents to convert. The source is
// either a directory (scanned for .json files, recursively by default) or
// a single explicit file. Compressed Takeout bundles are rejected with a
// hint to extract them first.
func ListNoteFiles(source string, recursive bool) ([]string, error) {
	info, err := os.Stat(source)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", source, err)
	}

	if info.IsDir() {
		return listDir(source, recursive)
	}

	archive, err := isArchiveFile(source)
	if err != nil {
		return nil, err
	}
	if archive {
		return nil, fmt.Errorf("%s looks like a compressed bundle: extract it first, then convert the extracted directory", source)
	}
	return []string{source}, nil
}

func listDir(dir string, recursive bool) ([]string, error) {
	var out []string

	if !recursive {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("read dir %s: %w", dir, err)
		}
		for _, ent := range entries {
			if ent.IsDir() || !strings.HasSuffix(ent.Name(), ".json") {
				continue
			}
			out = append(out, filepath.Join(dir, ent.Name()))
		}
		sort.Strings(out)
		return out, nil
	}

	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".json") {
			return nil
		}
		out = append(out, p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan dir %s: %w", dir, err)
	}
	sort.Strings(out)
	return out, nil
}

// isArchiveFile sniffs the leading bytes for zip, gzip, and tar signatures.
func isArchiveFile(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	head := make([]byte, 265)
	n, _ := f.Read(head)
	head = head[:n]

	if bytes.HasPrefix(head, []byte("PK\x03\x04")) || bytes.HasPrefix(head, []byte{0x1f, 0x8b}) {
		return true, nil
	}
	// POSIX tar: "ustar" magic at offset 257.
	if len(head) >= 262 && bytes.Equal(head[257:262], []byte("ustar")) {
		return true, nil
	}
	return false, nil
}
