// Package vaultfs writes converted notes and attachment copies into the
// destination vault. Every path is resolved relative to the vault root and
// rejected if it escapes it.
package vaultfs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Vault is the destination directory for a conversion run.
type Vault struct {
	root string // absolute path to the vault root
}

// New creates the vault root if needed and returns a Vault rooted there.
func New(root string) (*Vault, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("vault: resolve root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("vault: create root: %w", err)
	}
	return &Vault{root: abs}, nil
}

// Root returns the absolute vault root.
func (v *Vault) Root() string { return v.root }

// safePath resolves a relative path against the vault root and rejects
// any result that escapes it (absolute paths, directory traversal).
func (v *Vault) safePath(rel string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(rel))
	if cleaned == "" || cleaned == "." {
		return "", fmt.Errorf("vault: empty path")
	}
	if filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("vault: absolute paths not allowed: %s", rel)
	}
	joined := filepath.Join(v.root, cleaned)
	abs, err := filepath.Abs(joined)
	if err != nil {
		return "", fmt.Errorf("vault: resolve path: %w", err)
	}
	if !strings.HasPrefix(abs, v.root+string(os.PathSeparator)) {
		return "", fmt.Errorf("vault: path escapes vault root: %s", rel)
	}
	return abs, nil
}

// WriteNote writes a converted note atomically: tmp file, fsync, rename.
// A destination file only ever appears with its full content.
func (v *Vault) WriteNote(rel string, content []byte) error {
	abs, err := v.safePath(rel)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return fmt.Errorf("vault: mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(abs), ".keep2obsidian-*")
	if err != nil {
		return fmt.Errorf("vault: create temp: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("vault: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("vault: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("vault: close temp: %w", err)
	}
	if err := os.Rename(tmpName, abs); err != nil {
		return fmt.Errorf("vault: rename: %w", err)
	}
	success = true
	return nil
}

// SetModTime restores the note's edit time on the written file.
func (v *Vault) SetModTime(rel string, mtime time.Time) error {
	abs, err := v.safePath(rel)
	if err != nil {
		return err
	}
	if err := os.Chtimes(abs, mtime, mtime); err != nil {
		return fmt.Errorf("vault: set mtime: %w", err)
	}
	return nil
}

// CopyInstruction schedules one attachment copy: an absolute source path
// and a destination path relative to the vault root.
type CopyInstruction struct {
	Source string
	Dest   string
}

// CopyAttachment copies one attachment into the vault.
func (v *Vault) CopyAttachment(inst CopyInstruction) error {
	abs, err := v.safePath(inst.Dest)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return fmt.Errorf("vault: mkdir: %w", err)
	}
	if err := copyFile(inst.Source, abs); err != nil {
		return fmt.Errorf("vault: copy %s: %w", inst.Source, err)
	}
	return nil
}

// ResolveAttachmentSource maps a recorded attachment path to the file that
// actually exists. Takeout sometimes records a .jpeg extension while the
// exported file next to the note carries .jpg; when the recorded file is
// absent and the .jpg sibling exists, the sibling wins.
func ResolveAttachmentSource(path string) string {
	if _, err := os.Stat(path); err == nil {
		return path
	}
	if strings.EqualFold(filepath.Ext(path), ".jpeg") {
		sibling := strings.TrimSuffix(path, filepath.Ext(path)) + ".jpg"
		if _, err := os.Stat(sibling); err == nil {
			return sibling
		}
	}
	return path
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
