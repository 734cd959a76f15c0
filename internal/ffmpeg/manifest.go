package ffmpeg

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// WriteManifest writes a concat demuxer listing for files to path. Entries are
// made absolute because the demuxer resolves relative names against the
// manifest's own directory.
func WriteManifest(path string, files []string) error {
	if len(files) == 0 {
		return errors.New("write manifest: no files")
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create manifest: %w", err)
	}
	w := bufio.NewWriter(f)
	for _, file := range files {
		abs, err := filepath.Abs(file)
		if err != nil {
			_ = f.Close()
			return fmt.Errorf("resolve %s: %w", file, err)
		}
		if _, err := w.WriteString(ManifestLine(abs)); err != nil {
			_ = f.Close()
			return fmt.Errorf("write manifest: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("flush manifest: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close manifest: %w", err)
	}
	return nil
}

// ManifestLine renders one concat entry, escaping single quotes.
func ManifestLine(path string) string {
	return "file '" + strings.ReplaceAll(path, "'", `'\''`) + "'\n"
}
