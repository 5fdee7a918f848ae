package handlog

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/yeogirlyun/pokertrainer/internal/fileutil"
)

// Writer persists a rendered hand log.
type Writer interface {
	WriteHandLog(handID string, content string) error
}

// FileWriter writes one text file per hand under a directory.
type FileWriter struct {
	directory string
}

// NewFileWriter creates a file-based hand log writer.
func NewFileWriter(directory string) *FileWriter {
	return &FileWriter{directory: directory}
}

// WriteHandLog writes the rendered hand to hand_<id>.txt. The write is
// atomic so review tooling tailing the directory never reads a partial
// log.
func (w *FileWriter) WriteHandLog(handID string, content string) error {
	if err := os.MkdirAll(w.directory, 0755); err != nil {
		return fmt.Errorf("create hand log directory: %w", err)
	}
	filename := filepath.Join(w.directory, fmt.Sprintf("hand_%s.txt", handID))
	if err := fileutil.WriteFileAtomic(filename, []byte(content), 0644); err != nil {
		return fmt.Errorf("write hand log: %w", err)
	}
	return nil
}

// DiscardWriter drops hand logs; used by tests and batch verification.
type DiscardWriter struct{}

func (DiscardWriter) WriteHandLog(string, string) error { return nil }
