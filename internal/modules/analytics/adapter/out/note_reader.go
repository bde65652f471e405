package out

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	analyticsout "mindfocus/internal/modules/analytics/port/out"
	apperrors "mindfocus/internal/platform/errors"
	"mindfocus/internal/platform/markdown"
)

type FileNoteReader struct{}

func NewFileNoteReader() analyticsout.NoteReader {
	return FileNoteReader{}
}

func (FileNoteReader) Read(_ context.Context, path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: note %s", apperrors.ErrNotFound, path)
		}
		return "", fmt.Errorf("read note: %w", err)
	}
	return markdown.Split(string(b), nil)
}
