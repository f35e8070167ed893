// Package filesystem reads pre-converted plain-text disclosure documents
// from a local directory.
package filesystem

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/encoding/simplifiedchinese"

	"github.com/custodia-labs/odiscan/internal/core/domain"
	"github.com/custodia-labs/odiscan/internal/core/ports/driven"
)

// Ensure Source implements the interface.
var _ driven.DocumentSource = (*Source)(nil)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Source lists the .txt files of one directory.
type Source struct {
	dir    string
	logger *zap.Logger
}

// NewSource creates a source over dir.
func NewSource(dir string, logger *zap.Logger) *Source {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Source{dir: dir, logger: logger}
}

// Dir returns the source directory.
func (s *Source) Dir() string {
	return s.dir
}

// Validate checks the directory exists and is readable.
func (s *Source) Validate() error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return fmt.Errorf("source directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", domain.ErrInvalidInput, s.dir)
	}
	return nil
}

// Documents returns every text document sorted by file name.
func (s *Source) Documents(ctx context.Context) ([]domain.Document, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", s.dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() && IsTextFile(e.Name()) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	docs := make([]domain.Document, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		doc, err := s.Load(ctx, filepath.Join(s.dir, name))
		if err != nil {
			s.logger.Warn("unreadable document", zap.String("file", name), zap.Error(err))
			doc = domain.Document{Filename: name}
		}
		docs = append(docs, doc)
	}

	s.logger.Info("loaded documents", zap.String("dir", s.dir), zap.Int("count", len(docs)))
	return docs, nil
}

// Load reads one document. Undecodable content yields ParseSuccess=false
// rather than an error.
func (s *Source) Load(_ context.Context, path string) (domain.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Document{}, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}

	doc := domain.Document{Filename: filepath.Base(path)}
	text, err := decode(data)
	if err != nil {
		s.logger.Warn("undecodable document", zap.String("file", doc.Filename), zap.Error(err))
		return doc, nil
	}
	doc.Text = text
	doc.ParseSuccess = strings.TrimSpace(text) != ""
	return doc, nil
}

// IsTextFile reports whether name is a visible .txt file.
func IsTextFile(name string) bool {
	if strings.HasPrefix(name, ".") {
		return false
	}
	return strings.EqualFold(filepath.Ext(name), ".txt")
}

// decode returns data as UTF-8. Files that are not valid UTF-8 are read as
// GB18030, which covers GBK and GB2312.
func decode(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return string(data), nil
	}
	out, err := simplifiedchinese.GB18030.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decode GB18030: %w", err)
	}
	if !utf8.Valid(out) || bytes.ContainsRune(out, utf8.RuneError) {
		return "", fmt.Errorf("decode GB18030: invalid byte sequence")
	}
	return string(out), nil
}
