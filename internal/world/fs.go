package world

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"typedrift/internal/logging"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
)

// SourceFile is one collected file. It is never mutated after reading.
type SourceFile struct {
	Path    string // root-relative, slash separated
	AbsPath string
	Content string
}

// ScanResult is the outcome of collecting one source root.
type ScanResult struct {
	Root     string
	Files    []SourceFile // sorted by Path
	Bytes    int64
	Warnings []string
}

// IOError reports a source root or snapshot that cannot be read.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// Scanner collects source files below a root directory.
type Scanner struct {
	config ScannerConfig
	logger *zap.Logger
}

// NewScanner creates a scanner. A nil logger disables logging.
func NewScanner(config ScannerConfig, logger *zap.Logger) *Scanner {
	if config.Suffix == "" {
		config.Suffix = DefaultScannerConfig().Suffix
	}
	return &Scanner{
		config: config,
		logger: logging.For(logger, logging.CategoryWorld),
	}
}

// Collect walks root recursively and returns every file whose name ends in
// the configured suffix, ordered lexicographically by relative path.
//
// The root itself must exist and be readable, otherwise an *IOError is
// returned. Sub-directories and files that fail mid-walk are skipped and
// recorded in ScanResult.Warnings.
func (s *Scanner) Collect(ctx context.Context, root string) (*ScanResult, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, &IOError{Op: "stat source root", Path: root, Err: err}
	}
	if !info.IsDir() {
		return nil, &IOError{Op: "scan source root", Path: root, Err: errors.New("not a directory")}
	}
	if _, err := os.ReadDir(root); err != nil {
		return nil, &IOError{Op: "read source root", Path: root, Err: err}
	}

	result := &ScanResult{Root: root}
	warn := func(format string, args ...interface{}) {
		msg := fmt.Sprintf(format, args...)
		result.Warnings = append(result.Warnings, msg)
		s.logger.Warn("skipping path", zap.String("reason", msg))
	}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)

		if walkErr != nil {
			if path == root {
				return &IOError{Op: "read source root", Path: root, Err: walkErr}
			}
			if d != nil && d.IsDir() {
				warn("cannot list directory %s: %v", rel, walkErr)
				return filepath.SkipDir
			}
			warn("cannot stat %s: %v", rel, walkErr)
			return nil
		}

		if d.IsDir() {
			if path == root {
				return nil
			}
			name := d.Name()
			if strings.HasPrefix(name, ".") || isIgnoredRel(rel, name, s.config.IgnorePatterns) {
				return filepath.SkipDir
			}
			return nil
		}

		if !strings.HasSuffix(d.Name(), s.config.Suffix) || !d.Type().IsRegular() {
			return nil
		}
		if isIgnoredRel(rel, d.Name(), s.config.IgnorePatterns) {
			return nil
		}

		if s.config.MaxFileBytes > 0 {
			if fi, err := d.Info(); err == nil && fi.Size() > s.config.MaxFileBytes {
				warn("skipping %s: %s exceeds limit of %s", rel,
					humanize.Bytes(uint64(fi.Size())), humanize.Bytes(uint64(s.config.MaxFileBytes)))
				return nil
			}
		}

		data, err := os.ReadFile(path)
		if err != nil {
			warn("cannot read %s: %v", rel, err)
			return nil
		}

		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		result.Files = append(result.Files, SourceFile{
			Path:    rel,
			AbsPath: abs,
			Content: string(data),
		})
		result.Bytes += int64(len(data))
		return nil
	})
	if err != nil {
		var ioErr *IOError
		if errors.As(err, &ioErr) {
			return nil, ioErr
		}
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}

	sort.Slice(result.Files, func(i, j int) bool {
		return result.Files[i].Path < result.Files[j].Path
	})

	s.logger.Debug("collected sources",
		zap.String("root", root),
		zap.Int("files", len(result.Files)),
		zap.String("size", humanize.Bytes(uint64(result.Bytes))),
		zap.Int("warnings", len(result.Warnings)))
	return result, nil
}

// ReadSource reads a single file, such as the snapshot, as a SourceFile.
func ReadSource(path string) (SourceFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SourceFile{}, &IOError{Op: "read", Path: path, Err: err}
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return SourceFile{
		Path:    filepath.ToSlash(path),
		AbsPath: abs,
		Content: string(data),
	}, nil
}
