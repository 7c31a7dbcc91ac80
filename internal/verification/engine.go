// Package verification checks a registry of named types against their
// frozen snapshot declarations and produces a VerificationResult.
//
// A suite run is synchronous and single-threaded: the snapshot is read, the
// source root is collected once, and every registry type is located in both
// places, extracted and compared in registry order. Missing definitions do
// not stop the loop; they are collected and returned together as one error,
// in which case no result is produced.
package verification

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"typedrift/internal/config"
	"typedrift/internal/logging"
	"typedrift/internal/signature"
	"typedrift/internal/world"
)

// Suite is one registry verified against one snapshot file.
type Suite struct {
	Name           string
	Types          []string // registry, in verification order
	SnapshotPath   string
	SourceRoot     string
	SourceSuffix   string
	Marker         string // appended to type names inside the snapshot
	Container      string // wrapper type written by Freeze
	IgnorePatterns []string
	RequiredFiles  []string
}

// SuiteFromConfig converts a resolved config suite.
func SuiteFromConfig(c config.SuiteConfig) Suite {
	return Suite{
		Name:           c.Name,
		Types:          append([]string(nil), c.Types...),
		SnapshotPath:   c.Snapshot,
		SourceRoot:     c.SourceRoot,
		SourceSuffix:   c.SourceSuffix,
		Marker:         c.SnapshotMarker,
		Container:      c.SnapshotContainer,
		IgnorePatterns: append([]string(nil), c.IgnorePatterns...),
		RequiredFiles:  append([]string(nil), c.RequiredFiles...),
	}
}

// Side identifies where a definition was looked up.
type Side string

const (
	SideSnapshot Side = "snapshot"
	SideCurrent  Side = "current"
)

// Error wraps a per-type failure, typically a
// *signature.DefinitionNotFoundError.
type Error struct {
	Side Side
	Type string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s definition of %s: %v", e.Side, e.Type, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// RequiredFileError reports a required file that does not exist.
type RequiredFileError struct {
	Path string
	Err  error
}

func (e *RequiredFileError) Error() string {
	return fmt.Sprintf("required file missing: %s", e.Path)
}

func (e *RequiredFileError) Unwrap() error {
	return e.Err
}

// Option configures an Engine.
type Option func(*Engine)

// WithLocator replaces the default PatternLocator.
func WithLocator(l signature.Locator) Option {
	return func(e *Engine) { e.locator = l }
}

// WithLogger sets the parent logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithMaxFileBytes overrides the collector's per-file size limit.
func WithMaxFileBytes(n int64) Option {
	return func(e *Engine) { e.maxFileBytes = n }
}

// Engine verifies one suite.
type Engine struct {
	suite        Suite
	locator      signature.Locator
	logger       *zap.Logger
	locateLog    *zap.Logger
	maxFileBytes int64
}

// NewEngine creates an engine for suite.
func NewEngine(suite Suite, opts ...Option) *Engine {
	e := &Engine{suite: suite, maxFileBytes: world.DefaultScannerConfig().MaxFileBytes}
	for _, opt := range opts {
		opt(e)
	}
	if e.locator == nil {
		e.locator = signature.NewPatternLocator()
	}
	suiteField := zap.String("suite", suite.Name)
	e.locateLog = logging.For(e.logger, logging.CategoryLocate).With(suiteField)
	e.logger = logging.For(e.logger, logging.CategoryVerify).With(suiteField)
	return e
}

// Suite returns the suite the engine verifies.
func (e *Engine) Suite() Suite {
	return e.suite
}

// Verify runs the suite. It returns an error, and no result, when the
// snapshot or source root cannot be read, a required file is missing, or
// any registry type has no definition on either side.
func (e *Engine) Verify(ctx context.Context) (*VerificationResult, error) {
	start := time.Now()

	if err := e.preflight(); err != nil {
		return nil, err
	}

	snapshot, scan, err := e.load(ctx)
	if err != nil {
		return nil, err
	}

	verifications := make([]TypeVerification, 0, len(e.suite.Types))
	var errs *multierror.Error
	for _, name := range e.suite.Types {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		snapSpan, snapErr := e.locator.Locate(name+e.suite.Marker, []world.SourceFile{snapshot}, signature.ScopeAnyDepth)
		curSpan, curErr := e.locator.Locate(name, scan.Files, signature.ScopeTopLevel)
		if snapErr != nil {
			errs = multierror.Append(errs, &Error{Side: SideSnapshot, Type: name, Err: snapErr})
		}
		if curErr != nil {
			errs = multierror.Append(errs, &Error{Side: SideCurrent, Type: name, Err: curErr})
		}
		if snapErr != nil || curErr != nil {
			e.locateLog.Debug("definition missing", zap.String("type", name),
				zap.NamedError("snapshot_error", snapErr), zap.NamedError("current_error", curErr))
			continue
		}
		e.locateLog.Debug("definitions located",
			zap.String("type", name),
			zap.String("snapshot_kind", string(snapSpan.Kind)),
			zap.String("file", curSpan.File),
			zap.String("kind", string(curSpan.Kind)))

		v := NewTypeVerification(name, snapSpan, curSpan)
		e.logger.Debug("type verified",
			zap.String("type", name),
			zap.Bool("compatible", v.IsCompatible),
			zap.Int("issues", len(v.Issues)))
		verifications = append(verifications, v)
	}

	if err := errs.ErrorOrNil(); err != nil {
		e.logger.Warn("verification aborted", zap.Int("errors", errs.Len()))
		return nil, err
	}

	result := NewVerificationResult(
		e.suite.Name,
		e.suite.SourceRoot,
		e.suite.SnapshotPath,
		verifications,
		ScanStats{Files: len(scan.Files), Bytes: scan.Bytes},
		scan.Warnings,
	)
	e.logger.Info("verification complete",
		zap.Int("total", result.TotalTypes),
		zap.Int("incompatible", result.IncompatibleTypes),
		zap.Duration("elapsed", time.Since(start)))
	return result, nil
}

// preflight checks that every required file exists.
func (e *Engine) preflight() error {
	var errs *multierror.Error
	for _, path := range e.suite.RequiredFiles {
		if _, err := os.Stat(path); err != nil {
			errs = multierror.Append(errs, &RequiredFileError{Path: path, Err: err})
		}
	}
	return errs.ErrorOrNil()
}

// load reads the snapshot and collects the current sources. The snapshot
// file itself is removed from the sources when it lives under the root.
func (e *Engine) load(ctx context.Context) (world.SourceFile, *world.ScanResult, error) {
	snapshot, err := world.ReadSource(e.suite.SnapshotPath)
	if err != nil {
		return world.SourceFile{}, nil, err
	}

	scanner := world.NewScanner(world.ScannerConfig{
		Suffix:         e.suite.SourceSuffix,
		IgnorePatterns: e.suite.IgnorePatterns,
		MaxFileBytes:   e.maxFileBytes,
	}, e.logger)
	scan, err := scanner.Collect(ctx, e.suite.SourceRoot)
	if err != nil {
		return world.SourceFile{}, nil, err
	}

	files := withoutFile(scan.Files, snapshot.AbsPath)
	if len(files) != len(scan.Files) {
		e.logger.Debug("excluded snapshot from sources", zap.String("path", snapshot.Path))
		scan.Bytes -= int64(len(snapshot.Content))
	}
	scan.Files = files
	return snapshot, scan, nil
}

// withoutFile drops the file with the given absolute path.
func withoutFile(files []world.SourceFile, abs string) []world.SourceFile {
	out := make([]world.SourceFile, 0, len(files))
	for _, f := range files {
		if abs != "" && filepath.Clean(f.AbsPath) == filepath.Clean(abs) {
			continue
		}
		out = append(out, f)
	}
	return out
}

// IsDefinitionNotFound reports whether err contains a missing definition.
func IsDefinitionNotFound(err error) bool {
	var nf *signature.DefinitionNotFoundError
	return errors.As(err, &nf)
}
