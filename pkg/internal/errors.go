package internal

import (
	"errors"
	"fmt"
)

var (
	ErrNoArchives    = errors.New("no .zip archives found in the specified directory")
	ErrNoBuildScript = errors.New("no build script found")
	ErrInterrupted   = errors.New("interrupted")
)

// ArchiveError reports an archive that could not be read or extracted.
type ArchiveError struct {
	Archive string
	Err     error
}

func (e *ArchiveError) Error() string {
	return fmt.Sprintf("cannot extract archive %s: %s", e.Archive, e.Err)
}

func (e *ArchiveError) Unwrap() error {
	return e.Err
}

// ConfigurationError reports a staged archive that lacks a usable manifest.
type ConfigurationError struct {
	Path string
	Err  error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("cannot read manifest %s: %s", e.Path, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

type ManifestParseError struct {
	Line int
	Text string
	Msg  string
}

func (e *ManifestParseError) Error() string {
	return fmt.Sprintf("%s line %d: %s: %q", ManifestFile, e.Line, e.Msg, e.Text)
}

// ResolverError is returned by an ExternalResolver whose function could not
// be run.  Callers recover from it by asking the user directly.
type ResolverError struct {
	Dialect  string
	Function string
	Err      error
}

func (e *ResolverError) Error() string {
	return fmt.Sprintf("%s resolver %s() failed: %s", e.Dialect, e.Function, e.Err)
}

func (e *ResolverError) Unwrap() error {
	return e.Err
}

// BuildError reports a build entry point that could not be launched or
// exited with a non-zero status.
type BuildError struct {
	Script   string
	ExitCode int
	Err      error
}

func (e *BuildError) Error() string {
	if e.ExitCode > 0 {
		return fmt.Sprintf("%s exited with status %d", e.Script, e.ExitCode)
	}
	return fmt.Sprintf("cannot run %s: %s", e.Script, e.Err)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}
