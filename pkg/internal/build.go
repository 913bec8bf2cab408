package internal

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/AidanDelaney/zipbuild/pkg/internal/util"
)

const (
	NodeBuild  string = "build.js"
	ShellBuild string = "build.sh"
)

// Builder runs the build entry point of a staged archive.  The child shares
// the configured stdio; nothing is captured.
type Builder struct {
	Interpreters Interpreters
	Stdin        io.Reader
	Stdout       io.Writer
	Stderr       io.Writer
	logger       zerolog.Logger
}

func NewBuilder(interpreters Interpreters, stdin io.Reader, stdout io.Writer, stderr io.Writer) *Builder {
	return &Builder{
		Interpreters: interpreters,
		Stdin:        stdin,
		Stdout:       stdout,
		Stderr:       stderr,
		logger:       util.GetLogger("build"),
	}
}

// EntryPoint returns the script to run in dir and the interpreter for it.
// A Node entry point wins over a shell one.
func (b *Builder) EntryPoint(dir string) (string, string, error) {
	candidates := []struct {
		script      string
		interpreter string
	}{
		{NodeBuild, b.Interpreters.Node},
		{ShellBuild, b.Interpreters.Shell},
	}
	for _, c := range candidates {
		if info, err := os.Stat(filepath.Join(dir, c.script)); err == nil && !info.IsDir() {
			return c.script, c.interpreter, nil
		}
	}
	return "", "", ErrNoBuildScript
}

// Run executes the entry point with dir as working directory.  Success is a
// zero exit status.
func (b *Builder) Run(ctx context.Context, dir string) error {
	script, interpreter, err := b.EntryPoint(dir)
	if err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, interpreter, script)
	cmd.Dir = dir
	cmd.Stdin = b.Stdin
	cmd.Stdout = b.Stdout
	cmd.Stderr = b.Stderr

	util.LogCommand(b.logger, dir, cmd.Args)
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() > 0 {
			return &BuildError{Script: script, ExitCode: exitErr.ExitCode(), Err: err}
		}
		return &BuildError{Script: script, Err: err}
	}

	b.logger.Info().Str("script", script).Msg("Build script finished")
	return nil
}
