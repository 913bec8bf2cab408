// Zipbuild builds projects shipped as zip archives.  An archive is chosen from
// a configured directory, its placeholders are resolved with the user's help
// and substituted into every file, and its build script is run in a
// throwaway workspace.
package zipbuild

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/rs/zerolog"

	"github.com/AidanDelaney/zipbuild/pkg/internal"
	"github.com/AidanDelaney/zipbuild/pkg/internal/util"
)

type (
	Prompter           = internal.Prompter
	Reporter           = util.Reporter
	Interpreters       = internal.Interpreters
	ArchiveError       = internal.ArchiveError
	ConfigurationError = internal.ConfigurationError
	ManifestParseError = internal.ManifestParseError
	BuildError         = internal.BuildError
)

var (
	ErrNoArchives    = internal.ErrNoArchives
	ErrNoBuildScript = internal.ErrNoBuildScript
	ErrInterrupted   = internal.ErrInterrupted
)

// ZipBuild holds everything a run needs.  Directory, when set, replaces the
// stored archive directory.  Overrides answer manifest entries without
// prompting and win over an archive's override file.
type ZipBuild struct {
	Directory    string
	ConfigPath   string
	Workspace    string
	ExportFolder string
	Overrides    map[string]string
	Interpreters Interpreters
	Prompter     Prompter
	Reporter     Reporter
	Stdin        io.Reader
	Stdout       io.Writer
	Stderr       io.Writer
	logger       zerolog.Logger
}

type Option func(*ZipBuild)

// SetupLogging sends logs to stderr and to the log file under the XDG state
// directory.
func SetupLogging(verbosity int) {
	util.SetupLogger(verbosity, util.DefaultLogFile(internal.AppName))
}

func WithDirectory(dir string) Option {
	return func(z *ZipBuild) {
		z.Directory = dir
	}
}

func WithConfigPath(path string) Option {
	return func(z *ZipBuild) {
		z.ConfigPath = path
	}
}

func WithWorkspace(dir string) Option {
	return func(z *ZipBuild) {
		z.Workspace = dir
	}
}

func WithExportFolder(folder string) Option {
	return func(z *ZipBuild) {
		z.ExportFolder = folder
	}
}

func WithOverrides(overrides map[string]string) Option {
	return func(z *ZipBuild) {
		z.Overrides = overrides
	}
}

func WithInterpreters(interpreters Interpreters) Option {
	return func(z *ZipBuild) {
		z.Interpreters = interpreters
	}
}

func WithPrompter(prompter Prompter) Option {
	return func(z *ZipBuild) {
		z.Prompter = prompter
	}
}

func WithReporter(reporter Reporter) Option {
	return func(z *ZipBuild) {
		z.Reporter = reporter
	}
}

// WithStdio sets the streams handed to the build script.  Unless a Prompter
// is given, questions are asked on stdin and stdout as well.
func WithStdio(stdin io.Reader, stdout io.Writer, stderr io.Writer) Option {
	return func(z *ZipBuild) {
		z.Stdin = stdin
		z.Stdout = stdout
		z.Stderr = stderr
	}
}

// Create a new ZipBuild with the given options.
func NewZipBuild(opts ...Option) ZipBuild {
	z := ZipBuild{
		ConfigPath:   internal.DefaultConfigPath(),
		Workspace:    internal.DefaultWorkspace(),
		Overrides:    map[string]string{},
		Interpreters: internal.DefaultInterpreters(),
		Stdin:        os.Stdin,
		Stdout:       os.Stdout,
		Stderr:       os.Stderr,
	}

	for _, opt := range opts {
		opt(&z)
	}

	if z.Prompter == nil {
		z.Prompter = defaultPrompter(z.Stdin, z.Stdout)
	}
	if z.Reporter == nil {
		z.Reporter = util.NewConsoleReporter(z.Stdout)
	}
	z.logger = util.GetLogger("zipbuild")

	return z
}

// defaultPrompter asks on the same streams the build script uses.  Only real
// files can be a terminal; anything else gets the numbered menu.
func defaultPrompter(stdin io.Reader, stdout io.Writer) Prompter {
	in, inFile := stdin.(*os.File)
	out, outFile := stdout.(*os.File)
	if inFile && outFile {
		return internal.NewPrompter(in, out)
	}
	return internal.NewLinePrompter(stdin, stdout)
}

// Run takes the user from archive selection to a finished build and reports
// the outcome.  Running out of archives and interrupting are not errors.
func (z ZipBuild) Run(ctx context.Context) error {
	err := z.run(ctx)
	switch {
	case err == nil:
		z.Reporter.Report(util.Success, "Build process finished successfully!")
		return nil
	case errors.Is(err, ErrNoArchives):
		z.Reporter.Report(util.Warning, "No .zip archives found in the specified directory.")
		return nil
	case errors.Is(err, ErrInterrupted), errors.Is(err, context.Canceled), ctx.Err() != nil:
		z.Reporter.Report(util.Warning, "Goodbye!")
		return nil
	}

	z.Reporter.Report(util.Error, "Build process encountered an error!")
	z.Reporter.Report(util.Error, err.Error())
	return err
}

func (z ZipBuild) run(ctx context.Context) error {
	dir, err := z.directory(ctx)
	if err != nil {
		return err
	}

	archives, err := internal.ListArchives(dir)
	if err != nil {
		return fmt.Errorf("cannot list archives in %s: %w", dir, err)
	}
	if len(archives) == 0 {
		return ErrNoArchives
	}

	archive, err := z.chooseArchive(ctx, dir, archives)
	if err != nil {
		return err
	}
	return z.Build(ctx, filepath.Join(dir, archive))
}

// directory returns the archive directory, asking for it on first use.
func (z ZipBuild) directory(ctx context.Context) (string, error) {
	store := internal.NewConfigStore(z.ConfigPath)
	if z.Directory != "" {
		return z.Directory, store.Save(z.Directory)
	}

	dir, found, err := store.Load()
	if err != nil {
		return "", err
	}
	if found && dir != "" {
		return dir, nil
	}

	dir, err = z.Prompter.Input(ctx, "Specify the directory where .zip archives are saved")
	if err != nil {
		return "", err
	}
	return dir, store.Save(dir)
}

// chooseArchive asks for an archive until the user confirms one.
func (z ZipBuild) chooseArchive(ctx context.Context, dir string, archives []string) (string, error) {
	for {
		choice, err := z.Prompter.Select(ctx, "Select a .zip archive:", archives)
		if err != nil {
			return "", err
		}
		if choice < 0 || choice >= len(archives) {
			return "", fmt.Errorf("can not process the chosen archive: %d", choice)
		}
		archive := archives[choice]

		description, err := internal.Describe(filepath.Join(dir, archive))
		if err != nil {
			return "", err
		}
		if description != "" {
			z.Reporter.Report(util.Plain, "\nDescription:\n")
			z.Reporter.Report(util.Plain, description)
			z.Reporter.Report(util.Plain, strings.Repeat("-", 50))
		}

		confirmed, err := z.Prompter.Confirm(ctx, fmt.Sprintf("Build %s?", archive), true)
		if err != nil {
			return "", err
		}
		if confirmed {
			return archive, nil
		}
	}
}

// Build stages archive, resolves and injects its placeholders and runs its
// build script.  The workspace is removed whatever the outcome.
func (z ZipBuild) Build(ctx context.Context, archive string) error {
	fileOverrides, err := internal.ReadOverrides(internal.OverridesPath(filepath.Dir(archive), filepath.Base(archive)))
	if err != nil {
		return err
	}
	overrides := internal.MergeOverrides(fileOverrides, z.Overrides)

	z.logger.Info().
		Str("archive", archive).
		Str("workspace", z.Workspace).
		Msg("Staging archive")

	return internal.WithWorkspace(ctx, archive, z.Workspace, func(workspace string) error {
		manifest, err := internal.ReadManifest(filepath.Join(workspace, internal.ManifestFile))
		if err != nil {
			return err
		}

		external := internal.DetectResolver(workspace, z.Interpreters)
		resolver := internal.NewResolver(z.Prompter, external, overrides, z.Reporter)
		env, err := resolver.Resolve(ctx, manifest)
		if err != nil {
			return err
		}

		rewritten, err := internal.Inject(osfs.New(workspace), env)
		if err != nil {
			return err
		}
		z.logger.Debug().Int("files", len(rewritten)).Msg("Placeholders injected")

		if z.ExportFolder != "" {
			if err := internal.Export(workspace, z.ExportFolder); err != nil {
				return err
			}
			z.Reporter.Report(util.Info, fmt.Sprintf("Exported project to %s", z.ExportFolder))
		}

		return internal.NewBuilder(z.Interpreters, z.Stdin, z.Stdout, z.Stderr).Run(ctx, workspace)
	})
}
