package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	zipbuild "github.com/AidanDelaney/zipbuild/pkg"
)

const (
	dirFlag        = "dir"
	workspaceFlag  = "workspace"
	exportFlag     = "export"
	overrideFlag   = "override"
	verbosityFlag  = "verbose"
	configFileFlag = "config"
)

var (
	rootCmd = &cobra.Command{
		Use:   "zipbuild",
		Short: "Build projects shipped as zip archives",
		Long: `Zipbuild picks a zip archive from your archive directory, fills in the
placeholders listed in its .env manifest and runs its build script.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			verbosity, _ := cmd.Flags().GetCount(verbosityFlag)
			zipbuild.SetupLogging(verbosity)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := []zipbuild.Option{}
			if dir, err := cmd.Flags().GetString(dirFlag); err == nil && dir != "" {
				opts = append(opts, zipbuild.WithDirectory(dir))
			}
			if config, err := cmd.Flags().GetString(configFileFlag); err == nil && config != "" {
				opts = append(opts, zipbuild.WithConfigPath(config))
			}
			if workspace, err := cmd.Flags().GetString(workspaceFlag); err == nil && workspace != "" {
				opts = append(opts, zipbuild.WithWorkspace(workspace))
			}
			if export, err := cmd.Flags().GetString(exportFlag); err == nil && export != "" {
				opts = append(opts, zipbuild.WithExportFolder(export))
			}
			if overrides, err := cmd.Flags().GetStringToString(overrideFlag); err == nil {
				opts = append(opts, zipbuild.WithOverrides(overrides))
			}

			z := zipbuild.NewZipBuild(opts...)
			return z.Run(cmd.Context())
		},
	}
)

func init() {
	rootCmd.Flags().String(dirFlag, "", "directory holding the zip archives (saved for later runs)")
	rootCmd.Flags().String(configFileFlag, "", "file the archive directory is saved in")
	rootCmd.Flags().String(workspaceFlag, "", "scratch directory archives are extracted to")
	rootCmd.Flags().String(exportFlag, "", "copy the rendered project to this directory before building")
	rootCmd.Flags().StringToStringP(overrideFlag, "o", map[string]string{}, "provide overrides as key-value pairs")
	rootCmd.PersistentFlags().CountP(verbosityFlag, "v", "increase log verbosity")
}

// Execute executes the root command.  The first SIGINT or SIGTERM cancels
// the run so the workspace is still removed; a second one kills the process.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		stop()
	}()
	return rootCmd.ExecuteContext(ctx)
}
