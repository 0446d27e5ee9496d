package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skiff-run/skiff-cli/internal/catalog"
	"github.com/skiff-run/skiff-cli/internal/launch"
	"github.com/skiff-run/skiff-cli/internal/logging"
	"github.com/skiff-run/skiff-cli/internal/manifest"
	"github.com/skiff-run/skiff-cli/internal/messages"
	"github.com/skiff-run/skiff-cli/internal/settings"
	"github.com/skiff-run/skiff-cli/internal/version"
)

func newRuntimeCmd(verbose *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   messages.RuntimeUse,
		Short: messages.RuntimeShort,
	}
	cmd.AddCommand(
		newRuntimeListCmd(verbose),
		newRuntimeListInstalledCmd(verbose),
		newRuntimeInstallCmd(verbose),
		newRuntimeSetDefaultCmd(verbose),
		newRuntimeUpdateCmd(verbose),
		newRuntimeCurrentCmd(verbose),
		newRuntimePinCmd(verbose),
		newRuntimeShowSettingsPathCmd(),
		newRuntimeUninstallAllCmd(verbose),
	)
	return cmd
}

// newLauncher builds the shared engine wiring for runtime subcommands.
func newLauncher(verbose *bool) (*launch.Launcher, error) {
	return launch.New(logging.New(verbose != nil && *verbose))
}

func newRuntimeListCmd(verbose *bool) *cobra.Command {
	var stableOnly bool

	cmd := &cobra.Command{
		Use:   messages.ListUse,
		Short: messages.ListShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := newLauncher(verbose)
			if err != nil {
				return err
			}
			filter := catalog.FullVisibility
			if stableOnly {
				filter = catalog.VersionsFilter{}
			}
			versions, err := l.Catalog.ListVersions(cmd.Context(), "", filter)
			if err != nil {
				return err
			}
			for _, rv := range versions {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), rv.Version)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&stableOnly, "stable-only", false, messages.ListFlagStableOnly)
	return cmd
}

func newRuntimeListInstalledCmd(verbose *bool) *cobra.Command {
	return &cobra.Command{
		Use:   messages.ListInstalledUse,
		Short: messages.ListInstalledShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := newLauncher(verbose)
			if err != nil {
				return err
			}
			installed, err := l.Manager.ListInstalled()
			if err != nil {
				return err
			}
			for _, ir := range installed {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), ir.Version)
			}
			return nil
		},
	}
}

func newRuntimeInstallCmd(verbose *bool) *cobra.Command {
	return &cobra.Command{
		Use:   messages.InstallUse,
		Short: messages.InstallShort,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := newLauncher(verbose)
			if err != nil {
				return err
			}
			var raw string
			if len(args) == 1 {
				raw = args[0]
			} else {
				raw, err = pickVersion(cmd.Context(), l)
				if err != nil {
					return err
				}
			}
			rv, err := l.Catalog.GetVersion(cmd.Context(), raw)
			if err != nil {
				return err
			}
			if _, err := l.Provision(cmd.Context(), rv); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), messages.InstallDoneFmt, rv.Version)
			return nil
		},
	}
}

func newRuntimeSetDefaultCmd(verbose *bool) *cobra.Command {
	return &cobra.Command{
		Use:   messages.SetDefaultUse,
		Short: messages.SetDefaultShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := newLauncher(verbose)
			if err != nil {
				return err
			}
			rv, err := l.Catalog.GetVersion(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if _, err := l.Provision(cmd.Context(), rv); err != nil {
				return err
			}
			s, err := settings.Load()
			if err != nil {
				return err
			}
			// The new default is persisted only after its install succeeded.
			s.DefaultRuntime = rv.Version
			if err := settings.Save(s); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), messages.SetDefaultDoneFmt, rv.Version)
			return nil
		},
	}
}

func newRuntimeUpdateCmd(verbose *bool) *cobra.Command {
	return &cobra.Command{
		Use:   messages.UpdateUse,
		Short: messages.UpdateShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := newLauncher(verbose)
			if err != nil {
				return err
			}
			s, err := settings.Load()
			if err != nil {
				return err
			}
			// Updates follow the current default's train. With no default
			// set, the newest stable wins, falling back to nightly.
			train := version.Stable
			fallback := true
			if s.DefaultRuntime != nil {
				train = version.Classify(s.DefaultRuntime)
				fallback = train == version.Stable
			}
			latest, err := l.LatestForTrain(cmd.Context(), train, fallback)
			if err != nil {
				return err
			}
			if s.DefaultRuntime != nil && latest.Version.Equal(s.DefaultRuntime) {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), messages.UpdateAlreadyLatestFmt, latest.Version)
				return nil
			}
			if _, err := l.Provision(cmd.Context(), latest); err != nil {
				return err
			}
			s.DefaultRuntime = latest.Version
			if err := settings.Save(s); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), messages.SetDefaultDoneFmt, latest.Version)
			return nil
		},
	}
}

func newRuntimeCurrentCmd(verbose *bool) *cobra.Command {
	return &cobra.Command{
		Use:   messages.CurrentUse,
		Short: messages.CurrentShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := newLauncher(verbose)
			if err != nil {
				return err
			}
			cwd, err := getwd()
			if err != nil {
				return fmt.Errorf(messages.LaunchWorkingDirFmt, err)
			}
			rv, err := l.ResolveFor(cmd.Context(), cwd)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), rv.Version)
			return nil
		},
	}
}

func newRuntimePinCmd(verbose *bool) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   messages.PinUse,
		Short: messages.PinShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := newLauncher(verbose)
			if err != nil {
				return err
			}
			rv, err := l.Catalog.GetVersion(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			cwd, err := getwd()
			if err != nil {
				return fmt.Errorf(messages.LaunchWorkingDirFmt, err)
			}
			path := manifest.Path(cwd)
			var from, to string
			if dryRun {
				from, to, err = manifest.PreviewRuntimeVersion(path, rv.Version)
			} else {
				from, to, err = manifest.SetRuntimeVersion(path, rv.Version)
			}
			if err != nil {
				return err
			}
			if diff := manifest.Diff(path, from, to); diff != "" {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), diff)
			}
			if dryRun {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), messages.PinDryRunNotice)
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), messages.PinDoneFmt, rv.Version)
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, messages.PinFlagDryRun)
	return cmd
}

func newRuntimeShowSettingsPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   messages.ShowSettingsPathUse,
		Short: messages.ShowSettingsPathShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := settings.Path()
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

func newRuntimeUninstallAllCmd(verbose *bool) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   messages.UninstallAllUse,
		Short: messages.UninstallAllShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := newLauncher(verbose)
			if err != nil {
				return err
			}
			if !force {
				if !isTerminal() {
					return errors.New(messages.UninstallAllRequiresTerminal)
				}
				confirmed := false
				prompt := fmt.Sprintf(messages.UninstallAllPromptFmt, l.Manager.Dir())
				if err := confirmFunc(prompt, &confirmed); err != nil {
					return err
				}
				if !confirmed {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), messages.UninstallAllAborted)
					return nil
				}
			}
			if err := l.Manager.UninstallAll(); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), messages.UninstallAllDoneFmt, l.Manager.Dir())
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, messages.UninstallAllFlagForce)
	return cmd
}
