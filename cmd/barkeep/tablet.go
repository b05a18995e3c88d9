package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/barkeep/internal/config"
	"github.com/verte-zerg/barkeep/internal/logging"
	"github.com/verte-zerg/barkeep/internal/notify"
	"github.com/verte-zerg/barkeep/internal/preset"
	"github.com/verte-zerg/barkeep/internal/tablet"
)

var (
	tabletPresetsDir string
	tabletOTDBin     string
	tabletWaybar     bool
	tabletNotify     bool
)

func newTabletCmd() *cobra.Command {
	tabletCmd := &cobra.Command{
		Use:   "tablet",
		Short: "OpenTabletDriver preset switcher",
		Args:  cobra.NoArgs,
		RunE:  runTabletStatusCmd,
	}

	tabletCmd.PersistentFlags().StringVar(&tabletPresetsDir, "presets-dir", "", "presets directory (default: OpenTabletDriver config)")
	tabletCmd.PersistentFlags().StringVar(&tabletOTDBin, "otd-bin", "otd", "otd binary name or path")
	tabletCmd.PersistentFlags().BoolVar(&tabletNotify, "notify", false, "send a desktop notification on preset change")
	tabletCmd.Flags().BoolVar(&tabletWaybar, "waybar", false, "output JSON for waybar")

	tabletCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List available presets",
		Args:  cobra.NoArgs,
		RunE:  runTabletListCmd,
	})
	tabletCmd.AddCommand(&cobra.Command{
		Use:   "next",
		Short: "Switch to the next preset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTabletCycleCmd(cmd, 1)
		},
	})
	tabletCmd.AddCommand(&cobra.Command{
		Use:     "prev",
		Aliases: []string{"previous"},
		Short:   "Switch to the previous preset",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTabletCycleCmd(cmd, -1)
		},
	})
	tabletCmd.AddCommand(&cobra.Command{
		Use:   "apply <preset>",
		Short: "Apply a preset by name",
		Args:  cobra.ExactArgs(1),
		RunE:  runTabletApplyCmd,
	})

	return tabletCmd
}

// tabletEnv bundles the pieces every tablet subcommand needs.
type tabletEnv struct {
	driver  *tablet.Driver
	library *preset.Library
	matcher *preset.Matcher
	log     *logging.Logger
}

func newTabletEnv(cmd *cobra.Command) (*tabletEnv, error) {
	log := newLogger()

	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "presets-dir", &tabletPresetsDir, fileCfg.Tablet.PresetsDir)
	applyStringConfig(cmd, "otd-bin", &tabletOTDBin, fileCfg.Tablet.OTDBin)
	applyBoolConfig(cmd, "notify", &tabletNotify, fileCfg.Tablet.Notify)

	if !cmd.Flags().Changed("otd-bin") {
		if v := config.EnvOverride(config.EnvOTDBin); v != "" {
			tabletOTDBin = v
		}
	}
	if tabletPresetsDir == "" {
		tabletPresetsDir = config.DefaultPresetsDir()
	}

	lib := preset.NewLibrary(tabletPresetsDir)
	return &tabletEnv{
		driver:  tablet.NewDriver(tabletOTDBin, log),
		library: lib,
		matcher: preset.NewMatcher(lib),
		log:     log,
	}, nil
}

func runTabletStatusCmd(cmd *cobra.Command, _ []string) error {
	env, err := newTabletEnv(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	names := env.library.Names()
	if tabletWaybar && len(names) == 0 {
		_, werr := fmt.Fprintln(out, tablet.NoPresetsOutput().Line())
		return werr
	}

	settings, err := env.driver.Settings(ctx)
	if err != nil {
		if tabletWaybar {
			if _, werr := fmt.Fprintln(out, tablet.ErrorOutput(err).Line()); werr != nil {
				return werr
			}
		}
		return fmt.Errorf("failed to get tablet settings: %w", err)
	}

	current := env.matcher.Match(settings, names)
	if tabletWaybar {
		_, werr := fmt.Fprintln(out, tablet.StatusOutput(settings, names, current).Line())
		return werr
	}

	if _, err := fmt.Fprintf(out, "Tablet: %s\n", settings.TabletName); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(out, "Current Preset: %s\n", current); err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "Output Mode: %s\n", settings.OutputMode)
	return err
}

func runTabletListCmd(cmd *cobra.Command, _ []string) error {
	env, err := newTabletEnv(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	names := env.library.Names()
	if len(names) == 0 {
		_, werr := fmt.Fprintln(out, "No presets found")
		return werr
	}
	if _, err := fmt.Fprintln(out, "Available presets:"); err != nil {
		return err
	}
	for i, name := range names {
		if _, err := fmt.Fprintf(out, "  %d. %s\n", i+1, name); err != nil {
			return err
		}
	}
	return nil
}

func runTabletCycleCmd(cmd *cobra.Command, delta int) error {
	env, err := newTabletEnv(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	names := env.library.Names()
	if len(names) == 0 {
		return fmt.Errorf("no presets found in %s", tabletPresetsDir)
	}

	settings, err := env.driver.Settings(ctx)
	if err != nil {
		return fmt.Errorf("failed to get tablet settings: %w", err)
	}

	current := env.matcher.Match(settings, names)
	idx := indexOf(names, current)
	next := names[((idx+delta)%len(names)+len(names))%len(names)]

	return applyAndReport(ctx, cmd, env, next)
}

func runTabletApplyCmd(cmd *cobra.Command, args []string) error {
	env, err := newTabletEnv(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	name := args[0]
	if !contains(env.library.Names(), name) {
		return fmt.Errorf("unknown preset %q (run: barkeep tablet list)", name)
	}
	return applyAndReport(ctx, cmd, env, name)
}

func applyAndReport(ctx context.Context, cmd *cobra.Command, env *tabletEnv, name string) error {
	if err := env.driver.ApplyPreset(ctx, name); err != nil {
		if tabletNotify {
			if nerr := notify.PresetFailed(name, err); nerr != nil {
				env.log.Warn("notification failed", logging.F("error", nerr))
			}
		}
		return fmt.Errorf("failed to apply preset %q: %w", name, err)
	}
	if tabletNotify {
		if nerr := notify.PresetApplied(name); nerr != nil {
			env.log.Warn("notification failed", logging.F("error", nerr))
		}
	}
	_, err := fmt.Fprintf(cmd.OutOrStdout(), "Switched to preset: %s\n", name)
	return err
}

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return 0
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}
