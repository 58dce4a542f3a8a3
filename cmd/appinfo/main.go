package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shirou/gopsutil/v3/host"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/breeze-rmm/appinfo/internal/config"
	"github.com/breeze-rmm/appinfo/internal/iconutil"
	"github.com/breeze-rmm/appinfo/pkg/appinfo"
	"github.com/breeze-rmm/appinfo/pkg/models"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "appinfo",
	Short: "Query installed applications and their icons",
	Long:  `appinfo - List installed applications and extract icon bitmaps for applications and files.`,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and host information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("appinfo %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", buildDate)
		if info, err := host.Info(); err == nil {
			fmt.Printf("Host: %s %s (%s)\n", info.Platform, info.PlatformVersion, info.KernelArch)
		}
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all installed applications",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, client, err := setup(cmd)
		if err != nil {
			return err
		}
		size := iconSize(cmd, cfg)

		apps, err := client.ListApplications(size)
		if err != nil {
			return err
		}

		if asJSON(cmd, cfg) {
			return json.NewEncoder(os.Stdout).Encode(apps)
		}
		for _, app := range apps {
			printApp(app)
		}
		fmt.Printf("%d applications\n", len(apps))
		return nil
	},
}

var findCmd = &cobra.Command{
	Use:   "find [name]",
	Short: "Find an installed application by exact name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, client, err := setup(cmd)
		if err != nil {
			return err
		}

		app, err := client.FindAppByName(args[0], iconSize(cmd, cfg))
		if err != nil {
			return err
		}

		if asJSON(cmd, cfg) {
			return json.NewEncoder(os.Stdout).Encode(app)
		}
		printApp(app)
		return nil
	},
}

var iconCmd = &cobra.Command{
	Use:   "icon [path]",
	Short: "Extract the icon for a file and write it as PNG",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, client, err := setup(cmd)
		if err != nil {
			return err
		}

		icon, err := client.GetFileIcon(args[0], iconSize(cmd, cfg))
		if err != nil {
			return err
		}

		out, _ := cmd.Flags().GetString("out")
		if out == "" {
			out = sanitizeFilename(filepath.Base(args[0])) + ".png"
		}
		if err := writePNG(out, icon); err != nil {
			return err
		}
		fmt.Printf("Wrote %s (%dx%d)\n", out, icon.Width, icon.Height)
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export [dir]",
	Short: "Export every application icon as a PNG file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, client, err := setup(cmd)
		if err != nil {
			return err
		}

		dir := cfg.OutputDir
		if len(args) == 1 {
			dir = args[0]
		}
		size := iconSize(cmd, cfg)
		if size == 0 {
			size = config.DefaultConfig().IconSize
		}

		apps, err := client.ListApplications(size)
		if err != nil {
			return err
		}

		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output dir: %w", err)
		}

		saved := 0
		for _, app := range apps {
			if app.Icon == nil {
				continue
			}
			name := filepath.Join(dir, sanitizeFilename(app.Name)+".png")
			if err := writePNG(name, app.Icon); err != nil {
				fmt.Fprintf(os.Stderr, "error saving icon for %s: %v\n", app.Name, err)
				continue
			}
			saved++
		}
		fmt.Printf("Saved %d of %d application icons to %s\n", saved, len(apps), dir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(findCmd)
	rootCmd.AddCommand(iconCmd)
	rootCmd.AddCommand(exportCmd)

	rootCmd.PersistentFlags().Uint32P("icon-size", "s", 0, "Requested icon size in pixels (0 uses the config default for icon/export, skips icons for list/find)")
	rootCmd.PersistentFlags().Bool("json", false, "Output JSON")

	iconCmd.Flags().StringP("out", "o", "", "Output PNG path")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads configuration and builds a client with a matching logger.
func setup(cmd *cobra.Command) (*config.Config, *appinfo.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	var logger *zap.Logger
	if strings.EqualFold(cfg.LogLevel, "debug") {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, nil, err
	}

	return cfg, appinfo.New(appinfo.WithLogger(logger)), nil
}

// iconSize resolves the effective icon size: the flag wins, then the
// config default for commands that require icons.
func iconSize(cmd *cobra.Command, cfg *config.Config) uint32 {
	if size, err := cmd.Flags().GetUint32("icon-size"); err == nil && cmd.Flags().Changed("icon-size") {
		return size
	}
	switch cmd.Name() {
	case "icon", "export":
		return cfg.IconSize
	}
	return 0
}

func asJSON(cmd *cobra.Command, cfg *config.Config) bool {
	if flag, err := cmd.Flags().GetBool("json"); err == nil && cmd.Flags().Changed("json") {
		return flag
	}
	return cfg.JSON
}

func printApp(app models.AppInfo) {
	line := app.Name
	if app.Version != "" {
		line += " " + app.Version
	}
	fmt.Println(line)
	fmt.Printf("  path: %s\n", app.Path)
	if app.Identifier != "" {
		fmt.Printf("  id: %s\n", app.Identifier)
	}
	if app.Publisher != "" {
		fmt.Printf("  publisher: %s\n", app.Publisher)
	}
	if app.Icon != nil {
		fmt.Printf("  icon: %dx%d\n", app.Icon.Width, app.Icon.Height)
	}
}

func writePNG(path string, icon *models.Icon) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return iconutil.EncodePNG(f, icon)
}

// sanitizeFilename replaces characters that are invalid in file names.
func sanitizeFilename(name string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, name))
}
