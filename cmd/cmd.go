// Package cmd - CLI Hauptmodul
// Enthaelt: NewCLI, appendEnvDocs, gemeinsame Flags
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/containerd/console"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ollama/devicemgr/device"
	"github.com/ollama/devicemgr/envconfig"
	"github.com/ollama/devicemgr/logutil"
	_ "github.com/ollama/devicemgr/ml/backend"
)

// appendEnvDocs - Fuegt Environment-Variablen zur Hilfe hinzu
func appendEnvDocs(cmd *cobra.Command, envs []envconfig.EnvVar) {
	if len(envs) == 0 {
		return
	}

	envUsage := `
Environment Variables:
`
	for _, e := range envs {
		envUsage += fmt.Sprintf("      %-26s   %s\n", e.Name, e.Description)
	}

	cmd.SetUsageTemplate(cmd.UsageTemplate() + envUsage)
}

// addDeviceFlag - Registriert --device mit DEVICEMGR_DEVICE als Default
func addDeviceFlag(cmd *cobra.Command) {
	cmd.Flags().String("device", envconfig.Device(), "Device to use, e.g. cuda:0, xpu, mps, cpu (default: most capable)")
}

// newManager - Erstellt den Device-Manager fuer das --device Flag
func newManager(cmd *cobra.Command) (*device.Manager, error) {
	preferred, err := cmd.Flags().GetString("device")
	if err != nil {
		return nil, err
	}

	return device.New(preferred, device.WithLogger(slog.Default()))
}

// NewCLI - Erstellt das Haupt-CLI mit allen Commands
func NewCLI() *cobra.Command {
	cobra.EnableCommandSorting = false

	if runtime.GOOS == "windows" && term.IsTerminal(int(os.Stdout.Fd())) {
		console.ConsoleFromFile(os.Stdin) //nolint:errcheck
	}

	rootCmd := &cobra.Command{
		Use:           "devicemgr",
		Short:         "Compute device discovery and selection",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			slog.SetDefault(logutil.NewLogger(cmd.ErrOrStderr(), envconfig.LogLevel()))
		},
	}

	devicesCmd := newDevicesCmd()
	checkCmd := newCheckCmd()
	serveCmd := newServeCmd()

	// Environment-Dokumentation hinzufuegen
	envVars := envconfig.AsMap()
	envs := []envconfig.EnvVar{
		envVars["DEVICEMGR_DEBUG"],
		envVars["DEVICEMGR_DEVICE"],
		envVars["DEVICEMGR_NUM_THREADS"],
		envVars["DEVICEMGR_INTEROP_THREADS"],
		envVars["DEVICEMGR_NO_EXTENSION"],
	}
	if e, ok := envVars["ONEAPI_ROOT"]; ok {
		envs = append(envs, e)
	}

	for _, cmd := range []*cobra.Command{devicesCmd, checkCmd, serveCmd} {
		switch cmd {
		case serveCmd:
			appendEnvDocs(cmd, append(envs, envVars["DEVICEMGR_HOST"], envVars["DEVICEMGR_ORIGINS"]))
		default:
			appendEnvDocs(cmd, envs)
		}
	}

	rootCmd.AddCommand(
		devicesCmd,
		checkCmd,
		serveCmd,
	)

	return rootCmd
}
