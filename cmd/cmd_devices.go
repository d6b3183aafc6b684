// cmd_devices.go - Geraeteliste lokal oder von einem entfernten Server
// Hauptfunktionen: DevicesHandler, printDevices
package cmd

import (
	"fmt"
	"io"
	"net/url"
	"os"

	"github.com/mattn/go-runewidth"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ollama/devicemgr/api"
	"github.com/ollama/devicemgr/format"
	"github.com/ollama/devicemgr/server"
)

// remoteFromEnvironment ist der Wert von --remote ohne URL: der Server aus DEVICEMGR_HOST
const remoteFromEnvironment = "$DEVICEMGR_HOST"

func newDevicesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "devices",
		Aliases: []string{"ls"},
		Short:   "List usable devices in priority order",
		Args:    cobra.NoArgs,
		RunE:    DevicesHandler,
	}

	addDeviceFlag(cmd)
	cmd.Flags().Bool("plain", false, "Print one line per device instead of a table")
	cmd.Flags().String("remote", "", "Read the device list from a devicemgr server, e.g. http://gpu-box:11535")
	cmd.Flags().Lookup("remote").NoOptDefVal = remoteFromEnvironment
	return cmd
}

// DevicesHandler - Listet alle gueltigen Geraete auf
func DevicesHandler(cmd *cobra.Command, _ []string) error {
	plain, err := cmd.Flags().GetBool("plain")
	if err != nil {
		return err
	}

	remote, err := cmd.Flags().GetString("remote")
	if err != nil {
		return err
	}

	var devices api.DevicesResponse
	if remote != "" {
		client, err := remoteClient(remote)
		if err != nil {
			return err
		}

		resp, err := client.Devices(cmd.Context())
		if err != nil {
			return err
		}
		devices = *resp
	} else {
		mgr, err := newManager(cmd)
		if err != nil {
			return err
		}
		devices = server.DevicesResponse(mgr)
	}

	out := cmd.OutOrStdout()
	if plain || !isTerminal(out) {
		return printDevices(out, devices)
	}

	renderDevices(out, devices)
	return nil
}

// remoteClient - Client fuer --remote, ohne URL aus der Umgebung
func remoteClient(remote string) (*api.Client, error) {
	if remote == remoteFromEnvironment {
		return api.ClientFromEnvironment()
	}

	base, err := url.Parse(remote)
	if err != nil {
		return nil, fmt.Errorf("invalid --remote: %w", err)
	}
	return api.NewClient(base, nil), nil
}

// printDevices - Eine Zeile pro Geraet, wie ListDevices
func printDevices(w io.Writer, devices api.DevicesResponse) error {
	for id, d := range devices.Devices.All() {
		if _, err := fmt.Fprintf(w, "[%s]: %s\n", id, d.Description); err != nil {
			return err
		}
	}
	return nil
}

// maxNameWidth begrenzt die NAME-Spalte, Fehlertexte koennen lang sein
const maxNameWidth = 48

// renderDevices - Tabellenansicht fuer Terminals
func renderDevices(w io.Writer, devices api.DevicesResponse) {
	var data [][]string
	for id, d := range devices.Devices.All() {
		name, memory, compute, driver := "-", "-", "-", "-"
		switch {
		case d.Properties != nil:
			name = d.Properties.Name
			memory = format.HumanBytes2(d.Properties.TotalMemory)
			compute = d.Properties.Compute()
			if d.Properties.DriverMajor > 0 {
				driver = d.Properties.Driver()
			}
		case d.System != nil:
			name = d.System.CPUName
			memory = format.HumanBytes2(d.System.TotalMemory)
			compute = fmt.Sprintf("%d/%d threads", d.System.ThreadCount, d.System.InterOpThreads)
		case d.Error != "":
			name = d.Error
		default:
			name = d.Description
		}

		name = runewidth.Truncate(name, maxNameWidth, "...")

		active := ""
		if id == devices.Device {
			active = "*"
		}

		data = append(data, []string{id, d.Kind, name, memory, compute, driver, active})
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"DEVICE", "KIND", "NAME", "MEMORY", "COMPUTE", "DRIVER", "ACTIVE"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.AppendBulk(data)
	table.Render()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
