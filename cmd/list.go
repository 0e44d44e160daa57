package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"dwin-go/core"
	"dwin-go/manager"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tracked applications",
	Long:    `List the applications tracked in the last saved manager state.`,
	Args:    cobra.NoArgs,
	RunE:    runList,
}

var (
	listQuiet  bool
	listFormat string
	listBuffer int
)

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().BoolVarP(&listQuiet, "quiet", "q", false, "display only pids")
	listCmd.Flags().StringVarP(&listFormat, "format", "f", "table", "output format (table, json)")
	listCmd.Flags().IntVarP(&listBuffer, "buffer", "b", -1, "only apps in this buffer")
}

func runList(cmd *cobra.Command, args []string) error {
	snap, err := manager.LoadSnapshot(GetStatePath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var apps []*core.App
	for i := 0; i < snap.State.Registry.Count(); i++ {
		app := snap.State.Registry.AppAt(i)
		if listBuffer >= 0 && app.BufferIndex != listBuffer {
			continue
		}
		apps = append(apps, app)
	}

	if listQuiet {
		for _, app := range apps {
			fmt.Println(app.Pid)
		}
		return nil
	}

	if listFormat == "json" {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(apps)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "PID\tBUNDLE\tBUFFER\tFLOATING\tMANAGED")
	for _, app := range apps {
		buffer := "-"
		if app.BufferIndex >= 0 {
			buffer = fmt.Sprintf("%d", app.BufferIndex)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%t\t%t\n",
			app.Pid, app.BundleID, buffer, app.IsFloating, app.IsManaged)
	}
	return w.Flush()
}
