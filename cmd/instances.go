// Package cmd implements the command-line interface for fedigrab.
package cmd

import (
	"encoding/json"
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/fedigrab-cli/fedigrab/color"
	"github.com/fedigrab-cli/fedigrab/instance"
	"github.com/fedigrab-cli/fedigrab/style"
)

func init() {
	rootCmd.AddCommand(instancesCmd)

	instancesCmd.Flags().StringP("filter", "f", "", "Fuzzy-filter the list by host name")
	instancesCmd.Flags().BoolP("json", "j", false, "Format the output as a JSON string")
}

// instancesCmd lists the instances the tool currently trusts.
var instancesCmd = &cobra.Command{
	Use:   "instances",
	Short: "List known fediverse instances and their detected software",
	Long: `List known fediverse instances and their detected software.

Covers the built-in allow-list, hosts added via instances.extra, and
hosts detected earlier in this process.`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			filter = lo.Must(cmd.Flags().GetString("filter"))
			asJson = lo.Must(cmd.Flags().GetBool("json"))
			known  = instance.Known()
		)

		hosts := lo.Keys(known)
		if filter != "" {
			hosts = fuzzy.FindFold(filter, hosts)
		}
		sort.Strings(hosts)

		if asJson {
			listed := make(map[string]string, len(hosts))
			for _, host := range hosts {
				listed[host] = string(known[host])
			}
			encoder := json.NewEncoder(cmd.OutOrStdout())
			lo.Must0(encoder.Encode(listed))
			return
		}

		for _, host := range hosts {
			cmd.Printf(
				"%s %s\n",
				style.Fg(color.Purple)(host),
				style.Faint(string(known[host])),
			)
		}
	},
}
