package cli

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/mgun/config"
)

func newClientsCmd(opts *globalOptions) *cobra.Command {
	var configPath string
	var showHeaders bool

	cmd := &cobra.Command{
		Use:   "clients --config FILE",
		Short: "List the clients defined in a configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				return fmt.Errorf("--config is required")
			}
			group, err := config.LoadGroup(configPath, os.Environ())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tBASE URL")
			for _, name := range group.Names() {
				client, err := group.Get(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s\t%s\n", name, client.String())
				if showHeaders {
					headers := client.Headers()
					keys := make([]string, 0, len(headers))
					for k := range headers {
						keys = append(keys, k)
					}
					sort.Strings(keys)
					for _, k := range keys {
						fmt.Fprintf(w, "\t  %s: %s\n", k, headers[k])
					}
				}
			}
			opts.logger.Debug().Int("clients", group.Len()).Str("config", configPath).Msg("listed clients")
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Client configuration file (JSON or YAML)")
	cmd.Flags().BoolVar(&showHeaders, "headers", false, "Also print each client's default headers")
	return cmd
}
