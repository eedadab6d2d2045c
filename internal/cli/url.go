package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

type urlOptions struct {
	clientFlags
	query []string
}

func newURLCmd(opts *globalOptions) *cobra.Command {
	o := &urlOptions{}

	cmd := &cobra.Command{
		Use:   "url [flags] TOKEN...",
		Short: "Print the URL a chain of tokens resolves to without sending it",
		Example: `  mgun url --url https://httpbin.org users 23 get_ posts
  mgun url --url https://httpbin.org anything get -q q=12`,
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := parsePairs("query", o.query)
			if err != nil {
				return err
			}
			client, err := o.client(opts)
			if err != nil {
				return err
			}
			builder, method, err := resolveChain(client, args)
			if err != nil {
				return err
			}

			rendered := renderURL(builder, params)
			if method != "" {
				rendered = method.String() + " " + rendered
			}
			fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return nil
		},
	}

	o.clientFlags.register(cmd)
	cmd.Flags().StringArrayVarP(&o.query, "query", "q", nil, "Query parameter key=value (can be used multiple times)")
	return cmd
}
