package main

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/iaconlabs/warpcore/router"
)

func routesCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "Print the registered route table",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags.configPath)
			if err != nil {
				return err
			}
			logger, err := newLogger(io.Discard, flags.logLevel, flags.logFormat)
			if err != nil {
				return err
			}
			a, err := newApp(cfg, logger)
			if err != nil {
				return err
			}
			return printRoutes(cmd.OutOrStdout(), a.core.Routes())
		},
	}
}

func printRoutes(w io.Writer, routes []router.RouterAction) error {
	routes = slices.Clone(routes)
	slices.SortFunc(routes, func(a, b router.RouterAction) int {
		if c := strings.Compare(strings.Join(a.Route.Pattern, "/"), strings.Join(b.Route.Pattern, "/")); c != 0 {
			return c
		}
		return strings.Compare(a.Route.Method, b.Route.Method)
	})

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "METHOD\tPATTERN\tACTION")
	for _, ra := range routes {
		fmt.Fprintf(tw, "%s\t/%s\t%s\n", ra.Route.Method, strings.Join(ra.Route.Pattern, "/"), ra.Action.Key)
	}
	return tw.Flush()
}
