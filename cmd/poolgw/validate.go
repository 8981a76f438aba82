package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vyrodovalexey/poolgw/internal/router"
)

func newValidateCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration file",
		Long: `Load and validate the configuration file, then print the resulting
route table. Exits non-zero when the file cannot be loaded or is invalid.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, path, err := loadConfig(flags.configPath)
			if err != nil {
				return err
			}

			rt, err := router.New(cfg.Spec.Services, cfg.Spec.StripPrefix)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "configuration %s is valid\n", path)
			fmt.Fprintf(out, "listener: %s:%d\n\n", cfg.Spec.Listener.Bind, cfg.Spec.Listener.Port)

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SERVICE\tPREFIX\tUPSTREAM BASE\tMETHODS\tINSTANCES")
			for _, svc := range cfg.Spec.Services {
				route, _ := rt.Route(svc.Name)
				base := route.Base
				if base == "" {
					base = "/"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
					svc.Name, route.Prefix, base,
					strings.Join(svc.Methods, ","),
					strings.Join(svc.Instances, ","),
				)
			}
			return tw.Flush()
		},
	}
}
