package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"dumarte_backend/internal/gallery"

	"github.com/spf13/cobra"
)

// projects: inspect the gallery exactly as the API serves it.
func projectsCmd() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List gallery projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			module, err := gallery.NewModule(cfg, nil, nil, log)
			if err != nil {
				return err
			}
			defer func() { _ = module.Close() }()

			list, err := module.Service().List(cmd.Context(), category)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tCATEGORY\tIMAGES\tTITLE")
			for _, p := range list.Items {
				fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", p.ID, p.Category, len(p.Images), p.Title)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d projects (%s)\n", list.Total, strings.ToLower(list.Category))
			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "category filter (todos for all)")
	return cmd
}
