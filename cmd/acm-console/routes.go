// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/kuklas/acm-user-interface-sub002/internal/navigation"
	"github.com/kuklas/acm-user-interface-sub002/internal/perspective"
)

var routesJSON bool

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "List every route and the page it renders",
	Long: `List every route of every navigation tree.

Routes without a label are reachable but not shown in the menu, e.g. the
role assignment wizard or the cluster details page.
`,
	Args: cobra.NoArgs,
	RunE: runRoutes,
}

func init() {
	rootCmd.AddCommand(routesCmd)
	routesCmd.Flags().BoolVar(&routesJSON, "json", false, "Output in JSON format")
}

// routeRow is one route with the tree and group it belongs to.
type routeRow struct {
	Tree     string          `json:"tree"`
	Group    string          `json:"group,omitempty"`
	Disabled bool            `json:"disabled,omitempty"`
	Label    string          `json:"label,omitempty"`
	Path     string          `json:"path"`
	Page     navigation.Page `json:"page"`
}

// treeTitle turns "fleet-virtualization" into "Fleet Virtualization".
func treeTitle(p perspective.Perspective) string {
	return cases.Title(language.English).String(strings.ReplaceAll(p.String(), "-", " "))
}

func allRoutes(resolver *navigation.Resolver) []routeRow {
	trees := resolver.Trees()
	var rows []routeRow
	for _, p := range perspective.All() {
		for _, g := range trees[p] {
			for _, r := range g.Routes {
				rows = append(rows, routeRow{
					Tree:     treeTitle(p),
					Group:    g.Label,
					Disabled: g.Disabled,
					Label:    r.Label,
					Path:     r.Path,
					Page:     r.Page,
				})
			}
		}
	}
	return rows
}

func runRoutes(cmd *cobra.Command, args []string) error {
	rows := allRoutes(navigation.NewResolver())

	if routesJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}
	printRoutes(cmd.OutOrStdout(), rows)
	return nil
}

func printRoutes(out io.Writer, rows []routeRow) {
	tree := ""
	var w *tabwriter.Writer
	for _, r := range rows {
		if r.Tree != tree {
			if w != nil {
				w.Flush()
				fmt.Fprintln(out)
			}
			tree = r.Tree
			fmt.Fprintln(out, strings.ToUpper(tree))
			fmt.Fprintln(out, strings.Repeat("─", len(tree)))
			w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		}
		group, label := r.Group, r.Label
		if group == "" {
			group = "-"
		}
		if r.Disabled {
			group += " (disabled)"
		}
		if label == "" {
			label = "(hidden)"
		}
		fmt.Fprintf(w, "  %s\t%s\t%s\t%s\n", group, label, r.Path, r.Page)
	}
	if w != nil {
		w.Flush()
	}
}
