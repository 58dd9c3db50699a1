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
	"sigs.k8s.io/yaml"

	"github.com/kuklas/acm-user-interface-sub002/internal/clierr"
	"github.com/kuklas/acm-user-interface-sub002/internal/fleetstatus"
	"github.com/kuklas/acm-user-interface-sub002/internal/mockdata"
	"github.com/kuklas/acm-user-interface-sub002/internal/scope"
	"github.com/kuklas/acm-user-interface-sub002/internal/viewctx"
	"github.com/kuklas/acm-user-interface-sub002/pkg/queries"
	"github.com/kuklas/acm-user-interface-sub002/pkg/query"
)

var (
	listWhere string
	listJSON  bool
	listImp   impersonationFlags

	getImp impersonationFlags

	filtersJSON bool
)

var listCmd = &cobra.Command{
	Use:   "list RESOURCE",
	Short: "List mock records",
	Long: `List mock records of one resource kind.

Resources: clusters, instancetypes, vms, users, groups, roles, rolebindings

With --as, clusters, instance types and virtual machines are narrowed to the
clusters owned by the impersonated groups.

Query syntax for --where:
  field=value              Exact match (case-insensitive)
  field!=value             Not equal
  field~=pattern           Regex match
  field=val1,val2          IN list
  field=prefix*            Wildcard
  AND, OR                  Combine conditions
  @name                    Named filter (see: acm-console filters)

Examples:
  acm-console list vms
  acm-console list vms --where "status=Running AND cluster=dev-team-*"
  acm-console list instancetypes --as alice --group dev-team-alpha
  acm-console list clusters --where @unhealthy --json
`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: mockdata.ResourceNames(),
	RunE:      runList,
}

var getCmd = &cobra.Command{
	Use:   "get RESOURCE NAME",
	Short: "Show one mock record as YAML",
	Long: `Show one mock record as YAML.

With --as the record must be visible to the impersonated groups.

Examples:
  acm-console get vms centos-db
  acm-console get clusters cluster-hub --as alice --group dev-team-alpha
`,
	Args: cobra.ExactArgs(2),
	RunE: runGet,
}

var filtersCmd = &cobra.Command{
	Use:   "filters",
	Short: "List named filters",
	Long: `List the named filters usable as @name in --where and the console's / filter.

Filters come in two types:
- Built-in: Shipped with the console
- User: The filters section of the config file
`,
	Args: cobra.NoArgs,
	RunE: runFilters,
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVarP(&listWhere, "where", "w", "", "Filter records (see query syntax)")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listImp.register(listCmd)

	rootCmd.AddCommand(getCmd)
	getImp.register(getCmd)

	rootCmd.AddCommand(filtersCmd)
	filtersCmd.Flags().BoolVar(&filtersJSON, "json", false, "Output in JSON format")
}

// visibleRecords returns the records of r seen in view, narrowed by where.
func visibleRecords(s *session, r mockdata.Resource, view viewctx.Snapshot, where string) ([]mockdata.Record, error) {
	records := s.catalog.Records(r)
	if r.Scoped {
		records = scope.Apply(s.filter, view, records)
	}
	if strings.TrimSpace(where) == "" {
		return records, nil
	}
	q, err := s.queries.Compile(where)
	if err != nil {
		return nil, clierr.Validation(fmt.Errorf("--where: %w", err))
	}
	return query.Filter(q, records), nil
}

func runList(cmd *cobra.Command, args []string) error {
	if err := listImp.validate(); err != nil {
		return err
	}
	r, err := mockdata.LookupResource(args[0])
	if err != nil {
		return err
	}
	s, err := newSession()
	if err != nil {
		return err
	}

	view := s.viewAs(listImp.user, listImp.groups)
	records, err := visibleRecords(s, r, view, listWhere)
	if err != nil {
		return err
	}
	s.log.Debug().
		Str("resource", r.Name).
		Str("user", view.EffectiveUser()).
		Int("count", len(records)).
		Msg("listed records")

	out := cmd.OutOrStdout()
	if listJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if records == nil {
			records = []mockdata.Record{}
		}
		return enc.Encode(records)
	}
	if len(records) == 0 {
		fmt.Fprintln(out, clierr.NothingFound(r.Name))
		return nil
	}
	printRecords(out, r, records)
	return nil
}

func printRecords(out io.Writer, r mockdata.Resource, records []mockdata.Record) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.ToUpper(strings.Join(r.Columns, "\t")))
	for _, rec := range records {
		fmt.Fprintln(w, strings.Join(rec.Row(), "\t"))
	}
	w.Flush()

	if summary := fleetstatus.Count(records).Summary(); summary != "" {
		fmt.Fprintf(out, "\n%d %s: %s\n", len(records), r.Name, summary)
	}
}

func runGet(cmd *cobra.Command, args []string) error {
	if err := getImp.validate(); err != nil {
		return err
	}
	r, err := mockdata.LookupResource(args[0])
	if err != nil {
		return err
	}
	s, err := newSession()
	if err != nil {
		return err
	}

	rec, err := s.catalog.Get(r, args[1])
	if err != nil {
		return err
	}
	if r.Scoped {
		view := s.viewAs(getImp.user, getImp.groups)
		if err := scope.Authorize(s.filter, view, r.GroupResource(), args[1], rec); err != nil {
			return err
		}
	}

	data, err := yaml.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode %s: %w", args[1], err)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func runFilters(cmd *cobra.Command, args []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if filtersJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(s.queries.List())
	}

	printFilterSection(out, "BUILT-IN FILTERS", s.queries.ListBuiltin())
	printFilterSection(out, "YOUR FILTERS", s.queries.ListUser())

	fmt.Fprintln(out, "USAGE")
	fmt.Fprintln(out, "─────")
	fmt.Fprintln(out, "  acm-console list <resource> --where @<name>")
	fmt.Fprintln(out, "  Press / in the console and type @<name>")
	return nil
}

func printFilterSection(out io.Writer, title string, qs []queries.SavedQuery) {
	if len(qs) == 0 {
		return
	}
	fmt.Fprintln(out, title)
	fmt.Fprintln(out, strings.Repeat("─", len(title)))
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, q := range qs {
		resource := q.Resource
		if resource == "" {
			resource = "*"
		}
		fmt.Fprintf(w, "  %s\t%s\t%s\t%s\n", q.Name, resource, q.Description, q.Query)
	}
	w.Flush()
	fmt.Fprintln(out)
}
