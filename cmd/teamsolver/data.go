package main

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/teamsolver/policy"
)

func newTraitsCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "traits",
		Short: "List the trait catalogue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.openStore()
			if err != nil {
				return err
			}
			cat := st.Dataset().Catalogue()
			out := cmd.OutOrStdout()
			if asJSON {
				return json.NewEncoder(out).Encode(cat)
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TRAIT\tTYPE\tTHRESHOLDS")
			for _, name := range cat.Names() {
				t := cat[name]
				fmt.Fprintf(tw, "%s\t%s\t%s\n", name, t.Kind, joinInts(t.Thresholds))
			}

			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")

	return cmd
}

func newChampionsCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "champions",
		Short: "List the roster",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.openStore()
			if err != nil {
				return err
			}
			chars := st.Dataset().Characters()
			out := cmd.OutOrStdout()
			if asJSON {
				return json.NewEncoder(out).Encode(chars)
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tCOST\tROLES\tTRAITS")
			for _, c := range chars {
				fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", c.Name, c.Cost, strings.Join(c.Roles, ","), strings.Join(c.Traits, ", "))
			}

			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")

	return cmd
}

func newVariantsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "variants",
		Short: "List the scoring variants",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := a.cfg.Registry()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "VARIANT\tALIASES\tORIGIN\tCLASS\tRULES")
			for _, name := range reg.Names() {
				p, err := reg.Lookup(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(tw, "%s\t%s\t%g\t%g\t%s\n",
					name, strings.Join(reg.Aliases(name), ","), p.OriginWeight, p.ClassWeight, describeRules(p.Rules))
			}

			return tw.Flush()
		},
	}
}

func joinInts(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = strconv.Itoa(x)
	}

	return strings.Join(parts, "/")
}

// describeRules renders a rule table as "Darkin=ignored, Targon=fixed:1".
func describeRules(rules map[string]policy.Rule) string {
	names := slices.Sorted(maps.Keys(rules))
	parts := make([]string, len(names))
	for i, n := range names {
		r := rules[n]
		parts[i] = n + "=" + r.Kind.String()
		if r.Kind == policy.FixedNeed {
			parts[i] += ":" + strconv.Itoa(r.Need)
		}
	}
	if len(parts) == 0 {
		return "-"
	}

	return strings.Join(parts, ", ")
}
