package main

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/trezcool/shule/core/resource"
)

// newResourceCmd builds the page-equivalent command group for one resource
// type: list/add/edit/del/sync, all bound to the same controller contract the
// web dashboards use.
func newResourceCmd(schema resource.Schema) *cobra.Command {
	name := strings.TrimPrefix(schema.Endpoint, "/api/")

	cmd := &cobra.Command{
		Use:   name,
		Short: "Manage " + name,
	}
	cmd.AddCommand(
		newListCmd(schema),
		newAddCmd(schema),
		newEditCmd(schema),
		newDelCmd(schema),
		newSyncCmd(schema),
	)
	return cmd
}

func newListCmd(schema resource.Schema) *cobra.Command {
	var (
		search  string
		filters []string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List " + schema.Name + "s",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctrl, err := newController(schema)
			if err != nil {
				return err
			}

			criteria := resource.Criteria{Search: search}
			for _, f := range filters {
				field, value, err := splitPair(f)
				if err != nil {
					return err
				}
				criteria = criteria.WithFilter(field, value)
			}
			ctrl.SetCriteria(criteria)

			if err := ctrl.Load(cmd.Context()); err != nil {
				return err
			}
			renderTable(cmd.OutOrStdout(), schema, ctrl.VisibleItems())
			return nil
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "case-insensitive text search")
	cmd.Flags().StringArrayVar(&filters, "filter", nil, "field=value filter; value 'all' clears it")
	return cmd
}

func newAddCmd(schema resource.Schema) *cobra.Command {
	var sets []string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a " + schema.Name,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctrl, err := newController(schema)
			if err != nil {
				return err
			}

			draft := resource.NewDraft(schema)
			if err := applySets(draft, sets); err != nil {
				return err
			}
			return ctrl.Create(cmd.Context(), draft)
		},
	}
	cmd.Flags().StringArrayVar(&sets, "set", nil, "field=value, repeatable")
	return cmd
}

func newEditCmd(schema resource.Schema) *cobra.Command {
	var sets []string
	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Update a " + schema.Name,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := newController(schema)
			if err != nil {
				return err
			}
			if err := ctrl.Load(cmd.Context()); err != nil {
				return err
			}

			id := args[0]
			var current *resource.Resource
			for _, item := range ctrl.Items() {
				if item.ID == id {
					current = &item
					break
				}
			}
			if current == nil {
				return errors.Errorf("%s %q not found", schema.Name, id)
			}

			draft := resource.EditDraft(schema, *current)
			if err := applySets(draft, sets); err != nil {
				return err
			}
			return ctrl.Update(cmd.Context(), id, draft)
		},
	}
	cmd.Flags().StringArrayVar(&sets, "set", nil, "field=value, repeatable")
	return cmd
}

func newDelCmd(schema resource.Schema) *cobra.Command {
	return &cobra.Command{
		Use:   "del ID",
		Short: "Delete a " + schema.Name,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := newController(schema)
			if err != nil {
				return err
			}
			return ctrl.Remove(cmd.Context(), args[0])
		},
	}
}

func newSyncCmd(schema resource.Schema) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Refetch " + schema.Name + "s from the backend",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctrl, err := newController(schema)
			if err != nil {
				return err
			}
			if err := ctrl.Load(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "up to date: %d %s(s)\n", len(ctrl.Items()), schema.Name)
			return nil
		},
	}
}

func applySets(draft *resource.Draft, sets []string) error {
	for _, s := range sets {
		field, value, err := splitPair(s)
		if err != nil {
			return err
		}
		draft.SetField(field, value)
	}
	return nil
}

func splitPair(s string) (string, string, error) {
	parts := strings.SplitN(s, "=", 2)
	if len(parts) != 2 || parts[0] == "" {
		return "", "", errors.Errorf("expected field=value, got %q", s)
	}
	return parts[0], parts[1], nil
}
