package main

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"wikiref/internal/project"
	"wikiref/internal/wiki"
)

var errNotFound = errors.New("page not found")

func newResolveCmd(a *app) *cobra.Command {
	var projectIdentifier string

	cmd := &cobra.Command{
		Use:   "resolve <reference>",
		Short: "Resolve a page reference",
		Long: `Resolves "42" (within --project) or "project:42" to a page.
Pages without content are reported as not found.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var opts []wiki.GlobalOption
			if projectIdentifier != "" {
				p, err := project.NewRepository(a.db).FindByIdentifier(ctx, projectIdentifier)
				if err != nil && !errors.Is(err, sql.ErrNoRows) {
					return err
				}
				if p != nil {
					opts = append(opts, wiki.InProject(p))
				}
			}

			lookup, err := a.resolver().FindPageGlobal(ctx, args[0], opts...)
			if err != nil {
				return err
			}
			if !lookup.Found() {
				return fmt.Errorf("%q: %w", args[0], errNotFound)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", lookup.Page.ID, lookup.Page.Title)
			return nil
		},
	}

	cmd.Flags().StringVarP(&projectIdentifier, "project", "p", "", "project for unqualified references")
	return cmd
}
