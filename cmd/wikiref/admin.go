package main

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"wikiref/internal/auth"
	"wikiref/internal/models"
	"wikiref/internal/project"
	"wikiref/internal/wiki"
)

func newProjectCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects",
	}

	var (
		identifier string
		public     bool
		noWiki     bool
	)
	create := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a project and enable its wiki",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			repo := project.NewRepository(a.db)

			p, err := repo.Create(ctx, args[0], identifier, public)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created project %s (id %d)\n", p.Identifier, p.ID)

			if noWiki {
				return nil
			}
			w, err := repo.EnableWiki(ctx, p, 1)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "enabled wiki %d, start page %s\n", w.ID, w.StartPage)
			return nil
		},
	}
	create.Flags().StringVar(&identifier, "identifier", "", "project identifier (derived from the name when empty)")
	create.Flags().BoolVar(&public, "public", false, "let every signed-in user view the wiki")
	create.Flags().BoolVar(&noWiki, "no-wiki", false, "do not enable the wiki")

	list := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := project.NewRepository(a.db).List(cmd.Context())
			if err != nil {
				return err
			}
			for _, p := range projects {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", p.Identifier, p.Name)
			}
			return nil
		},
	}

	cmd.AddCommand(create, list)
	return cmd
}

func newUserCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}

	var (
		displayName string
		password    string
		admin       bool
	)
	create := &cobra.Command{
		Use:   "create <login>",
		Short: "Create a user with a local password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				return errors.New("--password is required")
			}
			if displayName == "" {
				displayName = args[0]
			}
			svc := auth.NewService(auth.NewRepository(a.db), nil, a.logger)
			user, err := svc.RegisterUser(cmd.Context(), args[0], displayName, password, admin)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created user %s (id %d)\n", user.Login, user.ID)
			return nil
		},
	}
	create.Flags().StringVar(&displayName, "name", "", "display name")
	create.Flags().StringVar(&password, "password", "", "password")
	create.Flags().BoolVar(&admin, "admin", false, "grant every permission")

	cmd.AddCommand(create)
	return cmd
}

func newMemberCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "member",
		Short: "Manage project members",
	}

	var permissions []string
	add := &cobra.Command{
		Use:   "add <project> <login>",
		Short: "Grant a user permissions on a project",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := project.NewRepository(a.db).FindByIdentifier(ctx, args[0])
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("project %q not found", args[0])
			}
			if err != nil {
				return err
			}

			repo := auth.NewRepository(a.db)
			user, err := repo.FindUserByLogin(ctx, args[1])
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("user %q not found", args[1])
			}
			if err != nil {
				return err
			}

			if err := repo.AddMember(ctx, &models.Member{ProjectID: p.ID, UserID: user.ID, Permissions: permissions}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s on %s: %s\n", user.Login, p.Identifier, strings.Join(permissions, ", "))
			return nil
		},
	}
	add.Flags().StringSliceVar(&permissions, "permission", []string{string(wiki.PermissionViewWikiPages)}, "permission to grant (repeatable)")

	cmd.AddCommand(add)
	return cmd
}

func newWikiCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wiki",
		Short: "Manage project wikis",
	}

	destroy := &cobra.Command{
		Use:   "destroy <project>",
		Short: "Delete a project's wiki with its pages and redirects",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := project.NewRepository(a.db).FindByIdentifier(ctx, args[0])
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("project %q not found", args[0])
			}
			if err != nil {
				return err
			}

			w, err := wiki.NewRepository(a.db).FindByProject(ctx, p.ID)
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("project %q has no wiki", args[0])
			}
			if err != nil {
				return err
			}

			if err := a.resolver().Destroy(ctx, w); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "destroyed wiki of %s\n", p.Identifier)
			return nil
		},
	}

	setStart := &cobra.Command{
		Use:   "start-page <project> <page-id>",
		Short: "Set the page shown when no page is requested",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := project.NewRepository(a.db).FindByIdentifier(ctx, args[0])
			if err != nil {
				return fmt.Errorf("project %q: %w", args[0], err)
			}
			repo := wiki.NewRepository(a.db)
			w, err := repo.FindByProject(ctx, p.ID)
			if err != nil {
				return fmt.Errorf("wiki of %q: %w", args[0], err)
			}
			return repo.SetStartPage(ctx, w.ID, args[1])
		},
	}

	cmd.AddCommand(destroy, setStart)
	return cmd
}
