package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/goliatone/go-entityform/pkg/form"
	"github.com/goliatone/go-entityform/pkg/prompt"
	"github.com/goliatone/go-entityform/pkg/suggest"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// newDriver is swapped in tests.
var newDriver = func(out io.Writer) prompt.Driver { return prompt.NewSurveyDriver(out) }

func (c *cli) entityCommand(name string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   name,
		Short: fmt.Sprintf("Manage %s records", name),
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "create",
			Short: fmt.Sprintf("Create a %s", name),
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return c.runForm(cmd, name, form.ActionCreate, "")
			},
		},
		&cobra.Command{
			Use:   "edit <slug>",
			Short: fmt.Sprintf("Edit a %s", name),
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.runForm(cmd, name, form.ActionEdit, args[0])
			},
		},
		&cobra.Command{
			Use:   "translate <slug>",
			Short: fmt.Sprintf("Translate a %s into the active locale", name),
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.runForm(cmd, name, form.ActionTranslate, args[0])
			},
		},
	)
	return cmd
}

func (c *cli) runForm(cmd *cobra.Command, entityName string, action form.Action, slug string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	env, err := c.app.Env(ctx, action, c.shop)
	if err != nil {
		return err
	}
	session, err := c.app.Open(ctx, entityName, env, slug)
	if err != nil {
		return err
	}
	defer session.Close()

	c.logger.Debug("form opened",
		zap.String("entity", entityName),
		zap.String("action", string(action)),
		zap.String("locale", env.Locale.Active),
		zap.String("mode", session.Plan().Mode.String()))

	driver := newDriver(out)
	filler := prompt.New(driver,
		prompt.WithTranslator(c.app.Translator(), env.Locale.Active),
		prompt.WithLogger(c.logger))
	if err := filler.Fill(ctx, session); err != nil {
		return err
	}

	for {
		record, submitErr := session.Submit(ctx)
		if submitErr == nil {
			fmt.Fprintf(out, "Saved %s %q (id %s)\n", entityName, record.EntitySlug(), record.EntityID())
			return nil
		}
		var rejected *form.ValidationError
		if !errors.Is(submitErr, form.ErrInvalid) && !errors.As(submitErr, &rejected) {
			return submitErr
		}
		if err := filler.Report(ctx, session); err != nil {
			return err
		}
		retry, err := driver.Confirm(ctx, prompt.ConfirmConfig{Message: "Fix the fields above?", Default: true})
		if err != nil {
			return err
		}
		if !retry {
			return submitErr
		}
		if err := filler.Fill(ctx, session, prompt.ErrorFields(session)...); err != nil {
			return err
		}
	}
}

func (c *cli) suggestCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "suggest <entity> <field> <seed...>",
		Short: "Print suggestion candidates for a field",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := c.app.Provider().Suggest(cmd.Context(), suggest.Request{
				Entity: args[0],
				Field:  args[1],
				Seed:   strings.Join(args[2:], " "),
				Locale: c.app.Config().ActiveLocale(),
				Limit:  limit,
			})
			if err != nil {
				return err
			}
			for _, s := range list {
				fmt.Fprintf(cmd.OutOrStdout(), "%d. %s\n", s.ID, s.Title)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of candidates")
	return cmd
}

func (c *cli) filterCommand() *cobra.Command {
	var typeSlug string
	cmd := &cobra.Command{
		Use:   "filter",
		Short: "List product groups and the categories of a group",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			groups, categories, err := c.app.Filter(cmd.Context(), typeSlug)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Groups:")
			for _, g := range groups {
				marker := " "
				if g.Slug == typeSlug {
					marker = "*"
				}
				fmt.Fprintf(out, " %s %s (%s)\n", marker, g.Name, g.Slug)
			}
			fmt.Fprintln(out, "Categories:")
			for _, category := range categories {
				fmt.Fprintf(out, "   %s (%s)\n", category.Name, category.Slug)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&typeSlug, "type", "", "product group slug")
	return cmd
}

func (c *cli) configCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "config",
		Short:       "Print the effective configuration with secrets masked",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationNoApp: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if _, err := fmt.Fprint(out, c.cfg.String()); err != nil {
				return err
			}
			if err := c.cfg.Validate(); err != nil {
				_, werr := fmt.Fprintf(out, "! %v\n", err)
				return werr
			}
			return nil
		},
	}
}
