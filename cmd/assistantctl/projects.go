package main

import (
	"fmt"
	"io"
	"strings"

	"assistant/internal/domain/models"
	"assistant/internal/domain/models/itinerary"
	"assistant/internal/domain/models/mealplan"
	"assistant/internal/domain/models/project"
	"assistant/internal/domain/services"

	"github.com/spf13/cobra"
)

// projectCommands builds the subcommands shared by every project type.
type projectCommands[M any, I project.Item] struct {
	use     string
	short   string
	service func() services.ProjectService[M, I]
	// detail renders the type-specific part of one item line
	detail func(I) string
}

func itineraryCommand(a *app) *cobra.Command {
	return projectCommands[itinerary.Meta, *itinerary.Activity]{
		use:     "itinerary",
		short:   "Manage travel itineraries",
		service: func() services.ProjectService[itinerary.Meta, *itinerary.Activity] { return a.services.Itineraries },
		detail: func(act *itinerary.Activity) string {
			out := act.Start.Time.String() + " - " + act.End.Time.String()
			if p := act.Start.Place; p != nil {
				if p.Resolved() {
					out += " @ " + p.Name
				} else {
					out += " @ " + p.SearchQuery + " (unresolved)"
				}
			}
			return out
		},
	}.command()
}

func mealPlanCommand(a *app) *cobra.Command {
	return projectCommands[mealplan.Meta, *mealplan.Meal]{
		use:     "mealplan",
		short:   "Manage meal plans",
		service: func() services.ProjectService[mealplan.Meta, *mealplan.Meal] { return a.services.MealPlans },
		detail: func(m *mealplan.Meal) string {
			out := m.EatOn.String()
			if m.Recipe != "" {
				out += " " + m.Recipe
			}
			if m.RecipeLink != "" {
				out += " <" + m.RecipeLink + ">"
			}
			return out
		},
	}.command()
}

func (pc projectCommands[M, I]) command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   pc.use,
		Short: pc.short,
	}
	cmd.AddCommand(pc.list(), pc.create(), pc.show(), pc.suggest(), pc.delete())
	return cmd
}

func (pc projectCommands[M, I]) list() *cobra.Command {
	req := models.NewPaginationRequest()
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := pc.service().List(cmd.Context(), req)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, p := range page.Data {
				fmt.Fprintf(out, "%s%s%s  %s (%d items)\n", colorCyan, p.ID, colorReset, p.Name, len(p.Items))
			}
			fmt.Fprintf(out, "%d-%d of %d\n", page.Pagination.Offset, page.Pagination.Offset+len(page.Data), page.Pagination.Total)
			return nil
		},
	}
	cmd.Flags().IntVar(&req.Offset, "offset", req.Offset, "number of projects to skip")
	cmd.Flags().IntVar(&req.Limit, "limit", req.Limit, "maximum number of projects to show")
	return cmd
}

func (pc projectCommands[M, I]) create() *cobra.Command {
	return &cobra.Command{
		Use:   "create NAME",
		Short: "Create an empty project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := pc.service().Create(cmd.Context(), &services.CreateProjectRequest[M]{Name: args[0]})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%sCreated%s %s (%s)\n", colorGreen, colorReset, p.Name, p.ID)
			return nil
		},
	}
}

func (pc projectCommands[M, I]) show() *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Print a project and its items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := pc.service().Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			pc.print(cmd.OutOrStdout(), p)
			return nil
		},
	}
}

func (pc projectCommands[M, I]) suggest() *cobra.Command {
	var apply bool
	cmd := &cobra.Command{
		Use:   "suggest ID PROMPT",
		Short: "Ask for suggested changes and optionally apply them",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc := pc.service()
			id, prompt := args[0], strings.Join(args[1:], " ")

			fmt.Fprintf(cmd.ErrOrStderr(), "%sThinking...%s\n", colorYellow, colorReset)
			suggestion, err := svc.GetChangeSuggestions(ctx, id, prompt)
			if err != nil {
				return err
			}

			current, err := svc.Get(ctx, id)
			if err != nil {
				return err
			}
			descriptions, err := project.Describe(current, suggestion.Changes)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if suggestion.Reasoning != "" {
				fmt.Fprintf(out, "%s\n\n", suggestion.Reasoning)
			}
			if len(descriptions) == 0 {
				fmt.Fprintln(out, "No changes suggested.")
				return nil
			}
			for i, d := range descriptions {
				fmt.Fprintf(out, "%2d. %s\n", i+1, d)
			}

			if !apply {
				return nil
			}
			updated, err := svc.ApplyChanges(ctx, id, suggestion.Changes)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "\n%sApplied %d changes%s\n", colorGreen, len(suggestion.Changes), colorReset)
			pc.print(out, updated)
			return nil
		},
	}
	cmd.Flags().BoolVar(&apply, "apply", false, "apply the suggested changes")
	return cmd
}

func (pc projectCommands[M, I]) delete() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pc.service().Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%sDeleted%s %s\n", colorGreen, colorReset, args[0])
			return nil
		},
	}
}

func (pc projectCommands[M, I]) print(out io.Writer, p *project.Project[M, I]) {
	fmt.Fprintf(out, "%s%s%s (%s)\n", colorCyan, p.Name, colorReset, p.ID)
	for i, item := range p.Items {
		fmt.Fprintf(out, "%2d. %s  %s\n", i+1, item.ItemName(), pc.detail(item))
	}
}
