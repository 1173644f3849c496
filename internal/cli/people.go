package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/kintree/kintree/pkg/family"
	"github.com/kintree/kintree/pkg/tree"
)

// peopleCommand creates the people command group.
func (c *CLI) peopleCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "people",
		Short: "Inspect the people in a snapshot",
	}

	cmd.AddCommand(c.peopleListCommand())
	cmd.AddCommand(c.peopleBrowseCommand())

	return cmd
}

// peopleListCommand creates the "people list" subcommand.
func (c *CLI) peopleListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list [snapshot.json]",
		Short: "List all people with their relationship counts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			st, err := loadSnapshotStore(ctx, args[0])
			if err != nil {
				return err
			}

			people, err := st.ListPeople(ctx)
			if err != nil {
				return err
			}
			rels, err := st.ListRelationships(ctx)
			if err != nil {
				return err
			}

			persons := tree.Build(people, rels)
			if len(persons) == 0 {
				printInfo("Snapshot is empty")
				return nil
			}

			for _, p := range persons {
				label := fmt.Sprintf("%3d  %s", p.ID, p.Name)
				if span := lifespanOf(p); span != "" {
					label += "  " + StyleDim.Render(span)
				}
				fmt.Println(label)
				if n := len(p.Children); n > 0 {
					printDetail("%d children", n)
				}
				if n := len(p.Spouses); n > 0 {
					printDetail("%d spouses", n)
				}
			}
			printStats(len(people), len(rels), false)
			return nil
		},
	}
}

// peopleBrowseCommand creates the interactive "people browse" subcommand.
func (c *CLI) peopleBrowseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse [snapshot.json]",
		Short: "Browse people interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			st, err := loadSnapshotStore(ctx, args[0])
			if err != nil {
				return err
			}
			people, err := st.ListPeople(ctx)
			if err != nil {
				return err
			}
			rels, err := st.ListRelationships(ctx)
			if err != nil {
				return err
			}

			persons := tree.Build(people, rels)
			if len(persons) == 0 {
				printInfo("Snapshot is empty")
				return nil
			}

			model := NewPersonListModel(persons)
			final, err := tea.NewProgram(model, tea.WithContext(ctx)).Run()
			if err != nil {
				return err
			}

			if m, ok := final.(PersonListModel); ok && m.Selected != nil {
				printPerson(*m.Selected)
			}
			return nil
		},
	}
}

// printPerson prints the detail view of a selected person.
func printPerson(p tree.Person) {
	fmt.Println(StyleTitle.Render(p.Name))
	printKeyValue("ID", strconv.Itoa(p.ID))
	if p.Gender != "" {
		printKeyValue("Gender", p.Gender)
	}
	if p.BirthDate != "" {
		printKeyValue("Born", p.BirthDate)
	}
	if p.BirthPlace != "" {
		printKeyValue("Birthplace", p.BirthPlace)
	}
	if p.DeathDate != "" {
		printKeyValue("Died", p.DeathDate)
	}
	if p.Notes != "" {
		printKeyValue("Notes", p.Notes)
	}

	printRelated("Parents", p.Parents)
	printRelated("Spouses", p.Spouses)
	printRelated("Children", p.Children)
	printRelated("Siblings", p.Siblings)
}

func printRelated(label string, related []family.Person) {
	if len(related) == 0 {
		return
	}
	names := make([]string, len(related))
	for i, r := range related {
		names[i] = r.Name
	}
	printKeyValue(label, strings.Join(names, ", "))
}
