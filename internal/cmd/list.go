package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/bendechrai/devports/internal/registry"
)

// NewListCmd creates the list command
func NewListCmd() *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List port allocations",
		Long:  `Lists all allocations grouped by project, with type and allocation time.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, engine, cleanup, err := openEngine()
			if err != nil {
				return err
			}
			defer cleanup()

			snap, err := engine.Snapshot()
			if err != nil {
				return err
			}

			if len(snap.Allocations) == 0 {
				fmt.Println("No allocations found")
				return nil
			}

			cyan := color.New(color.FgCyan).SprintFunc()

			byProject := map[string][]registry.PortAllocation{}
			var order []string
			for _, a := range snap.Allocations {
				if project != "" && a.Project != project {
					continue
				}
				if _, ok := byProject[a.Project]; !ok {
					order = append(order, a.Project)
				}
				byProject[a.Project] = append(byProject[a.Project], a)
			}

			if len(order) == 0 {
				fmt.Printf("No allocations found for %s\n", project)
				return nil
			}

			fmt.Println("Allocations")
			fmt.Println("===========")
			fmt.Println()

			for _, name := range order {
				fmt.Printf("%s\n", cyan(name))
				for _, a := range byProject[name] {
					fmt.Printf("  %-20s %5d  (%s)  %s", a.Service, a.Port, a.Type,
						a.AllocatedAt.Local().Format("2006-01-02 15:04:05"))
					if a.Note != "" {
						fmt.Printf("  - %s", a.Note)
					}
					fmt.Println()
				}
				fmt.Println()
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Only show allocations for this project")

	return cmd
}
