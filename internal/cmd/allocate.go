package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/bendechrai/devports/internal/validate"
)

// NewAllocateCmd creates the allocate command
func NewAllocateCmd() *cobra.Command {
	var note string

	cmd := &cobra.Command{
		Use:   "allocate <project> <service> <type>",
		Short: "Allocate a port for a project service",
		Long: `Allocates the next available port from the type's configured range and
records it against the (project, service) pair. Fails if the pair already
holds a port.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			project, service, portType := args[0], args[1], args[2]

			if err := validate.ProjectName(project); err != nil {
				return err
			}
			if err := validate.ServiceName(service); err != nil {
				return err
			}
			if err := validate.TypeName(portType); err != nil {
				return err
			}

			_, engine, cleanup, err := openEngine()
			if err != nil {
				return err
			}
			defer cleanup()

			alloc, err := engine.Allocate(project, service, portType, note)
			if err != nil {
				return err
			}

			green := color.New(color.FgGreen).SprintFunc()
			fmt.Printf("✅ Allocated port %s for %s/%s (%s)\n",
				green(fmt.Sprintf("%d", alloc.Port)), project, service, portType)

			return nil
		},
	}

	cmd.Flags().StringVar(&note, "note", "", "Note to store with the allocation")

	return cmd
}
