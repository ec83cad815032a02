package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bendechrai/devports/internal/validate"
)

// NewReleaseCmd creates the release command
func NewReleaseCmd() *cobra.Command {
	var (
		all  bool
		port int
	)

	cmd := &cobra.Command{
		Use:   "release [project] [service]",
		Short: "Release allocated ports",
		Long: `Releases the port held by a (project, service) pair, every port held by a
project with --all, or whichever allocation holds a raw port number with
--port.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if port != 0 {
				if len(args) > 0 || all {
					return fmt.Errorf("--port cannot be combined with a project or --all")
				}
				return releaseByPort(port)
			}

			if len(args) == 0 {
				return fmt.Errorf("specify a project, or use --port")
			}

			project := args[0]
			service := ""
			if len(args) == 2 {
				service = args[1]
			}

			if err := validate.ProjectName(project); err != nil {
				return err
			}
			if service != "" {
				if err := validate.ServiceName(service); err != nil {
					return err
				}
			}

			_, engine, cleanup, err := openEngine()
			if err != nil {
				return err
			}
			defer cleanup()

			removed, err := engine.Release(project, service, all)
			if err != nil {
				return err
			}

			if removed == 0 {
				fmt.Printf("No allocations found for %s\n", project)
				return nil
			}

			fmt.Printf("✅ Released %d port(s) for %s\n", removed, project)
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Release every port held by the project")
	cmd.Flags().IntVar(&port, "port", 0, "Release whichever allocation holds this port")

	return cmd
}

func releaseByPort(port int) error {
	if err := validate.Port(port); err != nil {
		return err
	}

	_, engine, cleanup, err := openEngine()
	if err != nil {
		return err
	}
	defer cleanup()

	removed, err := engine.ReleaseByPort(port)
	if err != nil {
		return err
	}

	if !removed {
		fmt.Printf("No allocation found for port %d\n", port)
		return nil
	}

	fmt.Printf("✅ Released port %d\n", port)
	return nil
}
