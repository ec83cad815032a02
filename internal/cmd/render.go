package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/bendechrai/devports/internal/template"
)

// NewRenderCmd creates the render command
func NewRenderCmd() *cobra.Command {
	var (
		project string
		output  string
		write   bool
	)

	cmd := &cobra.Command{
		Use:   "render <template>",
		Short: "Render a template, allocating ports as needed",
		Long: `Reads a template file, allocates (or reuses) a port for every service
placeholder outside comments, and substitutes the results. With no output
flag the rendered content goes to stdout; --write derives the target by
stripping the .template suffix.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			if write {
				if output != "" {
					return fmt.Errorf("--write and --output cannot be combined")
				}
				if !strings.HasSuffix(path, ".template") {
					return fmt.Errorf("--write requires a .template suffix to derive the target")
				}
				output = strings.TrimSuffix(path, ".template")
			}

			_, engine, cleanup, err := openEngine()
			if err != nil {
				return err
			}
			defer cleanup()

			yellow := color.New(color.FgYellow).SprintFunc()
			renderer := &template.Renderer{
				Ports: engine,
				Warnf: func(format string, args ...any) {
					fmt.Printf("%s %s\n", yellow("Warning:"), fmt.Sprintf(format, args...))
				},
			}

			result, err := renderer.Render(path, template.RenderOptions{
				ProjectName: project,
				OutputPath:  output,
			})
			if err != nil {
				return err
			}

			if output == "" {
				fmt.Print(result.Content)
				return nil
			}

			fmt.Printf("✅ Rendered %s -> %s (project %s)\n", path, output, result.ProjectName)
			if len(result.Ports) > 0 {
				services := make([]string, 0, len(result.Ports))
				for s := range result.Ports {
					services = append(services, s)
				}
				sort.Strings(services)
				for _, s := range services {
					fmt.Printf("  %-20s %d\n", s, result.Ports[s])
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project name (defaults to PROJECT_NAME in the template)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write rendered content to this path")
	cmd.Flags().BoolVar(&write, "write", false, "Write next to the template, stripping .template")

	return cmd
}

// NewDetectCmd creates the detect command
func NewDetectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detect <template>",
		Short: "Show the services a template requires",
		Long:  `Scans a template for service placeholders without allocating anything.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readTemplate(args[0])
			if err != nil {
				return err
			}

			yellow := color.New(color.FgYellow).SprintFunc()
			services := template.DetectServices(data, args[0], func(format string, warnArgs ...any) {
				fmt.Printf("%s %s\n", yellow("Warning:"), fmt.Sprintf(format, warnArgs...))
			})

			if len(services) == 0 {
				fmt.Println("No service placeholders found")
				return nil
			}

			for _, s := range services {
				parts := strings.SplitN(s, ":", 2)
				fmt.Printf("%-20s %s\n", parts[0], parts[1])
			}

			return nil
		},
	}
}
