package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bendechrai/devports/internal/gitignore"
)

const starterConfig = `# devports configuration
# Each type gets an inclusive port range; allocations for that type come
# from its range.
ranges:
  web:
    start: 3000
    end: 3999
  api:
    start: 4000
    end: 4999
  postgres:
    start: 5432
    end: 5531

# Registry location (defaults to ~/.devports/registry.db)
# registry: ~/.devports/registry.db
`

// NewInitCmd creates the init command
func NewInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a starter .devports.yaml",
		Long: `Writes a starter .devports.yaml in the current directory and adds
devports-generated files to .gitignore.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(".devports.yaml"); err == nil && !force {
				return fmt.Errorf(".devports.yaml already exists (use --force to overwrite)")
			}

			if err := os.WriteFile(".devports.yaml", []byte(starterConfig), 0644); err != nil {
				return fmt.Errorf("failed to write .devports.yaml: %w", err)
			}
			fmt.Println("✅ Created .devports.yaml")

			added, err := gitignore.Ensure(".gitignore", []string{
				".devports.local.yaml",
				".env",
			})
			if err != nil {
				fmt.Printf("Warning: failed to update .gitignore: %v\n", err)
			} else if added > 0 {
				fmt.Printf("✅ Added %d entries to .gitignore\n", added)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing .devports.yaml")

	return cmd
}
