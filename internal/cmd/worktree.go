package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bendechrai/devports/internal/git"
	"github.com/bendechrai/devports/internal/template"
)

// NewWorktreeCmd creates the worktree command group
func NewWorktreeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "worktree",
		Short: "Manage per-branch worktrees with their own ports",
	}

	cmd.AddCommand(newWorktreeAddCmd())
	cmd.AddCommand(newWorktreeRemoveCmd())

	return cmd
}

func newWorktreeAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <branch>",
		Short: "Create a worktree for a branch and render its env template",
		Long: `Creates a worktree at ../<repo>-<branch>. If the worktree contains an
.env.template it is rendered there, so the branch gets its own ports under
the project name <repo>-<branch>.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			branch := args[0]

			if !git.IsRepo() {
				return fmt.Errorf("not in a git repository")
			}

			repo, err := git.RepoName()
			if err != nil {
				return err
			}

			dir := filepath.Join("..", fmt.Sprintf("%s-%s", repo, branch))
			if err := git.WorktreeAdd(branch, dir); err != nil {
				return err
			}
			fmt.Printf("✅ Created worktree at %s\n", dir)

			// Render the branch's env template when one exists
			tmpl := filepath.Join(dir, ".env.template")
			if _, err := os.Stat(tmpl); err != nil {
				return nil
			}

			_, engine, cleanup, err := openEngine()
			if err != nil {
				return err
			}
			defer cleanup()

			renderer := &template.Renderer{
				Ports: engine,
				Warnf: func(format string, warnArgs ...any) {
					fmt.Printf("Warning: %s\n", fmt.Sprintf(format, warnArgs...))
				},
			}

			project := template.NormalizeProjectName(fmt.Sprintf("%s-%s", repo, branch))
			result, err := renderer.Render(tmpl, template.RenderOptions{
				ProjectName: project,
				OutputPath:  filepath.Join(dir, ".env"),
			})
			if err != nil {
				return fmt.Errorf("failed to render %s: %w", tmpl, err)
			}

			fmt.Printf("✅ Rendered .env with %d port(s) for %s\n", len(result.Ports), result.ProjectName)
			return nil
		},
	}
}

func newWorktreeRemoveCmd() *cobra.Command {
	var (
		force        bool
		releasePorts bool
	)

	cmd := &cobra.Command{
		Use:   "remove <branch>",
		Short: "Remove a branch worktree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			branch := args[0]

			if !git.IsRepo() {
				return fmt.Errorf("not in a git repository")
			}

			repo, err := git.RepoName()
			if err != nil {
				return err
			}

			dir := filepath.Join("..", fmt.Sprintf("%s-%s", repo, branch))
			if err := git.WorktreeRemove(dir, force); err != nil {
				return err
			}
			fmt.Printf("✅ Removed worktree %s\n", dir)

			if !releasePorts {
				return nil
			}

			_, engine, cleanup, err := openEngine()
			if err != nil {
				return err
			}
			defer cleanup()

			project := template.NormalizeProjectName(fmt.Sprintf("%s-%s", repo, branch))
			removed, err := engine.Release(project, "", true)
			if err != nil {
				return err
			}
			fmt.Printf("✅ Released %d port(s) for %s\n", removed, project)

			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Remove even with local changes")
	cmd.Flags().BoolVar(&releasePorts, "release-ports", false, "Also release the branch's port allocations")

	return cmd
}
