package git

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// CurrentBranch returns the current git branch name
func CurrentBranch() (string, error) {
	cmd := exec.Command("git", "branch", "--show-current")
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("failed to get current branch: %w", err)
	}

	branch := strings.TrimSpace(string(output))
	if branch == "" {
		return "", fmt.Errorf("not on a branch")
	}

	return branch, nil
}

// IsRepo checks if the current directory is a git repository
func IsRepo() bool {
	cmd := exec.Command("git", "rev-parse", "--git-dir")
	return cmd.Run() == nil
}

// RepoName returns the basename of the repository's top-level directory
func RepoName() (string, error) {
	cmd := exec.Command("git", "rev-parse", "--show-toplevel")
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("failed to find repository root: %w", err)
	}

	top := strings.TrimSpace(string(output))
	if top == "" {
		return "", fmt.Errorf("not in a git repository")
	}

	return filepath.Base(top), nil
}

// WorktreeAdd creates a worktree for branch at dir. If the branch does
// not exist yet it is created from the current HEAD.
func WorktreeAdd(branch, dir string) error {
	cmd := exec.Command("git", "worktree", "add", dir, branch)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err == nil {
		return nil
	}

	// Branch may not exist yet
	cmd = exec.Command("git", "worktree", "add", "-b", branch, dir)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to add worktree for %s: %w", branch, err)
	}

	return nil
}

// WorktreeRemove removes the worktree at dir.
func WorktreeRemove(dir string, force bool) error {
	args := []string{"worktree", "remove"}
	if force {
		args = append(args, "--force")
	}
	args = append(args, dir)

	cmd := exec.Command("git", args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to remove worktree %s: %w", dir, err)
	}

	return nil
}
