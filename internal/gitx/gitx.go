// Package gitx is the version-control collaborator: it supplies the
// changed-file set and commit identifier a snapshot diff is scoped to.
package gitx

import (
	"fmt"
	"os/exec"
	"sort"
	"strings"
)

// Head returns the short commit identifier of HEAD.
func Head(repoDir string) (string, error) {
	out, err := gitOutput(repoDir, "rev-parse", "--short", "HEAD")
	if err != nil {
		return "", fmt.Errorf("git rev-parse --short HEAD: %w", err)
	}
	return out, nil
}

// ChangedFiles returns the sorted, deduplicated paths changed between ref
// and the working tree, including untracked files. A bad ref or a
// directory that is not a repository is an error.
func ChangedFiles(repoDir, ref string) ([]string, error) {
	diffOut, err := gitOutput(repoDir, "diff", "--name-only", ref)
	if err != nil {
		return nil, fmt.Errorf("git diff --name-only %s: %w", ref, err)
	}
	untrackedOut, err := gitOutput(repoDir, "ls-files", "--others", "--exclude-standard")
	if err != nil {
		return nil, fmt.Errorf("git ls-files --others: %w", err)
	}

	seen := parseFileList(diffOut)
	for f := range parseFileList(untrackedOut) {
		seen[f] = true
	}

	files := make([]string, 0, len(seen))
	for f := range seen {
		files = append(files, f)
	}
	sort.Strings(files)
	return files, nil
}

// gitOutput runs a git command in repoDir and returns trimmed stdout.
func gitOutput(repoDir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = repoDir
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// parseFileList splits newline-separated git output into a path set.
func parseFileList(output string) map[string]bool {
	set := make(map[string]bool)
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			set[line] = true
		}
	}
	return set
}
