package git

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"linko/internal/logging"
)

// Context is the git state of the wiki root, injected into model prompts.
// A wiki without git yields the zero value; nothing here is ever fatal.
type Context struct {
	Branch        string
	Dirty         bool
	RecentCommits []CommitInfo
}

// CommitInfo is one commit in the recent history.
type CommitInfo struct {
	Hash    string
	Author  string
	Subject string
	Date    time.Time
}

// Provider reads git context for a directory via the git binary.
type Provider struct {
	dir        string
	maxCommits int
	timeout    time.Duration
}

// NewProvider creates a provider for the given directory.
func NewProvider(dir string, maxCommits int, timeout time.Duration) *Provider {
	if maxCommits <= 0 {
		maxCommits = 5
	}
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Provider{dir: dir, maxCommits: maxCommits, timeout: timeout}
}

// IsRepo reports whether the directory is inside a git work tree.
func IsRepo(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, ".git"))
	if err == nil && info.IsDir() {
		return true
	}
	out, err := exec.Command("git", "-C", dir, "rev-parse", "--is-inside-work-tree").Output()
	return err == nil && strings.TrimSpace(string(out)) == "true"
}

// Get returns the current git context. Every failure degrades to zero
// values with a debug log; the assistant works the same without git.
func (p *Provider) Get(ctx context.Context) Context {
	var gc Context

	if !IsRepo(p.dir) {
		return gc
	}

	branch, err := p.runGit(ctx, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		logging.Debug("git branch lookup failed", "dir", p.dir, "error", err)
		return gc
	}
	gc.Branch = strings.TrimSpace(branch)

	if status, err := p.runGit(ctx, "status", "--porcelain"); err == nil {
		gc.Dirty = strings.TrimSpace(status) != ""
	} else {
		logging.Debug("git status failed", "dir", p.dir, "error", err)
	}

	gc.RecentCommits = p.recentCommits(ctx)
	return gc
}

// Summary renders the context as a short block for prompt injection.
// Empty context renders empty.
func (gc Context) Summary() string {
	if gc.Branch == "" {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "branch: %s", gc.Branch)
	if gc.Dirty {
		b.WriteString(" (uncommitted changes)")
	}
	for _, c := range gc.RecentCommits {
		fmt.Fprintf(&b, "\n%s %s", c.Hash, c.Subject)
	}
	return b.String()
}

func (p *Provider) recentCommits(ctx context.Context) []CommitInfo {
	output, err := p.runGit(ctx, "log", "--format=%h|%an|%at|%s", fmt.Sprintf("-n%d", p.maxCommits))
	if err != nil {
		logging.Debug("git log failed", "dir", p.dir, "error", err)
		return nil
	}

	var commits []CommitInfo
	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "|", 4)
		if len(parts) < 4 {
			continue
		}
		var unix int64
		fmt.Sscanf(parts[2], "%d", &unix)
		commits = append(commits, CommitInfo{
			Hash:    parts[0],
			Author:  parts[1],
			Date:    time.Unix(unix, 0),
			Subject: parts[3],
		})
	}
	return commits
}

func (p *Provider) runGit(ctx context.Context, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", append([]string{"-C", p.dir}, args...)...)
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return string(out), nil
}
