package deck

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-git/go-git/v5"
)

// SyncRepo clones the git repository at url into dir, or pulls the latest
// changes when dir already holds a clone.
func SyncRepo(ctx context.Context, url, dir string, progress io.Writer) error {
	_, err := os.Stat(dir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		slog.Info("cloning deck repository", "url", url, "dir", dir)
		_, err := git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{
			URL:      url,
			Depth:    1,
			Progress: progress,
		})
		if err != nil {
			return fmt.Errorf("clone %s: %w", url, err)
		}
		return nil
	case err != nil:
		return fmt.Errorf("stat %s: %w", dir, err)
	}

	slog.Info("pulling deck repository", "dir", dir)
	repo, err := git.PlainOpen(dir)
	if err != nil {
		return fmt.Errorf("open repo %s: %w", dir, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("worktree %s: %w", dir, err)
	}
	err = wt.PullContext(ctx, &git.PullOptions{RemoteName: "origin", Progress: progress})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return fmt.Errorf("pull %s: %w", dir, err)
	}
	return nil
}

// Files lists the deck files (*.csv, *.txt) under dir in lexical order,
// skipping the .git directory.
func Files(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".csv", ".txt":
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}
	slices.Sort(files)
	return files, nil
}

// RepoDir returns the local checkout directory for url under root.
func RepoDir(root, url string) string {
	name := strings.TrimSuffix(filepath.Base(strings.TrimRight(url, "/")), ".git")
	if name == "" || name == "." || name == "/" {
		name = "deck"
	}
	return filepath.Join(root, "decks", name)
}
