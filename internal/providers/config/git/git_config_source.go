// Package git loads the desired-state document from a git repository, so a
// config repo can be the single source of truth for an instance.
package git

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	httpauth "github.com/go-git/go-git/v5/plumbing/transport/http"

	"github.com/declarr/declarr/config"
	"github.com/declarr/declarr/faults"
)

const defaultBranchName = "main"

type Source struct {
	url    string
	branch string
	file   string
	dir    string
	auth   transport.AuthMethod
}

type Option func(*Source)

// WithBasicAuth sets HTTP credentials; for token-based hosting use the token
// as the password.
func WithBasicAuth(username string, password string) Option {
	return func(s *Source) {
		s.auth = &httpauth.BasicAuth{Username: username, Password: password}
	}
}

// WithCheckoutDir pins the local checkout location. Without it a temporary
// directory is created per load.
func WithCheckoutDir(dir string) Option {
	return func(s *Source) {
		s.dir = dir
	}
}

func WithBranch(branch string) Option {
	return func(s *Source) {
		if strings.TrimSpace(branch) != "" {
			s.branch = branch
		}
	}
}

func NewSource(repoURL string, file string, options ...Option) (*Source, error) {
	if strings.TrimSpace(repoURL) == "" {
		return nil, faults.NewTypedError(faults.ValidationError, "config repository URL is required", nil)
	}
	if strings.TrimSpace(file) == "" {
		return nil, faults.NewTypedError(faults.ValidationError, "config file path within the repository is required", nil)
	}

	source := &Source{
		url:    strings.TrimSpace(repoURL),
		branch: defaultBranchName,
		file:   filepath.Clean(strings.TrimSpace(file)),
	}
	for _, option := range options {
		if option == nil {
			continue
		}
		option(source)
	}
	return source, nil
}

// Load clones or refreshes the checkout and parses the configured file.
func (s *Source) Load(ctx context.Context) (*config.Document, error) {
	dir := s.dir
	if dir == "" {
		tempDir, err := os.MkdirTemp("", "declarr-config-*")
		if err != nil {
			return nil, faults.NewTypedError(faults.InternalError, "could not create checkout directory", err)
		}
		defer os.RemoveAll(tempDir)
		dir = tempDir
	}

	if err := s.refresh(ctx, dir); err != nil {
		return nil, err
	}
	return config.Load(filepath.Join(dir, s.file))
}

func (s *Source) refresh(ctx context.Context, dir string) error {
	reference := plumbing.NewBranchReferenceName(s.branch)

	repo, err := gogit.PlainOpen(dir)
	if errors.Is(err, gogit.ErrRepositoryNotExists) {
		_, cloneErr := gogit.PlainCloneContext(ctx, dir, false, &gogit.CloneOptions{
			URL:           s.url,
			ReferenceName: reference,
			SingleBranch:  true,
			Depth:         1,
			Auth:          s.auth,
		})
		if cloneErr != nil {
			return faults.NewTypedError(faults.ConnectivityError, "could not clone the config repository", cloneErr)
		}
		return nil
	}
	if err != nil {
		return faults.NewTypedError(faults.InternalError, "could not open the config checkout", err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return faults.NewTypedError(faults.InternalError, "could not open the config worktree", err)
	}
	err = worktree.PullContext(ctx, &gogit.PullOptions{
		ReferenceName: reference,
		SingleBranch:  true,
		Auth:          s.auth,
	})
	if err != nil && !errors.Is(err, gogit.NoErrAlreadyUpToDate) {
		return faults.NewTypedError(faults.ConnectivityError, "could not refresh the config repository", err)
	}
	return nil
}
