// Package backup keeps a copy of the channel table in a git repository,
// optionally mirrored to a remote such as a private GitHub repo.
package backup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"

	"github.com/mandalnilabja/logview/internal/storage"
)

// ChannelsFile is the file inside the repository holding the channel list.
const ChannelsFile = "channels.json"

// ErrNoBackup is returned by Restore when the repository has no channel file.
var ErrNoBackup = errors.New("no channel backup found")

// Options configures where backups are written.
type Options struct {
	// Dir is the local working copy. It is created on first use.
	Dir string
	// Remote is an optional clone URL. Empty keeps backups local.
	Remote string
	// Token authenticates HTTPS pushes and pulls, e.g. a GitHub token.
	Token string
}

// Result describes one backup or restore.
type Result struct {
	Channels  int
	Committed bool
	Commit    string
	Pushed    bool
}

// Syncer copies channels between storage and a git repository.
type Syncer struct {
	store  storage.Storage
	opts   Options
	logger *slog.Logger
	now    func() time.Time
}

// New creates a Syncer.
func New(store storage.Storage, opts Options, logger *slog.Logger) *Syncer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Syncer{store: store, opts: opts, logger: logger, now: time.Now}
}

func (s *Syncer) auth() transport.AuthMethod {
	if s.opts.Token == "" {
		return nil
	}
	// GitHub accepts any non-empty username with a token as password.
	return &githttp.BasicAuth{Username: "logview", Password: s.opts.Token}
}

// Backup writes the channel list, commits it when it changed and pushes
// the branch when a remote is configured.
func (s *Syncer) Backup(ctx context.Context) (Result, error) {
	repo, err := s.open(ctx)
	if err != nil {
		return Result{}, err
	}
	if err := s.pull(ctx, repo); err != nil {
		return Result{}, err
	}

	channels, err := s.store.ListChannels()
	if err != nil {
		return Result{}, fmt.Errorf("list channels: %w", err)
	}
	sort.Slice(channels, func(i, j int) bool { return channels[i].ID < channels[j].ID })
	if channels == nil {
		channels = []*storage.Channel{}
	}
	data, err := json.MarshalIndent(channels, "", "  ")
	if err != nil {
		return Result{}, err
	}
	data = append(data, '\n')
	if err := os.WriteFile(filepath.Join(s.opts.Dir, ChannelsFile), data, 0o600); err != nil {
		return Result{}, fmt.Errorf("write %s: %w", ChannelsFile, err)
	}

	res := Result{Channels: len(channels)}

	wt, err := repo.Worktree()
	if err != nil {
		return res, err
	}
	if _, err := wt.Add(ChannelsFile); err != nil {
		return res, fmt.Errorf("stage %s: %w", ChannelsFile, err)
	}
	status, err := wt.Status()
	if err != nil {
		return res, err
	}

	if !status.IsClean() {
		hash, err := wt.Commit(fmt.Sprintf("Back up %d channels", len(channels)), &git.CommitOptions{
			Author: &object.Signature{Name: "logview", Email: "logview@localhost", When: s.now()},
		})
		if err != nil {
			return res, fmt.Errorf("commit: %w", err)
		}
		res.Committed = true
		res.Commit = hash.String()
		s.logger.Info("committed channel backup", "channels", len(channels), "commit", res.Commit)
	}

	if s.opts.Remote == "" {
		return res, nil
	}
	err = repo.PushContext(ctx, &git.PushOptions{RemoteName: git.DefaultRemoteName, Auth: s.auth()})
	switch {
	case errors.Is(err, git.NoErrAlreadyUpToDate):
	case err != nil:
		return res, fmt.Errorf("push: %w", err)
	default:
		res.Pushed = true
	}
	return res, nil
}

// Restore pulls the latest backup and upserts every channel in it.
// Channels missing from the backup are left in place.
func (s *Syncer) Restore(ctx context.Context) (Result, error) {
	repo, err := s.open(ctx)
	if err != nil {
		return Result{}, err
	}
	if err := s.pull(ctx, repo); err != nil {
		return Result{}, err
	}

	data, err := os.ReadFile(filepath.Join(s.opts.Dir, ChannelsFile))
	if errors.Is(err, os.ErrNotExist) {
		return Result{}, ErrNoBackup
	}
	if err != nil {
		return Result{}, err
	}
	var channels []*storage.Channel
	if err := json.Unmarshal(data, &channels); err != nil {
		return Result{}, fmt.Errorf("parse %s: %w", ChannelsFile, err)
	}

	for _, ch := range channels {
		if err := s.store.UpsertChannel(ch); err != nil {
			return Result{}, fmt.Errorf("restore channel %d: %w", ch.ID, err)
		}
	}
	s.logger.Info("restored channels", "channels", len(channels))
	return Result{Channels: len(channels)}, nil
}

// open returns the working copy, cloning or initializing it on first use.
func (s *Syncer) open(ctx context.Context) (*git.Repository, error) {
	repo, err := git.PlainOpen(s.opts.Dir)
	if err == nil {
		return repo, nil
	}
	if !errors.Is(err, git.ErrRepositoryNotExists) {
		return nil, fmt.Errorf("open %s: %w", s.opts.Dir, err)
	}

	if s.opts.Remote != "" {
		repo, err = git.PlainCloneContext(ctx, s.opts.Dir, false, &git.CloneOptions{
			URL:  s.opts.Remote,
			Auth: s.auth(),
		})
		if err == nil {
			return repo, nil
		}
		if !errors.Is(err, transport.ErrEmptyRemoteRepository) {
			return nil, fmt.Errorf("clone %s: %w", s.opts.Remote, err)
		}
		// A fresh remote has nothing to clone; start locally and push later.
		_ = os.RemoveAll(filepath.Join(s.opts.Dir, git.GitDirName))
	}

	if err := os.MkdirAll(s.opts.Dir, 0o700); err != nil {
		return nil, err
	}
	repo, err = git.PlainInit(s.opts.Dir, false)
	if err != nil {
		return nil, fmt.Errorf("init %s: %w", s.opts.Dir, err)
	}
	if s.opts.Remote != "" {
		if _, err := repo.CreateRemote(&gitconfig.RemoteConfig{
			Name: git.DefaultRemoteName,
			URLs: []string{s.opts.Remote},
		}); err != nil {
			return nil, err
		}
	}
	s.logger.Info("initialized backup repository", "dir", s.opts.Dir)
	return repo, nil
}

// pull fast-forwards the working copy. An empty remote or one without the
// current branch is not an error.
func (s *Syncer) pull(ctx context.Context, repo *git.Repository) error {
	if s.opts.Remote == "" {
		return nil
	}
	if _, err := repo.Head(); errors.Is(err, plumbing.ErrReferenceNotFound) {
		return nil
	}
	wt, err := repo.Worktree()
	if err != nil {
		return err
	}
	err = wt.PullContext(ctx, &git.PullOptions{RemoteName: git.DefaultRemoteName, Auth: s.auth()})
	switch {
	case err == nil,
		errors.Is(err, git.NoErrAlreadyUpToDate),
		errors.Is(err, transport.ErrEmptyRemoteRepository),
		errors.Is(err, plumbing.ErrReferenceNotFound):
		return nil
	default:
		return fmt.Errorf("pull: %w", err)
	}
}
