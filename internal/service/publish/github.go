package publish

import (
	"context"
	"net/http"

	"github.com/google/go-github/v66/github"
	"golang.org/x/oauth2"

	"github.com/promptvault/backend/config"
)

// githubStore 基于 GitHub contents API 的 RemoteStore 实现
type githubStore struct {
	client *github.Client
	owner  string
	repo   string
}

func NewGitHubStore(cfg config.GitHubConfig) RemoteStore {
	httpClient := oauth2.NewClient(context.Background(), oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: cfg.Token},
	))
	return &githubStore{
		client: github.NewClient(httpClient),
		owner:  cfg.Owner,
		repo:   cfg.Repo,
	}
}

func (s *githubStore) GetFile(ctx context.Context, path string) (string, string, error) {
	file, _, resp, err := s.client.Repositories.GetContents(ctx, s.owner, s.repo, path, nil)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return "", "", ErrRemoteNotFound
		}
		return "", "", err
	}
	// 路径指向目录时没有可用的文件内容
	if file == nil {
		return "", "", ErrRemoteNotFound
	}

	content, err := file.GetContent()
	if err != nil {
		return "", "", err
	}
	return content, file.GetSHA(), nil
}

func (s *githubStore) PutFile(ctx context.Context, path, content, message, sha string) error {
	opts := &github.RepositoryContentFileOptions{
		Message: github.String(message),
		Content: []byte(content),
	}
	if sha == "" {
		_, _, err := s.client.Repositories.CreateFile(ctx, s.owner, s.repo, path, opts)
		return err
	}
	opts.SHA = github.String(sha)
	_, _, err := s.client.Repositories.UpdateFile(ctx, s.owner, s.repo, path, opts)
	return err
}

func (s *githubStore) DeleteFile(ctx context.Context, path, message, sha string) error {
	opts := &github.RepositoryContentFileOptions{
		Message: github.String(message),
		SHA:     github.String(sha),
	}
	_, _, err := s.client.Repositories.DeleteFile(ctx, s.owner, s.repo, path, opts)
	return err
}
