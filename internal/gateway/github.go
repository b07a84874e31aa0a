// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/go-github/v62/github"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"

	"github.com/naka-gawa/github-langs/internal/domain"
)

const perPage = 100

// Fetcher defines the behavior of a gateway for fetching information from GitHub.
type Fetcher interface {
	ListRepositories(ctx context.Context) ([]domain.Repository, error)
	FetchArchive(ctx context.Context, repo domain.Repository) ([]byte, error)
}

// Options selects the account and the listing backend.
type Options struct {
	// Account is listed through the public user endpoints when set;
	// otherwise the authenticated user's repositories are listed.
	Account    string
	UseGraphQL bool
	// BaseURL targets a GitHub Enterprise host, e.g. https://ghe.example.com/api/v3/.
	BaseURL string
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	opts          Options
	logger        *log.Logger
}

// repositoryNode is the part of a GraphQL repository object we need.
type repositoryNode struct {
	Name          string
	NameWithOwner string
	IsFork        bool
	Owner         struct {
		Login string
	}
}

type repositoryConnection struct {
	PageInfo struct {
		HasNextPage bool
		EndCursor   githubv4.String
	}
	Nodes []repositoryNode
}

// viewerRepositoriesQuery mirrors GET /user/repos with its default affiliations.
type viewerRepositoriesQuery struct {
	Viewer struct {
		Repositories repositoryConnection `graphql:"repositories(first: 100, after: $cursor, ownerAffiliations: [OWNER, COLLABORATOR, ORGANIZATION_MEMBER])"`
	}
}

// userRepositoriesQuery mirrors GET /users/{login}/repos.
type userRepositoriesQuery struct {
	User struct {
		Repositories repositoryConnection `graphql:"repositories(first: 100, after: $cursor, ownerAffiliations: [OWNER])"`
	} `graphql:"user(login: $login)"`
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
func NewGitHubGateway(token string, opts Options, logger *log.Logger) (Fetcher, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		},
	}

	restClient := github.NewClient(httpClient)
	graphqlClient := githubv4.NewClient(httpClient)
	if opts.BaseURL != "" {
		restClient, err = restClient.WithEnterpriseURLs(opts.BaseURL, opts.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to configure enterprise URL: %w", err)
		}
		graphqlURL, err := enterpriseGraphQLURL(opts.BaseURL)
		if err != nil {
			return nil, err
		}
		graphqlClient = githubv4.NewEnterpriseClient(graphqlURL, httpClient)
	}

	return &GitHubGateway{
		restClient:    restClient,
		graphqlClient: graphqlClient,
		opts:          opts,
		logger:        logger,
	}, nil
}

// enterpriseGraphQLURL derives https://host/api/graphql from https://host/api/v3/.
func enterpriseGraphQLURL(baseURL string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse enterprise URL: %w", err)
	}
	u.Path = strings.TrimSuffix(strings.TrimSuffix(u.Path, "/"), "/v3") + "/graphql"
	return u.String(), nil
}

// ListRepositories returns every repository of the configured account,
// following pagination until the last page.
func (g *GitHubGateway) ListRepositories(ctx context.Context) ([]domain.Repository, error) {
	if g.opts.UseGraphQL {
		return g.listRepositoriesGraphQL(ctx)
	}
	return g.listRepositoriesREST(ctx)
}

func (g *GitHubGateway) listRepositoriesREST(ctx context.Context) ([]domain.Repository, error) {
	g.logger.Debug("Fetching repository list using REST API...", "account", g.accountLabel())
	var repos []domain.Repository
	listOpts := github.ListOptions{PerPage: perPage}
	for {
		var (
			page []*github.Repository
			resp *github.Response
			err  error
		)
		if g.opts.Account != "" {
			page, resp, err = g.restClient.Repositories.ListByUser(ctx, g.opts.Account,
				&github.RepositoryListByUserOptions{ListOptions: listOpts})
		} else {
			page, resp, err = g.restClient.Repositories.ListByAuthenticatedUser(ctx,
				&github.RepositoryListByAuthenticatedUserOptions{ListOptions: listOpts})
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list repositories with REST API: %w", err)
		}
		for _, r := range page {
			repos = append(repos, domain.Repository{
				Owner:    r.GetOwner().GetLogin(),
				Name:     r.GetName(),
				FullName: r.GetFullName(),
				Fork:     r.GetFork(),
			})
		}
		if resp.NextPage == 0 {
			break
		}
		listOpts.Page = resp.NextPage
		g.logger.Debug("  Fetching next page of repositories...", "page", resp.NextPage)
	}
	g.logger.Debug("Completed fetching repository list.", "repositories", len(repos))
	return repos, nil
}

func (g *GitHubGateway) listRepositoriesGraphQL(ctx context.Context) ([]domain.Repository, error) {
	g.logger.Debug("Fetching repository list using GraphQL API...", "account", g.accountLabel())
	variables := map[string]interface{}{"cursor": (*githubv4.String)(nil)}
	if g.opts.Account != "" {
		variables["login"] = githubv4.String(g.opts.Account)
	}

	var repos []domain.Repository
	for {
		var conn repositoryConnection
		if g.opts.Account != "" {
			var q userRepositoriesQuery
			if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
				return nil, fmt.Errorf("failed to execute GraphQL query for repositories: %w", err)
			}
			conn = q.User.Repositories
		} else {
			var q viewerRepositoriesQuery
			if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
				return nil, fmt.Errorf("failed to execute GraphQL query for repositories: %w", err)
			}
			conn = q.Viewer.Repositories
		}

		for _, node := range conn.Nodes {
			repos = append(repos, domain.Repository{
				Owner:    node.Owner.Login,
				Name:     node.Name,
				FullName: node.NameWithOwner,
				Fork:     node.IsFork,
			})
		}
		if !conn.PageInfo.HasNextPage {
			break
		}
		variables["cursor"] = githubv4.NewString(conn.PageInfo.EndCursor)
		g.logger.Debug("  Fetching next page of repositories...")
	}
	g.logger.Debug("Completed fetching repository list.", "repositories", len(repos))
	return repos, nil
}

// FetchArchive downloads the zipball of the repository's default branch.
// The archive is read fully into memory.
func (g *GitHubGateway) FetchArchive(ctx context.Context, repo domain.Repository) ([]byte, error) {
	u := fmt.Sprintf("repos/%s/%s/zipball", url.PathEscape(repo.Owner), url.PathEscape(repo.Name))
	req, err := g.restClient.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build archive request: %w", err)
	}
	var buf bytes.Buffer
	if _, err := g.restClient.Do(ctx, req, &buf); err != nil {
		return nil, fmt.Errorf("failed to download archive of %s: %w", repo.FullName, err)
	}
	return buf.Bytes(), nil
}

func (g *GitHubGateway) accountLabel() string {
	if g.opts.Account == "" {
		return "authenticated user"
	}
	return g.opts.Account
}
