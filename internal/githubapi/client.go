// Package githubapi fetches commit metadata and raw patches from the GitHub
// REST API. It is the out-of-band source used to reconstruct commits that
// have been force-pushed away from every ref.
package githubapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"time"

	"github.com/enginetools/diffminer/internal/gitcmd"
)

// DefaultBaseURL is the public GitHub API endpoint.
const DefaultBaseURL = "https://api.github.com"

// ErrNoParents is returned when the API reports HTTP 422 for a commit,
// which happens for root commits. Reconstruction cannot replay a patch
// without a parent, so callers give up gracefully on this error.
var ErrNoParents = errors.New("commit has no parents")

// ErrRateLimited is returned once the retry budget for 403/429 responses is
// exhausted. With an unlimited budget (MaxAttempts == 0) it never surfaces.
var ErrRateLimited = errors.New("rate limited by the GitHub API")

// RetryPolicy controls the blocking backoff applied on rate-limit responses.
// The external rate-limit window is fixed, so the wait is a flat interval
// plus jitter rather than an exponential schedule.
type RetryPolicy struct {
	// MaxAttempts bounds the number of requests; 0 means retry indefinitely.
	MaxAttempts int
	Wait        time.Duration
	Jitter      time.Duration
}

// DefaultRetryPolicy waits ten minutes between attempts, forever.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 0, Wait: 10 * time.Minute, Jitter: 30 * time.Second}
}

func (p RetryPolicy) backoff() time.Duration {
	d := p.Wait
	if p.Jitter > 0 {
		d += time.Duration(rand.Int63n(int64(p.Jitter)))
	}
	return d
}

// CommitDetail is the subset of the commit endpoint's response that
// reconstruction needs, plus the raw patch text.
type CommitDetail struct {
	SHA      string
	Parents  []string
	Identity gitcmd.Identity
	Message  string
	Patch    string
}

// Client talks to a GitHub-style commit API. Not safe for concurrent use.
type Client struct {
	baseURL string
	token   string
	httpCli *http.Client
	retry   RetryPolicy

	// sleep is swappable in tests so retry waits don't block for real.
	sleep func(time.Duration)

	warnedStaleToken bool
}

// NewClient creates a client. The token is optional; without one, requests
// are unauthenticated and subject to the much smaller anonymous rate limit.
func NewClient(baseURL, token string, retry RetryPolicy) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpCli: &http.Client{Timeout: 60 * time.Second},
		retry:   retry,
		sleep:   time.Sleep,
	}
}

type commitResponse struct {
	SHA     string `json:"sha"`
	Parents []struct {
		SHA string `json:"sha"`
	} `json:"parents"`
	Commit struct {
		Author struct {
			Name  string `json:"name"`
			Email string `json:"email"`
			Date  string `json:"date"`
		} `json:"author"`
		Committer struct {
			Name  string `json:"name"`
			Email string `json:"email"`
			Date  string `json:"date"`
		} `json:"committer"`
		Message string `json:"message"`
	} `json:"commit"`
}

// Commit fetches metadata and the raw patch for a single commit hash.
//
// Status handling: 403/429 block and retry per the policy; 401 logs a
// credential-staleness warning once and then fails like any other non-200,
// which the caller treats as a per-commit failure, never a batch abort;
// 422 maps to ErrNoParents.
func (c *Client) Commit(ctx context.Context, owner, repo, sha string) (*CommitDetail, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/commits/%s", c.baseURL, owner, repo, sha)

	body, err := c.getWithRetry(ctx, url, "application/vnd.github.v3+json")
	if err != nil {
		return nil, err
	}

	var parsed commitResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parsing commit response: %w", err)
	}
	if len(parsed.Parents) == 0 {
		return nil, ErrNoParents
	}

	patch, err := c.getWithRetry(ctx, url, "application/vnd.github.v3.diff")
	if err != nil {
		return nil, fmt.Errorf("fetching patch: %w", err)
	}

	detail := &CommitDetail{
		SHA:     parsed.SHA,
		Message: parsed.Commit.Message,
		Patch:   string(patch),
		Identity: gitcmd.Identity{
			AuthorName:     parsed.Commit.Author.Name,
			AuthorEmail:    parsed.Commit.Author.Email,
			AuthorDate:     parsed.Commit.Author.Date,
			CommitterName:  parsed.Commit.Committer.Name,
			CommitterEmail: parsed.Commit.Committer.Email,
			CommitterDate:  parsed.Commit.Committer.Date,
		},
	}
	for _, p := range parsed.Parents {
		detail.Parents = append(detail.Parents, p.SHA)
	}
	return detail, nil
}

func (c *Client) getWithRetry(ctx context.Context, url, accept string) ([]byte, error) {
	attempts := 0
	for {
		attempts++
		status, body, err := c.get(ctx, url, accept)
		if err != nil {
			return nil, err
		}

		switch status {
		case http.StatusOK:
			return body, nil
		case http.StatusUnauthorized:
			if !c.warnedStaleToken {
				log.Printf("WARNING: got 401 from %s, the configured GitHub token is probably out of date", url)
				c.warnedStaleToken = true
			}
			return nil, fmt.Errorf("GitHub API error (status 401): %s", url)
		case http.StatusForbidden, http.StatusTooManyRequests:
			if c.retry.MaxAttempts > 0 && attempts >= c.retry.MaxAttempts {
				return nil, fmt.Errorf("%w after %d attempts: %s", ErrRateLimited, attempts, url)
			}
			wait := c.retry.backoff()
			log.Printf("got %d from %s, probably out of GitHub API calls; waiting %s before retrying", status, url, wait)
			c.sleep(wait)
		case http.StatusUnprocessableEntity:
			return nil, ErrNoParents
		default:
			return nil, fmt.Errorf("GitHub API error (status %d): %s", status, url)
		}
	}
}

func (c *Client) get(ctx context.Context, url, accept string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", accept)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpCli.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("reading response: %w", err)
	}
	return resp.StatusCode, body, nil
}
