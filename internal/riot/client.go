package riot

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/sirupsen/logrus"

	"junglecoach/internal/cache"
)

const (
	// Per-endpoint cache TTLs. Completed matches are immutable so they can
	// live long; the match list changes as new games finish.
	ttlAccount   = time.Hour
	ttlSummoner  = time.Hour
	ttlMatch     = 30 * time.Minute
	ttlMatchList = 5 * time.Minute
	ttlRank      = 10 * time.Minute

	// Batch fetch: individual calls are already paced, the group pause is a
	// defensive second throttle on top.
	matchBatchSize  = 5
	matchBatchPause = 100 * time.Millisecond

	requestTimeout = 10 * time.Second
)

// Client is a rate-limited, cache-fronted Riot API client. Every lookup
// consults the cache first; misses are paced through the spread limiter
// before touching the network.
type Client struct {
	apiKey       string
	platformHost string // e.g. https://eun1.api.riotgames.com
	regionalHost string // e.g. https://europe.api.riotgames.com
	httpClient   *http.Client
	store        cache.Store
	pacer        *pacer
	log          *logrus.Logger
}

// NewClient creates a Riot API client for the given platform. A missing API
// key is a configuration error caught here, before any call is attempted.
func NewClient(apiKey, platform string, store cache.Store, log *logrus.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("riot: API key not configured")
	}
	return &Client{
		apiKey:       apiKey,
		platformHost: fmt.Sprintf("https://%s.api.riotgames.com", platform),
		regionalHost: regionalHostFor(platform),
		httpClient:   &http.Client{Timeout: requestTimeout},
		store:        store,
		pacer:        newPacer(),
		log:          log,
	}, nil
}

// regionalHostFor maps a platform routing value to the regional host that
// serves account and match-v5 data.
func regionalHostFor(platform string) string {
	region := "europe"
	switch platform {
	case "na1", "br1", "la1", "la2":
		region = "americas"
	case "kr", "jp1":
		region = "asia"
	}
	return fmt.Sprintf("https://%s.api.riotgames.com", region)
}

// get performs one cached, paced lookup. The returned bool is false when the
// upstream answered 404; absence is not an error.
func (c *Client) get(ctx context.Context, rawURL, cacheKey string, ttl time.Duration, out any) (bool, error) {
	if data := c.store.Get(ctx, cacheKey); data != nil {
		if err := json.Unmarshal(data, out); err == nil {
			c.log.WithField("key", cacheKey).Debug("cache hit")
			return true, nil
		}
		// Unreadable entry: drop it and fall through to the network.
		c.store.Delete(ctx, cacheKey)
	}

	if err := c.pacer.wait(ctx); err != nil {
		return false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("X-Riot-Token", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return false, nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return false, fmt.Errorf("%w (retry-after %s)", ErrRateLimited, resp.Header.Get("Retry-After"))
	case resp.StatusCode >= 500:
		return false, fmt.Errorf("%w (status %d)", ErrServerError, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return false, fmt.Errorf("riot: unexpected status %d for %s", resp.StatusCode, rawURL)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, fmt.Errorf("riot: read response: %w", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return false, fmt.Errorf("riot: decode response: %w", err)
	}

	c.store.Set(ctx, cacheKey, body, ttl)
	return true, nil
}

// AccountByRiotID resolves a two-part Riot ID (gameName#tagLine) to an
// account. Returns nil without error when the account does not exist.
func (c *Client) AccountByRiotID(ctx context.Context, gameName, tagLine string) (*Account, error) {
	u := fmt.Sprintf("%s/riot/account/v1/accounts/by-riot-id/%s/%s",
		c.regionalHost, url.PathEscape(gameName), url.PathEscape(tagLine))

	var account Account
	found, err := c.get(ctx, u, cache.Key("account", gameName+"#"+tagLine), ttlAccount, &account)
	if err != nil || !found {
		return nil, err
	}
	return &account, nil
}

// SummonerByPUUID fetches summoner data for a PUUID. Returns nil without
// error when the summoner does not exist.
func (c *Client) SummonerByPUUID(ctx context.Context, puuid string) (*Summoner, error) {
	u := fmt.Sprintf("%s/lol/summoner/v4/summoners/by-puuid/%s", c.platformHost, url.PathEscape(puuid))

	var summoner Summoner
	found, err := c.get(ctx, u, cache.Key("summoner", puuid), ttlSummoner, &summoner)
	if err != nil || !found {
		return nil, err
	}
	return &summoner, nil
}

// MatchIDsOptions filters a match-ID list lookup. Zero values are omitted
// from the query.
type MatchIDsOptions struct {
	Queue int
	Type  string
	Start int
	Count int
}

// MatchIDs fetches match IDs for a player, most recent first.
func (c *Client) MatchIDs(ctx context.Context, puuid string, opts MatchIDsOptions) ([]string, error) {
	params := url.Values{}
	if opts.Queue > 0 {
		params.Set("queue", strconv.Itoa(opts.Queue))
	}
	if opts.Type != "" {
		params.Set("type", opts.Type)
	}
	if opts.Start > 0 {
		params.Set("start", strconv.Itoa(opts.Start))
	}
	if opts.Count > 0 {
		params.Set("count", strconv.Itoa(opts.Count))
	}

	u := fmt.Sprintf("%s/lol/match/v5/matches/by-puuid/%s/ids", c.regionalHost, url.PathEscape(puuid))
	query := params.Encode()
	if query != "" {
		u += "?" + query
	}

	var ids []string
	found, err := c.get(ctx, u, cache.Key("matchlist", puuid, query), ttlMatchList, &ids)
	if err != nil || !found {
		return nil, err
	}
	return ids, nil
}

// Match fetches match details by ID. Returns nil without error when the
// match does not exist.
func (c *Client) Match(ctx context.Context, matchID string) (*Match, error) {
	u := fmt.Sprintf("%s/lol/match/v5/matches/%s", c.regionalHost, url.PathEscape(matchID))

	var match Match
	found, err := c.get(ctx, u, cache.Key("match", matchID), ttlMatch, &match)
	if err != nil || !found {
		return nil, err
	}
	return &match, nil
}

// Matches fetches match details for a set of IDs in fixed-size groups with a
// short pause between groups. Lookups within a group fan out concurrently;
// per-match failures are logged and skipped so one bad match never sinks the
// whole batch. The result keeps input order with failed lookups omitted.
func (c *Client) Matches(ctx context.Context, matchIDs []string) ([]*Match, error) {
	fetched := make([]*Match, len(matchIDs))

	for start := 0; start < len(matchIDs); start += matchBatchSize {
		end := start + matchBatchSize
		if end > len(matchIDs) {
			end = len(matchIDs)
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				match, err := c.Match(ctx, matchIDs[i])
				if err != nil {
					c.log.WithError(err).WithField("matchID", matchIDs[i]).Warn("match fetch failed, skipping")
					return
				}
				fetched[i] = match
			}(i)
		}
		wg.Wait()

		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if end < len(matchIDs) {
			c.pacer.sleep(matchBatchPause)
		}
	}

	matches := make([]*Match, 0, len(matchIDs))
	for _, m := range fetched {
		if m != nil {
			matches = append(matches, m)
		}
	}
	return matches, nil
}

// LeagueEntries fetches ranked entries for a PUUID.
func (c *Client) LeagueEntries(ctx context.Context, puuid string) ([]LeagueEntry, error) {
	u := fmt.Sprintf("%s/lol/league/v4/entries/by-puuid/%s", c.platformHost, url.PathEscape(puuid))

	var entries []LeagueEntry
	found, err := c.get(ctx, u, cache.Key("rank", puuid), ttlRank, &entries)
	if err != nil || !found {
		return nil, err
	}
	return entries, nil
}

// Health probes the platform status endpoint to verify key and connectivity.
func (c *Client) Health(ctx context.Context) error {
	u := fmt.Sprintf("%s/lol/status/v4/platform-data", c.platformHost)

	var status map[string]any
	found, err := c.get(ctx, u, cache.Key("status", "platform"), time.Minute, &status)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("riot: status endpoint not found")
	}
	return nil
}
