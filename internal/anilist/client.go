package anilist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/FelipePatitucci/cursor-quiz/internal/cache"
	"github.com/FelipePatitucci/cursor-quiz/internal/config"
	"github.com/FelipePatitucci/cursor-quiz/internal/constants"
	"github.com/FelipePatitucci/cursor-quiz/internal/dedupe"
	"github.com/FelipePatitucci/cursor-quiz/internal/logging"
	"github.com/FelipePatitucci/cursor-quiz/internal/quiz"
)

// ErrUpstreamUnavailable reports that every retry attempt against AniList
// failed with a transient error (5xx, network failure or timeout).
var ErrUpstreamUnavailable = errors.New("anilist unavailable after exhausting retries")

// ClientError is a terminal 4xx response from AniList. It is never
// retried and is surfaced to the caller as-is.
type ClientError struct {
	StatusCode int
	Status     string
}

func (e *ClientError) Error() string {
	return fmt.Sprintf("anilist rejected the request: %s", e.Status)
}

// Client issues GraphQL queries against AniList with bounded retry and
// linear backoff, paginates multi-page responses into one aggregated
// result and keeps per-key results in the file caches. Concurrent fetches
// for the same key are collapsed via singleflight.
type Client struct {
	url        string
	httpClient *http.Client
	maxRetries int
	baseWait   time.Duration
	chunkSize  int

	users      *cache.Store
	characters *cache.Store
}

// NewClient builds a client from the AniList section of the runtime
// configuration. users and characters are the per-concern cache stores.
func NewClient(cfg config.AniListConfig, users, characters *cache.Store) *Client {
	return &Client{
		url:        cfg.URL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		maxRetries: cfg.MaxRetries,
		baseWait:   cfg.BaseWait,
		chunkSize:  cfg.ChunkSize,
		users:      users,
		characters: characters,
	}
}

// post runs one GraphQL query with the retry policy: up to maxRetries
// attempts, 4xx terminal, 5xx/network retried after baseWait × attempt.
func (c *Client) post(ctx context.Context, query string, variables map[string]any, out any) error {
	body, err := json.Marshal(gqlRequest{Query: query, Variables: variables})
	if err != nil {
		return err
	}

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		if attempt > 1 {
			wait := c.baseWait * time.Duration(attempt-1)
			logging.Warn("retrying anilist request", lastErr, logging.Fields{constants.LogFieldAttempt: attempt, "wait": wait.String()})
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set(constants.HeaderContentType, constants.ContentTypeJSON)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = err
			continue
		}

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			err = json.NewDecoder(resp.Body).Decode(out)
			resp.Body.Close()
			if err != nil {
				return fmt.Errorf("failed to decode anilist response: %w", err)
			}
			return nil
		case resp.StatusCode >= 400 && resp.StatusCode < 500:
			resp.Body.Close()
			return &ClientError{StatusCode: resp.StatusCode, Status: resp.Status}
		default:
			resp.Body.Close()
			lastErr = fmt.Errorf("anilist returned %s", resp.Status)
		}
	}
	return fmt.Errorf("%w: %v", ErrUpstreamUnavailable, lastErr)
}

// FetchUserProfile resolves a username to the user's AniList metadata.
func (c *Client) FetchUserProfile(ctx context.Context, username string) (UserProfile, error) {
	var res userInfoResponse
	if err := c.post(ctx, queryUserInfo, map[string]any{"userName": username}, &res); err != nil {
		return UserProfile{}, err
	}
	u := res.Data.User
	return UserProfile{ID: u.ID, Name: u.Name, Avatar: u.Avatar.Large}, nil
}

// fetchBudget caps one detached catalog fetch across all of its retries,
// pages and chunks.
const fetchBudget = 2 * time.Minute

// FetchUserAnimeList returns the user's anime list bucketed by status.
// The numeric user id is resolved first (it keys the cache); on a miss
// the list is fetched chunk by chunk and the merged result cached.
//
// The fetch runs detached from the request context so piggybacked
// callers sharing the singleflight key are not failed by the first
// caller's cancellation; each caller still honors its own context.
func (c *Client) FetchUserAnimeList(ctx context.Context, username string) (*AnimeList, error) {
	ch := dedupe.CatalogGroup.DoChan("user:"+username, func() (interface{}, error) {
		fetchCtx, cancel := context.WithTimeout(context.Background(), fetchBudget)
		defer cancel()
		return c.fetchUserAnimeList(fetchCtx, username)
	})
	select {
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		return r.Val.(*AnimeList), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *Client) fetchUserAnimeList(ctx context.Context, username string) (*AnimeList, error) {
	profile, err := c.FetchUserProfile(ctx, username)
	if err != nil {
		return nil, err
	}

	key := strconv.Itoa(profile.ID)
	if payload, ok := c.users.Get(key); ok {
		var cached AnimeList
		if err := json.Unmarshal(payload, &cached); err != nil {
			logging.Warn("ignoring undecodable cached anime list", err, logging.Fields{constants.LogFieldKey: key})
		} else {
			logging.Info("anime list served from cache", logging.Fields{constants.LogFieldUserName: username})
			return &cached, nil
		}
	}

	list := &AnimeList{User: profile, Entries: make(map[string][]AnimeEntry)}
	for chunk := 1; ; chunk++ {
		var res mediaListResponse
		vars := map[string]any{"userName": username, "chunk": chunk, "perChunk": c.chunkSize}
		if err := c.post(ctx, queryAnimesFromUser, vars, &res); err != nil {
			return nil, err
		}

		for _, l := range res.Data.MediaListCollection.Lists {
			status := quiz.Normalize(l.Status)
			if _, seen := list.Entries[status]; !seen {
				list.Statuses = append(list.Statuses, status)
			}
			for _, e := range l.Entries {
				list.Entries[status] = append(list.Entries[status], AnimeEntry{
					ID:         e.Media.ID,
					Title:      e.Media.Title,
					Episodes:   e.Media.Episodes,
					Score:      e.Score,
					Progress:   e.Progress,
					CoverImage: e.Media.CoverImage.Large,
				})
			}
		}
		if !res.Data.MediaListCollection.HasNextChunk {
			break
		}
	}

	if payload, err := json.Marshal(list); err == nil {
		if err := c.users.Put(key, payload); err != nil {
			logging.Warn("failed to cache anime list", err, logging.Fields{constants.LogFieldKey: key})
		}
	}
	return list, nil
}

// FetchCharacters returns the anime's characters in the source order
// (descending favourites), accumulating every page into one list.
func (c *Client) FetchCharacters(ctx context.Context, animeID int) ([]quiz.CharacterRecord, error) {
	key := strconv.Itoa(animeID)
	ch := dedupe.CatalogGroup.DoChan("anime:"+key, func() (interface{}, error) {
		fetchCtx, cancel := context.WithTimeout(context.Background(), fetchBudget)
		defer cancel()
		return c.fetchCharacters(fetchCtx, animeID, key)
	})
	select {
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		return r.Val.([]quiz.CharacterRecord), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *Client) fetchCharacters(ctx context.Context, animeID int, key string) ([]quiz.CharacterRecord, error) {
	if payload, ok := c.characters.Get(key); ok {
		var cached []quiz.CharacterRecord
		if err := json.Unmarshal(payload, &cached); err != nil {
			logging.Warn("ignoring undecodable cached characters", err, logging.Fields{constants.LogFieldKey: key})
		} else {
			logging.Info("characters served from cache", logging.Fields{constants.LogFieldAnimeID: animeID})
			return cached, nil
		}
	}

	var records []quiz.CharacterRecord
	for page := 1; ; page++ {
		var res charactersResponse
		vars := map[string]any{"animeId": animeID, "page": page}
		if err := c.post(ctx, queryCharactersFromAnime, vars, &res); err != nil {
			return nil, err
		}

		for _, edge := range res.Data.Media.Characters.Edges {
			n := edge.Node
			records = append(records, quiz.CharacterRecord{
				ID: n.ID,
				Name: quiz.CharacterName{
					First:       n.Name.First,
					Last:        n.Name.Last,
					Native:      n.Name.Native,
					Alternative: n.Name.Alternative,
				},
				Image:      n.Image.Large,
				Gender:     n.Gender,
				Favourites: n.Favourites,
				Role:       quiz.Role(edge.Role),
			})
		}
		if !res.Data.Media.Characters.PageInfo.HasNextPage {
			break
		}
	}

	if payload, err := json.Marshal(records); err == nil {
		if err := c.characters.Put(key, payload); err != nil {
			logging.Warn("failed to cache characters", err, logging.Fields{constants.LogFieldKey: key})
		}
	}
	return records, nil
}
