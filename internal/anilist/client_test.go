package anilist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/FelipePatitucci/cursor-quiz/internal/cache"
	"github.com/FelipePatitucci/cursor-quiz/internal/config"
)

func testClient(t *testing.T, url string) *Client {
	t.Helper()
	cfg := config.AniListConfig{
		URL:        url,
		MaxRetries: 3,
		Timeout:    2 * time.Second,
		BaseWait:   time.Millisecond,
		ChunkSize:  200,
	}
	return NewClient(cfg, cache.NewStore(t.TempDir(), 7), cache.NewStore(t.TempDir(), 7))
}

func charactersPage(names []string, hasNext bool) string {
	edges := ""
	for i, n := range names {
		if i > 0 {
			edges += ","
		}
		edges += fmt.Sprintf(`{"node":{"id":%d,"name":{"first":%q,"last":"","native":"","alternative":[]},"image":{"large":"img"},"gender":"Male","favourites":%d},"role":"MAIN"}`, i+1, n, 100-i)
	}
	return fmt.Sprintf(`{"data":{"Media":{"characters":{"edges":[%s],"pageInfo":{"hasNextPage":%t}}}}}`, edges, hasNext)
}

func TestPost_RetriesTransientFailures(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if hits <= 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, charactersPage([]string{"Hachiman"}, false))
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	records, err := c.FetchCharacters(context.Background(), 101)
	if err != nil {
		t.Fatalf("expected success after two 500s, got %v", err)
	}
	if hits != 3 {
		t.Fatalf("expected 3 attempts, got %d", hits)
	}
	if len(records) != 1 || records[0].Name.First != "Hachiman" {
		t.Fatalf("unexpected records: %+v", records)
	}
}

func TestPost_ExhaustedRetriesIsUpstreamUnavailable(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	_, err := c.FetchCharacters(context.Background(), 102)
	if !errors.Is(err, ErrUpstreamUnavailable) {
		t.Fatalf("expected ErrUpstreamUnavailable, got %v", err)
	}
	if hits != 3 {
		t.Fatalf("expected exactly 3 attempts, got %d", hits)
	}
}

func TestPost_ClientErrorIsTerminal(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	_, err := c.FetchCharacters(context.Background(), 103)
	var ce *ClientError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *ClientError, got %v", err)
	}
	if ce.StatusCode != http.StatusNotFound {
		t.Fatalf("unexpected status: %d", ce.StatusCode)
	}
	if hits != 1 {
		t.Fatalf("4xx must not be retried, got %d attempts", hits)
	}
}

func TestFetchCharacters_PaginatesAndPreservesOrder(t *testing.T) {
	var page int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page++
		if page == 1 {
			fmt.Fprint(w, charactersPage([]string{"A", "B"}, true))
			return
		}
		fmt.Fprint(w, charactersPage([]string{"C"}, false))
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	records, err := c.FetchCharacters(context.Background(), 104)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 characters across pages, got %d", len(records))
	}
	for i, want := range []string{"A", "B", "C"} {
		if records[i].Name.First != want {
			t.Fatalf("order not preserved at %d: %s", i, records[i].Name.First)
		}
	}
}

func TestFetchCharacters_UsesCache(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		fmt.Fprint(w, charactersPage([]string{"Cached"}, false))
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	if _, err := c.FetchCharacters(context.Background(), 105); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := c.FetchCharacters(context.Background(), 105); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hits != 1 {
		t.Fatalf("second fetch should be served from cache, got %d requests", hits)
	}
}

func TestFetchCharacters_SharedFetchSurvivesCallerCancel(t *testing.T) {
	release := make(chan struct{})
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		<-release
		fmt.Fprint(w, charactersPage([]string{"Shared"}, false))
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	ctx1, cancel := context.WithCancel(context.Background())

	first := make(chan error, 1)
	go func() {
		_, err := c.FetchCharacters(ctx1, 106)
		first <- err
	}()

	// Wait for the upstream request to be in flight before piggybacking.
	deadline := time.Now().Add(2 * time.Second)
	for atomic.LoadInt32(&hits) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("upstream request never started")
		}
		time.Sleep(5 * time.Millisecond)
	}

	second := make(chan error, 1)
	go func() {
		_, err := c.FetchCharacters(context.Background(), 106)
		second <- err
	}()
	time.Sleep(50 * time.Millisecond)

	cancel()
	if err := <-first; !errors.Is(err, context.Canceled) {
		t.Fatalf("canceled caller should observe its own cancellation, got %v", err)
	}

	close(release)
	if err := <-second; err != nil {
		t.Fatalf("piggybacked caller must not inherit the cancellation, got %v", err)
	}
	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Fatalf("expected one shared upstream fetch, got %d", got)
	}
}

func TestFetchUserAnimeList_MergesChunksByStatus(t *testing.T) {
	var queries int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Variables map[string]any `json:"variables"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		queries++
		if queries == 1 {
			// user-info query
			fmt.Fprint(w, `{"data":{"User":{"id":777,"name":"felipe","avatar":{"large":"av"}}}}`)
			return
		}
		chunk := int(req.Variables["chunk"].(float64))
		if chunk == 1 {
			fmt.Fprint(w, `{"data":{"MediaListCollection":{"lists":[
				{"status":"COMPLETED","entries":[{"score":9.5,"progress":12,"media":{"id":1,"title":{"romaji":"Hyouka"},"episodes":22,"coverImage":{"large":"c1"}}}]},
				{"status":"CURRENT","entries":[{"score":8,"progress":3,"media":{"id":2,"title":{"romaji":"Oregairu"},"episodes":13,"coverImage":{"large":"c2"}}}]}
			],"hasNextChunk":true}}}`)
			return
		}
		fmt.Fprint(w, `{"data":{"MediaListCollection":{"lists":[
			{"status":"COMPLETED","entries":[{"score":7,"progress":24,"media":{"id":3,"title":{"romaji":"Steins;Gate"},"episodes":24,"coverImage":{"large":"c3"}}}]}
		],"hasNextChunk":false}}}`)
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	list, err := c.FetchUserAnimeList(context.Background(), "felipe")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if list.User.ID != 777 {
		t.Fatalf("expected resolved user id 777, got %d", list.User.ID)
	}
	if len(list.Statuses) != 2 {
		t.Fatalf("expected 2 status buckets, got %v", list.Statuses)
	}
	if len(list.Entries["completed"]) != 2 {
		t.Fatalf("expected completed entries merged across chunks, got %d", len(list.Entries["completed"]))
	}
	if len(list.Entries["current"]) != 1 {
		t.Fatalf("expected 1 current entry, got %d", len(list.Entries["current"]))
	}
}
