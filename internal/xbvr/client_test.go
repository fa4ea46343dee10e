package xbvr_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"xbvrkit/internal/config"
	"xbvrkit/internal/services"
	"xbvrkit/internal/xbvr"
)

func newClient(t *testing.T, handler http.HandlerFunc) *xbvr.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := xbvr.New(server.URL + "/")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return client
}

func decodeBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		t.Errorf("read body: %v", err)
		return nil
	}
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Errorf("decode body %q: %v", raw, err)
	}
	return body
}

func TestNewRequiresBaseURL(t *testing.T) {
	if _, err := xbvr.New("  "); err == nil {
		t.Fatal("expected error for empty base url")
	}
	client, err := xbvr.New("http://host:9999/")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if client.BaseURL() != "http://host:9999" {
		t.Fatalf("BaseURL = %q", client.BaseURL())
	}
}

func TestNewFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Server.URL = "http://example.test:9999"
	cfg.Server.RequestsPerSecond = 5
	client, err := xbvr.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	if client.BaseURL() != "http://example.test:9999" {
		t.Fatalf("BaseURL = %q", client.BaseURL())
	}
	if _, err := xbvr.NewFromConfig(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
}

func TestListUnmatchedFiles(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/files/list" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		body := decodeBody(t, r)
		if body["state"] != "unmatched" || body["sort"] != "created_time_desc" || body["filename"] != "" {
			t.Errorf("unexpected body: %v", body)
		}
		if _, ok := body["resolutions"].([]any); !ok {
			t.Errorf("resolutions must be an empty list, got %v", body["resolutions"])
		}
		_, _ = w.Write([]byte(`[{"id":7,"filename":"ABCD-123.mp4","path":"/media"},{"id":8,"filename":"x.funscript"}]`))
	})

	files, err := client.ListUnmatchedFiles(context.Background())
	if err != nil {
		t.Fatalf("ListUnmatchedFiles returned error: %v", err)
	}
	if len(files) != 2 || files[0].ID != 7 || files[0].Filename != "ABCD-123.mp4" || files[1].ID != 8 {
		t.Fatalf("unexpected files: %#v", files)
	}
}

func TestListUnmatchedFilesRejectsInvalidRecords(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":0,"filename":""}]`))
	})
	_, err := client.ListUnmatchedFiles(context.Background())
	if !errors.Is(err, xbvr.ErrInvalidResponse) || !errors.Is(err, services.ErrRemoteCall) {
		t.Fatalf("expected invalid response remote failure, got %v", err)
	}
}

func TestNon200IsRemoteCallFailure(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("  boom  "))
	})
	err := client.MatchFile(context.Background(), 1, "abcd-123")
	if !errors.Is(err, services.ErrRemoteCall) {
		t.Fatalf("expected ErrRemoteCall, got %v", err)
	}
	var statusErr *xbvr.StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected *StatusError, got %T", err)
	}
	if statusErr.StatusCode != http.StatusInternalServerError || statusErr.Body != "boom" {
		t.Fatalf("unexpected status error: %+v", statusErr)
	}
}

func TestSearchScenesZeroResults(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/scene/search" || r.URL.Query().Get("q") != "some file" {
			t.Errorf("unexpected request %s?%s", r.URL.Path, r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"results":0,"scenes":[{"id":1,"scene_id":"ignored"}]}`))
	})
	scenes, err := client.SearchScenes(context.Background(), " some file ")
	if err != nil {
		t.Fatalf("SearchScenes returned error: %v", err)
	}
	if len(scenes) != 0 {
		t.Fatalf("expected no scenes, got %v", scenes)
	}
}

func TestSearchScenesEmptyQuery(t *testing.T) {
	client, err := xbvr.New("http://example.test")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if _, err := client.SearchScenes(context.Background(), " "); err == nil {
		t.Fatal("expected error for empty query")
	}
}

func TestSearchScenesInvalidJSON(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>oops`))
	})
	_, err := client.SearchScenes(context.Background(), "abc")
	if !errors.Is(err, xbvr.ErrInvalidResponse) {
		t.Fatalf("expected ErrInvalidResponse, got %v", err)
	}
}

func TestScenesForIDUsesExactQuery(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != `+id:"ABCD00123"` {
			t.Errorf("q = %q", got)
		}
		_, _ = w.Write([]byte(`{"results":1,"scenes":[{"id":3,"scene_id":"ABCD-123","title":"T","filenames_arr":"[\"a.mp4\"]"}]}`))
	})
	scenes, err := client.ScenesForID(context.Background(), "ABCD00123")
	if err != nil {
		t.Fatalf("ScenesForID returned error: %v", err)
	}
	if len(scenes) != 1 || scenes[0].SceneID != "ABCD-123" {
		t.Fatalf("unexpected scenes: %#v", scenes)
	}
	names, err := scenes[0].KnownFilenames()
	if err != nil || len(names) != 1 || names[0] != "a.mp4" {
		t.Fatalf("KnownFilenames = %v, %v", names, err)
	}
}

func TestWriteEndpoints(t *testing.T) {
	calls := map[string]map[string]any{}
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		calls[r.URL.Path] = decodeBody(t, r)
		_, _ = w.Write([]byte(`{}`))
	})
	ctx := context.Background()
	if err := client.MatchFile(ctx, 12, "slr-99"); err != nil {
		t.Fatalf("MatchFile: %v", err)
	}
	if err := client.ScrapeJAV(ctx, "r18d", "ABCD00123"); err != nil {
		t.Fatalf("ScrapeJAV: %v", err)
	}
	if err := client.ScrapeSingle(ctx, "slr-single_scene", "https://www.sexlikereal.com/42"); err != nil {
		t.Fatalf("ScrapeSingle: %v", err)
	}
	if err := client.DeleteScene(ctx, 5); err != nil {
		t.Fatalf("DeleteScene: %v", err)
	}

	if body := calls["/api/files/match"]; body["file_id"] != float64(12) || body["scene_id"] != "slr-99" {
		t.Fatalf("match body = %v", body)
	}
	if body := calls["/api/task/scrape-javr"]; body["q"] != "ABCD00123" || body["s"] != "r18d" {
		t.Fatalf("scrape body = %v", body)
	}
	single := calls["/api/task/singlescrape"]
	if single["site"] != "slr-single_scene" || single["sceneurl"] != "https://www.sexlikereal.com/42" {
		t.Fatalf("single scrape body = %v", single)
	}
	if info, ok := single["additional_info"].([]any); !ok || len(info) != 0 {
		t.Fatalf("additional_info = %v", single["additional_info"])
	}
	if body := calls["/api/scene/delete"]; body["scene_id"] != float64(5) {
		t.Fatalf("delete body = %v", body)
	}
}

func TestWriteEndpointsValidateArguments(t *testing.T) {
	client, err := xbvr.New("http://example.test")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	ctx := context.Background()
	if err := client.MatchFile(ctx, 0, "x"); err == nil {
		t.Fatal("expected error for zero file id")
	}
	if err := client.ScrapeJAV(ctx, "", "x"); err == nil {
		t.Fatal("expected error for empty provider")
	}
	if err := client.DeleteScene(ctx, -1); err == nil {
		t.Fatal("expected error for negative scene id")
	}
	if _, err := client.AlternateSources(ctx, 0); err == nil {
		t.Fatal("expected error for zero scene id")
	}
}

func TestListScenesSendsFilter(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/scene/list" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		body := decodeBody(t, r)
		sites, _ := body["sites"].([]any)
		attrs, _ := body["attributes"].([]any)
		if len(sites) != 1 || sites[0] != "BaDoinkVR" {
			t.Errorf("sites = %v", body["sites"])
		}
		if len(attrs) != 1 || attrs[0] != "Available from Alternate Sites" {
			t.Errorf("attributes = %v", body["attributes"])
		}
		if body["limit"] != float64(-1) || body["dlState"] != "any" || body["sort"] != "release_desc" {
			t.Errorf("unexpected body: %v", body)
		}
		_, _ = w.Write([]byte(`{"results":2,"scenes":[{"id":1,"scene_id":"badoinkvr-1","title":"One"},{"id":2,"scene_id":"badoinkvr-2","title":"Two"}]}`))
	})
	scenes, err := client.ListScenes(context.Background(), xbvr.SceneFilter{
		Sites:      []string{"BaDoinkVR"},
		Attributes: []string{"Available from Alternate Sites"},
	})
	if err != nil {
		t.Fatalf("ListScenes returned error: %v", err)
	}
	if len(scenes) != 2 || scenes[1].Title != "Two" {
		t.Fatalf("unexpected scenes: %#v", scenes)
	}
}

func TestListScenesOmitsAttributesWhenUnset(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		body := decodeBody(t, r)
		if _, ok := body["attributes"]; ok {
			t.Errorf("attributes should be omitted: %v", body)
		}
		if sites, ok := body["sites"].([]any); !ok || len(sites) != 0 {
			t.Errorf("sites should be an empty list: %v", body["sites"])
		}
		_, _ = w.Write([]byte(`{"results":0,"scenes":[]}`))
	})
	if _, err := client.ListScenes(context.Background(), xbvr.SceneFilter{}); err != nil {
		t.Fatalf("ListScenes returned error: %v", err)
	}
}

func TestAlternateSources(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/scene/alternate_source/44" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		_, _ = w.Write([]byte(`[{"external_id":"slr-100","external_source":"alternate scene slr"}]`))
	})
	sources, err := client.AlternateSources(context.Background(), 44)
	if err != nil {
		t.Fatalf("AlternateSources returned error: %v", err)
	}
	if len(sources) != 1 || sources[0].ExternalID != "slr-100" {
		t.Fatalf("unexpected sources: %#v", sources)
	}
}

func TestRateLimitHonorsContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(server.Close)
	client, err := xbvr.New(server.URL, xbvr.WithRateLimit(0.001))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	ctx := context.Background()
	if err := client.DeleteScene(ctx, 1); err != nil {
		t.Fatalf("first request should use the burst: %v", err)
	}
	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if err := client.DeleteScene(cancelled, 1); !errors.Is(err, services.ErrRemoteCall) {
		t.Fatalf("expected throttled request to fail with ErrRemoteCall, got %v", err)
	}
}
