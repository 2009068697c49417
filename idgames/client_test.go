package idgames

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"doomdeck/config"
)

func testClient(t *testing.T, apiURL string) *Client {
	t.Helper()
	client, err := NewClient(config.Config{
		IdgamesAPIURL:      apiURL,
		IdgamesMirrorURL:   apiURL + "/idgames/",
		UserAgent:          "doomdeck-test",
		HTTPTimeoutSeconds: 5,
	})
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}
	return client
}

func TestSearchMultipleResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("action"); got != "search" {
			t.Errorf("action = %q, want search", got)
		}
		if got := r.URL.Query().Get("type"); got != "filename" {
			t.Errorf("type = %q, want filename", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"content":{"file":[
			{"id":12815,"title":"Alien Vendetta","author":"Various","filename":"av.zip","size":3730225,"dir":"levels/doom2/megawads/","url":"https://www.doomworld.com/idgames/levels/doom2/megawads/av"},
			{"id":1,"title":"Another","author":"Someone","filename":"av2.zip","size":100,"dir":"levels/doom2/","url":"https://example/av2"}
		]}}`))
	}))
	defer server.Close()

	client := testClient(t, server.URL)
	candidates, err := client.Search("av", "filename", "date")
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if len(candidates) != 2 {
		t.Fatalf("got %d candidates, want 2", len(candidates))
	}
	if candidates[0].Title != "Alien Vendetta" || candidates[0].ID != 12815 {
		t.Errorf("first candidate = %+v", candidates[0])
	}
}

func TestSearchSingleResultObject(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"content":{"file":{"id":7,"title":"Lone Map","author":"Solo","filename":"lone.zip","size":99,"dir":"levels/doom2/","url":"https://example/lone"}}}`))
	}))
	defer server.Close()

	client := testClient(t, server.URL)
	candidates, err := client.Search("lone", "filename", "date")
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if len(candidates) != 1 || candidates[0].Title != "Lone Map" {
		t.Errorf("candidates = %+v, want single Lone Map", candidates)
	}
}

func TestSearchAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"error":{"type":"error","message":"No files returned."}}`))
	}))
	defer server.Close()

	client := testClient(t, server.URL)
	if _, err := client.Search("nothing", "filename", "date"); err == nil {
		t.Error("Expected error from API error payload")
	}
}

func TestDownloadURL(t *testing.T) {
	client := testClient(t, "http://localhost")
	client.MirrorURL = "https://mirror.example/idgames/"

	got := client.DownloadURL(Candidate{Dir: "levels/doom2/megawads/", Filename: "av.zip"})
	want := "https://mirror.example/idgames/levels/doom2/megawads/av.zip"
	if got != want {
		t.Errorf("DownloadURL() = %q, want %q", got, want)
	}
}

func TestCheckReachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/gone.zip" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := testClient(t, server.URL)

	if err := client.CheckReachable(server.URL + "/here.zip"); err != nil {
		t.Errorf("CheckReachable(200) error: %v", err)
	}
	if err := client.CheckReachable(server.URL + "/gone.zip"); err == nil {
		t.Error("CheckReachable(404) should fail")
	}
}

func TestDownloadFile(t *testing.T) {
	payload := []byte("PWAD pretend zip bytes")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(payload)
	}))
	defer server.Close()

	client := testClient(t, server.URL)
	dest := filepath.Join(t.TempDir(), "cache", "av.zip")

	if err := client.DownloadFile(zap.NewNop().Sugar(), dest, server.URL+"/av.zip"); err != nil {
		t.Fatalf("DownloadFile() error: %v", err)
	}

	got, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("reading downloaded file: %v", err)
	}
	if string(got) != string(payload) {
		t.Errorf("downloaded bytes = %q, want %q", got, payload)
	}
}
