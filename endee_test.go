package endee

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewClient_TokenRouting(t *testing.T) {
	c, err := NewClient("mykey:mysecret:us-east")
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	if want := "https://us-east.endee.io/api/v1"; c.baseURL != want {
		t.Errorf("baseURL = %q, want %q", c.baseURL, want)
	}
	if c.token != "mykey:mysecret" {
		t.Errorf("token = %q, want %q", c.token, "mykey:mysecret")
	}
}

func TestNewClient_PlainToken(t *testing.T) {
	c, err := NewClient("just-a-token")
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	if c.baseURL != DefaultBaseURL {
		t.Errorf("baseURL = %q, want %q", c.baseURL, DefaultBaseURL)
	}
	if c.token != "just-a-token" {
		t.Errorf("token = %q, want %q", c.token, "just-a-token")
	}
}

func TestNewClient_BaseURLOverridesToken(t *testing.T) {
	c, err := NewClient("k:s:host", WithBaseURL("http://localhost:9999/api/v1"))
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	if c.baseURL != "http://localhost:9999/api/v1" {
		t.Errorf("baseURL = %q", c.baseURL)
	}
}

func TestNewClient_InvalidEncryptionKey(t *testing.T) {
	_, err := NewClient("", WithEncryptionKey("tooshort"))
	if !errors.Is(err, ErrInvalidKey) {
		t.Errorf("expected ErrInvalidKey, got %v", err)
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := NewClient("test-token", append([]Option{WithBaseURL(srv.URL)}, opts...)...)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return c, srv
}

func TestCreateIndex_Payload(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]any
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	})

	err := c.CreateIndex(context.Background(), CreateIndexOptions{
		Name:      "songs",
		Dimension: 128,
	})
	if err != nil {
		t.Fatalf("CreateIndex failed: %v", err)
	}
	if gotPath != "/index/create" {
		t.Errorf("path = %q", gotPath)
	}
	if gotAuth != "test-token" {
		t.Errorf("authorization = %q", gotAuth)
	}
	if gotBody["index_name"] != "songs" || gotBody["dim"] != float64(128) {
		t.Errorf("unexpected body: %v", gotBody)
	}
	if gotBody["space_type"] != "cosine" || gotBody["precision"] != "int8d" {
		t.Errorf("defaults not applied: %v", gotBody)
	}
	if gotBody["M"] != float64(DefaultM) || gotBody["ef_con"] != float64(DefaultEFConstruction) {
		t.Errorf("graph defaults not applied: %v", gotBody)
	}
	if gotBody["checksum"] != float64(-1) {
		t.Errorf("expected checksum -1 without a key, got %v", gotBody["checksum"])
	}
	if _, ok := gotBody["sparse_dim"]; ok {
		t.Error("sparse_dim should be omitted for dense indexes")
	}
}

func TestCreateIndex_HybridAndKeyChecksum(t *testing.T) {
	key := strings.Repeat("0f", 32)
	var gotBody map[string]any
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}, WithEncryptionKey(key))

	err := c.CreateIndex(context.Background(), CreateIndexOptions{
		Name:            "hybrid_idx",
		Dimension:       64,
		SpaceType:       SpaceL2,
		SparseDimension: 500,
		Version:         2,
	})
	if err != nil {
		t.Fatalf("CreateIndex failed: %v", err)
	}
	if gotBody["sparse_dim"] != float64(500) {
		t.Errorf("sparse_dim = %v", gotBody["sparse_dim"])
	}
	if gotBody["version"] != float64(2) {
		t.Errorf("version = %v", gotBody["version"])
	}
	if gotBody["space_type"] != "l2" {
		t.Errorf("space_type = %v", gotBody["space_type"])
	}
	if gotBody["checksum"] != float64(15) { // key ends in "0f"
		t.Errorf("checksum = %v", gotBody["checksum"])
	}
}

func TestCreateIndex_Validation(t *testing.T) {
	c, err := NewClient("")
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	cases := []struct {
		name string
		opts CreateIndexOptions
		want error
	}{
		{"bad name", CreateIndexOptions{Name: "has space", Dimension: 8}, ErrInvalidIndexName},
		{"empty name", CreateIndexOptions{Dimension: 8}, ErrInvalidIndexName},
		{"zero dim", CreateIndexOptions{Name: "idx"}, ErrInvalidIndexConfig},
		{"dim too large", CreateIndexOptions{Name: "idx", Dimension: MaxDimension + 1}, ErrInvalidIndexConfig},
		{"negative sparse dim", CreateIndexOptions{Name: "idx", Dimension: 8, SparseDimension: -1}, ErrInvalidIndexConfig},
		{"bad space", CreateIndexOptions{Name: "idx", Dimension: 8, SpaceType: "hamming"}, ErrInvalidIndexConfig},
		{"bad precision", CreateIndexOptions{Name: "idx", Dimension: 8, Precision: "int4"}, ErrInvalidIndexConfig},
	}
	for _, tc := range cases {
		if err := c.CreateIndex(ctx, tc.opts); !errors.Is(err, tc.want) {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestGetIndex(t *testing.T) {
	sparse := 300
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/index/songs/info" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(indexInfoPayload{
			SpaceType:     "l2",
			Dimension:     128,
			TotalElements: 42,
			Precision:     "float32",
			M:             32,
			SparseDim:     &sparse,
		})
	})

	ix, err := c.GetIndex(context.Background(), "songs")
	if err != nil {
		t.Fatalf("GetIndex failed: %v", err)
	}
	d := ix.Describe()
	if d.Name != "songs" || d.SpaceType != SpaceL2 || d.Dimension != 128 {
		t.Errorf("unexpected description: %+v", d)
	}
	if d.Count != 42 || d.Precision != PrecisionFloat32 || d.M != 32 {
		t.Errorf("unexpected description: %+v", d)
	}
	if !d.Hybrid || d.SparseDimension != 300 {
		t.Errorf("expected hybrid with sparse dim 300: %+v", d)
	}
}

func TestGetIndex_Defaults(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"dimension": 8, "total_elements": 0})
	})

	ix, err := c.GetIndex(context.Background(), "bare")
	if err != nil {
		t.Fatalf("GetIndex failed: %v", err)
	}
	d := ix.Describe()
	if d.SpaceType != SpaceCosine || d.Precision != PrecisionInt8D || d.M != DefaultM {
		t.Errorf("defaults not applied: %+v", d)
	}
	if d.Hybrid {
		t.Error("expected dense index")
	}
}

func TestGetIndex_NotFound(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "index missing", http.StatusNotFound)
	})

	_, err := c.GetIndex(context.Background(), "ghost")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Status != http.StatusNotFound {
		t.Errorf("status = %d", apiErr.Status)
	}
	if !strings.Contains(apiErr.Error(), "not found") {
		t.Errorf("message = %q", apiErr.Error())
	}
	if !strings.Contains(apiErr.Body, "index missing") {
		t.Errorf("body = %q", apiErr.Body)
	}
}

func TestListIndexes(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/index/list" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`["songs","docs"]`))
	})

	got, err := c.ListIndexes(context.Background())
	if err != nil {
		t.Fatalf("ListIndexes failed: %v", err)
	}
	if got != `["songs","docs"]` {
		t.Errorf("got %q", got)
	}
}

func TestDeleteIndex(t *testing.T) {
	var gotMethod, gotPath string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	})

	if err := c.DeleteIndex(context.Background(), "songs"); err != nil {
		t.Fatalf("DeleteIndex failed: %v", err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/index/songs/delete" {
		t.Errorf("got %s %s", gotMethod, gotPath)
	}
}

func TestAPIError_Messages(t *testing.T) {
	cases := []struct {
		status int
		want   string
	}{
		{400, "endee: bad request: x"},
		{401, "endee: unauthorized: x"},
		{403, "endee: forbidden: x"},
		{404, "endee: not found: x"},
		{409, "endee: conflict: x"},
		{500, "endee: internal server error: x"},
		{418, "endee: API error (418): x"},
	}
	for _, tc := range cases {
		err := &APIError{Status: tc.status, Body: "x"}
		if err.Error() != tc.want {
			t.Errorf("status %d: got %q, want %q", tc.status, err.Error(), tc.want)
		}
	}
}
