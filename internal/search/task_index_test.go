package search_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/locvowork/taskboard/internal/domain"
	"github.com/locvowork/taskboard/internal/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Method string
	Path   string
	Body   string
}

// fakeNode answers the handful of Elasticsearch endpoints TaskIndex uses.
type fakeNode struct {
	mu       sync.Mutex
	requests []recordedRequest
	exists   bool
	hits     []domain.Task
}

func (f *fakeNode) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{Method: r.Method, Path: r.URL.Path, Body: string(body)})
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodHead && r.URL.Path == "/tasks":
		if !f.exists {
			w.WriteHeader(http.StatusNotFound)
		}
	case r.Method == http.MethodPut && r.URL.Path == "/tasks":
		f.exists = true
		_, _ = io.WriteString(w, `{"acknowledged":true,"shards_acknowledged":true,"index":"tasks"}`)
	case r.Method == http.MethodPut && strings.HasPrefix(r.URL.Path, "/tasks/_doc/"):
		_, _ = io.WriteString(w, `{"_index":"tasks","_id":"`+strings.TrimPrefix(r.URL.Path, "/tasks/_doc/")+`","result":"created"}`)
	case r.Method == http.MethodPost && r.URL.Path == "/tasks/_delete_by_query":
		_, _ = io.WriteString(w, `{"took":1,"deleted":2,"failures":[]}`)
	case r.Method == http.MethodPost && r.URL.Path == "/tasks/_search":
		type hit struct {
			Index  string      `json:"_index"`
			ID     string      `json:"_id"`
			Source domain.Task `json:"_source"`
		}
		hits := make([]hit, 0, len(f.hits))
		for _, t := range f.hits {
			hits = append(hits, hit{Index: "tasks", ID: "x", Source: t})
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"took": 1,
			"hits": map[string]interface{}{
				"total": map[string]interface{}{"value": len(hits), "relation": "eq"},
				"hits":  hits,
			},
		})
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"error":"unexpected request","status":404}`)
	}
}

func (f *fakeNode) last() recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func (f *fakeNode) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func newIndex(t *testing.T, node *fakeNode) *search.TaskIndex {
	srv := httptest.NewServer(node)
	t.Cleanup(srv.Close)
	client, err := search.NewClient(srv.URL)
	require.NoError(t, err)
	return search.NewTaskIndex(client, "tasks")
}

func TestEnsureIndex(t *testing.T) {
	node := &fakeNode{}
	idx := newIndex(t, node)

	require.NoError(t, idx.EnsureIndex(context.Background()))
	assert.Equal(t, http.MethodPut, node.last().Method)
	assert.Contains(t, node.last().Body, `"user_id"`)

	before := node.count()
	require.NoError(t, idx.EnsureIndex(context.Background()))
	assert.Equal(t, before+1, node.count(), "existing index is only checked")
}

func TestIndexTask(t *testing.T) {
	node := &fakeNode{}
	idx := newIndex(t, node)

	err := idx.IndexTask(context.Background(), domain.Task{ID: 7, UserID: "user_a", CollectionID: 3, Content: "Renew the passport"})
	require.NoError(t, err)

	req := node.last()
	assert.Equal(t, "/tasks/_doc/7", req.Path)
	assert.Contains(t, req.Body, `"content":"Renew the passport"`)
}

func TestDeleteCollectionTasks(t *testing.T) {
	node := &fakeNode{}
	idx := newIndex(t, node)

	require.NoError(t, idx.DeleteCollectionTasks(context.Background(), "user_a", 3))
	req := node.last()
	assert.Equal(t, "/tasks/_delete_by_query", req.Path)
	assert.Contains(t, req.Body, `"user_id":"user_a"`)
	assert.Contains(t, req.Body, `"collection_id":3`)
}

func TestSearch(t *testing.T) {
	node := &fakeNode{hits: []domain.Task{
		{ID: 1, UserID: "user_a", Content: "Buy oat milk"},
		{ID: 2, UserID: "user_b", Content: "Buy almond milk"},
	}}
	idx := newIndex(t, node)

	tasks, err := idx.Search(context.Background(), "user_a", "milk")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, int64(1), tasks[0].ID)

	req := node.last()
	assert.Contains(t, req.Body, `"user_id":"user_a"`)
	assert.Contains(t, req.Body, `"milk"`)
}

func TestSearchBlankQuery(t *testing.T) {
	node := &fakeNode{}
	idx := newIndex(t, node)

	tasks, err := idx.Search(context.Background(), "user_a", "   ")
	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)
	assert.Zero(t, node.count())
}
