package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/shop_api/internal/models"
)

type fakeES struct {
	mu      sync.Mutex
	indexed map[string]models.Product
	queries []map[string]any
}

func (f *fakeES) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.URL.Path == "/":
		_, _ = io.WriteString(w, `{"version":{"number":"9.0.0"},"tagline":"You Know, for Search"}`)
	case r.Method == http.MethodPut && len(r.URL.Path) > len("/products/_doc/"):
		var p models.Product
		_ = json.NewDecoder(r.Body).Decode(&p)
		f.indexed[r.URL.Path[len("/products/_doc/"):]] = p
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"result":"created"}`)
	case r.Method == http.MethodDelete:
		id := r.URL.Path[len("/products/_doc/"):]
		if _, ok := f.indexed[id]; !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"result":"not_found"}`)
			return
		}
		delete(f.indexed, id)
		_, _ = io.WriteString(w, `{"result":"deleted"}`)
	case r.URL.Path == "/products/_search":
		var q map[string]any
		_ = json.NewDecoder(r.Body).Decode(&q)
		f.queries = append(f.queries, q)
		_, _ = io.WriteString(w, `{"hits":{"total":{"value":1},"hits":[{"_source":{"id":1,"name":"green tea","price":3.5}}]}}`)
	default:
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":"unexpected request"}`)
	}
}

func newTestIndex(t *testing.T) (*ESIndex, *fakeES) {
	t.Helper()
	fake := &fakeES{indexed: map[string]models.Product{}}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	idx, err := NewESIndex(context.Background(), Config{URL: srv.URL, Index: "products"})
	require.NoError(t, err)
	return idx, fake
}

func TestESIndex_IndexAndDelete(t *testing.T) {
	idx, fake := newTestIndex(t)
	ctx := context.Background()

	require.NoError(t, idx.IndexProduct(ctx, &models.Product{ID: 1, Name: "green tea", Price: 3.5}))
	require.Contains(t, fake.indexed, "1")
	assert.Equal(t, "green tea", fake.indexed["1"].Name)

	require.NoError(t, idx.DeleteProduct(ctx, 1))
	assert.NotContains(t, fake.indexed, "1")

	// already gone
	require.NoError(t, idx.DeleteProduct(ctx, 1))
}

func TestESIndex_Search(t *testing.T) {
	idx, fake := newTestIndex(t)

	total, prods, err := idx.Search(context.Background(), "tea", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, prods, 1)
	assert.Equal(t, uint(1), prods[0].ID)
	assert.Equal(t, "green tea", prods[0].Name)

	require.Len(t, fake.queries, 1)
	assert.EqualValues(t, 10, fake.queries[0]["size"])
	mm := fake.queries[0]["query"].(map[string]any)["multi_match"].(map[string]any)
	assert.Equal(t, "tea", mm["query"])
}

func TestNewESIndex_NotElasticsearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	_, err := NewESIndex(context.Background(), Config{URL: srv.URL, Index: "products"})
	assert.Error(t, err)
}
