// Package wptest provides an in-memory WordPress REST server for tests.
//
// It implements the handful of routes d2cms uses: content collections
// (create, update, delete, fetch, lookup by document_key meta) and tags
// (search by name, create). Every request is recorded, and individual
// routes can be made to fail.
package wptest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
)

// Root is the path prefix of the API root on the test server.
const Root = "/wp-json/"

// Request is one recorded call.
type Request struct {
	Method        string
	Route         string // relative to the API root, without query
	Query         url.Values
	Body          map[string]any
	Authorization string
	UserAgent     string
	Accept        string
}

// Server is a fake WordPress. Create one with New.
type Server struct {
	srv *httptest.Server

	mu       sync.Mutex
	requests []Request
	items    map[string]map[int]map[string]any
	tags     map[string]int
	nextID   int
	failures map[string]int
}

// New starts a Server that is closed when the test ends.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		items:    map[string]map[int]map[string]any{},
		tags:     map[string]int{},
		nextID:   100,
		failures: map[string]int{},
	}
	s.srv = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.srv.Close)
	return s
}

// URL returns the API root, with a trailing slash.
func (s *Server) URL() string { return s.srv.URL + Root }

// Fail makes every request matching method and route return status.
func (s *Server) Fail(method, route string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+route] = status
}

// AddItem stores an existing remote item carrying documentKey and returns its id.
func (s *Server) AddItem(contentType, documentKey string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.allocate()
	s.collection(contentType)[id] = map[string]any{
		"meta": map[string]any{"document_key": documentKey},
	}
	return id
}

// AddTag stores an existing tag and returns its id.
func (s *Server) AddTag(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.allocate()
	s.tags[name] = id
	return id
}

// Item returns the last body stored for an item.
func (s *Server) Item(contentType string, id int) (map[string]any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[contentType][id]
	return item, ok
}

// Tags returns a copy of the tag name to id map.
func (s *Server) Tags() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int, len(s.tags))
	for k, v := range s.tags {
		out[k] = v
	}
	return out
}

// Requests returns a copy of every recorded request.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// Count returns how many requests used method on routes starting with prefix.
func (s *Server) Count(method, prefix string) int {
	n := 0
	for _, r := range s.Requests() {
		if r.Method == method && strings.HasPrefix(r.Route, prefix) {
			n++
		}
	}
	return n
}

// Writes returns how many POST or DELETE requests were made.
func (s *Server) Writes() int {
	return s.Count(http.MethodPost, "") + s.Count(http.MethodDelete, "")
}

func (s *Server) allocate() int {
	s.nextID++
	return s.nextID
}

func (s *Server) collection(contentType string) map[int]map[string]any {
	c, ok := s.items[contentType]
	if !ok {
		c = map[int]map[string]any{}
		s.items[contentType] = c
	}
	return c
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	route := strings.TrimPrefix(r.URL.Path, Root)
	req := Request{
		Method:        r.Method,
		Route:         route,
		Query:         r.URL.Query(),
		Authorization: r.Header.Get("Authorization"),
		UserAgent:     r.Header.Get("User-Agent"),
		Accept:        r.Header.Get("Accept"),
	}
	if r.Body != nil && r.ContentLength != 0 {
		_ = json.NewDecoder(r.Body).Decode(&req.Body)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)

	if status, ok := s.failures[r.Method+" "+route]; ok {
		writeJSON(w, status, map[string]any{"code": "test_failure", "message": "forced failure"})
		return
	}

	parts := strings.Split(route, "/")
	if len(parts) < 3 || parts[0] != "wp" || parts[1] != "v2" {
		writeJSON(w, http.StatusNotFound, map[string]any{"code": "rest_no_route"})
		return
	}
	collection := parts[2]

	if collection == "tags" && len(parts) == 3 {
		s.handleTags(w, req)
		return
	}

	switch len(parts) {
	case 3:
		s.handleCollection(w, collection, req)
	case 4:
		id, err := strconv.Atoi(parts[3])
		if err != nil {
			writeJSON(w, http.StatusNotFound, map[string]any{"code": "rest_no_route"})
			return
		}
		s.handleItem(w, collection, id, req)
	default:
		writeJSON(w, http.StatusNotFound, map[string]any{"code": "rest_no_route"})
	}
}

func (s *Server) handleTags(w http.ResponseWriter, req Request) {
	switch req.Method {
	case http.MethodGet:
		// Like WordPress, the lookup is a substring search ordered by id.
		name := req.Query.Get("name")
		var ids []int
		names := map[int]string{}
		for n, id := range s.tags {
			if strings.Contains(n, name) {
				ids = append(ids, id)
				names[id] = n
			}
		}
		sort.Ints(ids)
		found := []any{}
		for _, id := range ids {
			found = append(found, map[string]any{"id": id, "name": names[id]})
		}
		writeJSON(w, http.StatusOK, found)
	case http.MethodPost:
		name, _ := req.Body["name"].(string)
		if _, ok := s.tags[name]; ok {
			writeJSON(w, http.StatusBadRequest, map[string]any{"code": "term_exists"})
			return
		}
		id := s.allocate()
		s.tags[name] = id
		writeJSON(w, http.StatusCreated, map[string]any{"id": id, "name": name})
	default:
		writeJSON(w, http.StatusMethodNotAllowed, nil)
	}
}

func (s *Server) handleCollection(w http.ResponseWriter, contentType string, req Request) {
	switch req.Method {
	case http.MethodGet:
		key := req.Query.Get("meta_value")
		found := []any{}
		for id, item := range s.items[contentType] {
			if req.Query.Get("meta_key") == "document_key" && documentKey(item) == key {
				found = append(found, itemJSON(id, item))
			}
		}
		writeJSON(w, http.StatusOK, found)
	case http.MethodPost:
		id := s.allocate()
		s.collection(contentType)[id] = req.Body
		writeJSON(w, http.StatusCreated, itemJSON(id, req.Body))
	default:
		writeJSON(w, http.StatusMethodNotAllowed, nil)
	}
}

func (s *Server) handleItem(w http.ResponseWriter, contentType string, id int, req Request) {
	item, ok := s.items[contentType][id]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"code": "rest_post_invalid_id", "message": "Invalid post ID."})
		return
	}
	switch req.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, itemJSON(id, item))
	case http.MethodPost:
		for k, v := range req.Body {
			item[k] = v
		}
		writeJSON(w, http.StatusOK, itemJSON(id, item))
	case http.MethodDelete:
		delete(s.items[contentType], id)
		writeJSON(w, http.StatusOK, itemJSON(id, item))
	default:
		writeJSON(w, http.StatusMethodNotAllowed, nil)
	}
}

func documentKey(item map[string]any) string {
	meta, _ := item["meta"].(map[string]any)
	key, _ := meta["document_key"].(string)
	return key
}

// itemJSON shapes a stored body the way WordPress returns it, with title and
// content as {raw, rendered} objects.
func itemJSON(id int, item map[string]any) map[string]any {
	out := map[string]any{"id": id}
	for k, v := range item {
		out[k] = v
	}
	for _, field := range []string{"title", "content"} {
		s, _ := item[field].(string)
		out[field] = map[string]any{"raw": s, "rendered": s}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}
