package wordpress

import (
	"context"
	"fmt"
	"html"
	"net/url"
	"sync"
)

// Resolver turns local references into remote ids. Tag ids are memoised for
// the lifetime of the Resolver, so one Resolver per sync run creates each
// missing tag at most once.
type Resolver struct {
	api API

	mu   sync.Mutex
	tags map[string]int
}

// NewResolver returns a Resolver backed by api.
func NewResolver(api API) *Resolver {
	return &Resolver{api: api, tags: map[string]int{}}
}

type ref struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// ParentID returns the remote id of the item of contentType whose
// document_key meta equals parentKey. An empty key yields 0 without a call.
// The parent must already exist remotely; there is no retry. More than one
// match is an error rather than a guess.
func (r *Resolver) ParentID(ctx context.Context, contentType, parentKey string) (int, error) {
	if parentKey == "" {
		return 0, nil
	}
	var found []ref
	q := url.Values{"meta_key": {"document_key"}, "meta_value": {parentKey}}
	if err := r.api.Get(ctx, CollectionRoute(contentType), q, &found); err != nil {
		return 0, err
	}
	if len(found) == 0 {
		return 0, fmt.Errorf("%w: %s", ErrParentNotFound, parentKey)
	}
	if len(found) > 1 {
		ids := make([]int, len(found))
		for i, f := range found {
			ids[i] = f.ID
		}
		return 0, fmt.Errorf("%w: %s matches items %v", ErrAmbiguousParent, parentKey, ids)
	}
	return found[0].ID, nil
}

// TagIDs returns the remote id of each tag name, in order, creating tags that
// do not exist yet. The first error aborts the whole list.
func (r *Resolver) TagIDs(ctx context.Context, names []string) ([]int, error) {
	ids := make([]int, 0, len(names))
	for _, name := range names {
		id, err := r.tagID(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("tag %q: %w", name, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *Resolver) tagID(ctx context.Context, name string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.tags[name]; ok {
		return id, nil
	}

	var existing []ref
	if err := r.api.Get(ctx, TagsRoute, url.Values{"name": {name}}, &existing); err != nil {
		return 0, err
	}
	// The name filter is a search, so "go" also returns "golang".
	for _, t := range existing {
		if html.UnescapeString(t.Name) == name {
			r.tags[name] = t.ID
			return t.ID, nil
		}
	}

	var created ref
	if err := r.api.Post(ctx, TagsRoute, map[string]string{"name": name}, &created); err != nil {
		return 0, err
	}
	r.tags[name] = created.ID
	return created.ID, nil
}
