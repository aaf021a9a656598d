// items.go holds the typed calls made against content collections.

package wordpress

import (
	"context"
	"net/url"
	"strconv"
)

// Status is the publish status sent with every create or update.
const Status = "publish"

// Meta is the custom post meta d2cms keeps on each remote item.
type Meta struct {
	DocumentKey  string `json:"document_key"`
	DocumentHash string `json:"document_hash"`
}

// Payload is the body of a create or update request. Parent is 0 for a
// top-level item and Tags is always sent, empty or not.
type Payload struct {
	Slug      string `json:"slug"`
	Title     string `json:"title"`
	Status    string `json:"status"`
	MenuOrder int    `json:"menu_order"`
	Content   string `json:"content"`
	Meta      Meta   `json:"meta"`
	Parent    int    `json:"parent"`
	Tags      []int  `json:"tags"`
}

// Rendered is a WordPress field returned as {raw, rendered}.
type Rendered struct {
	Raw      string `json:"raw,omitempty"`
	Rendered string `json:"rendered"`
}

// Item is the subset of a remote post, page or doc that d2cms reads.
type Item struct {
	ID      int      `json:"id"`
	Slug    string   `json:"slug"`
	Status  string   `json:"status"`
	Link    string   `json:"link"`
	Parent  int      `json:"parent"`
	Title   Rendered `json:"title"`
	Content Rendered `json:"content"`
	Meta    Meta     `json:"meta"`
}

// CollectionRoute returns the route of a content collection, "wp/v2/{type}".
func CollectionRoute(contentType string) string {
	return "wp/v2/" + contentType
}

// ItemRoute returns the route of one item, "wp/v2/{type}/{id}".
func ItemRoute(contentType string, id int) string {
	return CollectionRoute(contentType) + "/" + strconv.Itoa(id)
}

// TagsRoute is the tag collection.
const TagsRoute = "wp/v2/tags"

// Save creates the item when id is 0 and updates it otherwise.
func Save(ctx context.Context, api API, contentType string, id int, p Payload) (Item, error) {
	route := CollectionRoute(contentType)
	if id != 0 {
		route = ItemRoute(contentType, id)
	}
	var item Item
	err := api.Post(ctx, route, p, &item)
	return item, err
}

// Remove deletes the item with the given id.
func Remove(ctx context.Context, api API, contentType string, id int) error {
	return api.Delete(ctx, ItemRoute(contentType, id), nil)
}

// Fetch reads one item in edit context, which includes the raw content.
func Fetch(ctx context.Context, api API, contentType string, id int) (Item, error) {
	var item Item
	err := api.Get(ctx, ItemRoute(contentType, id), url.Values{"context": {"edit"}}, &item)
	return item, err
}
