package glubpage

import (
	"context"
	"encoding/json"
	"sort"

	"go.uber.org/zap"
)

const ManifestPath = "/posts/manifest.json"

// LoadPosts fetches the manifest and returns its posts newest first. Every
// failure is logged and yields an empty list.
func LoadPosts(ctx context.Context, f Fetcher) Posts {
	b, err := f.Fetch(ctx, ManifestPath, "application/json")
	if err != nil {
		Logger(ctx).Error("Failed to load manifest", zap.String("path", ManifestPath), zap.Error(err))
		return Posts{}
	}
	posts, err := ParsePosts(b)
	if err != nil {
		Logger(ctx).Error("Failed to parse manifest", zap.String("path", ManifestPath), zap.Error(err))
		return Posts{}
	}
	return posts
}

// ParsePosts decodes a manifest document. Only invalid JSON is an error: a
// document that is not an object or has no posts array has no posts.
// Elements that are not objects become empty posts.
func ParsePosts(b []byte) (Posts, error) {
	items, err := arrayField(b, "posts")
	if err != nil {
		return Posts{}, err
	}
	posts := make(Posts, len(items))
	for i, raw := range items {
		var p Post
		if err := json.Unmarshal(raw, &p); err == nil {
			posts[i] = p
		}
	}
	sort.Stable(posts)
	return posts, nil
}

// arrayField returns the elements of the array at key in the object b. Any
// other shape gives no elements.
func arrayField(b []byte, key string) ([]json.RawMessage, error) {
	var v json.RawMessage
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, err
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(v, &obj); err != nil {
		return nil, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(obj[key], &items); err != nil {
		return nil, nil
	}
	return items, nil
}

// arrayOrField accepts either a top-level array or an object with an array
// at key.
func arrayOrField(b []byte, key string) ([]json.RawMessage, error) {
	var v json.RawMessage
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, err
	}
	var items []json.RawMessage
	if err := json.Unmarshal(v, &items); err == nil {
		return items, nil
	}
	return arrayField(v, key)
}
