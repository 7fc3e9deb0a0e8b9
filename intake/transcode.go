package intake

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/indieprop/homestead/storage/media"
)

// Scope names the persistence record a batch of uploads belongs to. It seeds
// storage key derivation so every asset gets a fresh, collision-free key.
type Scope struct {
	EntityType string
	EntityID   string
}

// Key derives the storage key for one part of a batch. Keys are a pure
// function of scope, field and ordinal: retrying a failed request re-derives
// the same keys, so overwrites are safe and no key is ever reused for
// different content within one request.
func Key(scope Scope, field string, ordinal int) string {
	return fmt.Sprintf("%s/%s/%s/%d", scope.EntityType, scope.EntityID, field, ordinal)
}

// ToInline encodes a part as a data URL embedding its content type. It is
// pure and cannot fail for any accepted part.
func ToInline(p *Part) string {
	return fmt.Sprintf("data:%s;base64,%s", p.ContentType, base64.StdEncoding.EncodeToString(p.Data))
}

// ToRemote writes a part to the media store under the given key and returns
// the computed public URL.
func ToRemote(ctx context.Context, store media.Store, key string, p *Part) (string, error) {
	return store.Put(ctx, key, p.Data, p.ContentType)
}

// Transcoder turns an accepted batch into the media structure persistence
// records embed: singular fields map to one URL or data URL, repeatable
// fields to an ordered slice.
type Transcoder struct {
	// Store receives parts above the inline ceiling. A nil store means no
	// remote storage is configured and every part is inlined.
	Store media.Store

	// InlineMaxSize is the byte ceiling below which parts are embedded as
	// data URLs even when a store is configured.
	InlineMaxSize int64
}

// Transcode produces one URL or data URL per part, preserving submission
// order within repeatable fields. Remote writes run sequentially; the first
// failure aborts the whole batch so persistence is never attempted against a
// partial result. Objects already written before the failure are acceptable
// storage waste — their keys are re-derived and overwritten on retry.
func (t *Transcoder) Transcode(ctx context.Context, scope Scope, batch *Batch) (map[string]any, error) {
	out := make(map[string]any)

	for _, field := range batch.Fields() {
		parts := batch.Parts(field)
		urls := make([]string, 0, len(parts))

		for i, p := range parts {
			if t.Store == nil || p.Size() <= t.InlineMaxSize {
				urls = append(urls, ToInline(p))
				continue
			}

			url, err := ToRemote(ctx, t.Store, Key(scope, field, i), p)
			if err != nil {
				return nil, err
			}

			urls = append(urls, url)
		}

		if Singular(field) {
			out[field] = urls[0]
		} else {
			out[field] = urls
		}
	}

	return out, nil
}
