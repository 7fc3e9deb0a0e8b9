package listing

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"github.com/indieprop/homestead/intake"
	"github.com/indieprop/homestead/schema"
	"github.com/indieprop/homestead/server/auth"
	"github.com/indieprop/homestead/server/handler/common"
	"github.com/indieprop/homestead/server/resp"
	"github.com/indieprop/homestead/server/state"
	"github.com/indieprop/homestead/server/util"
)

// HandleCreate runs the whole intake pipeline for one listing: multipart
// ingest (size/count/MIME gates), transcoding every accepted part into a
// stored asset, then structural validation and the persistence write. Any
// failure along the way rejects the request before the next stage runs.
func HandleCreate(st *state.HomesteadState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, _, ok := util.RequireMultipartContentType(w, r)
		if !ok {
			return
		}

		principal := auth.GetPrincipal(r.Context())
		if principal == nil {
			resp.WriteUnauthorized(w, "an access token is required")
			return
		}

		batch, err := intake.Ingest(w, r, st.Limits())
		if err != nil {
			common.LogAndWriteError(w, r, "listing intake", err)
			return
		}

		id := uuid.NewString()
		scope := intake.Scope{EntityType: schema.CollectionListings, EntityID: id}

		media, err := st.Transcoder.Transcode(r.Context(), scope, batch)
		if err != nil {
			common.LogAndWriteError(w, r, "listing media upload", err)
			return
		}

		now := time.Now().UTC()
		title := stringValue(batch.Values, "title")

		status := stringValue(batch.Values, "status")
		if status == "" {
			status = "draft"
		}

		doc := schema.Listing{
			ID:          id,
			Slug:        fmt.Sprintf("%s-%s", slug.Make(title), id[:8]),
			Title:       title,
			Description: stringValue(batch.Values, "description"),
			Kind:        stringValue(batch.Values, "kind"),
			Status:      status,
			Price:       int64Value(batch.Values, "price"),
			Currency:    stringValue(batch.Values, "currency"),
			Address:     stringValue(batch.Values, "address"),
			City:        stringValue(batch.Values, "city"),
			Bedrooms:    intValue(batch.Values, "bedrooms"),
			Bathrooms:   intValue(batch.Values, "bathrooms"),
			AreaSqm:     floatValue(batch.Values, "areaSqm"),
			Photos:      mediaStrings(media, "photos"),
			VideoTour:   mediaString(media, "videoTour"),
			Documents:   mediaStrings(media, "documents"),
			OwnerID:     principal.Subject,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		if err := schema.Validate(doc); err != nil {
			common.LogAndWriteError(w, r, "listing validation", err)
			return
		}

		if err := st.Docs.Insert(r.Context(), schema.CollectionListings, id, doc); err != nil {
			common.LogAndWriteError(w, r, "listing create", err)
			return
		}

		location := fmt.Sprintf("%s/listings/%s", st.Cfg.Server.PublicUrl, id)
		resp.WriteCreated(w, location, doc)
	}
}
