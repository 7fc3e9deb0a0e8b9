package listing

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/indieprop/homestead/schema"
	"github.com/indieprop/homestead/server/auth"
	"github.com/indieprop/homestead/server/handler/common"
	"github.com/indieprop/homestead/server/resp"
	"github.com/indieprop/homestead/server/state"
	"github.com/indieprop/homestead/server/util"
)

type listingPatch struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Kind        *string  `json:"kind"`
	Status      *string  `json:"status"`
	Price       *int64   `json:"price"`
	Currency    *string  `json:"currency"`
	Address     *string  `json:"address"`
	City        *string  `json:"city"`
	Bedrooms    *int     `json:"bedrooms"`
	Bathrooms   *int     `json:"bathrooms"`
	AreaSqm     *float64 `json:"areaSqm"`
}

// HandleUpdate applies a partial JSON update to a listing. Media fields are
// not patchable here; replacing assets means re-running the upload pipeline.
func HandleUpdate(st *state.HomesteadState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, _, ok := util.RequireJsonContentType(w, r)
		if !ok {
			return
		}

		id := r.PathValue("id")

		var doc schema.Listing
		if err := st.Docs.Get(r.Context(), schema.CollectionListings, id, &doc); err != nil {
			common.LogAndWriteError(w, r, "listing update", err)
			return
		}

		principal := auth.GetPrincipal(r.Context())
		if principal == nil || (doc.OwnerID != principal.Subject && !principal.HasRole("admin")) {
			resp.WriteForbidden(w, "not the listing owner")
			return
		}

		var patch listingPatch
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			resp.WriteBadRequest(w, "malformed JSON body")
			return
		}

		applyPatch(&doc, &patch)
		doc.UpdatedAt = time.Now().UTC()

		if err := schema.Validate(doc); err != nil {
			common.LogAndWriteError(w, r, "listing validation", err)
			return
		}

		if err := st.Docs.Update(r.Context(), schema.CollectionListings, id, doc); err != nil {
			common.LogAndWriteError(w, r, "listing update", err)
			return
		}

		resp.WriteOK(w, doc)
	}
}

func applyPatch(doc *schema.Listing, patch *listingPatch) {
	if patch.Title != nil {
		doc.Title = *patch.Title
	}
	if patch.Description != nil {
		doc.Description = *patch.Description
	}
	if patch.Kind != nil {
		doc.Kind = *patch.Kind
	}
	if patch.Status != nil {
		doc.Status = *patch.Status
	}
	if patch.Price != nil {
		doc.Price = *patch.Price
	}
	if patch.Currency != nil {
		doc.Currency = *patch.Currency
	}
	if patch.Address != nil {
		doc.Address = *patch.Address
	}
	if patch.City != nil {
		doc.City = *patch.City
	}
	if patch.Bedrooms != nil {
		doc.Bedrooms = *patch.Bedrooms
	}
	if patch.Bathrooms != nil {
		doc.Bathrooms = *patch.Bathrooms
	}
	if patch.AreaSqm != nil {
		doc.AreaSqm = *patch.AreaSqm
	}
}
