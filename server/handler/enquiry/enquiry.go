package enquiry

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/indieprop/homestead/schema"
	"github.com/indieprop/homestead/server/handler/common"
	"github.com/indieprop/homestead/server/resp"
	"github.com/indieprop/homestead/server/state"
	"github.com/indieprop/homestead/server/util"
)

type createBody struct {
	ListingID string `json:"listingId"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Message   string `json:"message"`
}

// HandleCreate records an enquiry about a listing. Open endpoint.
func HandleCreate(st *state.HomesteadState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, _, ok := util.RequireJsonContentType(w, r)
		if !ok {
			return
		}

		var body createBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			resp.WriteBadRequest(w, "malformed JSON body")
			return
		}

		doc := schema.Enquiry{
			ID:        uuid.NewString(),
			ListingID: body.ListingID,
			Name:      body.Name,
			Email:     body.Email,
			Phone:     body.Phone,
			Message:   body.Message,
			CreatedAt: time.Now().UTC(),
		}

		if err := schema.Validate(doc); err != nil {
			common.LogAndWriteError(w, r, "enquiry validation", err)
			return
		}

		if err := st.Docs.Insert(r.Context(), schema.CollectionEnquiries, doc.ID, doc); err != nil {
			common.LogAndWriteError(w, r, "enquiry create", err)
			return
		}

		resp.WriteCreated(w, "", doc)
	}
}

func HandleList(st *state.HomesteadState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := st.Docs.List(r.Context(), schema.CollectionEnquiries, 50, 0)
		if err != nil {
			common.LogAndWriteError(w, r, "enquiry list", err)
			return
		}

		resp.WriteOK(w, map[string]any{"items": items})
	}
}
