package lead

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
	Source    string `json:"source"`
}

// HandleCreate captures a lead. Open endpoint: the public site posts these
// without an account.
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

		source := body.Source
		if source == "" {
			source = "web"
		}

		doc := schema.Lead{
			ID:        uuid.NewString(),
			ListingID: body.ListingID,
			Name:      body.Name,
			Email:     body.Email,
			Phone:     body.Phone,
			Source:    source,
			CreatedAt: time.Now().UTC(),
		}

		if err := schema.Validate(doc); err != nil {
			common.LogAndWriteError(w, r, "lead validation", err)
			return
		}

		if err := st.Docs.Insert(r.Context(), schema.CollectionLeads, doc.ID, doc); err != nil {
			common.LogAndWriteError(w, r, "lead create", err)
			return
		}

		resp.WriteCreated(w, "", doc)
	}
}

func HandleGet(st *state.HomesteadState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var doc schema.Lead
		if err := st.Docs.Get(r.Context(), schema.CollectionLeads, r.PathValue("id"), &doc); err != nil {
			common.LogAndWriteError(w, r, "lead get", err)
			return
		}

		resp.WriteOK(w, doc)
	}
}

func HandleList(st *state.HomesteadState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := st.Docs.List(r.Context(), schema.CollectionLeads, 50, 0)
		if err != nil {
			common.LogAndWriteError(w, r, "lead list", err)
			return
		}

		resp.WriteOK(w, map[string]any{"items": items})
	}
}
