package payment

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/indieprop/homestead/schema"
	"github.com/indieprop/homestead/server/auth"
	"github.com/indieprop/homestead/server/handler/common"
	"github.com/indieprop/homestead/server/resp"
	"github.com/indieprop/homestead/server/state"
	"github.com/indieprop/homestead/server/util"
)

type createBody struct {
	ListingID string `json:"listingId"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	Provider  string `json:"provider"`
	Reference string `json:"reference"`
}

// HandleCreate records a listing-fee payment against the authenticated
// account. Payments start pending; the provider callback settles them.
func HandleCreate(st *state.HomesteadState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, _, ok := util.RequireJsonContentType(w, r)
		if !ok {
			return
		}

		principal := auth.GetPrincipal(r.Context())
		if principal == nil {
			resp.WriteUnauthorized(w, "an access token is required")
			return
		}

		var body createBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			resp.WriteBadRequest(w, "malformed JSON body")
			return
		}

		doc := schema.Payment{
			ID:        uuid.NewString(),
			ListingID: body.ListingID,
			UserID:    principal.Subject,
			Amount:    body.Amount,
			Currency:  body.Currency,
			Status:    "pending",
			Provider:  body.Provider,
			Reference: body.Reference,
			CreatedAt: time.Now().UTC(),
		}

		if err := schema.Validate(doc); err != nil {
			common.LogAndWriteError(w, r, "payment validation", err)
			return
		}

		if err := st.Docs.Insert(r.Context(), schema.CollectionPayments, doc.ID, doc); err != nil {
			common.LogAndWriteError(w, r, "payment create", err)
			return
		}

		resp.WriteCreated(w, "", doc)
	}
}

func HandleGet(st *state.HomesteadState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var doc schema.Payment
		if err := st.Docs.Get(r.Context(), schema.CollectionPayments, r.PathValue("id"), &doc); err != nil {
			common.LogAndWriteError(w, r, "payment get", err)
			return
		}

		principal := auth.GetPrincipal(r.Context())
		if principal == nil || (doc.UserID != principal.Subject && !principal.HasRole("admin")) {
			resp.WriteForbidden(w, "not the paying account")
			return
		}

		resp.WriteOK(w, doc)
	}
}
