package user

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
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
}

// HandleCreate registers an account. Admin-only: accounts are provisioned by
// operators, sign-up flows live upstream of this service.
func HandleCreate(st *state.HomesteadState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, _, ok := util.RequireJsonContentType(w, r)
		if !ok {
			return
		}

		principal := auth.GetPrincipal(r.Context())
		if principal == nil || !principal.HasRole("admin") {
			resp.WriteForbidden(w, "admin role required")
			return
		}

		var body createBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			resp.WriteBadRequest(w, "malformed JSON body")
			return
		}

		role := body.Role
		if role == "" {
			role = "customer"
		}

		doc := schema.User{
			ID:        uuid.NewString(),
			Username:  body.Username,
			Email:     body.Email,
			Phone:     body.Phone,
			FullName:  body.FullName,
			Role:      role,
			CreatedAt: time.Now().UTC(),
		}

		if err := schema.Validate(doc); err != nil {
			common.LogAndWriteError(w, r, "user validation", err)
			return
		}

		if err := st.Docs.Insert(r.Context(), schema.CollectionUsers, doc.ID, doc); err != nil {
			common.LogAndWriteError(w, r, "user create", err)
			return
		}

		resp.WriteCreated(w, "", doc)
	}
}

func HandleGet(st *state.HomesteadState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")

		principal := auth.GetPrincipal(r.Context())
		if principal == nil || (id != principal.Subject && !principal.HasRole("admin")) {
			resp.WriteForbidden(w, "cannot read another account")
			return
		}

		var doc schema.User
		if err := st.Docs.Get(r.Context(), schema.CollectionUsers, id, &doc); err != nil {
			common.LogAndWriteError(w, r, "user get", err)
			return
		}

		resp.WriteOK(w, doc)
	}
}
