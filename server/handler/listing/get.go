package listing

import (
	"net/http"
	"strconv"

	"github.com/indieprop/homestead/schema"
	"github.com/indieprop/homestead/server/handler/common"
	"github.com/indieprop/homestead/server/resp"
	"github.com/indieprop/homestead/server/state"
)

const defaultPageSize = 20

func HandleGet(st *state.HomesteadState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var doc schema.Listing
		if err := st.Docs.Get(r.Context(), schema.CollectionListings, r.PathValue("id"), &doc); err != nil {
			common.LogAndWriteError(w, r, "listing get", err)
			return
		}

		resp.WriteOK(w, doc)
	}
}

func HandleList(st *state.HomesteadState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, offset := pagination(r)

		items, err := st.Docs.List(r.Context(), schema.CollectionListings, limit, offset)
		if err != nil {
			common.LogAndWriteError(w, r, "listing list", err)
			return
		}

		resp.WriteOK(w, map[string]any{"items": items})
	}
}

func pagination(r *http.Request) (limit, offset int) {
	limit = defaultPageSize
	if n, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && n > 0 && n <= 100 {
		limit = n
	}

	if n, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && n > 0 {
		offset = n
	}

	return limit, offset
}
