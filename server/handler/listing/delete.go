package listing

import (
	"net/http"
	"strings"

	"github.com/indieprop/homestead/schema"
	"github.com/indieprop/homestead/server/auth"
	"github.com/indieprop/homestead/server/handler/common"
	"github.com/indieprop/homestead/server/resp"
	"github.com/indieprop/homestead/server/state"
	"github.com/indieprop/homestead/server/util"
)

// HandleDelete removes a listing and best-effort deletes its remote media
// objects. Inline data URLs have no remote object to remove.
func HandleDelete(st *state.HomesteadState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")

		var doc schema.Listing
		if err := st.Docs.Get(r.Context(), schema.CollectionListings, id, &doc); err != nil {
			common.LogAndWriteError(w, r, "listing delete", err)
			return
		}

		principal := auth.GetPrincipal(r.Context())
		if principal == nil || (doc.OwnerID != principal.Subject && !principal.HasRole("admin")) {
			resp.WriteForbidden(w, "not the listing owner")
			return
		}

		if err := st.Docs.Delete(r.Context(), schema.CollectionListings, id); err != nil {
			common.LogAndWriteError(w, r, "listing delete", err)
			return
		}

		if st.Media != nil {
			urls := append([]string{}, doc.Photos...)
			urls = append(urls, doc.Documents...)
			if doc.VideoTour != "" {
				urls = append(urls, doc.VideoTour)
			}

			rl := util.FromContext(r.Context())
			for _, url := range urls {
				if strings.HasPrefix(url, "data:") {
					continue
				}

				if err := st.Media.Delete(r.Context(), url); err != nil && rl != nil {
					rl.Errorf("orphaned media object at %s: %v", url, err)
				}
			}
		}

		resp.WriteNoContent(w)
	}
}
