package api

import (
	"net/http"
	"strconv"

	"github.com/go-faster/jx"
)

// branchMenu returns a branch's menu items with variants.
func (h *Handler) branchMenu(w http.ResponseWriter, r *http.Request) {
	branchID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid branch id")
		return
	}

	items, err := h.catalog.ListByBranch(r.Context(), branchID)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Arr(func(e *jx.Encoder) {
			for i := range items {
				encodeMenuItem(e, &items[i])
			}
		})
	})
}
