package rest

import (
	"net/http"
	"time"

	"github.com/ParasPuneetSingh/IndianDuo/internal/pkg/httpx"
)

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

func (api *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	err := httpx.WriteJSON(w, http.StatusOK, healthResponse{
		Status:    "healthy",
		Timestamp: api.now().UTC(),
	})
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}
}
