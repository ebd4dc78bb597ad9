//go:generate mockgen  -destination=./mocks/mocks.go -package=mocks github.com/blocknative/dinghy/api/inner Ingestor,Journal

// Would have been internal if only it wasnt reserved keyword
package inner

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/blocknative/dinghy/beacon"
	"github.com/blocknative/dinghy/datastore/evidence"
	"github.com/blocknative/dinghy/structs"
	"github.com/flashbots/go-boost-utils/types"
)

var ErrParamNotFound = errors.New("not found")

const DataLimit = 200

type APIConfig interface {
	Map() map[string]bool
	SetBool(key string, val bool) error
}

type Ingestor interface {
	Stats() beacon.IngestorStats
}

type Journal interface {
	GetBids(ctx context.Context, slot structs.Slot) ([]evidence.BidTrace, error)
	GetDelivered(ctx context.Context, q evidence.DeliveredQuery) ([]evidence.DeliveredTrace, error)
}

type API struct {
	cfg APIConfig
	in  Ingestor
	// j is nil when the journal is disabled
	j Journal
}

func NewAPI(cfg APIConfig, in Ingestor, j Journal) *API {
	return &API{cfg: cfg, in: in, j: j}
}

func (a *API) AttachToHandler(m *http.ServeMux) {
	m.HandleFunc("/services/status", a.getStatus)
	m.HandleFunc("/services/endpoints/set_availability", a.setAvailability)
	m.HandleFunc("/services/ingestor", a.getIngestor)

	m.HandleFunc("/data/delivered", a.getDelivered)
	m.HandleFunc("/data/bids", a.getBids)
}

type Status struct {
	Services map[string]bool `json:"endpoints"`
}

func (a *API) getStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Status{Services: a.cfg.Map()})
}

func (a *API) setAvailability(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	for k, v := range query {
		if len(v) != 1 {
			writeError(w, http.StatusBadRequest, "wrong parameter count")
			return
		}
		var val bool
		switch strings.ToLower(v[0]) {
		case "true", "1":
			val = true
		case "false", "0":
		default:
			writeError(w, http.StatusBadRequest, "wrong parameter")
			return
		}

		if err := a.cfg.SetBool(k, val); err != nil {
			writeError(w, http.StatusBadRequest, "key not found")
			return
		}
	}

	writeJSON(w, http.StatusOK, Status{Services: a.cfg.Map()})
}

func (a *API) getIngestor(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.in.Stats())
}

func (a *API) getDelivered(w http.ResponseWriter, r *http.Request) {
	if a.j == nil {
		writeError(w, http.StatusNotFound, "journal disabled")
		return
	}

	var q evidence.DeliveredQuery
	var err error

	if q.Slot, err = specificSlot(r); err != nil && !errors.Is(err, ErrParamNotFound) {
		writeError(w, http.StatusBadRequest, "wrong slot")
		return
	}
	if q.PayloadRoot, err = payloadRoot(r); err != nil && !errors.Is(err, ErrParamNotFound) {
		writeError(w, http.StatusBadRequest, "wrong payload root")
		return
	}
	if q.Cursor, err = uintParam(r, "cursor"); err != nil && !errors.Is(err, ErrParamNotFound) {
		writeError(w, http.StatusBadRequest, "wrong cursor")
		return
	}
	if q.Limit, err = uintParam(r, "limit"); err != nil && !errors.Is(err, ErrParamNotFound) {
		writeError(w, http.StatusBadRequest, "wrong limit")
		return
	} else if q.Limit > DataLimit {
		writeError(w, http.StatusBadRequest, "limit is higher than "+strconv.Itoa(DataLimit))
		return
	}

	traces, err := a.j.GetDelivered(r.Context(), q)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "error processing request")
		return
	}
	writeJSON(w, http.StatusOK, traces)
}

func (a *API) getBids(w http.ResponseWriter, r *http.Request) {
	if a.j == nil {
		writeError(w, http.StatusNotFound, "journal disabled")
		return
	}

	slot, err := specificSlot(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "wrong slot")
		return
	}

	bids, err := a.j.GetBids(r.Context(), slot)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "error processing request")
		return
	}
	writeJSON(w, http.StatusOK, bids)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func specificSlot(r *http.Request) (structs.Slot, error) {
	slot, err := uintParam(r, "slot")
	return structs.Slot(slot), err
}

func uintParam(r *http.Request, name string) (uint64, error) {
	if s := r.URL.Query().Get(name); s != "" {
		return strconv.ParseUint(s, 10, 64)
	}
	return 0, ErrParamNotFound
}

func payloadRoot(r *http.Request) (types.Hash, error) {
	if s := r.URL.Query().Get("payload_root"); s != "" {
		var root types.Hash
		if err := root.UnmarshalText([]byte(s)); err != nil {
			return root, err
		}
		return root, nil
	}
	return types.Hash{}, ErrParamNotFound
}
