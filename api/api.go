//go:generate mockgen  -destination=./mocks/mocks.go -package=mocks github.com/blocknative/dinghy/api Builder,RateLimitter

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/mux"
	"github.com/lthibault/log"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/blocknative/dinghy/builder"
	"github.com/blocknative/dinghy/structs"
	"github.com/blocknative/dinghy/structs/forks/bellatrix"
	"github.com/blocknative/dinghy/structs/forks/capella"
	"github.com/blocknative/dinghy/structs/forks/deneb"
)

// Router paths
const (
	PathStatus            = "/eth/v1/builder/status"
	PathRegisterValidator = "/eth/v1/builder/validators"
	PathGetHeader         = "/eth/v1/builder/header/{slot}/{parent_hash}/{pubkey}"
	PathGetPayload        = "/eth/v1/builder/blinded_blocks"
)

const HeaderConsensusVersion = "Eth-Consensus-Version"

var (
	ErrUnsupportedFork = errors.New("unsupported fork version")
	ErrDisabled        = errors.New("endpoint disabled")
)

type Builder interface {
	GetHeader(context.Context, *structs.MetricGroup, structs.UserContent, structs.HeaderRequest) (structs.VersionedResponse, error)
	GetPayload(context.Context, *structs.MetricGroup, structs.UserContent, structs.ForkVersion, structs.SignedBlindedBeaconBlock) (structs.VersionedResponse, error)
}

type RateLimitter interface {
	Allow(ctx context.Context, pubkey [48]byte) error
}

type ForkSchedule interface {
	ForkVersion(structs.Slot) structs.ForkVersion
}

type API struct {
	l  log.Logger
	b  Builder
	fs ForkSchedule

	// lim is optional
	lim RateLimitter

	m *APIMetrics

	enabled *EnabledEndpoints
}

func NewApi(l log.Logger, enabled *EnabledEndpoints, b Builder, fs ForkSchedule, lim RateLimitter) (a *API) {
	a = &API{
		l:       l,
		b:       b,
		fs:      fs,
		lim:     lim,
		enabled: enabled,
		m:       &APIMetrics{},
	}
	a.initMetrics()
	return a
}

func (a *API) AttachToHandler(m *http.ServeMux) {
	router := mux.NewRouter()
	router.Use(mux.CORSMethodMiddleware(router), withLogger(a.l))

	// root returns 200 - nil
	router.HandleFunc("/", status)

	router.HandleFunc(PathStatus, status).Methods(http.MethodGet)
	router.HandleFunc(PathRegisterValidator, a.registerValidator).Methods(http.MethodPost)
	router.HandleFunc(PathGetHeader, a.getHeader).Methods(http.MethodGet)
	router.HandleFunc(PathGetPayload, a.getPayload).Methods(http.MethodPost)

	m.Handle("/", router)
}

func status(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
}

// registerValidator accepts any registration. The builder does not keep a
// validator set.
func (a *API) registerValidator(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	timer := prometheus.NewTimer(a.m.ApiReqTiming.WithLabelValues("registerValidator"))
	defer timer.ObserveDuration()

	_, _ = io.Copy(io.Discard, r.Body)

	w.WriteHeader(http.StatusOK)
	a.m.ApiReqCounter.WithLabelValues("registerValidator", "200", "").Inc()
}

func (a *API) getHeader(w http.ResponseWriter, r *http.Request) {
	if !a.enabled.GetBool("getHeader") {
		a.m.ApiReqCounter.WithLabelValues("getHeader", "204", "disabled").Inc()
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	timer := prometheus.NewTimer(a.m.ApiReqTiming.WithLabelValues("getHeader"))
	defer timer.ObserveDuration()

	uc := structs.UserContent{IP: r.Header.Get("X-Forwarded-For")}
	var l = a.l.With(log.F{
		"ip":       uc.IP,
		"endpoint": "getHeader",
	})

	req := ParseHeaderRequest(r)
	if a.lim != nil {
		if pk, err := req.Pubkey(); err == nil {
			if err := a.lim.Allow(r.Context(), pk.PublicKey); err != nil {
				a.m.ApiReqCounter.WithLabelValues("getHeader", "429", "rate limit").Inc()
				writeError(w, http.StatusTooManyRequests, err)
				return
			}
		}
	}

	m := structs.NewMetricGroup(6)
	response, err := a.b.GetHeader(r.Context(), m, uc, req)
	if err != nil {
		m.Observe(a.m.BuilderTiming, unwrapError(err, "get header unknown"))
		code := errorCode(err)
		a.m.ApiReqCounter.WithLabelValues("getHeader", codeLabel(code), "get header").Inc()

		slot, _ := req.Slot()
		ll := l.With(log.F{
			"code":    code,
			"payload": req,
			"slot":    slot,
		}).WithError(err)

		switch code {
		case http.StatusNoContent:
			ll.Debug("no bid")
			w.WriteHeader(http.StatusNoContent)
		case http.StatusBadRequest:
			ll.Debug("failed getHeader")
			writeError(w, code, err)
		default:
			ll.Warn("failed getHeader")
			writeError(w, code, err)
		}
		return
	}

	m.Observe(a.m.BuilderTiming, nil)

	w.Header().Set(HeaderConsensusVersion, string(response.Version))
	if err = json.NewEncoder(w).Encode(response); err != nil {
		l.WithError(err).WithField("path", r.URL.Path).Debug("failed to write response")
		a.m.ApiReqCounter.WithLabelValues("getHeader", "500", "response encode").Inc()
		// we don't write response as encoder already crashed
		return
	}

	a.m.ApiReqCounter.WithLabelValues("getHeader", "200", "").Inc()
}

func (a *API) getPayload(w http.ResponseWriter, r *http.Request) {
	if !a.enabled.GetBool("getPayload") {
		a.m.ApiReqCounter.WithLabelValues("getPayload", "503", "disabled").Inc()
		writeError(w, http.StatusServiceUnavailable, ErrDisabled)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	uc := structs.UserContent{IP: r.Header.Get("X-Forwarded-For")}
	var l = a.l.With(log.F{
		"ip":       uc.IP,
		"endpoint": "getPayload",
	})

	timer := prometheus.NewTimer(a.m.ApiReqTiming.WithLabelValues("getPayload"))
	defer timer.ObserveDuration()

	b, err := io.ReadAll(r.Body)
	if err != nil {
		a.m.ApiReqCounter.WithLabelValues("getPayload", "400", "read body").Inc()
		writeError(w, http.StatusBadRequest, errors.New("unable to read request body"))
		return
	}

	fork, err := a.requestFork(r, b)
	if err != nil {
		a.m.ApiReqCounter.WithLabelValues("getPayload", "400", "fork").Inc()
		writeError(w, http.StatusBadRequest, err)
		return
	}

	req, err := decodeBlindedBlock(fork, b)
	if err != nil {
		a.m.ApiReqCounter.WithLabelValues("getPayload", "400", "payload decode").Inc()
		l.WithField("fork", fork.String()).WithError(err).Debug("invalid payload")
		writeError(w, http.StatusBadRequest, errors.New("invalid getPayload request "+fork.String()+" decode"))
		return
	}

	m := structs.NewMetricGroup(4)
	payload, err := a.b.GetPayload(r.Context(), m, uc, fork, req)
	if err != nil {
		m.Observe(a.m.BuilderTiming, unwrapError(err, "get payload unknown"))
		code := errorCode(err)
		if code == http.StatusNoContent {
			code = http.StatusInternalServerError
		}
		a.m.ApiReqCounter.WithLabelValues("getPayload", codeLabel(code), "get payload").Inc()

		ll := l.With(log.F{
			"code":      code,
			"slot":      req.Slot(),
			"blockHash": req.BlockHash(),
		}).With(req).WithError(err)
		if code == http.StatusBadRequest {
			ll.Debug("failed getPayload")
		} else {
			ll.Warn("failed getPayload")
		}
		writeError(w, code, err)
		return
	}

	m.Observe(a.m.BuilderTiming, nil)

	w.Header().Set(HeaderConsensusVersion, string(payload.Version))
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		l.WithError(err).WithField("path", r.URL.Path).Debug("failed to write response")
		a.m.ApiReqCounter.WithLabelValues("getPayload", "500", "encode response").Inc()
		// we don't write response as encoder already crashed
		return
	}

	a.m.ApiReqCounter.WithLabelValues("getPayload", "200", "").Inc()
}

// requestFork resolves the fork of a blinded block: the consensus version
// header when it names a known fork, otherwise the schedule at message.slot.
func (a *API) requestFork(r *http.Request, body []byte) (structs.ForkVersion, error) {
	if v := r.Header.Get(HeaderConsensusVersion); v != "" {
		if fork := structs.ParseForkVersion(v); fork != structs.ForkUnknown {
			return fork, nil
		}
		return structs.ForkUnknown, fmt.Errorf("%w: %s", ErrUnsupportedFork, v)
	}

	var peek struct {
		Message struct {
			Slot uint64 `json:"slot,string"`
		} `json:"message"`
	}
	if err := json.Unmarshal(body, &peek); err != nil {
		return structs.ForkUnknown, errors.New("invalid getPayload request slot decode")
	}

	if fork := a.fs.ForkVersion(structs.Slot(peek.Message.Slot)); fork != structs.ForkUnknown {
		return fork, nil
	}
	return structs.ForkUnknown, ErrUnsupportedFork
}

func decodeBlindedBlock(fork structs.ForkVersion, body []byte) (structs.SignedBlindedBeaconBlock, error) {
	var req structs.SignedBlindedBeaconBlock
	switch fork {
	case structs.ForkBellatrix:
		req = &bellatrix.SignedBlindedBeaconBlock{}
	case structs.ForkCapella:
		req = &capella.SignedBlindedBeaconBlock{}
	case structs.ForkDeneb:
		req = &deneb.SignedBlindedBeaconBlock{}
	default:
		return nil, ErrUnsupportedFork
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	if err := dec.Decode(req); err != nil {
		return nil, err
	}
	if _, err := req.ExecutionHeaderHash(); err != nil {
		return nil, err
	}
	return req, nil
}

func ParseHeaderRequest(r *http.Request) structs.HeaderRequest {
	return mux.Vars(r)
}

type jsonError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, code int, err error) {
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(jsonError{
		Code:    code,
		Message: err.Error(),
	})
}

// errorCode maps builder errors onto status codes. Unbound payloads and logic
// errors end up as 500 together with everything unexpected.
func errorCode(err error) int {
	switch {
	case errors.Is(err, builder.ErrNoPayload):
		return http.StatusNoContent
	case errors.Is(err, builder.ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrTooManyCalls):
		return http.StatusTooManyRequests
	}
	return http.StatusInternalServerError
}

func codeLabel(code int) string {
	switch code {
	case http.StatusNoContent:
		return "204"
	case http.StatusBadRequest:
		return "400"
	case http.StatusTooManyRequests:
		return "429"
	}
	return "500"
}

// unwrapError keeps metric label cardinality bounded.
func unwrapError(err error, defaultMsg string) error {
	var unbind builder.UnbindPayloadError
	if errors.Is(err, builder.ErrNoPayload) {
		return builder.ErrNoPayload
	} else if errors.Is(err, builder.ErrBadRequest) {
		return builder.ErrBadRequest
	} else if errors.Is(err, builder.ErrLogic) {
		return builder.ErrLogic
	} else if errors.Is(err, builder.ErrSigning) {
		return builder.ErrSigning
	} else if errors.As(err, &unbind) {
		return errors.New("payload unknown")
	}

	return errors.New(defaultMsg)
}

type EnabledEndpoints struct {
	mu         sync.RWMutex
	getHeader  bool
	getPayload bool
}

func NewEnabledEndpoints(getHeader, getPayload bool) *EnabledEndpoints {
	return &EnabledEndpoints{getHeader: getHeader, getPayload: getPayload}
}

func (ee *EnabledEndpoints) GetBool(key string) bool {
	ok, _ := ee.Get(key)
	return ok
}

func (ee *EnabledEndpoints) Get(key string) (bool, error) {
	ee.mu.RLock()
	defer ee.mu.RUnlock()

	switch strings.ToLower(key) {
	case "getheader":
		return ee.getHeader, nil
	case "getpayload":
		return ee.getPayload, nil
	}
	return false, errors.New("param not found")
}

func (ee *EnabledEndpoints) SetBool(key string, val bool) error {
	ee.mu.Lock()
	defer ee.mu.Unlock()

	switch strings.ToLower(key) {
	case "getheader":
		ee.getHeader = val
	case "getpayload":
		ee.getPayload = val
	default:
		return errors.New("param not found")
	}
	return nil
}

func (ee *EnabledEndpoints) Map() map[string]bool {
	ee.mu.RLock()
	defer ee.mu.RUnlock()

	return map[string]bool{
		"getHeader":  ee.getHeader,
		"getPayload": ee.getPayload,
	}
}
