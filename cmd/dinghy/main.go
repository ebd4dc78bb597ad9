package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/flashbots/go-boost-utils/types"
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/holiman/uint256"
	"github.com/lthibault/log"
	"golang.org/x/time/rate"

	"github.com/blocknative/dinghy/api"
	"github.com/blocknative/dinghy/api/inner"
	"github.com/blocknative/dinghy/beacon"
	bcli "github.com/blocknative/dinghy/beacon/client"
	"github.com/blocknative/dinghy/blstools"
	"github.com/blocknative/dinghy/builder"
	"github.com/blocknative/dinghy/cmd/dinghy/config"
	"github.com/blocknative/dinghy/datastore"
	"github.com/blocknative/dinghy/datastore/evidence"
	"github.com/blocknative/dinghy/metrics"
)

const (
	shutdownTimeout = 15 * time.Second
)

var (
	loglvl     string
	logfmt     string
	datadir    string
	instanceID string

	flagAddr         string
	flagPort         uint
	flagInternalAddr string
	flagTimeout      time.Duration

	flagBeaconList           string
	flagBeaconReconnectDelay time.Duration
	flagBeaconNoReconnect    bool

	flagAttributesCacheSize int
	flagPayloadCacheSize    int
	flagPayloadBodyBytes    int
	flagPayloadValue        string

	flagNetwork       string
	flagCustomNetwork string
	flagSecretKey     string

	flagJournalTTL   time.Duration
	flagJournalQueue int

	flagHeaderRate           int
	flagHeaderBurst          int
	flagHeaderLimitCacheSize int
)

func init() {
	flag.StringVar(&loglvl, "loglvl", "info", "logging level: trace, debug, info, warn, error or fatal")
	flag.StringVar(&logfmt, "logfmt", "text", "format logs as text, json or none")
	flag.StringVar(&datadir, "datadir", "", "directory of the bid and delivery journal, in memory when empty")
	flag.StringVar(&instanceID, "instance-id", "", "instance identifier added to every log line, random when empty")

	flag.StringVar(&flagAddr, "addr", "localhost:18550", "server listen address")
	flag.UintVar(&flagPort, "port", 0, "server listen port, overrides the port of -addr")
	flag.StringVar(&flagInternalAddr, "internal-addr", "0.0.0.0:19550", "internal server listen address (metrics, pprof, services)")
	flag.DurationVar(&flagTimeout, "timeout", time.Second*5, "request timeout")

	flag.StringVar(&flagBeaconList, "beacon", "http://localhost:5052", "comma separated `url` list of beacon nodes to stream payload attributes from")
	flag.DurationVar(&flagBeaconReconnectDelay, "beacon-reconnect-delay", bcli.DefaultReconnectDelay, "initial wait before resubscribing to a beacon node, doubles up to 30s")
	flag.BoolVar(&flagBeaconNoReconnect, "beacon-no-reconnect", false, "stop streaming from a beacon node once its subscription ends")

	flag.IntVar(&flagAttributesCacheSize, "payload-attributes-cache", datastore.DefaultAttributesCacheSize, "number of payload attributes to cache in memory")
	flag.IntVar(&flagPayloadCacheSize, "payload-cache", datastore.DefaultPayloadCacheSize, "number of committed payloads kept for redemption")
	flag.IntVar(&flagPayloadBodyBytes, "payload-body-bytes", 0, "number of zero bytes used to pad the transactions field of the payload")
	flag.StringVar(&flagPayloadValue, "payload-value", "0", "value of every bid in wei (decimal)")

	flag.StringVar(&flagNetwork, "network", "mainnet", "the network the builder works on: "+strings.Join(config.Networks(), ", ")+" or a name from <datadir>/networks.json")
	flag.StringVar(&flagCustomNetwork, "custom-network", "", "path to a consensus config.yaml (or its directory), overrides -network")
	flag.StringVar(&flagSecretKey, "secret-key", "", "hex encoded BLS secret key used to sign bids, random when empty")

	flag.DurationVar(&flagJournalTTL, "journal-ttl", 24*time.Hour, "ttl of journal records")
	flag.IntVar(&flagJournalQueue, "journal-queue", 1_000, "size of the journal write queue")

	flag.IntVar(&flagHeaderRate, "header-rate", 0, "getHeader calls per second allowed per proposer, 0 disables limiting")
	flag.IntVar(&flagHeaderBurst, "header-burst", 0, "getHeader burst allowed per proposer")
	flag.IntVar(&flagHeaderLimitCacheSize, "header-limit-cache", 1_000, "number of proposers tracked by the getHeader limiter")
}

// Main starts the builder
func main() {
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	termSig := make(chan os.Signal, 2)
	signal.Notify(termSig, syscall.SIGTERM)
	signal.Notify(termSig, syscall.SIGINT)
	go waitForSignal(cancel, termSig)

	if instanceID == "" {
		instanceID = uuid.NewString()
	}
	logger := logger(loglvl, logfmt, false, os.Stdout).WithField("instance", instanceID)

	if err := run(ctx, logger); err != nil {
		logger.WithError(err).Error("builder stopped")
		os.Exit(1)
	}
}

func run(ctx context.Context, logger log.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	chainCfg := config.NewChainConfig()
	switch {
	case flagCustomNetwork != "":
		if err := chainCfg.ReadCustomConfig(flagCustomNetwork); err != nil {
			return fmt.Errorf("read custom network: %w", err)
		}
	case chainCfg.LoadNetwork(flagNetwork):
	default:
		if err := chainCfg.ReadNetworkConfig(datadir, flagNetwork); err != nil {
			return fmt.Errorf("read chain configuration: %w", err)
		}
	}

	domainBuilder, err := chainCfg.BuilderDomain()
	if err != nil {
		return fmt.Errorf("compute builder domain: %w", err)
	}

	value, err := parseValue(flagPayloadValue)
	if err != nil {
		return fmt.Errorf("payload value: %w", err)
	}

	sk, pk, generated, err := blstools.LoadOrGenerate(flagSecretKey)
	if err != nil {
		return fmt.Errorf("secret key: %w", err)
	}

	addr, err := listenAddr(flagAddr, flagPort)
	if err != nil {
		return err
	}

	logger.With(log.F{
		"network":         chainCfg.Name,
		"genesisFork":     chainCfg.GenesisForkVersion,
		"capellaEpoch":    chainCfg.Schedule.CapellaEpoch,
		"denebEpoch":      chainCfg.Schedule.DenebEpoch,
		"pubkey":          pk.String(),
		"randomKey":       generated,
		"payloadValue":    value.String(),
		"payloadBodySize": flagPayloadBodyBytes,
	}).Info("chain configuration loaded")

	m := metrics.NewMetrics(instanceID)

	// JOURNAL
	timeJournalStart := time.Now()
	store, err := evidence.Open(logger, datadir)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	if datadir != "" {
		if err := evidence.InitBadgerMetrics(m); err != nil {
			return fmt.Errorf("journal metrics: %w", err)
		}
	}
	journal := evidence.NewJournal(logger, store, flagJournalTTL, flagJournalQueue)
	warnMetrics(logger, "journal", journal.AttachMetrics(m))
	defer journal.Close()

	journalCtx, journalCancel := context.WithCancel(context.Background())
	defer journalCancel()
	journalDone := make(chan struct{})
	go func() {
		defer close(journalDone)
		journal.Run(journalCtx)
	}()

	logger.With(log.F{
		"subService":  "journal",
		"datadir":     datadir,
		"startTimeMs": time.Since(timeJournalStart).Milliseconds(),
	}).Info("initialized")

	// CACHES
	attributes, err := datastore.NewAttributesCache(flagAttributesCacheSize)
	if err != nil {
		return fmt.Errorf("attributes cache: %w", err)
	}
	warnMetrics(logger, "attributes", attributes.AttachMetrics(m))

	vault, err := datastore.NewPayloadVault(flagPayloadCacheSize)
	if err != nil {
		return fmt.Errorf("payload vault: %w", err)
	}
	warnMetrics(logger, "vault", vault.AttachMetrics(m))

	// BUILDER
	factory, err := builder.NewBidFactory(logger, builder.FactoryConfig{
		SecretKey:            sk,
		PubKey:               pk,
		BuilderSigningDomain: domainBuilder,
		Value:                value,
		PayloadBodyBytes:     flagPayloadBodyBytes,
	}, attributes, vault)
	if err != nil {
		return fmt.Errorf("bid factory: %w", err)
	}

	b := builder.NewBuilder(logger, factory, vault, journal)
	warnMetrics(logger, "builder", b.AttachMetrics(m))

	// BEACON
	beaconCli, err := initBeaconClients(logger, strings.Split(flagBeaconList, ","), m, bcli.Config{
		ReconnectDelay:    flagBeaconReconnectDelay,
		MaxReconnectDelay: bcli.DefaultMaxReconnectDelay,
		NoReconnect:       flagBeaconNoReconnect,
	})
	if err != nil {
		return fmt.Errorf("initialize beacon: %w", err)
	}

	ingestor := beacon.NewIngestor(logger, attributes)
	warnMetrics(logger, "ingestor", ingestor.AttachMetrics(m))

	ingestorDone := make(chan struct{})
	go func() {
		defer close(ingestorDone)
		ingestor.Run(ctx, beaconCli)
	}()
	logger.WithField("beacon", beaconCli.Endpoint()).Info("payload attributes ingestor running")

	// API
	ee := api.NewEnabledEndpoints(true, true)

	var lim api.RateLimitter
	if flagHeaderRate > 0 {
		limitterCache, err := lru.New[[48]byte, *rate.Limiter](flagHeaderLimitCacheSize)
		if err != nil {
			return fmt.Errorf("limiter cache: %w", err)
		}
		burst := flagHeaderBurst
		if burst <= 0 {
			burst = flagHeaderRate
		}
		lim = api.NewLimitter(flagHeaderRate, burst, limitterCache)
	}

	a := api.NewApi(logger, ee, b, chainCfg.Schedule, lim)
	warnMetrics(logger, "api", a.AttachMetrics(m))

	iApi := inner.NewAPI(ee, ingestor, journal)
	internalMux := http.NewServeMux()
	iApi.AttachToHandler(internalMux)
	m.AttachHandlers(internalMux)

	internalSrv := &http.Server{
		Addr:    flagInternalAddr,
		Handler: internalMux,
	}
	go func() {
		logger.WithField("addr", flagInternalAddr).Info("internal server listening")
		if err := internalSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Error("internal server failed")
		}
	}()

	mux := http.NewServeMux()
	a.AttachToHandler(mux)

	srv := &http.Server{
		Addr:           addr,
		ReadTimeout:    flagTimeout,
		WriteTimeout:   flagTimeout,
		IdleTimeout:    flagTimeout,
		Handler:        mux,
		MaxHeaderBytes: 4096,
	}

	srvErr := make(chan error, 1)
	go func() {
		logger.WithField("addr", addr).Info("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			srvErr <- err
		}
		close(srvErr)
	}()

	select {
	case <-ctx.Done():
	case err = <-srvErr:
		if err != nil {
			logger.WithError(err).Error("http server failed")
		}
	}

	cancel()
	sctx, closeC := context.WithTimeout(context.Background(), shutdownTimeout)
	defer closeC()

	logger.Info("shutdown initialized")
	if serr := srv.Shutdown(sctx); serr != nil {
		logger.WithError(serr).Warn("http server shutdown")
	}
	if serr := internalSrv.Shutdown(sctx); serr != nil {
		logger.WithError(serr).Warn("internal server shutdown")
	}

	journalCancel()
	select {
	case <-journalDone:
	case <-sctx.Done():
		logger.Warn("journal flush deadline exceeded")
	}
	select {
	case <-ingestorDone:
	case <-sctx.Done():
		logger.Warn("ingestor stop deadline exceeded")
	}

	return err
}

func waitForSignal(cancel context.CancelFunc, osSig chan os.Signal) {
	for range osSig {
		cancel()
		return
	}
}

func initBeaconClients(l log.Logger, endpoints []string, m *metrics.Metrics, c bcli.Config) (*bcli.MultiBeaconClient, error) {
	clients := make([]bcli.BeaconNode, 0, len(endpoints))
	for _, endpoint := range endpoints {
		endpoint = strings.TrimSpace(endpoint)
		if endpoint == "" {
			continue
		}
		client, err := bcli.NewBeaconClient(l, endpoint, c)
		if err != nil {
			return nil, err
		}
		warnMetrics(l.WithField("endpoint", endpoint), "beacon", client.AttachMetrics(m))
		clients = append(clients, client)
	}
	if len(clients) == 0 {
		return nil, bcli.ErrNoBeaconNodes
	}
	return bcli.NewMultiBeaconClient(l, clients), nil
}

// warnMetrics logs collectors that failed to register. The service keeps
// running without them.
func warnMetrics(l log.Logger, component string, err error) {
	if err != nil {
		l.WithError(err).WithField("component", component).Warn("failed to register metrics")
	}
}

// parseValue parses a decimal wei amount.
func parseValue(s string) (value types.U256Str, err error) {
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return value, err
	}
	err = value.FromBig(v.ToBig())
	return value, err
}

// listenAddr replaces the port of addr when port is set.
func listenAddr(addr string, port uint) (string, error) {
	if port == 0 {
		return addr, nil
	}
	if port > 65535 {
		return "", fmt.Errorf("invalid port %d", port)
	}

	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return "", fmt.Errorf("invalid listen address %s: %w", addr, err)
	}
	return net.JoinHostPort(host, strconv.FormatUint(uint64(port), 10)), nil
}
