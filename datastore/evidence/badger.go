package evidence

import (
	"github.com/blocknative/dinghy/metrics"
	"github.com/dgraph-io/badger/v2"
	ds "github.com/ipfs/go-datastore"
	dssync "github.com/ipfs/go-datastore/sync"
	badg "github.com/ipfs/go-ds-badger2"
	"github.com/lthibault/log"
	"github.com/prometheus/client_golang/prometheus"
)

// Open returns a badger backed store in datadir, or an in-memory one when
// datadir is empty.
func Open(l log.Logger, datadir string) (ds.Datastore, error) {
	if datadir == "" {
		return dssync.MutexWrap(ds.NewMapDatastore()), nil
	}

	opts := badg.DefaultOptions
	opts.Options = opts.Options.WithLogger(badgerLogger{l.WithField("service", "badger")})

	return badg.NewDatastore(datadir, &opts)
}

var _ badger.Logger = badgerLogger{}

type badgerLogger struct {
	l log.Logger
}

func (b badgerLogger) Errorf(format string, args ...interface{}) {
	b.l.Errorf(format, args...)
}

func (b badgerLogger) Warningf(format string, args ...interface{}) {
	b.l.Warnf(format, args...)
}

func (b badgerLogger) Infof(format string, args ...interface{}) {
	b.l.Debugf(format, args...)
}

func (b badgerLogger) Debugf(format string, args ...interface{}) {
	b.l.Debugf(format, args...)
}

func InitBadgerMetrics(m *metrics.Metrics) error {
	return m.RegisterExpvar(map[string]*prometheus.Desc{
		"badger_v2_disk_reads_total":     prometheus.NewDesc("badger_disk_reads_total", "Disk Reads", nil, nil),
		"badger_v2_disk_writes_total":    prometheus.NewDesc("badger_disk_writes_total", "Disk Writes", nil, nil),
		"badger_v2_gets_total":           prometheus.NewDesc("badger_gets_total", "Gets", nil, nil),
		"badger_v2_puts_total":           prometheus.NewDesc("badger_puts_total", "Puts", nil, nil),
		"badger_v2_lsm_size_bytes":       prometheus.NewDesc("badger_lsm_size_bytes", "LSM Size in bytes", []string{"database"}, nil),
		"badger_v2_vlog_size_bytes":      prometheus.NewDesc("badger_vlog_size_bytes", "Value Log Size in bytes", []string{"database"}, nil),
		"badger_v2_pending_writes_total": prometheus.NewDesc("badger_pending_writes_total", "Pending Writes", []string{"database"}, nil),
	})
}
