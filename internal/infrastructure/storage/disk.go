package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/jgraziolaVU/Yeonni1MB/internal/infrastructure/monitoring/logging"
	apperrors "github.com/jgraziolaVU/Yeonni1MB/pkg/errors"
	"github.com/jgraziolaVU/Yeonni1MB/pkg/types/analysis"
)

// sweepInterval is how often the disk store scans for expired reports.
const sweepInterval = 10 * time.Minute

// DiskStore keeps reports as JSON files in a directory. When a TTL is set, a
// background sweeper removes files older than the TTL.
type DiskStore struct {
	dir    string
	ttl    time.Duration
	logger logging.Logger

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// NewDiskStore creates the report directory if needed and starts the TTL
// sweeper when ttl > 0.
func NewDiskStore(dir string, ttl time.Duration, logger logging.Logger) (*DiskStore, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeStorage, "create report directory")
	}

	s := &DiskStore{
		dir:    dir,
		ttl:    ttl,
		logger: logger.Named("storage.disk"),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}

	if ttl > 0 {
		go s.sweepLoop()
	} else {
		close(s.done)
	}
	return s, nil
}

func (s *DiskStore) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// validID rejects IDs that could escape the report directory.
func validID(id string) bool {
	return id != "" && !strings.ContainsAny(id, `/\`) && id != "." && id != ".."
}

func (s *DiskStore) Save(_ context.Context, result *analysis.Result) error {
	if result == nil || !validID(result.ID) {
		return apperrors.New(apperrors.CodeInvalidParam, "invalid report id")
	}

	data, err := json.Marshal(result)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeStorage, "encode report")
	}

	tmp := s.path(result.ID) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return apperrors.Wrap(err, apperrors.CodeStorage, "write report")
	}
	if err := os.Rename(tmp, s.path(result.ID)); err != nil {
		os.Remove(tmp)
		return apperrors.Wrap(err, apperrors.CodeStorage, "write report")
	}
	return nil
}

func (s *DiskStore) Load(_ context.Context, id string) (*analysis.Result, error) {
	if !validID(id) {
		return nil, apperrors.New(apperrors.CodeInvalidParam, "invalid report id")
	}

	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.Newf(apperrors.CodeNotFound, "report %s not found", id)
		}
		return nil, apperrors.Wrap(err, apperrors.CodeStorage, "read report")
	}

	var result analysis.Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeStorage, "decode report")
	}
	return &result, nil
}

func (s *DiskStore) Delete(_ context.Context, id string) error {
	if !validID(id) {
		return apperrors.New(apperrors.CodeInvalidParam, "invalid report id")
	}
	if err := os.Remove(s.path(id)); err != nil && !os.IsNotExist(err) {
		return apperrors.Wrap(err, apperrors.CodeStorage, "delete report")
	}
	return nil
}

// Close stops the sweeper and waits for it to exit.
func (s *DiskStore) Close() error {
	s.stopOnce.Do(func() { close(s.stop) })
	<-s.done
	return nil
}

func (s *DiskStore) sweepLoop() {
	defer close(s.done)

	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// Sweep removes every report file older than the TTL and returns how many
// were deleted. It is exported so operators can trigger a cleanup directly.
func (s *DiskStore) Sweep() int {
	cutoff := time.Now().Add(-s.ttl)

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		s.logger.Warn("report sweep failed", logging.Err(err))
		return 0
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, entry.Name())); err == nil {
			removed++
		}
	}

	if removed > 0 {
		s.logger.Info("expired reports removed", logging.Int("count", removed))
	}
	return removed
}
