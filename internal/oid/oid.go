// Package oid allocates the monotonically increasing 32-bit object
// identifiers used to name databases, tables, and their on-disk files.
package oid

import (
	"os"
	"strconv"
	"strings"

	"github.com/gofrs/flock"
	"github.com/pkg/errors"

	"github.com/minidb-go/minidb/internal/pathlayout"
)

// Oid is a 32-bit object identifier.
type Oid = uint32

// Initial is the first OID ever issued; values below it are reserved for
// catalog-internal use.
const Initial Oid = 10000

// CreateFile seeds a fresh counter file at layout.OidFile() if one does not
// already exist, so that running init twice never resets an allocated
// counter.
func CreateFile(layout *pathlayout.Layout) error {
	path := layout.OidFile()
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return errors.Wrapf(err, "oid: stat %s", path)
	}
	return os.WriteFile(path, []byte(strconv.FormatUint(uint64(Initial), 10)), 0644)
}

// Manager is a process-wide counter loaded from the OID file at
// construction and rewritten to the same path on Close. GetNewOid returns
// the current value and post-increments.
//
// A file lock guards the read-modify-write cycle so two CLI invocations
// against the same root directory cannot allocate the same OID.
type Manager struct {
	layout     *pathlayout.Layout
	lock       *flock.Flock
	currentOid Oid
}

// Load opens the counter file, locks it, and parses its current value.
// Close must be called to release the lock and persist the new value.
func Load(layout *pathlayout.Layout) (*Manager, error) {
	path := layout.OidFile()

	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return nil, errors.Wrapf(err, "oid: lock %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		_ = lock.Unlock()
		return nil, errors.Wrapf(err, "oid: read %s", path)
	}

	firstLine := strings.SplitN(strings.TrimSpace(string(data)), "\n", 2)[0]
	current, err := strconv.ParseUint(firstLine, 10, 32)
	if err != nil {
		_ = lock.Unlock()
		return nil, errors.Wrapf(err, "oid: file %s should contain an integer, got %q", path, firstLine)
	}

	return &Manager{layout: layout, lock: lock, currentOid: Oid(current)}, nil
}

// GetNewOid returns the current counter value and post-increments it.
func (m *Manager) GetNewOid() Oid {
	result := m.currentOid
	m.currentOid++
	return result
}

// Close rewrites the counter file with the current value and releases the
// file lock. Safe to call once; subsequent calls are no-ops.
func (m *Manager) Close() error {
	if m.lock == nil {
		return nil
	}
	path := m.layout.OidFile()
	err := os.WriteFile(path, []byte(strconv.FormatUint(uint64(m.currentOid), 10)), 0644)
	if unlockErr := m.lock.Unlock(); err == nil {
		err = unlockErr
	}
	m.lock = nil
	if err != nil {
		return errors.Wrapf(err, "oid: writing %s", path)
	}
	return nil
}
