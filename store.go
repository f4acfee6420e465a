package tracker

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ledgerFile is the name of the ledger document inside the data directory.
const ledgerFile = "portfolio.json"

// StoreErrorKind classifies a persistence failure.
type StoreErrorKind int

const (
	// StoreCorrupt means the persisted data cannot be parsed against the
	// expected schema. The caller must surface it; it is never silently
	// turned into an empty ledger.
	StoreCorrupt StoreErrorKind = iota
	// StoreUnwritable means the target location cannot be written.
	StoreUnwritable
	// StoreNotFound means an explicitly requested document is absent.
	StoreNotFound
)

func (k StoreErrorKind) String() string {
	switch k {
	case StoreCorrupt:
		return "corrupt"
	case StoreUnwritable:
		return "unwritable"
	case StoreNotFound:
		return "not found"
	default:
		return "error"
	}
}

// StoreError is a typed persistence failure. Store errors are fatal for the
// invocation, except that a missing ledger on Load is a valid first run.
type StoreError struct {
	Kind StoreErrorKind
	Path string
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %s: %v", e.Kind, e.Path, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Store owns the persistence of the holdings ledger. It is a value bound to
// a data directory; the zero value is not usable, use NewStore.
type Store struct {
	dir      string
	currency string // display currency used for a first-run empty ledger
}

// NewStore creates a store rooted at dir. The currency seeds empty ledgers
// on first run.
func NewStore(dir, currency string) Store {
	return Store{dir: dir, currency: currency}
}

// DefaultDir returns the conventional data directory, ~/.tracker.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".tracker"
	}
	return filepath.Join(home, ".tracker")
}

// Dir returns the store's data directory.
func (s Store) Dir() string { return s.dir }

// LedgerPath returns the full path of the ledger document.
func (s Store) LedgerPath() string { return filepath.Join(s.dir, ledgerFile) }

// Load reads the persisted ledger. An absent file is not an error: first run
// is a valid state and yields an empty ledger. An unparseable file is
// reported as a StoreError with kind StoreCorrupt.
func (s Store) Load() (*Ledger, error) {
	f, err := os.Open(s.LedgerPath())
	if errors.Is(err, fs.ErrNotExist) {
		return NewLedger(s.currency), nil
	}
	if err != nil {
		return nil, &StoreError{Kind: StoreNotFound, Path: s.LedgerPath(), Err: err}
	}
	defer f.Close()

	l, err := DecodeLedger(f)
	if err != nil {
		return nil, &StoreError{Kind: StoreCorrupt, Path: s.LedgerPath(), Err: err}
	}
	return l, nil
}

// Save persists the full ledger atomically: the document is written to a
// temporary file in the same directory and then renamed over the previous
// one, so a crash mid-write cannot corrupt the last valid state.
func (s Store) Save(l *Ledger) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return &StoreError{Kind: StoreUnwritable, Path: s.dir, Err: err}
	}

	tmp, err := os.CreateTemp(s.dir, ledgerFile+".tmp-*")
	if err != nil {
		return &StoreError{Kind: StoreUnwritable, Path: s.dir, Err: err}
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if err := EncodeLedger(tmp, l); err != nil {
		tmp.Close()
		return &StoreError{Kind: StoreUnwritable, Path: tmp.Name(), Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &StoreError{Kind: StoreUnwritable, Path: tmp.Name(), Err: err}
	}
	if err := os.Rename(tmp.Name(), s.LedgerPath()); err != nil {
		return &StoreError{Kind: StoreUnwritable, Path: s.LedgerPath(), Err: err}
	}
	return nil
}
