package database

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// StoreName selects one of the clinic stores.
type StoreName string

const (
	// Person is the reference store (PERSON, LAST).
	Person StoreName = "person"
	// Waitlist is the waiting-list store (WAIT<yyyy>).
	Waitlist StoreName = "waitlist"
	// Treatment is the treatment-log store (MTR<yyyy>).
	Treatment StoreName = "treatment"
)

// DefaultDatabase returns the database name used when none is configured.
func (s StoreName) DefaultDatabase() string {
	switch s {
	case Waitlist:
		return "mtswait"
	case Treatment:
		return "mtsmtr"
	default:
		return "person"
	}
}

// ErrUnknownStore is returned for a store name outside the set.
var ErrUnknownStore = errors.New("unknown store")

// StoreSet holds one independently pooled handle per store.
// It replaces process-wide pools so tests can inject in-memory stores.
type StoreSet struct {
	stores map[StoreName]*gorm.DB
}

// NewStoreSet wraps already opened handles.
func NewStoreSet(person, waitlist, treatment *gorm.DB) *StoreSet {
	return &StoreSet{stores: map[StoreName]*gorm.DB{
		Person:    person,
		Waitlist:  waitlist,
		Treatment: treatment,
	}}
}

// Open connects all three stores from configuration.
func Open(cfg Config) (*StoreSet, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	opened := make(map[StoreName]*gorm.DB, 3)
	for name, sc := range map[StoreName]StoreConfig{
		Person:    cfg.Person,
		Waitlist:  cfg.Waitlist,
		Treatment: cfg.Treatment,
	} {
		db, err := Connect(cfg.Driver, sc.withDefaults(name, loc))
		if err != nil {
			for _, o := range opened {
				closeDB(o)
			}
			return nil, fmt.Errorf("failed to open %s store: %w", name, err)
		}
		opened[name] = db
	}
	return &StoreSet{stores: opened}, nil
}

// Person returns the reference store handle.
func (s *StoreSet) Person() *gorm.DB { return s.stores[Person] }

// Waitlist returns the waiting-list store handle.
func (s *StoreSet) Waitlist() *gorm.DB { return s.stores[Waitlist] }

// Treatment returns the treatment-log store handle.
func (s *StoreSet) Treatment() *gorm.DB { return s.stores[Treatment] }

// DB returns a context-bound handle for the named store.
func (s *StoreSet) DB(ctx context.Context, name StoreName) (*gorm.DB, error) {
	db, ok := s.stores[name]
	if !ok || db == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownStore, name)
	}
	return db.WithContext(ctx), nil
}

// Exec runs a statement on the named store and returns the affected row count.
func (s *StoreSet) Exec(ctx context.Context, name StoreName, statement string, params ...any) (int64, error) {
	db, err := s.DB(ctx, name)
	if err != nil {
		return 0, err
	}
	res := db.Exec(statement, params...)
	if res.Error != nil {
		return 0, Wrap("exec", name, "", "", res.Error)
	}
	return res.RowsAffected, nil
}

// Query runs a statement on the named store and scans the result into dest.
func (s *StoreSet) Query(ctx context.Context, name StoreName, dest any, statement string, params ...any) error {
	db, err := s.DB(ctx, name)
	if err != nil {
		return err
	}
	if err := db.Raw(statement, params...).Scan(dest).Error; err != nil {
		return Wrap("query", name, "", "", err)
	}
	return nil
}

// Rows runs a statement on the named store and returns loosely typed rows.
// Column names are lower-cased so callers do not depend on driver casing.
func (s *StoreSet) Rows(ctx context.Context, name StoreName, statement string, params ...any) ([]map[string]any, error) {
	var raw []map[string]any
	if err := s.Query(ctx, name, &raw, statement, params...); err != nil {
		return nil, err
	}
	rows := make([]map[string]any, 0, len(raw))
	for _, r := range raw {
		rows = append(rows, lowerKeys(r))
	}
	return rows, nil
}

// Ping checks every store.
func (s *StoreSet) Ping(ctx context.Context) error {
	for name, db := range s.stores {
		sqlDB, err := db.DB()
		if err != nil {
			return fmt.Errorf("failed to get sql.DB for %s: %w", name, err)
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			return fmt.Errorf("failed to ping %s store: %w", name, err)
		}
	}
	return nil
}

// Close releases every pool.
func (s *StoreSet) Close() error {
	var errs []error
	for name, db := range s.stores {
		sqlDB, err := db.DB()
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		if err := sqlDB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
