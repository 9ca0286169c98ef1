// Package store is the gorm-backed persistence layer for travel groups,
// members, flight/transport/lodging segments and logistics checklists.
//
// Every operation takes a context and re-reads the database; nothing is
// cached across calls. Multi-record writes run in a single transaction and
// derived group state (member counters, coordination flags) is recomputed
// inside that transaction.
package store

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"tourhub/internal/apperr"
	"tourhub/internal/models"
)

// Store wraps a gorm handle.
type Store struct {
	db *gorm.DB
}

// New returns a Store over db.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle for migrations and health checks.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Migrate creates or updates every table the service owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.TravelGroup{},
		&models.TravelGroupMember{},
		&models.FlightCoordination{},
		&models.GroundTransportationCoordination{},
		&models.LodgingBooking{},
		&models.TourLogistics{},
	)
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return translate(err, "", "")
	}
	return translate(sqlDB.PingContext(ctx), "", "")
}

// Filter scopes reads to an event or tour. When both are set, records
// matching either are returned.
type Filter struct {
	EventID string `form:"event_id" json:"event_id"`
	TourID  string `form:"tour_id" json:"tour_id"`
}

func (f Filter) apply(q *gorm.DB, table string) *gorm.DB {
	event, tour := table+".event_id", table+".tour_id"
	switch {
	case f.EventID != "" && f.TourID != "":
		return q.Where("("+event+" = ? OR "+tour+" = ?)", f.EventID, f.TourID)
	case f.EventID != "":
		return q.Where(event+" = ?", f.EventID)
	case f.TourID != "":
		return q.Where(tour+" = ?", f.TourID)
	}
	return q
}

const (
	DefaultPageSize = 50
	MaxPageSize     = 200
)

// Page bounds a list query.
type Page struct {
	Limit  int `form:"limit" json:"limit"`
	Offset int `form:"offset" json:"offset"`
}

// Normalized clamps the page to sane bounds.
func (p Page) Normalized() Page {
	if p.Limit <= 0 {
		p.Limit = DefaultPageSize
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// inTx runs fn in a transaction bound to ctx.
func (s *Store) inTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return translate(s.db.WithContext(ctx).Transaction(fn), "", "")
}

// translate maps driver and gorm errors onto apperr codes. Errors that are
// already coded pass through unchanged.
func translate(err error, kind, id string) error {
	if err == nil {
		return nil
	}
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(kind, id)
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return apperr.Timeout("database call timed out", err)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch {
		case pqErr.Code == "23505":
			return apperr.Conflict("record already exists", err)
		case pqErr.Code == "23503":
			return apperr.Conflict("referenced record does not exist", err)
		case pqErr.Code.Class() == "08":
			return apperr.Network("database connection failed", err)
		case pqErr.Code == "57014":
			return apperr.Timeout("database statement cancelled", err)
		}
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, gorm.ErrInvalidDB) {
		return apperr.Network("database connection failed", err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return apperr.Timeout("database call timed out", err)
		}
		return apperr.Network("database unreachable", err)
	}
	return apperr.Internal("database error", err)
}
