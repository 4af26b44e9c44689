package database

import (
	"database/sql"
)

const (
	TierFree    = "free"
	TierPremium = "premium"
	TierPro     = "pro"
)

// premiumFeatures maps gated feature names to the tiers allowed to use them.
var premiumFeatures = map[string][]string{
	"same_day_events":  {TierPremium, TierPro},
	"unlimited_events": {TierPro},
	"priority_support": {TierPremium, TierPro},
	"advanced_filters": {TierPremium, TierPro},
}

type PgSportMateRepository struct {
	conn *sql.DB
}

func NewPgSportMateRepository(dsn string) (*PgSportMateRepository, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	return &PgSportMateRepository{conn: db}, nil
}

func (db *PgSportMateRepository) Ping() error {
	return db.conn.Ping()
}

func (db *PgSportMateRepository) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}

// tierForPoints recomputes a user's tier from their lifetime rep points.
func tierForPoints(points int) string {
	switch {
	case points >= 1000:
		return TierPro
	case points >= 250:
		return TierPremium
	default:
		return TierFree
	}
}
