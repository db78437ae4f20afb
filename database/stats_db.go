package database

import (
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"gorm.io/gorm"
)

// StatsDB runs the aggregate queries behind tree statistics against the raw
// sql.DB underneath GORM. squirrel keeps the per-tree filtering composable.
type StatsDB struct {
	db *sql.DB
}

// NewStatsDB exposes the raw connection of a GORM database for statistics queries
func NewStatsDB(gormDB *gorm.DB) (*StatsDB, error) {
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB from GORM: %w", err)
	}
	return &StatsDB{db: sqlDB}, nil
}

func (s *StatsDB) countPeople(treeID uint, extra sq.Sqlizer) (int64, error) {
	builder := sq.Select("COUNT(*)").
		From("people").
		Where(sq.Eq{"family_tree_id": treeID})
	if extra != nil {
		builder = builder.Where(extra)
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build people count query: %w", err)
	}
	var count int64
	if err := s.db.QueryRow(query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count people for tree %d: %w", treeID, err)
	}
	return count, nil
}

// PersonPhotoCount returns how many people in the tree have a profile photo
func (s *StatsDB) PersonPhotoCount(treeID uint) (int64, error) {
	return s.countPeople(treeID, sq.NotEq{"photo_path": nil})
}

// PersonBirthDateCount returns how many people in the tree have a birth date
func (s *StatsDB) PersonBirthDateCount(treeID uint) (int64, error) {
	return s.countPeople(treeID, sq.NotEq{"birth_date": nil})
}

// BirthYearRange returns the oldest and newest birth years recorded in the
// tree. Both are nil when no person carries a birth date.
func (s *StatsDB) BirthYearRange(treeID uint) (oldest, newest *int, err error) {
	query, args, err := sq.Select("MIN(birth_date)", "MAX(birth_date)").
		From("people").
		Where(sq.Eq{"family_tree_id": treeID}).
		Where(sq.NotEq{"birth_date": nil}).
		ToSql()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build birth year range query: %w", err)
	}

	var minTs, maxTs sql.NullInt64
	if err := s.db.QueryRow(query, args...).Scan(&minTs, &maxTs); err != nil {
		return nil, nil, fmt.Errorf("failed to query birth year range for tree %d: %w", treeID, err)
	}
	if minTs.Valid {
		y := time.Unix(minTs.Int64, 0).UTC().Year()
		oldest = &y
	}
	if maxTs.Valid {
		y := time.Unix(maxTs.Int64, 0).UTC().Year()
		newest = &y
	}
	return oldest, newest, nil
}
