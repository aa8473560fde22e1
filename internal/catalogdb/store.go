// Package catalogdb mirrors the outputs of a merge run into a SQLite database.
// Each run replaces both tables in full.
package catalogdb

import (
	"context"
	"fmt"

	"github.com/lehigh-university-libraries/bookmerge/internal/records"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const batchSize = 500

// Book is a row of dim_book.
type Book struct {
	ID    uint   `gorm:"primaryKey"`
	RunID string `gorm:"index"`

	records.CanonicalBookRecord `gorm:"embedded"`
}

func (Book) TableName() string { return "dim_book" }

// SourceDetail is a row of book_source_detail.
type SourceDetail struct {
	ID          uint   `gorm:"primaryKey"`
	RunID       string `gorm:"index"`
	CanonicalID string `gorm:"index"`
	GBID        string `gorm:"column:gb_id"`
	FromGoogle  bool
	MergeMethod string
	Timestamp   string
}

func (SourceDetail) TableName() string { return "book_source_detail" }

// Store wraps the database handle.
type Store struct {
	db *gorm.DB
}

// Open opens (creating if needed) the SQLite database at path and migrates it.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if err := db.AutoMigrate(&Book{}, &SourceDetail{}); err != nil {
		return nil, fmt.Errorf("failed to migrate sqlite database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Replace swaps the contents of both tables for the given run inside one transaction.
func (s *Store) Replace(ctx context.Context, runID string, books []records.CanonicalBookRecord, details []records.MatchDetail) error {
	bookRows := make([]Book, 0, len(books))
	for _, b := range books {
		bookRows = append(bookRows, Book{RunID: runID, CanonicalBookRecord: b})
	}
	detailRows := make([]SourceDetail, 0, len(details))
	for _, d := range details {
		detailRows = append(detailRows, SourceDetail{
			RunID:       runID,
			CanonicalID: d.CanonicalID,
			GBID:        d.GBID,
			FromGoogle:  d.FromGoogle,
			MergeMethod: string(d.MergeMethod),
			Timestamp:   d.Timestamp,
		})
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&Book{}).Error; err != nil {
			return fmt.Errorf("failed to clear dim_book: %w", err)
		}
		if err := tx.Where("1 = 1").Delete(&SourceDetail{}).Error; err != nil {
			return fmt.Errorf("failed to clear book_source_detail: %w", err)
		}
		if len(bookRows) > 0 {
			if err := tx.CreateInBatches(bookRows, batchSize).Error; err != nil {
				return fmt.Errorf("failed to insert books: %w", err)
			}
		}
		if len(detailRows) > 0 {
			if err := tx.CreateInBatches(detailRows, batchSize).Error; err != nil {
				return fmt.Errorf("failed to insert source details: %w", err)
			}
		}
		return nil
	})
}

// Books returns the stored canonical records ordered by canonical id.
func (s *Store) Books(ctx context.Context) ([]Book, error) {
	var out []Book
	if err := s.db.WithContext(ctx).Order("canonical_id").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to query books: %w", err)
	}
	return out, nil
}

// CountDetails returns the number of stored ledger entries.
func (s *Store) CountDetails(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&SourceDetail{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count source details: %w", err)
	}
	return n, nil
}
