package store

import (
	"context"
	"database/sql/driver"
	"fmt"
	"net"
	"strings"
	"time"

	"honor-sync/core/database"
	"honor-sync/core/errors"
	"honor-sync/core/logger"
	"honor-sync/feature/honors/models"
	"honor-sync/feature/honors/reconcile"

	mysqldrv "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	mysqlLockWaitTimeout = 1205
	mysqlDeadlock        = 1213
)

// Store reads and writes game honor documents through gorm.
type Store struct {
	db  *gorm.DB
	log *zap.Logger
}

var _ reconcile.Store = (*Store)(nil)

// New creates a Store on db.
func New(db *gorm.DB, log *zap.Logger) *Store {
	return &Store{db: db, log: logger.OrNop(log)}
}

// Prepare migrates the games table and verifies its columns.
func (s *Store) Prepare(ctx context.Context) error {
	db := s.db.WithContext(ctx)
	if err := db.AutoMigrate(&Game{}); err != nil {
		return fmt.Errorf("failed to migrate games table: %w", err)
	}
	missing, err := database.MissingColumns(db, Game{}.TableName(), requiredColumns...)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return fmt.Errorf("games table is missing columns: %s", strings.Join(missing, ", "))
	}
	s.log.Debug("Games table ready")
	return nil
}

// Get loads one game. Unknown ids return an error matching errors.ErrNotFound.
func (s *Store) Get(ctx context.Context, gameID string) (*reconcile.Document, error) {
	var g Game
	err := s.db.WithContext(ctx).Where("external_id = ?", gameID).Take(&g).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.NewNotFoundError("game", gameID)
	}
	if err != nil {
		return nil, storeError("get", gameID, err)
	}
	doc := toDocument(g)
	return &doc, nil
}

// Save overwrites the honors of an existing game. Name and provisional flag
// are left untouched.
func (s *Store) Save(ctx context.Context, doc *reconcile.Document) error {
	res := s.db.WithContext(ctx).
		Model(&Game{ExternalID: doc.GameID}).
		Select("honors", "updated_at").
		Updates(&Game{Honors: honorsOrEmpty(doc.Honors), UpdatedAt: time.Now()})
	if res.Error != nil {
		return storeError("save", doc.GameID, res.Error)
	}
	if res.RowsAffected == 0 {
		return errors.NewNotFoundError("game", doc.GameID)
	}
	return nil
}

// Create inserts a new game record.
func (s *Store) Create(ctx context.Context, doc *reconcile.Document) error {
	g := Game{
		ExternalID:  doc.GameID,
		Name:        doc.Name,
		Provisional: doc.Provisional,
		Honors:      honorsOrEmpty(doc.Honors),
	}
	if err := s.db.WithContext(ctx).Create(&g).Error; err != nil {
		return storeError("create", doc.GameID, err)
	}
	return nil
}

// Scan returns up to limit games with an id after afterID, in id order.
func (s *Store) Scan(ctx context.Context, afterID string, limit int) ([]reconcile.Document, error) {
	var games []Game
	err := s.db.WithContext(ctx).
		Where("external_id > ?", afterID).
		Order("external_id").
		Limit(limit).
		Find(&games).Error
	if err != nil {
		return nil, storeError("scan", afterID, err)
	}
	docs := make([]reconcile.Document, 0, len(games))
	for _, g := range games {
		docs = append(docs, toDocument(g))
	}
	return docs, nil
}

func toDocument(g Game) reconcile.Document {
	// Rows written by older tools may carry lower-case or "Recommended"
	// categories; unknown names are kept so they still show up as legacy.
	for i, h := range g.Honors {
		if c, err := models.ParseCategory(string(h.Category)); err == nil {
			g.Honors[i].Category = c
		}
	}
	return reconcile.Document{
		GameID:      g.ExternalID,
		Name:        g.Name,
		Provisional: g.Provisional,
		Honors:      g.Honors,
	}
}

func storeError(op, gameID string, err error) *errors.StoreError {
	return &errors.StoreError{Op: op, GameID: gameID, Err: err, Transient: transient(err)}
}

// transient reports driver conditions that usually clear on retry: dropped
// connections, lock waits, deadlocks and a busy sqlite file.
func transient(err error) bool {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, mysqldrv.ErrInvalidConn) {
		return true
	}
	var me *mysqldrv.MySQLError
	if errors.As(err, &me) {
		return me.Number == mysqlLockWaitTimeout || me.Number == mysqlDeadlock
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "database table is locked")
}

// honorsOrEmpty keeps an empty document as "[]" instead of "null".
func honorsOrEmpty(h []models.CanonicalHonor) []models.CanonicalHonor {
	if h == nil {
		return []models.CanonicalHonor{}
	}
	return h
}
