package catalog

import (
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/yungbote/bioof-backend/internal/domain/catalog"
	"github.com/yungbote/bioof-backend/internal/platform/dbctx"
	"github.com/yungbote/bioof-backend/internal/platform/logger"
)

type SchemaCatalogRepo interface {
	// Register inserts entry. created is false when the attribute name was
	// already registered; that case is not an error.
	Register(dbc dbctx.Context, entry *catalog.Entry) (created bool, err error)
	GetByName(dbc dbctx.Context, name string) (*catalog.Entry, error)
	// List returns every entry, oldest registration first.
	List(dbc dbctx.Context) ([]*catalog.Entry, error)
	MarkPropagated(dbc dbctx.Context, name string, documents int64, at time.Time) error
}

type schemaCatalogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSchemaCatalogRepo(db *gorm.DB, baseLog *logger.Logger) SchemaCatalogRepo {
	return &schemaCatalogRepo{db: db, log: baseLog.With("repo", "SchemaCatalogRepo")}
}

func (r *schemaCatalogRepo) Register(dbc dbctx.Context, entry *catalog.Entry) (bool, error) {
	if entry == nil {
		return false, errors.New("catalog entry required")
	}
	// A failed statement aborts a surrounding postgres transaction, so the
	// insert runs in a savepoint when one is active.
	tx := dbc.Conn(r.db)
	var err error
	if dbc.Tx != nil {
		err = tx.Transaction(func(inner *gorm.DB) error {
			return inner.Create(entry).Error
		})
	} else {
		err = tx.Create(entry).Error
	}
	if err == nil {
		return true, nil
	}
	if IsDuplicateKey(err) {
		r.log.Debug("Catalog attribute already registered", "attribute_name", entry.AttributeName)
		return false, nil
	}
	return false, err
}

func (r *schemaCatalogRepo) GetByName(dbc dbctx.Context, name string) (*catalog.Entry, error) {
	var rows []*catalog.Entry
	if err := dbc.Conn(r.db).
		Where("attribute_name = ?", name).
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *schemaCatalogRepo) List(dbc dbctx.Context) ([]*catalog.Entry, error) {
	out := []*catalog.Entry{}
	if err := dbc.Conn(r.db).
		Order("created_at ASC").
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *schemaCatalogRepo) MarkPropagated(dbc dbctx.Context, name string, documents int64, at time.Time) error {
	return dbc.Conn(r.db).
		Model(&catalog.Entry{}).
		Where("attribute_name = ?", name).
		Updates(map[string]any{
			"propagated_at":        at,
			"propagated_documents": documents,
		}).Error
}

// IsDuplicateKey reports unique-constraint violations from either the gorm
// error translator (TranslateError must be on) or a raw postgres error.
// Error text is never inspected.
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
