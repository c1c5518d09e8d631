package research

import (
	"gorm.io/gorm"

	"github.com/yungbote/bioof-backend/internal/domain/research"
	"github.com/yungbote/bioof-backend/internal/platform/dbctx"
	"github.com/yungbote/bioof-backend/internal/platform/logger"
)

type ProjectRepo interface {
	Create(dbc dbctx.Context, rows []*research.Project) ([]*research.Project, error)
	GetByIDs(dbc dbctx.Context, ids []int64) ([]*research.Project, error)
	// GetByID returns nil, nil when the project does not exist.
	GetByID(dbc dbctx.Context, id int64) (*research.Project, error)
}

type projectRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProjectRepo(db *gorm.DB, baseLog *logger.Logger) ProjectRepo {
	return &projectRepo{db: db, log: baseLog.With("repo", "ProjectRepo")}
}

func (r *projectRepo) Create(dbc dbctx.Context, rows []*research.Project) ([]*research.Project, error) {
	if len(rows) == 0 {
		return []*research.Project{}, nil
	}
	if err := dbc.Conn(r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *projectRepo) GetByIDs(dbc dbctx.Context, ids []int64) ([]*research.Project, error) {
	var out []*research.Project
	if len(ids) == 0 {
		return out, nil
	}
	if err := dbc.Conn(r.db).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *projectRepo) GetByID(dbc dbctx.Context, id int64) (*research.Project, error) {
	if id <= 0 {
		return nil, nil
	}
	rows, err := r.GetByIDs(dbc, []int64{id})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}
