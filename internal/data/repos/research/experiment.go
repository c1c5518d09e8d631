package research

import (
	"gorm.io/gorm"

	"github.com/yungbote/bioof-backend/internal/domain/research"
	"github.com/yungbote/bioof-backend/internal/platform/dbctx"
	"github.com/yungbote/bioof-backend/internal/platform/logger"
)

type ExperimentRepo interface {
	Create(dbc dbctx.Context, rows []*research.Experiment) ([]*research.Experiment, error)
	ListByProjectID(dbc dbctx.Context, projectID int64) ([]*research.Experiment, error)
}

type experimentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewExperimentRepo(db *gorm.DB, baseLog *logger.Logger) ExperimentRepo {
	return &experimentRepo{db: db, log: baseLog.With("repo", "ExperimentRepo")}
}

func (r *experimentRepo) Create(dbc dbctx.Context, rows []*research.Experiment) ([]*research.Experiment, error) {
	if len(rows) == 0 {
		return []*research.Experiment{}, nil
	}
	if err := dbc.Conn(r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *experimentRepo) ListByProjectID(dbc dbctx.Context, projectID int64) ([]*research.Experiment, error) {
	var out []*research.Experiment
	if projectID <= 0 {
		return out, nil
	}
	if err := dbc.Conn(r.db).
		Where("project_id = ?", projectID).
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
