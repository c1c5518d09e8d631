package research

import (
	"gorm.io/gorm"

	"github.com/yungbote/bioof-backend/internal/domain/research"
	"github.com/yungbote/bioof-backend/internal/platform/dbctx"
	"github.com/yungbote/bioof-backend/internal/platform/logger"
)

type UserRepo interface {
	Create(dbc dbctx.Context, users []*research.User) ([]*research.User, error)
	GetByIDs(dbc dbctx.Context, ids []int64) ([]*research.User, error)
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	return &userRepo{db: db, log: baseLog.With("repo", "UserRepo")}
}

func (r *userRepo) Create(dbc dbctx.Context, users []*research.User) ([]*research.User, error) {
	if len(users) == 0 {
		return []*research.User{}, nil
	}
	if err := dbc.Conn(r.db).Create(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepo) GetByIDs(dbc dbctx.Context, ids []int64) ([]*research.User, error) {
	var out []*research.User
	if len(ids) == 0 {
		return out, nil
	}
	if err := dbc.Conn(r.db).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
