package postgres

import (
	"context"
	"errors"

	"github.com/yoockh/recruitdesk/internal/models"
	"github.com/yoockh/recruitdesk/internal/repositories"
	"github.com/yoockh/recruitdesk/internal/utils"
	"gorm.io/gorm"
)

type projectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) repositories.ProjectRepository {
	return &projectRepo{db: db}
}

func (r *projectRepo) Insert(ctx context.Context, p *models.Project) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *projectRepo) List(ctx context.Context) ([]models.Project, error) {
	rows := []models.Project{}
	err := r.db.WithContext(ctx).Order("id ASC").Find(&rows).Error
	return rows, err
}

func (r *projectRepo) GetByID(ctx context.Context, id int64) (*models.Project, error) {
	var p models.Project
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
