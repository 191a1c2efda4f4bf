package postgres

import (
	"context"
	"errors"

	"github.com/yoockh/recruitdesk/internal/models"
	"github.com/yoockh/recruitdesk/internal/repositories"
	"github.com/yoockh/recruitdesk/internal/utils"
	"gorm.io/gorm"
)

type profileRepo struct {
	db *gorm.DB
}

func NewProfileRepo(db *gorm.DB) repositories.ProfileRepository {
	return &profileRepo{db: db}
}

func (r *profileRepo) Insert(ctx context.Context, p *models.Profile) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *profileRepo) List(ctx context.Context) ([]models.Profile, error) {
	rows := []models.Profile{}
	err := r.db.WithContext(ctx).Order("id ASC").Find(&rows).Error
	return rows, err
}

func (r *profileRepo) GetByID(ctx context.Context, id int64) (*models.Profile, error) {
	var p models.Profile
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *profileRepo) ListByProject(ctx context.Context, projectID int64) ([]models.Profile, error) {
	rows := []models.Profile{}
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("id ASC").
		Find(&rows).Error
	return rows, err
}
