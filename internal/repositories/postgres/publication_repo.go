package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/yoockh/recruitdesk/internal/models"
	"github.com/yoockh/recruitdesk/internal/repositories"
	"github.com/yoockh/recruitdesk/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type publicationRepo struct {
	db *gorm.DB
}

func NewPublicationRepo(db *gorm.DB) repositories.PublicationRepository {
	return &publicationRepo{db: db}
}

func (r *publicationRepo) Insert(ctx context.Context, p *models.Publication) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *publicationRepo) List(ctx context.Context) ([]models.Publication, error) {
	rows := []models.Publication{}
	err := r.db.WithContext(ctx).Order("id ASC").Find(&rows).Error
	return rows, err
}

func (r *publicationRepo) GetByID(ctx context.Context, id int64) (*models.Publication, error) {
	var p models.Publication
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *publicationRepo) ListByProfile(ctx context.Context, profileID int64) ([]models.Publication, error) {
	rows := []models.Publication{}
	err := r.db.WithContext(ctx).
		Where("profile_id = ?", profileID).
		Order("id ASC").
		Find(&rows).Error
	return rows, err
}

func (r *publicationRepo) ListByStatus(ctx context.Context, status models.PublicationStatus) ([]models.Publication, error) {
	rows := []models.Publication{}
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("id ASC").
		Find(&rows).Error
	return rows, err
}

// Publish locks the row so the republish check and the write see the same state.
func (r *publicationRepo) Publish(ctx context.Context, id int64, platform models.Platform, at time.Time, allowRepublish bool) (*models.Publication, error) {
	var out models.Publication
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			Take(&out).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrNotFound
		}
		if err != nil {
			return err
		}
		if !allowRepublish && out.Status == models.PublicationPublished {
			return repositories.ErrAlreadyPublished
		}

		at := at.UTC()
		out.Status = models.PublicationPublished
		out.Platform = platform
		out.PublishDate = &at
		return tx.Model(&models.Publication{}).
			Where("id = ?", id).
			Updates(map[string]any{
				"status":       out.Status,
				"platform":     out.Platform,
				"publish_date": at,
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
