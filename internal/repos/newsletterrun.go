package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/imobireport/newsroom-backend/internal/domain"
	"github.com/imobireport/newsroom-backend/internal/logger"
)

type NewsletterRunRepo interface {
	Create(ctx context.Context, tx *gorm.DB, run *domain.NewsletterRun) (*domain.NewsletterRun, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.NewsletterRun, error)
	ListRecent(ctx context.Context, tx *gorm.DB, limit int) ([]*domain.NewsletterRun, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error
}

type newsletterRunRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNewsletterRunRepo(db *gorm.DB, baseLog *logger.Logger) NewsletterRunRepo {
	return &newsletterRunRepo{
		db:  db,
		log: baseLog.With("repo", "NewsletterRunRepo"),
	}
}

func (r *newsletterRunRepo) Create(ctx context.Context, tx *gorm.DB, run *domain.NewsletterRun) (*domain.NewsletterRun, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if run == nil {
		return nil, nil
	}
	if err := transaction.WithContext(ctx).Create(run).Error; err != nil {
		return nil, err
	}
	return run, nil
}

func (r *newsletterRunRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.NewsletterRun, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var run domain.NewsletterRun
	err := transaction.WithContext(ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&run).Error
	if err != nil {
		return nil, err
	}
	if run.ID == uuid.Nil {
		return nil, nil
	}
	return &run, nil
}

func (r *newsletterRunRepo) ListRecent(ctx context.Context, tx *gorm.DB, limit int) ([]*domain.NewsletterRun, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if limit <= 0 {
		limit = 20
	}
	var out []*domain.NewsletterRun
	if err := transaction.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *newsletterRunRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil
	}
	if updates == nil {
		updates = map[string]interface{}{}
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now()
	}
	return transaction.WithContext(ctx).
		Model(&domain.NewsletterRun{}).
		Where("id = ?", id).
		Updates(updates).Error
}
