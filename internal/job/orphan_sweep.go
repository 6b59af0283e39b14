package job

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"workplace-api/internal/domain"
	"workplace-api/internal/metrics"
)

// OrphanSweeper reconciles the damage a failed cascade can leave behind.
// Deletes run child-first and without transactions, so a crash mid-cascade
// can strand rows pointing at a removed parent; the sweep deletes those
// rows and clears dangling sprint references.
type OrphanSweeper struct {
	db      *gorm.DB
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewOrphanSweeper creates an OrphanSweeper
func NewOrphanSweeper(db *gorm.DB, m *metrics.Metrics, logger *zap.Logger) *OrphanSweeper {
	return &OrphanSweeper{
		db:      db,
		metrics: m,
		logger:  logger,
	}
}

// Schedule registers the sweep on a cron runner. The returned cron is not
// started; callers own its lifecycle.
func (s *OrphanSweeper) Schedule(spec string) (*cron.Cron, error) {
	runner := cron.New()
	_, err := runner.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		s.Run(ctx)
	})
	if err != nil {
		return nil, err
	}
	return runner, nil
}

// Run executes one sweep pass. Each step is independent; a failing step is
// logged and the rest still run.
func (s *OrphanSweeper) Run(ctx context.Context) {
	db := s.db.WithContext(ctx)

	s.sweepDelete(db, "memberships", db.
		Where("NOT EXISTS (SELECT 1 FROM workplaces w WHERE w.id = memberships.workplace_id AND w.deleted_at IS NULL)").
		Delete(&domain.Membership{}))

	s.sweepDelete(db, "sprints", db.
		Where("NOT EXISTS (SELECT 1 FROM workplaces w WHERE w.id = sprints.workplace_id AND w.deleted_at IS NULL)").
		Delete(&domain.Sprint{}))

	s.sweepDelete(db, "issues", db.
		Where("NOT EXISTS (SELECT 1 FROM workplaces w WHERE w.id = issues.workplace_id AND w.deleted_at IS NULL)").
		Delete(&domain.Issue{}))

	s.sweepDelete(db, "issue_assignments", db.
		Where("NOT EXISTS (SELECT 1 FROM issues i WHERE i.id = issue_assignments.issue_id AND i.deleted_at IS NULL)").
		Delete(&domain.IssueAssignment{}))

	s.sweepDelete(db, "comments", db.
		Where("NOT EXISTS (SELECT 1 FROM issues i WHERE i.id = comments.issue_id AND i.deleted_at IS NULL)").
		Delete(&domain.Comment{}))

	// Dangling sprint references are repaired, not deleted: the issue and
	// its comments return to the backlog.
	s.sweepUpdate(db, "issue_sprint_refs", db.Model(&domain.Issue{}).
		Where("sprint_id IS NOT NULL").
		Where("NOT EXISTS (SELECT 1 FROM sprints sp WHERE sp.id = issues.sprint_id AND sp.deleted_at IS NULL)").
		Updates(map[string]interface{}{"sprint_id": nil, "end_date": nil}))

	s.sweepUpdate(db, "comment_sprint_refs", db.Model(&domain.Comment{}).
		Where("sprint_id IS NOT NULL").
		Where("NOT EXISTS (SELECT 1 FROM sprints sp WHERE sp.id = comments.sprint_id AND sp.deleted_at IS NULL)").
		Update("sprint_id", nil))
}

func (s *OrphanSweeper) sweepDelete(db *gorm.DB, entity string, result *gorm.DB) {
	if result.Error != nil {
		s.logger.Error("Orphan sweep step failed",
			zap.String("entity", entity),
			zap.Error(result.Error),
		)
		return
	}
	if result.RowsAffected > 0 {
		s.logger.Info("Orphan sweep removed rows",
			zap.String("entity", entity),
			zap.Int64("rows", result.RowsAffected),
		)
		if s.metrics != nil {
			s.metrics.AddOrphansSwept(entity, result.RowsAffected)
		}
	}
}

func (s *OrphanSweeper) sweepUpdate(db *gorm.DB, entity string, result *gorm.DB) {
	if result.Error != nil {
		s.logger.Error("Orphan sweep step failed",
			zap.String("entity", entity),
			zap.Error(result.Error),
		)
		return
	}
	if result.RowsAffected > 0 {
		s.logger.Info("Orphan sweep repaired rows",
			zap.String("entity", entity),
			zap.Int64("rows", result.RowsAffected),
		)
		if s.metrics != nil {
			s.metrics.AddOrphansSwept(entity, result.RowsAffected)
		}
	}
}
