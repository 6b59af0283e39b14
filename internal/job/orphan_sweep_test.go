package job

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"workplace-api/internal/domain"
)

func setupSweepTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.Workplace{},
		&domain.Membership{},
		&domain.Sprint{},
		&domain.Issue{},
		&domain.IssueAssignment{},
		&domain.Comment{},
	))
	return db
}

func createSweepWorkplace(t *testing.T, db *gorm.DB, name string) *domain.Workplace {
	t.Helper()
	w := &domain.Workplace{
		BaseModel: domain.BaseModel{ID: uuid.New()},
		Name:      name,
		States:    domain.EncodeStates(domain.DefaultStates),
	}
	require.NoError(t, db.Create(w).Error)
	return w
}

func createSweepIssue(t *testing.T, db *gorm.DB, workplaceID uuid.UUID, sprintID *uuid.UUID) *domain.Issue {
	t.Helper()
	var end *time.Time
	if sprintID != nil {
		d := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
		end = &d
	}
	issue := &domain.Issue{
		BaseModel:   domain.BaseModel{ID: uuid.New()},
		WorkplaceID: workplaceID,
		SprintID:    sprintID,
		AuthorID:    uuid.New(),
		Name:        "Issue",
		Priority:    domain.PriorityNormal,
		State:       "To do",
		Label:       domain.LabelBackend,
		EndDate:     end,
		Files:       domain.EncodeFiles(nil),
	}
	require.NoError(t, db.Create(issue).Error)
	return issue
}

func TestOrphanSweeper_Run(t *testing.T) {
	db := setupSweepTestDB(t)
	ctx := context.Background()

	live := createSweepWorkplace(t, db, "Live")
	doomed := createSweepWorkplace(t, db, "Doomed")

	// Children of both workplaces, as an interrupted cascade would leave them.
	liveMembership := &domain.Membership{WorkplaceID: live.ID, UserID: uuid.New(), Role: domain.RoleAdmin}
	doomedMembership := &domain.Membership{WorkplaceID: doomed.ID, UserID: uuid.New(), Role: domain.RoleAdmin}
	require.NoError(t, db.Create(liveMembership).Error)
	require.NoError(t, db.Create(doomedMembership).Error)

	liveSprint := &domain.Sprint{
		BaseModel:   domain.BaseModel{ID: uuid.New()},
		WorkplaceID: live.ID,
		Name:        "Sprint",
		StartDate:   time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, db.Create(liveSprint).Error)

	liveIssue := createSweepIssue(t, db, live.ID, &liveSprint.ID)
	doomedIssue := createSweepIssue(t, db, doomed.ID, nil)

	liveComment := &domain.Comment{
		BaseModel:   domain.BaseModel{ID: uuid.New()},
		IssueID:     liveIssue.ID,
		WorkplaceID: live.ID,
		SprintID:    &liveSprint.ID,
		AuthorID:    uuid.New(),
		Name:        "Note",
		Text:        "text",
		Files:       domain.EncodeFiles(nil),
	}
	orphanComment := &domain.Comment{
		BaseModel:   domain.BaseModel{ID: uuid.New()},
		IssueID:     doomedIssue.ID,
		WorkplaceID: doomed.ID,
		AuthorID:    uuid.New(),
		Name:        "Note",
		Text:        "text",
		Files:       domain.EncodeFiles(nil),
	}
	require.NoError(t, db.Create(liveComment).Error)
	require.NoError(t, db.Create(orphanComment).Error)

	// The parent disappears without its children.
	require.NoError(t, db.Delete(doomed).Error)

	sweeper := NewOrphanSweeper(db, nil, zap.NewNop())
	sweeper.Run(ctx)

	var memberships int64
	require.NoError(t, db.Model(&domain.Membership{}).Count(&memberships).Error)
	assert.Equal(t, int64(1), memberships, "orphaned membership should be swept")

	var issues int64
	require.NoError(t, db.Model(&domain.Issue{}).Count(&issues).Error)
	assert.Equal(t, int64(1), issues, "orphaned issue should be swept")

	var comments int64
	require.NoError(t, db.Model(&domain.Comment{}).Count(&comments).Error)
	assert.Equal(t, int64(1), comments, "comment of a swept issue should be swept")

	// Intact rows survive.
	assert.NoError(t, db.First(&domain.Issue{}, "id = ?", liveIssue.ID).Error)
	assert.NoError(t, db.First(&domain.Membership{}, "id = ?", liveMembership.ID).Error)
}

func TestOrphanSweeper_RepairsDanglingSprintReferences(t *testing.T) {
	db := setupSweepTestDB(t)
	ctx := context.Background()

	workplace := createSweepWorkplace(t, db, "Live")

	sprint := &domain.Sprint{
		BaseModel:   domain.BaseModel{ID: uuid.New()},
		WorkplaceID: workplace.ID,
		Name:        "Sprint",
		StartDate:   time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, db.Create(sprint).Error)

	issue := createSweepIssue(t, db, workplace.ID, &sprint.ID)
	comment := &domain.Comment{
		BaseModel:   domain.BaseModel{ID: uuid.New()},
		IssueID:     issue.ID,
		WorkplaceID: workplace.ID,
		SprintID:    &sprint.ID,
		AuthorID:    uuid.New(),
		Name:        "Note",
		Text:        "text",
		Files:       domain.EncodeFiles(nil),
	}
	require.NoError(t, db.Create(comment).Error)

	// Sprint vanishes without detaching its issues first.
	require.NoError(t, db.Delete(sprint).Error)

	sweeper := NewOrphanSweeper(db, nil, zap.NewNop())
	sweeper.Run(ctx)

	var repaired domain.Issue
	require.NoError(t, db.First(&repaired, "id = ?", issue.ID).Error)
	assert.Nil(t, repaired.SprintID, "issue should return to the backlog")
	assert.Nil(t, repaired.EndDate, "inherited end date should be cleared with the sprint")

	var repairedComment domain.Comment
	require.NoError(t, db.First(&repairedComment, "id = ?", comment.ID).Error)
	assert.Nil(t, repairedComment.SprintID, "comment should drop the dangling sprint reference")
}
