package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"workplace-api/internal/domain"
)

func setupSprintTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if err := db.AutoMigrate(&domain.Sprint{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func TestSprintRepository_FindOverlapping(t *testing.T) {
	db := setupSprintTestDB(t)
	repo := NewSprintRepository(db)
	ctx := context.Background()

	workplaceID := uuid.New()
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	day := func(n int) time.Time { return base.AddDate(0, 0, n) }

	existing := &domain.Sprint{
		BaseModel:   domain.BaseModel{ID: uuid.New()},
		WorkplaceID: workplaceID,
		Name:        "Sprint 1",
		StartDate:   day(0),
		EndDate:     day(14),
	}
	if err := repo.Create(ctx, existing); err != nil {
		t.Fatalf("failed to create sprint: %v", err)
	}

	tests := []struct {
		name     string
		start    int
		end      int
		conflict bool
	}{
		{"identical range", 0, 14, true},
		{"candidate starts inside", 7, 21, true},
		{"candidate ends inside", -7, 7, true},
		{"candidate contains existing", -1, 15, true},
		{"candidate inside existing", 3, 10, true},
		{"starts exactly at existing end", 14, 28, false},
		{"ends exactly at existing start", -14, 0, false},
		{"fully before", -30, -16, false},
		{"fully after", 20, 34, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conflict, err := repo.FindOverlapping(ctx, workplaceID, day(tt.start), day(tt.end), nil)
			if tt.conflict {
				if err != nil {
					t.Fatalf("expected conflict, got error %v", err)
				}
				if conflict.ID != existing.ID {
					t.Errorf("conflict reported against wrong sprint %s", conflict.ID)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected no conflict, got sprint %s", conflict.ID)
			}
			if err != gorm.ErrRecordNotFound {
				t.Fatalf("expected ErrRecordNotFound, got %v", err)
			}
		})
	}
}

func TestSprintRepository_FindOverlapping_ScopedAndExcluded(t *testing.T) {
	db := setupSprintTestDB(t)
	repo := NewSprintRepository(db)
	ctx := context.Background()

	workplaceID := uuid.New()
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	existing := &domain.Sprint{
		BaseModel:   domain.BaseModel{ID: uuid.New()},
		WorkplaceID: workplaceID,
		Name:        "Sprint 1",
		StartDate:   base,
		EndDate:     base.AddDate(0, 0, 14),
	}
	if err := repo.Create(ctx, existing); err != nil {
		t.Fatalf("failed to create sprint: %v", err)
	}

	// Another workplace may freely reuse the same dates.
	if _, err := repo.FindOverlapping(ctx, uuid.New(), existing.StartDate, existing.EndDate, nil); err != gorm.ErrRecordNotFound {
		t.Errorf("overlap check leaked across workplaces: %v", err)
	}

	// Excluding the sprint itself frees its own range.
	if _, err := repo.FindOverlapping(ctx, workplaceID, existing.StartDate, existing.EndDate, &existing.ID); err != gorm.ErrRecordNotFound {
		t.Errorf("sprint conflicted with itself: %v", err)
	}
}

func TestSprintRepository_FindByWorkplace_Pagination(t *testing.T) {
	db := setupSprintTestDB(t)
	repo := NewSprintRepository(db)
	ctx := context.Background()

	workplaceID := uuid.New()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		sprint := &domain.Sprint{
			BaseModel:   domain.BaseModel{ID: uuid.New(), CreatedAt: base.AddDate(0, 0, i)},
			WorkplaceID: workplaceID,
			Name:        "Sprint",
			StartDate:   base.AddDate(0, i, 0),
			EndDate:     base.AddDate(0, i, 14),
		}
		if err := repo.Create(ctx, sprint); err != nil {
			t.Fatalf("failed to create sprint: %v", err)
		}
	}

	page, err := repo.FindByWorkplace(ctx, workplaceID, 2, 2)
	if err != nil {
		t.Fatalf("failed to list sprints: %v", err)
	}
	if len(page) != 2 {
		t.Errorf("expected page of 2, got %d", len(page))
	}

	all, err := repo.FindByWorkplace(ctx, workplaceID, 0, 0)
	if err != nil {
		t.Fatalf("failed to list sprints: %v", err)
	}
	if len(all) != 5 {
		t.Errorf("expected 5 sprints, got %d", len(all))
	}
}
