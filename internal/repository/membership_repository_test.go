package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"workplace-api/internal/domain"
)

func setupMembershipTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if err := db.AutoMigrate(&domain.User{}, &domain.Membership{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *domain.User {
	t.Helper()
	user := &domain.User{
		BaseModel:    domain.BaseModel{ID: uuid.New()},
		Email:        email,
		PasswordHash: "hash",
		Name:         "Test User",
		Verified:     true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func TestMembershipRepository_CompoundUniqueIndex(t *testing.T) {
	db := setupMembershipTestDB(t)
	repo := NewMembershipRepository(db)
	ctx := context.Background()

	workplaceID := uuid.New()
	user := createTestUser(t, db, "alice@example.com")

	first := &domain.Membership{
		WorkplaceID: workplaceID,
		UserID:      user.ID,
		Role:        domain.RoleAdmin,
	}
	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("failed to create membership: %v", err)
	}

	// A second membership of the same user in the same workplace must hit
	// the unique index.
	duplicate := &domain.Membership{
		WorkplaceID: workplaceID,
		UserID:      user.ID,
		Role:        domain.RoleGuest,
	}
	if err := repo.Create(ctx, duplicate); err == nil {
		t.Error("duplicate (workplace, user) membership was accepted")
	}

	// The same user in another workplace is fine.
	other := &domain.Membership{
		WorkplaceID: uuid.New(),
		UserID:      user.ID,
		Role:        domain.RoleMember,
	}
	if err := repo.Create(ctx, other); err != nil {
		t.Errorf("membership in a second workplace rejected: %v", err)
	}
}

func TestMembershipRepository_FindByWorkplace_EmailPrefix(t *testing.T) {
	db := setupMembershipTestDB(t)
	repo := NewMembershipRepository(db)
	ctx := context.Background()

	workplaceID := uuid.New()
	alice := createTestUser(t, db, "alice@example.com")
	alicia := createTestUser(t, db, "alicia@example.com")
	bob := createTestUser(t, db, "bob@example.com")

	for _, user := range []*domain.User{alice, alicia, bob} {
		membership := &domain.Membership{
			WorkplaceID: workplaceID,
			UserID:      user.ID,
			Role:        domain.RoleMember,
		}
		if err := repo.Create(ctx, membership); err != nil {
			t.Fatalf("failed to create membership: %v", err)
		}
	}

	filtered, err := repo.FindByWorkplace(ctx, workplaceID, "ali")
	if err != nil {
		t.Fatalf("failed to list members: %v", err)
	}
	if len(filtered) != 2 {
		t.Fatalf("expected 2 members with prefix ali, got %d", len(filtered))
	}
	for _, m := range filtered {
		if m.User == nil {
			t.Fatal("user was not preloaded")
		}
		if m.User.Email == "bob@example.com" {
			t.Error("prefix filter let an unmatched email through")
		}
	}

	all, err := repo.FindByWorkplace(ctx, workplaceID, "")
	if err != nil {
		t.Fatalf("failed to list members: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 members without filter, got %d", len(all))
	}
}

func TestMembershipRepository_FindByWorkplaceAndUserIDs(t *testing.T) {
	db := setupMembershipTestDB(t)
	repo := NewMembershipRepository(db)
	ctx := context.Background()

	workplaceID := uuid.New()
	alice := createTestUser(t, db, "alice@example.com")
	bob := createTestUser(t, db, "bob@example.com")

	for _, user := range []*domain.User{alice, bob} {
		if err := repo.Create(ctx, &domain.Membership{
			WorkplaceID: workplaceID,
			UserID:      user.ID,
			Role:        domain.RoleMember,
		}); err != nil {
			t.Fatalf("failed to create membership: %v", err)
		}
	}

	// Unknown ids simply produce fewer rows; the service layer treats the
	// count mismatch as a missing member.
	found, err := repo.FindByWorkplaceAndUserIDs(ctx, workplaceID, []uuid.UUID{alice.ID, uuid.New()})
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if len(found) != 1 || found[0].UserID != alice.ID {
		t.Errorf("expected only alice's membership, got %d rows", len(found))
	}

	empty, err := repo.FindByWorkplaceAndUserIDs(ctx, workplaceID, nil)
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("expected no rows for an empty id list, got %d", len(empty))
	}
}
