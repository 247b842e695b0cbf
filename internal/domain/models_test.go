package domain

import (
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite (no CGO)
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newDomainDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:domain_models?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// Enforce FKs so cascades actually execute.
	db.Exec("PRAGMA foreign_keys=ON;")
	return db
}

func TestTableNames(t *testing.T) {
	cases := map[string]string{
		(User{}).TableName():                "users",
		(Subject{}).TableName():             "subjects",
		(StudyGroup{}).TableName():          "study_groups",
		(GroupMember{}).TableName():         "study_group_members",
		(Resource{}).TableName():            "resources",
		(ResourceTransaction{}).TableName(): "resource_transactions",
		(Booking{}).TableName():             "bookings",
		(AIContent{}).TableName():           "ai_generated_content",
		(QuestionBankEntry{}).TableName():   "question_bank",
	}
	for got, want := range cases {
		if got != want {
			t.Fatalf("TableName() = %q; want %q", got, want)
		}
	}
}

func TestMigrations_Indexes_AndConstraints(t *testing.T) {
	db := newDomainDB(t)

	if err := db.AutoMigrate(
		&User{}, &Subject{}, &StudyGroup{}, &GroupMember{},
		&Resource{}, &ResourceTransaction{}, &Booking{},
		&AIContent{}, &QuestionBankEntry{},
	); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	m := db.Migrator()

	for _, tbl := range []any{&User{}, &StudyGroup{}, &GroupMember{}, &Resource{}, &AIContent{}, &QuestionBankEntry{}} {
		if !m.HasTable(tbl) {
			t.Fatalf("expected table for %T to exist", tbl)
		}
	}

	if !m.HasIndex(&GroupMember{}, "ux_group_user") {
		t.Fatalf("expected unique index ux_group_user on study_group_members")
	}
	if !m.HasIndex(&AIContent{}, "ux_ai_resource_type") {
		t.Fatalf("expected unique index ux_ai_resource_type on ai_generated_content")
	}

	now := time.Now().UTC()

	g := &StudyGroup{ID: "g1", Name: "OS crew", MaxMembers: 4, MeetingType: MeetingVirtual,
		CreatedBy: "u1", IsActive: true, JoinCode: "9F2C41AB", CreatedAt: now, UpdatedAt: now}
	if err := db.Create(g).Error; err != nil {
		t.Fatalf("insert group: %v", err)
	}

	// Join codes are globally unique.
	dup := &StudyGroup{ID: "g2", Name: "Other", MaxMembers: 4, MeetingType: MeetingVirtual,
		CreatedBy: "u1", IsActive: false, JoinCode: "9F2C41AB", CreatedAt: now, UpdatedAt: now}
	if err := db.Create(dup).Error; err == nil {
		t.Fatalf("expected duplicate join code to violate unique index")
	}

	m1 := &GroupMember{ID: "gm1", GroupID: "g1", UserID: "u1", Role: MemberRoleLeader, JoinedAt: now}
	if err := db.Create(m1).Error; err != nil {
		t.Fatalf("insert member: %v", err)
	}

	// A user cannot hold two memberships in the same group.
	m2 := &GroupMember{ID: "gm2", GroupID: "g1", UserID: "u1", Role: MemberRoleMember, JoinedAt: now}
	if err := db.Create(m2).Error; err == nil {
		t.Fatalf("expected double membership to violate ux_group_user")
	}

	// One cached payload per (resource, content type).
	c1 := &AIContent{ID: "a1", ResourceID: "r1", ContentType: ContentQuiz, Content: "[]", GeneratedAt: now}
	if err := db.Create(c1).Error; err != nil {
		t.Fatalf("insert ai content: %v", err)
	}
	c2 := &AIContent{ID: "a2", ResourceID: "r1", ContentType: ContentQuiz, Content: "[]", GeneratedAt: now}
	if err := db.Create(c2).Error; err == nil {
		t.Fatalf("expected duplicate (resource, content_type) to violate ux_ai_resource_type")
	}

	// Question bank dedupes on the question hash.
	q1 := &QuestionBankEntry{ID: "q1", QuestionText: "Explain paging.", QuestionHash: "h1", CreatedAt: now}
	if err := db.Create(q1).Error; err != nil {
		t.Fatalf("insert question: %v", err)
	}
	q2 := &QuestionBankEntry{ID: "q2", QuestionText: "Explain paging.", QuestionHash: "h1", CreatedAt: now}
	if err := db.Create(q2).Error; err == nil {
		t.Fatalf("expected duplicate question hash to violate unique index")
	}

	// CASCADE: deleting a group removes its memberships.
	if err := db.Unscoped().Delete(&StudyGroup{}, "id = ?", "g1").Error; err != nil {
		t.Fatalf("delete group: %v", err)
	}
	var cnt int64
	if err := db.Model(&GroupMember{}).Where("group_id = ?", "g1").Count(&cnt).Error; err != nil {
		t.Fatalf("count members after group delete: %v", err)
	}
	if cnt != 0 {
		t.Fatalf("expected memberships to cascade-delete with the group, got count=%d", cnt)
	}
}
