package services

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite (no CGO)
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-study-backend/internal/domain"
	"github.com/tbourn/go-study-backend/internal/repo"
)

// dbSeq gives each test its own named in-memory database; cache=shared keeps
// every pooled connection on the same store.
var dbSeq atomic.Int64

func newServiceDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:services%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Exec("PRAGMA foreign_keys=ON;")
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func mkUser(t *testing.T, db *gorm.DB, externalID, role string, verified bool) *domain.User {
	t.Helper()
	u := &domain.User{
		ExternalID: externalID,
		Email:      externalID + "@example.com",
		Role:       role,
		IsVerified: verified,
	}
	if err := repo.CreateUser(context.Background(), db, u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func mkResource(t *testing.T, db *gorm.DB, topperID, title, description string, price float64) *domain.Resource {
	t.Helper()
	r := &domain.Resource{
		TopperID:    topperID,
		Title:       title,
		Description: description,
		FileURL:     "https://blob.example.com/" + title,
		Price:       price,
		IsActive:    true,
	}
	if err := repo.CreateResource(context.Background(), db, r); err != nil {
		t.Fatalf("create resource: %v", err)
	}
	return r
}

// fakeAI is a scripted ai.Client. It records every prompt and returns the
// configured output (or error) for each call in order; the last entry
// repeats.
type fakeAI struct {
	outputs []string
	err     error
	prompts []string
}

func (f *fakeAI) Complete(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	if len(f.outputs) == 0 {
		return "", nil
	}
	i := len(f.prompts) - 1
	if i >= len(f.outputs) {
		i = len(f.outputs) - 1
	}
	return f.outputs[i], nil
}
