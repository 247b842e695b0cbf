package joincode

import (
	"context"
	"errors"
	"regexp"
	"testing"
)

var codeRE = regexp.MustCompile(`^[0-9A-F]{8}$`)

func TestIssue_FormatAndUniqueness(t *testing.T) {
	never := func(ctx context.Context, code string) (bool, error) { return false, nil }

	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		code, err := Issue(context.Background(), never)
		if err != nil {
			t.Fatalf("Issue error on iteration %d: %v", i, err)
		}
		if !codeRE.MatchString(code) {
			t.Fatalf("code %q does not match ^[0-9A-F]{8}$", code)
		}
		if _, dup := seen[code]; dup {
			t.Fatalf("duplicate code issued: %q", code)
		}
		seen[code] = struct{}{}
	}
}

func TestIssue_RetriesOnCollision(t *testing.T) {
	calls := 0
	threeCollisions := func(ctx context.Context, code string) (bool, error) {
		calls++
		return calls <= 3, nil
	}

	code, err := Issue(context.Background(), threeCollisions)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if !codeRE.MatchString(code) {
		t.Fatalf("code %q does not match format", code)
	}
	if calls != 4 {
		t.Fatalf("expected 4 existence checks (3 collisions + 1 success), got %d", calls)
	}
}

func TestIssue_ExhaustsAfterTenAttempts(t *testing.T) {
	calls := 0
	always := func(ctx context.Context, code string) (bool, error) {
		calls++
		return true, nil
	}

	_, err := Issue(context.Background(), always)
	if !errors.Is(err, ErrExhausted) {
		t.Fatalf("expected ErrExhausted, got %v", err)
	}
	if calls != 10 {
		t.Fatalf("expected exactly 10 attempts, got %d", calls)
	}
}

func TestIssue_ExistsErrorAbortsImmediately(t *testing.T) {
	boom := errors.New("store unavailable")
	calls := 0
	failing := func(ctx context.Context, code string) (bool, error) {
		calls++
		return false, boom
	}

	_, err := Issue(context.Background(), failing)
	if !errors.Is(err, boom) {
		t.Fatalf("expected store error passed through, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected a single attempt on store error, got %d", calls)
	}
}
