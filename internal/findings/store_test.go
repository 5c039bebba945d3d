package findings_test

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/calvinalkan/argfuzz/internal/findings"
	"github.com/calvinalkan/argfuzz/internal/runner"
)

func openStore(t *testing.T) *findings.Store {
	t.Helper()

	store, err := findings.Open(filepath.Join(t.TempDir(), "nested", "findings.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	t.Cleanup(func() { _ = store.Close() })

	return store
}

func session(id string, started time.Time) *runner.Session {
	return &runner.Session{
		ID:         uuid.MustParse(id),
		Seed:       7,
		Iterations: 10,
		StartedAt:  started,
		FinishedAt: started.Add(time.Second),
		Reports: []runner.Report{{
			Operation:  "hint",
			Iterations: 10,
			ValidArgs:  9,
			Findings: []runner.Finding{{
				Iteration:   3,
				Kind:        runner.KindUnexpectedFailure,
				Args:        []string{"GENERATE_MIPMAP_HINT", "NICEST"},
				ExpectValid: true,
				GLError:     "INVALID_ENUM",
			}},
		}},
		Skipped: []runner.Skip{{Operation: "getUniform", Reason: "unimplemented"}},
	}
}

var base = time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

func Test_Store_Get_Returns_Stored_Session_When_Put(t *testing.T) {
	t.Parallel()

	store := openStore(t)
	want := session("11111111-1111-4111-8111-111111111111", base)

	if err := store.Put(want); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := store.Get(want.ID.String())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("session mismatch (-want +got):\n%s", diff)
	}
}

func Test_Store_List_Returns_Newest_First(t *testing.T) {
	t.Parallel()

	store := openStore(t)

	ids := []string{
		"aaaaaaaa-0000-4000-8000-000000000001",
		"bbbbbbbb-0000-4000-8000-000000000002",
		"cccccccc-0000-4000-8000-000000000003",
	}

	for i, id := range []string{ids[1], ids[0], ids[2]} {
		if err := store.Put(session(id, base.Add(time.Duration(i)*time.Hour))); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}

	list, err := store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	got := make([]string, 0, len(list))
	for _, s := range list {
		got = append(got, s.ID.String())
	}

	want := []string{ids[2], ids[0], ids[1]}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func Test_Store_Get_Resolves_Unique_Prefix(t *testing.T) {
	t.Parallel()

	store := openStore(t)

	for _, id := range []string{
		"abc00000-0000-4000-8000-000000000001",
		"abc11111-0000-4000-8000-000000000002",
		"def00000-0000-4000-8000-000000000003",
	} {
		if err := store.Put(session(id, base)); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}

	got, err := store.Get("abc1")
	if err != nil {
		t.Fatalf("Get(abc1): %v", err)
	}

	if got, want := got.ID.String(), "abc11111-0000-4000-8000-000000000002"; got != want {
		t.Fatalf("ID=%s, want %s", got, want)
	}

	testCases := []struct {
		prefix  string
		wantErr error
	}{
		{prefix: "abc", wantErr: findings.ErrAmbiguous},
		{prefix: "fff", wantErr: findings.ErrNotFound},
		{prefix: "", wantErr: findings.ErrEmptyID},
	}

	for _, testCase := range testCases {
		if _, err := store.Get(testCase.prefix); !errors.Is(err, testCase.wantErr) {
			t.Errorf("Get(%q) err=%v, want %v", testCase.prefix, err, testCase.wantErr)
		}
	}
}

func Test_Store_Delete_Removes_Session(t *testing.T) {
	t.Parallel()

	store := openStore(t)
	sess := session("99999999-0000-4000-8000-000000000009", base)

	if err := store.Put(sess); err != nil {
		t.Fatalf("Put: %v", err)
	}

	full, err := store.Delete("9999")
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if got, want := full, sess.ID.String(); got != want {
		t.Fatalf("Delete=%s, want %s", got, want)
	}

	if _, err := store.Get(full); !errors.Is(err, findings.ErrNotFound) {
		t.Fatalf("Get after delete err=%v, want %v", err, findings.ErrNotFound)
	}

	if _, err := store.Delete(full); !errors.Is(err, findings.ErrNotFound) {
		t.Fatalf("second Delete err=%v, want %v", err, findings.ErrNotFound)
	}
}

func Test_Store_Persists_Across_Reopen(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "findings.db")

	store, err := findings.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	sess := session("12345678-0000-4000-8000-000000000000", base)
	if err := store.Put(sess); err != nil {
		t.Fatalf("Put: %v", err)
	}

	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := findings.Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	list, err := reopened.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	if got, want := len(list), 1; got != want {
		t.Fatalf("len(List)=%d, want %d", got, want)
	}
}
