package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/okian/userdir/internal/domain/model"
)

func newSeeded(ctx context.Context) *ListDirectory {
	return NewListDirectory(ctx, WithSeed(model.DefaultSeed()))
}

func TestListDirectory_LookupSeeded(t *testing.T) {
	ctx := context.Background()
	dir := newSeeded(ctx)

	for _, want := range model.DefaultSeed() {
		got, err := dir.Lookup(ctx, want.Name)
		if err != nil {
			t.Fatalf("lookup %q: unexpected error: %v", want.Name, err)
		}
		if got != want {
			t.Errorf("lookup %q: expected %+v, got %+v", want.Name, want, got)
		}
	}

	if _, err := dir.Lookup(ctx, "Zoe"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListDirectory_EmptyByDefault(t *testing.T) {
	ctx := context.Background()
	dir := NewListDirectory(ctx)

	if n := dir.Len(ctx); n != 0 {
		t.Errorf("expected empty directory, got %d users", n)
	}
	if _, err := dir.Lookup(ctx, "Nick"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListDirectory_Create(t *testing.T) {
	ctx := context.Background()
	dir := newSeeded(ctx)

	zoe := User{Name: "Zoe", Age: "30", Occupation: "Artist"}
	got, err := dir.Create(ctx, zoe)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != zoe {
		t.Errorf("expected %+v, got %+v", zoe, got)
	}
	if n := dir.Len(ctx); n != 4 {
		t.Errorf("expected 4 users, got %d", n)
	}

	list := dir.List(ctx)
	if list[len(list)-1] != zoe {
		t.Errorf("expected new user appended last, got %+v", list[len(list)-1])
	}

	// Colliding create leaves the directory untouched.
	before := dir.List(ctx)
	_, err = dir.Create(ctx, User{Name: "Zoe", Age: "99", Occupation: "Pilot"})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	var conflict *ConflictError
	if !errors.As(err, &conflict) || conflict.Name != "Zoe" {
		t.Errorf("expected ConflictError for Zoe, got %v", err)
	}
	if err.Error() != "User with name Zoe already exists" {
		t.Errorf("unexpected conflict message %q", err.Error())
	}
	after := dir.List(ctx)
	if fmt.Sprint(before) != fmt.Sprint(after) {
		t.Errorf("conflicting create mutated directory: %v -> %v", before, after)
	}
}

func TestListDirectory_Upsert(t *testing.T) {
	ctx := context.Background()
	dir := newSeeded(ctx)

	got, outcome, err := dir.Upsert(ctx, User{Name: "Paul", Age: "26", Occupation: "Surgeon"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != Updated {
		t.Errorf("expected Updated, got %v", outcome)
	}
	if got.Name != "Paul" || got.Age != "26" || got.Occupation != "Surgeon" {
		t.Errorf("unexpected upsert result %+v", got)
	}
	if n := dir.Len(ctx); n != 3 {
		t.Errorf("expected 3 users after update, got %d", n)
	}
	// Position is kept on update.
	if list := dir.List(ctx); list[1].Name != "Paul" || list[1].Occupation != "Surgeon" {
		t.Errorf("expected Paul updated in place, got %+v", list[1])
	}

	got, outcome, err = dir.Upsert(ctx, User{Name: "Ann", Age: "41", Occupation: "Pilot"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != Created {
		t.Errorf("expected Created, got %v", outcome)
	}
	if got != (User{Name: "Ann", Age: "41", Occupation: "Pilot"}) {
		t.Errorf("unexpected upsert result %+v", got)
	}
	if n := dir.Len(ctx); n != 4 {
		t.Errorf("expected 4 users after create, got %d", n)
	}
}

func TestListDirectory_Delete(t *testing.T) {
	ctx := context.Background()
	dir := newSeeded(ctx)

	removed, err := dir.Delete(ctx, "Rob")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if removed != 1 {
		t.Errorf("expected 1 removed, got %d", removed)
	}
	if n := dir.Len(ctx); n != 2 {
		t.Errorf("expected 2 users, got %d", n)
	}
	if _, err := dir.Lookup(ctx, "Rob"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected Rob gone, got %v", err)
	}

	removed, err = dir.Delete(ctx, "Rob")
	if err != nil {
		t.Fatalf("unexpected error on absent delete: %v", err)
	}
	if removed != 0 {
		t.Errorf("expected 0 removed, got %d", removed)
	}
	if n := dir.Len(ctx); n != 2 {
		t.Errorf("expected length unchanged, got %d", n)
	}

	list := dir.List(ctx)
	if list[0].Name != "Nick" || list[1].Name != "Paul" {
		t.Errorf("expected survivors in order, got %+v", list)
	}
}

func TestListDirectory_ListIsCopy(t *testing.T) {
	ctx := context.Background()
	dir := newSeeded(ctx)

	list := dir.List(ctx)
	list[0].Occupation = "Pilot"

	got, _ := dir.Lookup(ctx, "Nick")
	if got.Occupation != "Postman" {
		t.Errorf("List leaked internal storage: %+v", got)
	}
}

func TestListDirectory_SeedDropsDuplicates(t *testing.T) {
	ctx := context.Background()
	dir := NewListDirectory(ctx, WithSeed([]User{
		{Name: "A", Age: "1", Occupation: "x"},
		{Name: "A", Age: "2", Occupation: "y"},
		{Name: "B", Age: "3", Occupation: "z"},
	}))

	if n := dir.Len(ctx); n != 2 {
		t.Fatalf("expected 2 users, got %d", n)
	}
	got, _ := dir.Lookup(ctx, "A")
	if got.Age != "1" {
		t.Errorf("expected first seed to win, got %+v", got)
	}
}

func TestListDirectory_ConcurrentCreate(t *testing.T) {
	ctx := context.Background()
	dir := NewListDirectory(ctx)

	const goroutines = 64
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		created   int
		conflicts int
	)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := dir.Create(ctx, User{Name: "same", Age: fmt.Sprint(i), Occupation: "racer"})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case errors.Is(err, ErrConflict):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if created != 1 {
		t.Errorf("expected exactly one create to win, got %d", created)
	}
	if conflicts != goroutines-1 {
		t.Errorf("expected %d conflicts, got %d", goroutines-1, conflicts)
	}
	if n := dir.Len(ctx); n != 1 {
		t.Errorf("expected 1 user, got %d", n)
	}
}

func TestListDirectory_ConcurrentMixed(t *testing.T) {
	ctx := context.Background()
	dir := newSeeded(ctx)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(3)
		name := fmt.Sprintf("user-%d", i)
		go func() {
			defer wg.Done()
			_, _, _ = dir.Upsert(ctx, User{Name: name, Age: "1", Occupation: "a"})
		}()
		go func() {
			defer wg.Done()
			_, _ = dir.Lookup(ctx, name)
		}()
		go func() {
			defer wg.Done()
			_ = dir.List(ctx)
		}()
	}
	wg.Wait()

	if n := dir.Len(ctx); n != 53 {
		t.Errorf("expected 53 users, got %d", n)
	}
	seen := map[string]bool{}
	for _, u := range dir.List(ctx) {
		if seen[u.Name] {
			t.Errorf("duplicate name %q", u.Name)
		}
		seen[u.Name] = true
	}
}

func TestOutcome_String(t *testing.T) {
	cases := map[Outcome]string{Created: "created", Updated: "updated", Outcome(0): "unknown"}
	for o, want := range cases {
		if got := o.String(); got != want {
			t.Errorf("Outcome(%d).String() = %q, want %q", o, got, want)
		}
	}
}
