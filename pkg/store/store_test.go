package store

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/example/armctl/pkg/arm"
)

// testStores returns a fresh instance of every Store implementation, so the
// contract tests below run against each one.
func testStores(t *testing.T) map[string]Store {
	t.Helper()
	sq, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { sq.Close() })
	return map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": sq,
	}
}

func testSequence(name string) *Sequence {
	return &Sequence{
		Name: name,
		Steps: []Step{
			{Pose: arm.Pose{92, 85, 45, 108, 80, 152}, DelayMS: 0},
			{Pose: arm.Pose{100, 90, 50, 110, 85, 150}, DelayMS: 100},
			{Pose: arm.Pose{110, 95, 55, 112, 90, 148}, DelayMS: 100},
		},
	}
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	for impl, st := range testStores(t) {
		t.Run(impl, func(t *testing.T) {
			ctx := context.Background()
			want := testSequence("wave")
			if err := st.Save(ctx, want); err != nil {
				t.Fatalf("Save: %v", err)
			}
			got, err := st.Load(ctx, "wave")
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if got.Name != want.Name {
				t.Errorf("Name = %q, want %q", got.Name, want.Name)
			}
			if len(got.Steps) != len(want.Steps) {
				t.Fatalf("len(Steps) = %d, want %d", len(got.Steps), len(want.Steps))
			}
			for i := range want.Steps {
				if got.Steps[i] != want.Steps[i] {
					t.Errorf("Steps[%d] = %+v, want %+v", i, got.Steps[i], want.Steps[i])
				}
			}
		})
	}
}

func TestStore_SaveOverwrites(t *testing.T) {
	for impl, st := range testStores(t) {
		t.Run(impl, func(t *testing.T) {
			ctx := context.Background()
			if err := st.Save(ctx, testSequence("wave")); err != nil {
				t.Fatalf("Save: %v", err)
			}
			short := &Sequence{Name: "wave", Steps: testSequence("wave").Steps[:1]}
			if err := st.Save(ctx, short); err != nil {
				t.Fatalf("Save overwrite: %v", err)
			}
			got, err := st.Load(ctx, "wave")
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if len(got.Steps) != 1 {
				t.Errorf("len(Steps) after overwrite = %d, want 1", len(got.Steps))
			}
			names, err := st.List(ctx)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(names) != 1 {
				t.Errorf("List after overwrite = %v, want one entry", names)
			}
		})
	}
}

func TestStore_LoadMissing(t *testing.T) {
	for impl, st := range testStores(t) {
		t.Run(impl, func(t *testing.T) {
			_, err := st.Load(context.Background(), "ghost")
			if !errors.Is(err, ErrNotFound) {
				t.Errorf("Load missing: err = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestStore_Delete(t *testing.T) {
	for impl, st := range testStores(t) {
		t.Run(impl, func(t *testing.T) {
			ctx := context.Background()
			if err := st.Save(ctx, testSequence("wave")); err != nil {
				t.Fatalf("Save: %v", err)
			}
			if err := st.Delete(ctx, "wave"); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if _, err := st.Load(ctx, "wave"); !errors.Is(err, ErrNotFound) {
				t.Errorf("Load after delete: err = %v, want ErrNotFound", err)
			}
			if err := st.Delete(ctx, "wave"); !errors.Is(err, ErrNotFound) {
				t.Errorf("Delete again: err = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestStore_ListSorted(t *testing.T) {
	for impl, st := range testStores(t) {
		t.Run(impl, func(t *testing.T) {
			ctx := context.Background()
			for _, name := range []string{"pick", "wave", "home-run", "drop"} {
				if err := st.Save(ctx, testSequence(name)); err != nil {
					t.Fatalf("Save %q: %v", name, err)
				}
			}
			names, err := st.List(ctx)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			want := []string{"drop", "home-run", "pick", "wave"}
			if len(names) != len(want) {
				t.Fatalf("List = %v, want %v", names, want)
			}
			for i := range want {
				if names[i] != want[i] {
					t.Fatalf("List = %v, want %v", names, want)
				}
			}
		})
	}
}

func TestStore_ListEmpty(t *testing.T) {
	for impl, st := range testStores(t) {
		t.Run(impl, func(t *testing.T) {
			names, err := st.List(context.Background())
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(names) != 0 {
				t.Errorf("List = %v, want empty", names)
			}
		})
	}
}

func TestStore_SaveEmptySequence(t *testing.T) {
	for impl, st := range testStores(t) {
		t.Run(impl, func(t *testing.T) {
			err := st.Save(context.Background(), &Sequence{Name: "noop"})
			if !errors.Is(err, ErrEmptySequence) {
				t.Errorf("Save empty: err = %v, want ErrEmptySequence", err)
			}
		})
	}
}

func TestStore_RejectsInvalidNames(t *testing.T) {
	for impl, st := range testStores(t) {
		t.Run(impl, func(t *testing.T) {
			ctx := context.Background()
			for _, name := range []string{"", strings.Repeat("x", MaxNameLen+1), "a\nb"} {
				seq := testSequence("ok")
				seq.Name = name
				if err := st.Save(ctx, seq); !errors.Is(err, ErrInvalidName) {
					t.Errorf("Save %q: err = %v, want ErrInvalidName", name, err)
				}
				if _, err := st.Load(ctx, name); !errors.Is(err, ErrInvalidName) {
					t.Errorf("Load %q: err = %v, want ErrInvalidName", name, err)
				}
				if err := st.Delete(ctx, name); !errors.Is(err, ErrInvalidName) {
					t.Errorf("Delete %q: err = %v, want ErrInvalidName", name, err)
				}
			}
		})
	}
}

func TestStore_LoadReturnsCopy(t *testing.T) {
	for impl, st := range testStores(t) {
		t.Run(impl, func(t *testing.T) {
			ctx := context.Background()
			if err := st.Save(ctx, testSequence("wave")); err != nil {
				t.Fatalf("Save: %v", err)
			}
			first, err := st.Load(ctx, "wave")
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			first.Steps[0].Pose[0] = 0

			second, err := st.Load(ctx, "wave")
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if second.Steps[0].Pose[0] != 92 {
				t.Errorf("stored sequence mutated through loaded copy")
			}
		})
	}
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"wave", false},
		{"pick_and_place", false},
		{strings.Repeat("x", MaxNameLen), false},
		{"", true},
		{strings.Repeat("x", MaxNameLen+1), true},
		{"a\rb", true},
		{"a\nb", true},
	}
	for _, tt := range tests {
		err := ValidateName(tt.name)
		if tt.wantErr && !errors.Is(err, ErrInvalidName) {
			t.Errorf("ValidateName(%q) = %v, want ErrInvalidName", tt.name, err)
		}
		if !tt.wantErr && err != nil {
			t.Errorf("ValidateName(%q) = %v, want nil", tt.name, err)
		}
	}
}

func TestStep_Delay(t *testing.T) {
	s := NewStep(arm.Pose{}, 100*time.Millisecond)
	if s.DelayMS != 100 {
		t.Errorf("DelayMS = %d, want 100", s.DelayMS)
	}
	if s.Delay().Milliseconds() != 100 {
		t.Errorf("Delay() = %v, want 100ms", s.Delay())
	}
}
