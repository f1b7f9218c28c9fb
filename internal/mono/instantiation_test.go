package mono_test

import (
	"sync"
	"testing"

	"autoc/internal/mono"
	"autoc/internal/source"
)

func TestRecordCreatesOncePerKey(t *testing.T) {
	cache := mono.NewCache()

	d1, created := cache.Record(mono.InstType, "Stack", []string{"int"}, mono.UseSite{Module: "a"})
	if !created {
		t.Fatal("first recording must create the descriptor")
	}
	d2, created := cache.Record(mono.InstType, "Stack", []string{"int"}, mono.UseSite{Module: "b"})
	if created {
		t.Fatal("second recording of the same key must hit the cache")
	}
	if d1 != d2 {
		t.Fatal("both call sites must resolve to the same descriptor")
	}
	if len(d1.UseSites) != 2 {
		t.Fatalf("use sites = %d, want 2", len(d1.UseSites))
	}

	if _, created := cache.Record(mono.InstType, "Stack", []string{"str"}, mono.UseSite{}); !created {
		t.Fatal("distinct arguments are a distinct instantiation")
	}
	if cache.Len() != 2 {
		t.Fatalf("cache size = %d, want 2", cache.Len())
	}
}

func TestDrainYieldsEachDescriptorOnce(t *testing.T) {
	cache := mono.NewCache()
	cache.Record(mono.InstType, "Stack", []string{"int"}, mono.UseSite{})
	cache.Record(mono.InstTag, "May", []string{"int"}, mono.UseSite{})
	cache.Record(mono.InstType, "Stack", []string{"int"}, mono.UseSite{})

	first := cache.Drain()
	if len(first) != 2 {
		t.Fatalf("first drain = %d descriptors, want 2", len(first))
	}
	if len(cache.Drain()) != 0 {
		t.Fatal("second drain must be empty")
	}

	cache.Record(mono.InstType, "Stack", []string{"double"}, mono.UseSite{})
	if len(cache.Drain()) != 1 {
		t.Fatal("new instantiation after drain must queue again")
	}
}

func TestMangle(t *testing.T) {
	cases := []struct {
		base string
		args []string
		want string
	}{
		{"Stack", nil, "Stack"},
		{"Stack", []string{"int"}, "Stack_int"},
		{"List", []string{"int", "ArrayStorage"}, "List_int_ArrayStorage"},
		{"Box", []string{"May<int>"}, "Box_May_int"},
	}
	for _, tc := range cases {
		if got := mono.Mangle(tc.base, tc.args); got != tc.want {
			t.Errorf("Mangle(%q, %v) = %q, want %q", tc.base, tc.args, got, tc.want)
		}
	}
}

func TestConcurrentRecordSingleCreation(t *testing.T) {
	cache := mono.NewCache()
	const workers = 16

	var wg sync.WaitGroup
	creations := make(chan bool, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, created := cache.Record(mono.InstType, "Stack", []string{"int"},
				mono.UseSite{Span: source.Span{Start: 1, End: 2}})
			creations <- created
		}()
	}
	wg.Wait()
	close(creations)

	total := 0
	for created := range creations {
		if created {
			total++
		}
	}
	if total != 1 {
		t.Fatalf("descriptor created %d times under contention, want exactly 1", total)
	}
	if len(cache.Drain()) != 1 {
		t.Fatal("exactly one descriptor must be queued")
	}
}

func TestCycleGuard(t *testing.T) {
	g := mono.NewCycleGuard(3)
	for i := 0; i < 3; i++ {
		if !g.Enter("Wrap") {
			t.Fatalf("entry %d should be within the limit", i)
		}
	}
	if g.Enter("Wrap") {
		t.Fatal("limit exceeded must report a cycle")
	}
	if !g.Enter("Other") {
		t.Fatal("limit is tracked per base")
	}
	g.Leave("Wrap")
	if !g.Enter("Wrap") {
		t.Fatal("Leave must unwind the depth")
	}
}
