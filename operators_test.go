package ripple_test

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/zoobzio/clockz"
	"github.com/zoobzio/ripple"
	rtesting "github.com/zoobzio/ripple/testing"
)

func equal[T comparable](t *testing.T, got, want []T) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestMap(t *testing.T) {
	sig := ripple.NewSignal("ab")
	rec := rtesting.Record(t, ripple.Map(ripple.Stream[string](sig), func(s string) int { return len(s) }))

	sig.Set("abcd")
	sig.Set("")

	equal(t, rec.Values(), []int{2, 4, 0})
}

func TestFilter(t *testing.T) {
	subj := ripple.NewSubject[int]()
	rec := rtesting.Record(t, ripple.Filter[int](subj, func(v int) bool { return v%2 == 0 }))

	for i := 1; i <= 6; i++ {
		subj.Send(i)
	}

	equal(t, rec.Values(), []int{2, 4, 6})
}

func TestDistinct(t *testing.T) {
	subj := ripple.NewSubject[string]()
	rec := rtesting.Record(t, ripple.Distinct[string](subj))

	for _, v := range []string{"x", "x", "y", "y", "x"} {
		subj.Send(v)
	}

	equal(t, rec.Values(), []string{"x", "y", "x"})
}

func TestDistinctUntilChanged_CustomEquality(t *testing.T) {
	subj := ripple.NewSubject[string]()
	rec := rtesting.Record(t, ripple.DistinctUntilChanged[string](subj, strings.EqualFold))

	for _, v := range []string{"Alice", "alice", "ALICE", "bob"} {
		subj.Send(v)
	}

	equal(t, rec.Values(), []string{"Alice", "bob"})
}

func TestOperators_AreCold(t *testing.T) {
	subj := ripple.NewSubject[int]()
	distinct := ripple.Distinct[int](subj)

	first := rtesting.Record(t, distinct)
	subj.Send(1)
	second := rtesting.Record(t, distinct)
	subj.Send(1)

	// Each subscription has its own distinct state.
	equal(t, first.Values(), []int{1})
	equal(t, second.Values(), []int{1})
}

func TestCombineLatest2(t *testing.T) {
	a := ripple.NewSubject[string]()
	b := ripple.NewSubject[string]()
	rec := rtesting.Record(t, ripple.CombineLatest2[string, string, string](a, b, func(x, y string) string {
		return x + y
	}))

	a.Send("a1")
	if rec.Len() != 0 {
		t.Fatalf("expected no emission before both inputs, got %v", rec.Values())
	}
	b.Send("b1")
	a.Send("a2")
	b.Send("b2")

	equal(t, rec.Values(), []string{"a1b1", "a2b1", "a2b2"})
}

func TestCombineLatest3(t *testing.T) {
	a := ripple.NewSignal(1)
	b := ripple.NewSignal(2)
	c := ripple.NewSubject[int]()
	rec := rtesting.Record(t, ripple.CombineLatest3[int, int, int, int](a, b, c, func(x, y, z int) int {
		return x + y + z
	}))

	if rec.Len() != 0 {
		t.Fatalf("expected no emission before c emits, got %v", rec.Values())
	}
	c.Send(3)
	a.Set(10)

	equal(t, rec.Values(), []int{6, 15})
}

func TestCombineLatest4_WaitsForEveryInput(t *testing.T) {
	a := ripple.NewSubject[bool]()
	b := ripple.NewSignal(true)
	c := ripple.NewSignal(true)
	d := ripple.NewSignal(false)
	rec := rtesting.Record(t, ripple.CombineLatest4[bool, bool, bool, bool, bool](a, b, c, d, func(w, x, y, z bool) bool {
		return w && x && y && z
	}))

	b.Set(true)
	c.Set(false)
	if rec.Len() != 0 {
		t.Fatalf("expected no emission before every input, got %v", rec.Values())
	}

	a.Send(true)
	d.Set(true)
	c.Set(true)

	equal(t, rec.Values(), []bool{false, false, true})
}

func TestCombineLatest4_OneEmissionPerUpstreamEmission(t *testing.T) {
	a := ripple.NewSignal(0)
	b := ripple.NewSignal(0)
	c := ripple.NewSignal(0)
	d := ripple.NewSignal(0)
	rec := rtesting.Record(t, ripple.CombineLatest4[int, int, int, int, int](a, b, c, d, func(w, x, y, z int) int {
		return w + x + y + z
	}))

	a.Set(1)
	a.Set(1)
	d.Set(2)

	// One emission once all four replayed, then one per Set.
	equal(t, rec.Values(), []int{0, 1, 1, 3})
}

func TestCombineLatest2_ConcurrentInputDeliveredInOrder(t *testing.T) {
	a := ripple.NewSubject[int]()
	b := ripple.NewSubject[int]()

	var (
		mu         sync.Mutex
		got        []int
		delivering bool
		overlapped bool
	)
	entered := make(chan struct{})
	release := make(chan struct{})
	sub := ripple.CombineLatest2[int, int, int](a, b, func(x, y int) int { return x + y }).Subscribe(func(v int) {
		mu.Lock()
		if delivering {
			overlapped = true
		}
		delivering = true
		got = append(got, v)
		mu.Unlock()

		if v == 1 {
			close(entered)
			<-release
		}

		mu.Lock()
		delivering = false
		mu.Unlock()
	})
	defer sub.Cancel()

	a.Send(0)
	go b.Send(1)
	<-entered

	// Queued behind the blocked delivery instead of racing it.
	a.Send(10)
	close(release)

	if !rtesting.WaitFor(t, time.Second, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 2 && !delivering
	}) {
		t.Fatal("timeout waiting for the queued emission")
	}

	mu.Lock()
	defer mu.Unlock()
	equal(t, got, []int{1, 11})
	if overlapped {
		t.Error("expected deliveries never to overlap")
	}
}

func TestCombineLatest2_ReentrantInputEmitsAfter(t *testing.T) {
	a := ripple.NewSignal(1)
	b := ripple.NewSignal(1)

	var got []int
	sub := ripple.CombineLatest2[int, int, int](a, b, func(x, y int) int { return x * y }).Subscribe(func(v int) {
		got = append(got, v)
		if v == 1 {
			a.Set(2)
			b.Set(3)
		}
	})
	defer sub.Cancel()

	equal(t, got, []int{1, 2, 6})
}

func TestCombineLatest2_CancelDropsQueued(t *testing.T) {
	a := ripple.NewSignal(1)
	b := ripple.NewSignal(1)

	var got []int
	var sub *ripple.Subscription
	sub = ripple.CombineLatest2[int, int, int](a, b, func(x, y int) int { return x + y }).Subscribe(func(v int) {
		got = append(got, v)
		if v == 3 {
			b.Set(5)
			sub.Cancel()
		}
	})
	a.Set(2)

	equal(t, got, []int{2, 3})
}

func TestDebounce_EmitsLastValueAfterQuietPeriod(t *testing.T) {
	clock := clockz.NewFakeClock()
	sched := ripple.NewImmediate(clock)
	src := ripple.NewSubject[string]()
	rec := rtesting.Record(t, ripple.Debounce[string](src, 500*time.Millisecond, sched))

	src.Send("a")
	rtesting.Advance(clock, 200*time.Millisecond)
	src.Send("ab")
	rtesting.Advance(clock, 100*time.Millisecond)
	src.Send("abc")

	// 0.799s: the window of "abc" has not elapsed.
	rtesting.Advance(clock, 499*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	if rec.Len() != 0 {
		t.Fatalf("expected no emission yet, got %v", rec.Values())
	}

	rtesting.Advance(clock, time.Millisecond)
	if !rec.WaitForLen(t, 1, time.Second) {
		t.Fatal("timeout waiting for debounced value")
	}
	time.Sleep(20 * time.Millisecond)

	equal(t, rec.Values(), []string{"abc"})
}

func TestDebounce_EachQuietPeriodEmits(t *testing.T) {
	clock := clockz.NewFakeClock()
	sched := ripple.NewImmediate(clock)
	src := ripple.NewSubject[int]()
	rec := rtesting.Record(t, ripple.Debounce[int](src, 100*time.Millisecond, sched))

	src.Send(1)
	rtesting.Advance(clock, 100*time.Millisecond)
	rec.WaitForLen(t, 1, time.Second)

	src.Send(2)
	rtesting.Advance(clock, 100*time.Millisecond)
	rec.WaitForLen(t, 2, time.Second)

	equal(t, rec.Values(), []int{1, 2})
}

func TestDebounce_CancelDropsPendingValue(t *testing.T) {
	clock := clockz.NewFakeClock()
	sched := ripple.NewImmediate(clock)
	src := ripple.NewSubject[int]()
	rec := rtesting.Record(t, ripple.Debounce[int](src, 100*time.Millisecond, sched))

	src.Send(1)
	rec.Cancel()
	rtesting.Advance(clock, time.Second)
	time.Sleep(20 * time.Millisecond)

	if rec.Len() != 0 {
		t.Errorf("expected no emission after cancel, got %v", rec.Values())
	}
	if src.Subscribers() != 0 {
		t.Errorf("expected upstream subscription released, got %d", src.Subscribers())
	}
}

func TestDebounce_NonPositiveWindowPassesThrough(t *testing.T) {
	src := ripple.NewSubject[int]()
	rec := rtesting.Record(t, ripple.Debounce[int](src, 0, ripple.NewImmediate(nil)))

	src.Send(1)
	src.Send(2)

	equal(t, rec.Values(), []int{1, 2})
}

func TestDebounce_ThenDistinct(t *testing.T) {
	clock := clockz.NewFakeClock()
	sched := ripple.NewImmediate(clock)
	src := ripple.NewSubject[string]()
	rec := rtesting.Record(t, ripple.Distinct(ripple.Debounce[string](src, 100*time.Millisecond, sched)))

	for i, v := range []string{"x", "x", "y"} {
		src.Send(v)
		rtesting.Advance(clock, 100*time.Millisecond)
		rtesting.WaitFor(t, time.Second, func() bool {
			// "x" twice collapses to one emission.
			return rec.Len() == []int{1, 1, 2}[i]
		})
	}
	time.Sleep(20 * time.Millisecond)

	equal(t, rec.Values(), []string{"x", "y"})
}
