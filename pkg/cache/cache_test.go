package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/linkagesim/pkg/dimension"
)

var errDropped = errors.New("connection dropped")

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil || hit || data != nil {
		t.Errorf("Get = %q, %v, %v; want miss", data, hit, err)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if _, hit, _ := c.Get(ctx, "solve:abc"); hit {
		t.Error("empty cache reported a hit")
	}
	if err := c.Set(ctx, "solve:abc", []byte(`{"ok":true}`), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "solve:abc")
	if err != nil || !hit || string(data) != `{"ok":true}` {
		t.Errorf("Get = %q, %v, %v", data, hit, err)
	}

	if err := c.Delete(ctx, "solve:abc"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "solve:abc"); hit {
		t.Error("deleted key still present")
	}
	if err := c.Delete(ctx, "solve:abc"); err != nil {
		t.Errorf("Delete of missing key: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry reported as hit")
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Error("expired entry not removed")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	path := c.path("k")
	_ = os.MkdirAll(filepath.Dir(path), 0o755)
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("corrupt entry: hit=%v err=%v", hit, err)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(filepath.Join(t.TempDir(), "cache"))
	_ = c.Set(ctx, "a", []byte("1"), 0)
	_ = c.Set(ctx, "b", []byte("2"), 0)

	if err := c.Clear(); err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	entries, err := os.ReadDir(c.Dir())
	if err != nil {
		t.Fatalf("cache dir missing after Clear: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Clear left %d entries", len(entries))
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("Different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestChainHash(t *testing.T) {
	a := []dimension.RodSpec{dimension.DefaultRodSpec, {A: 2, B: 2, C: 1, D: 1}}
	b := []dimension.RodSpec{{A: 2, B: 2, C: 1, D: 1}, dimension.DefaultRodSpec}
	if ChainHash(a) != ChainHash(append([]dimension.RodSpec(nil), a...)) {
		t.Error("ChainHash should be deterministic")
	}
	if ChainHash(a) == ChainHash(b) {
		t.Error("ChainHash should depend on unit order")
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	s1 := k.SolveKey("chain", SolveKeyOpts{Mode: "angle", Theta: 0.8})
	s2 := k.SolveKey("chain", SolveKeyOpts{Mode: "angle", Theta: 0.79999})
	if s1 == s2 {
		t.Error("different thetas should produce different keys")
	}
	if !strings.HasPrefix(s1, "solve:") {
		t.Errorf("SolveKey = %s, want solve: prefix", s1)
	}

	w1 := k.SweepKey("chain", SweepKeyOpts{From: 0.8, To: 0.5, Steps: 10})
	w2 := k.SweepKey("chain", SweepKeyOpts{From: 0.8, To: 0.5, Steps: 10, Topology: "lazy-tongs"})
	if w1 == w2 {
		t.Error("different topologies should produce different keys")
	}
	if !strings.HasPrefix(w1, "sweep:") {
		t.Errorf("SweepKey = %s, want sweep: prefix", w1)
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "v1:")

	opts := SolveKeyOpts{Theta: 1}
	if got, want := scoped.SolveKey("c", opts), "v1:"+inner.SolveKey("c", opts); got != want {
		t.Errorf("SolveKey = %s, want %s", got, want)
	}
	if got := NewScopedKeyer(nil, "p:").SweepKey("c", SweepKeyOpts{}); !strings.HasPrefix(got, "p:sweep:") {
		t.Errorf("nil inner SweepKey = %s", got)
	}
}

func TestFetch(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	calls := 0
	compute := func() ([]float64, error) {
		calls++
		return []float64{1, 2, 3}, nil
	}

	v, hit, err := Fetch(ctx, c, "k", "sweep", time.Hour, compute)
	if err != nil || hit || len(v) != 3 {
		t.Fatalf("first Fetch = %v, %v, %v", v, hit, err)
	}
	v, hit, err = Fetch(ctx, c, "k", "sweep", time.Hour, compute)
	if err != nil || !hit || len(v) != 3 || v[2] != 3 {
		t.Fatalf("second Fetch = %v, %v, %v", v, hit, err)
	}
	if calls != 1 {
		t.Errorf("compute called %d times, want 1", calls)
	}

	if _, _, err := Fetch(ctx, c, "other", "sweep", 0, func() (int, error) {
		return 0, errDropped
	}); !errors.Is(err, errDropped) {
		t.Errorf("Fetch error = %v", err)
	}
	if _, hit, _ := c.Get(ctx, "other"); hit {
		t.Error("failed compute was cached")
	}
}

func TestRetryableError(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}
	err := Retryable(errDropped)
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}
	if err.Error() != errDropped.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}
	if !errors.Is(err, errDropped) {
		t.Error("wrapped error should unwrap")
	}
	if IsRetryable(errDropped) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()

	calls := 0
	err := RetryWithBackoff(ctx, 3, time.Millisecond, func() error {
		calls++
		if calls < 2 {
			return Retryable(errDropped)
		}
		return nil
	})
	if err != nil || calls != 2 {
		t.Errorf("retry = %v after %d calls, want success after 2", err, calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, 3, time.Millisecond, func() error {
		calls++
		return errDropped
	})
	if err != errDropped || calls != 1 {
		t.Errorf("non-retryable = %v after %d calls", err, calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, 3, time.Millisecond, func() error {
		calls++
		return Retryable(errDropped)
	})
	if !IsRetryable(err) || calls != 3 {
		t.Errorf("exhausted = %v after %d calls", err, calls)
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithBackoff(ctx, 3, time.Second, func() error {
		return Retryable(errDropped)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}
