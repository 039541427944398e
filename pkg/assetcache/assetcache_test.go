package assetcache

import (
	"errors"
	"testing"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() {
		if err := c.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return c
}

func TestPutGetRoundTrip(t *testing.T) {
	c := openTestCache(t)
	if err := c.Put("layout/abc", []byte("positions")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := c.Get("layout/abc")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "positions" {
		t.Errorf("Get = %q", got)
	}
}

func TestGetMissingKey(t *testing.T) {
	c := openTestCache(t)
	got, err := c.Get("nope")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Errorf("missing key returned %q", got)
	}
}

func TestFetchDownloadsOnce(t *testing.T) {
	c := openTestCache(t)
	calls := 0
	c.fetchFn = func(url string) ([]byte, error) {
		calls++
		return []byte("body-of-" + url), nil
	}

	for i := 0; i < 3; i++ {
		got, err := c.Fetch("http://example.com/fight-songs.json", "[TEST]")
		if err != nil {
			t.Fatalf("Fetch %d: %v", i, err)
		}
		if string(got) != "body-of-http://example.com/fight-songs.json" {
			t.Errorf("Fetch %d = %q", i, got)
		}
	}
	if calls != 1 {
		t.Errorf("downloaded %d times, want 1", calls)
	}
}

func TestFetchError(t *testing.T) {
	c := openTestCache(t)
	wantErr := errors.New("offline")
	c.fetchFn = func(string) ([]byte, error) { return nil, wantErr }
	if _, err := c.Fetch("http://example.com/x", "[TEST]"); !errors.Is(err, wantErr) {
		t.Errorf("Fetch err = %v, want %v", err, wantErr)
	}
}
