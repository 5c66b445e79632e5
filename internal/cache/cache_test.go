package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

// TestCacheConcurrentAccess tests thread safety of cache operations
func TestCacheConcurrentAccess(t *testing.T) {
	cache := NewCache(5 * time.Minute)
	defer cache.Stop()

	numGoroutines := 10
	numOperations := 100
	var wg sync.WaitGroup

	// Concurrent writes
	for g := 0; g < numGoroutines; g++ {
		wg.Add(1)
		go func(goroutineID int) {
			defer wg.Done()
			for i := 0; i < numOperations; i++ {
				key := fmt.Sprintf("key_%d_%d", goroutineID, i%10)
				cache.Set(key, i)
			}
		}(g)
	}
	wg.Wait()

	// Concurrent reads
	for g := 0; g < numGoroutines; g++ {
		wg.Add(1)
		go func(goroutineID int) {
			defer wg.Done()
			for i := 0; i < numOperations; i++ {
				key := fmt.Sprintf("key_%d_%d", goroutineID, i%10)
				cache.Get(key)
			}
		}(g)
	}
	wg.Wait()

	// Concurrent mixed operations
	for g := 0; g < numGoroutines; g++ {
		wg.Add(1)
		go func(goroutineID int) {
			defer wg.Done()
			for i := 0; i < numOperations; i++ {
				key := fmt.Sprintf("mixed_%d_%d", goroutineID, i%10)
				if i%2 == 0 {
					cache.Set(key, i)
				} else {
					cache.Get(key)
				}
			}
		}(g)
	}
	wg.Wait()

	// If we get here without deadlock or panic, the test passes
	t.Logf("Completed %d concurrent operations across %d goroutines", numGoroutines*numOperations*3, numGoroutines)
}

// TestCacheInvalidation tests that prefix invalidation only removes matching keys
func TestCacheInvalidation(t *testing.T) {
	cache := NewCache(5 * time.Minute)
	defer cache.Stop()

	prefix := "tags_"
	numItems := 100
	for i := 0; i < numItems; i++ {
		cache.Set(fmt.Sprintf("%s%02d", prefix, i), i)
	}

	otherPrefix := "tasks_"
	for i := 0; i < numItems; i++ {
		cache.Set(fmt.Sprintf("%s%02d", otherPrefix, i), i)
	}

	if cache.Size() != numItems*2 {
		t.Errorf("Expected %d items, got %d", numItems*2, cache.Size())
	}

	cache.InvalidatePrefix(prefix)

	if cache.Size() != numItems {
		t.Errorf("Expected %d items after invalidation, got %d", numItems, cache.Size())
	}

	for i := 0; i < numItems; i++ {
		key := fmt.Sprintf("%s%02d", prefix, i)
		if _, found := cache.Get(key); found {
			t.Errorf("Item %s should have been invalidated", key)
		}
	}

	for i := 0; i < numItems; i++ {
		key := fmt.Sprintf("%s%02d", otherPrefix, i)
		if _, found := cache.Get(key); !found {
			t.Errorf("Item %s should still exist", key)
		}
	}
}

// TestCacheTTLExpiration tests that items expire correctly
func TestCacheTTLExpiration(t *testing.T) {
	cache := NewCache(50 * time.Millisecond)
	defer cache.Stop()

	key := "expiring_item"
	cache.Set(key, "test_value")

	// Item should exist immediately
	if _, found := cache.Get(key); !found {
		t.Error("Item should exist immediately after setting")
	}

	// Wait for TTL to expire
	time.Sleep(100 * time.Millisecond)

	// Item should be expired
	if _, found := cache.Get(key); found {
		t.Error("Item should have expired")
	}
}

// TestCacheCustomTTL tests setting items with custom TTL
func TestCacheCustomTTL(t *testing.T) {
	cache := NewCache(5 * time.Minute)
	defer cache.Stop()

	shortKey := "short_ttl"
	cache.SetWithTTL(shortKey, "short", 50*time.Millisecond)

	longKey := "long_ttl"
	cache.Set(longKey, "long")

	if _, found := cache.Get(shortKey); !found {
		t.Error("Short TTL item should exist initially")
	}
	if _, found := cache.Get(longKey); !found {
		t.Error("Long TTL item should exist initially")
	}

	time.Sleep(100 * time.Millisecond)

	if _, found := cache.Get(shortKey); found {
		t.Error("Short TTL item should have expired")
	}
	if _, found := cache.Get(longKey); !found {
		t.Error("Long TTL item should still exist")
	}
}

// TestCacheStats tests hit and miss accounting
func TestCacheStats(t *testing.T) {
	cache := NewCache(5 * time.Minute)
	defer cache.Stop()

	cache.Set("a", 1)
	cache.Set("b", 2)

	cache.Get("a")
	cache.Get("a")
	cache.Get("missing")

	stats := cache.Stats()
	if stats.ItemCount != 2 {
		t.Errorf("Expected 2 items, got %d", stats.ItemCount)
	}
	if stats.HitCount != 2 {
		t.Errorf("Expected 2 hits, got %d", stats.HitCount)
	}
	if stats.MissCount != 1 {
		t.Errorf("Expected 1 miss, got %d", stats.MissCount)
	}
}
