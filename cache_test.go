package main

import (
	"testing"

	"github.com/cert-lv/ordergrid/pdk"
)

func TestCacheKey(t *testing.T) {
	pattern := pdk.IndexPattern{Name: pdk.DefaultIndexName}
	filters := []pdk.Filter{{Query: "a=1", Enabled: true}, {Query: "b=2", Enabled: true}}

	first, err := cacheKey(pattern, filters)
	if err != nil {
		t.Fatalf("Can't build key: %s", err.Error())
	}

	second, _ := cacheKey(pattern, []pdk.Filter{{Query: "a=1", Enabled: true}, {Query: "b=2", Enabled: true}})
	if first != second {
		t.Errorf("Identical searches must share the key")
	}

	tables := []struct {
		pattern pdk.IndexPattern
		filters []pdk.Filter
	}{
		{pdk.IndexPattern{Name: "other"}, filters},
		{pattern, []pdk.Filter{filters[1], filters[0]}},
		{pattern, filters[:1]},
		{pattern, []pdk.Filter{{Query: "a=1", Enabled: true, Negate: true}, filters[1]}},
	}

	for i, table := range tables {
		key, _ := cacheKey(table.pattern, table.filters)
		if key == first {
			t.Errorf("#%d: different searches must have different keys", i)
		}
	}
}

func TestSetupCacheDisabled(t *testing.T) {
	fake := setupTest(t)

	executor, err := setupCache(fake)
	if err != nil {
		t.Fatalf("Disabled cache must not fail: %s", err.Error())
	}

	if executor != fake {
		t.Errorf("Executor must be untouched when cache is disabled")
	}
}
