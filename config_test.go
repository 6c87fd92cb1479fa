package main

import (
	"strings"
	"testing"
	"time"

	"github.com/cert-lv/ordergrid/pdk"
)

func TestParseConfig(t *testing.T) {
	c, err := parseConfig([]byte(testConfig))
	if err != nil {
		t.Fatalf("Can't parse: %s", err.Error())
	}

	if c.Source.IndexName != pdk.DefaultIndexName || c.Source.TimeField != pdk.DefaultTimeField {
		t.Errorf("Default index expected: %+v", c.Source)
	}

	if c.Source.Timeout != 5*time.Second || c.Source.Size != pdk.DefaultSize || c.Source.MatchPolicy != pdk.MatchFirst {
		t.Errorf("Unexpected source settings: %+v", c.Source)
	}

	if c.Notifications != 3 || c.Server.ShutdownTimeout != 10 {
		t.Errorf("Unexpected defaults: %d, %d", c.Notifications, c.Server.ShutdownTimeout)
	}
}

func TestParseConfigErrors(t *testing.T) {
	tables := []string{
		`server: [`,
		strings.Replace(testConfig, `port: "8443"`, `port: ""`, 1),
		strings.Replace(testConfig, "source:", "other:", 1),
		strings.Replace(testConfig, "log:", "other:", 1),
		strings.Replace(testConfig, "  name: orders", "  name: orders\n  matchPolicy: random", 1),
	}

	for _, yaml := range tables {
		_, err := parseConfig([]byte(yaml))
		if err == nil {
			t.Errorf("Error expected for:\n%s", yaml)
		}
	}
}

func TestConfigTimeRange(t *testing.T) {
	c, err := parseConfig([]byte(testConfig + "timeRange:\n  last: 168h\n"))
	if err != nil {
		t.Fatalf("Can't parse: %s", err.Error())
	}

	// Kept relative until the search
	rng := c.timeRange()
	if rng.Last != 168*time.Hour || !rng.From.IsZero() || !rng.To.IsZero() {
		t.Errorf("Unexpected range: %+v", rng)
	}

	first := pdk.NewTimefilter(rng).CreateFilter(pdk.IndexPattern{TimeField: pdk.DefaultTimeField})
	if first == nil {
		t.Fatalf("Time filter expected")
	}

	c, err = parseConfig([]byte(testConfig))
	if err != nil {
		t.Fatalf("Can't parse: %s", err.Error())
	}

	if !c.timeRange().IsZero() {
		t.Errorf("No range expected by default")
	}
}
