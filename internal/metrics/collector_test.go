package metrics_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"proxyswitch/internal/metrics"
)

func TestCategorize(t *testing.T) {
	cases := []struct {
		msg  string
		want string
	}{
		{context.DeadlineExceeded.Error(), metrics.CategoryTimeout},
		{"unexpected status 407 Proxy Authentication Required", "Proxy Auth Rejected"},
		{"dial tcp 10.0.0.1:3128: connect: connection refused", "Conn Refused (Fast)"},
		{"lookup nope: no such host", "DNS Error"},
		{"something odd", "Unknown"},
	}
	for _, tc := range cases {
		if got := metrics.Categorize(errors.New(tc.msg)); got != tc.want {
			t.Errorf("Categorize(%q) = %q, want %q", tc.msg, got, tc.want)
		}
	}
}

func TestCollector_Report(t *testing.T) {
	c := metrics.New()
	c.RecordSuccess(0, 100*time.Millisecond)
	c.RecordSuccess(1, 300*time.Millisecond)
	c.RecordFailure(errors.New("i/o timeout"))

	ok, failed := c.Counts()
	if ok != 2 || failed != 1 {
		t.Fatalf("Counts() = %d, %d", ok, failed)
	}

	var buf bytes.Buffer
	c.PrintReport(&buf, 5*time.Second, 1)
	out := buf.String()
	for _, want := range []string{"Reachable:", "Succeeded on Try 2:", "Total Failures:", metrics.CategoryTimeout} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}
