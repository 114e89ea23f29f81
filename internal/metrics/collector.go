package metrics

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"text/tabwriter"
	"time"
)

// Collector aggregates the outcome of profile health checks.
type Collector struct {
	mu sync.Mutex

	// Latency Tracking (Successes only)
	latencies []time.Duration

	// Retry Tracking
	successByAttempt map[int]int
	totalSuccess     int

	// Error Tracking
	errorCounts   map[string]int
	totalErrors   int
	timeoutErrors int
}

func New() *Collector {
	return &Collector{
		successByAttempt: make(map[int]int),
		errorCounts:      make(map[string]int),
	}
}

func (c *Collector) RecordSuccess(attempt int, duration time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.latencies = append(c.latencies, duration)
	c.successByAttempt[attempt]++
	c.totalSuccess++
}

func (c *Collector) RecordFailure(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.totalErrors++
	category := Categorize(err)
	if category == CategoryTimeout {
		c.timeoutErrors++
	}
	c.errorCounts[category]++
}

const CategoryTimeout = "Timeout (Slow)"

// Categorize buckets a check error by its likely cause.
func Categorize(err error) string {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "deadline exceeded") || strings.Contains(msg, "timeout"):
		return CategoryTimeout
	case strings.Contains(msg, "407") || strings.Contains(msg, "Proxy Authentication Required"):
		return "Proxy Auth Rejected"
	case strings.Contains(msg, "refused"):
		return "Conn Refused (Fast)"
	case strings.Contains(msg, "reset"):
		return "Conn Reset (Fast)"
	case strings.Contains(msg, "EOF"):
		return "EOF / Empty"
	case strings.Contains(msg, "no such host"):
		return "DNS Error"
	default:
		return "Unknown"
	}
}

// Counts returns the number of successes and failures recorded so far.
func (c *Collector) Counts() (success, failure int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalSuccess, c.totalErrors
}

func (c *Collector) PrintReport(out io.Writer, currentTimeout time.Duration, currentRetries int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\n📊 \033[1mPROFILE CHECK REPORT\033[0m")
	fmt.Fprintln(w, "────────────────────────────────────────")

	if len(c.latencies) > 0 {
		sorted := append([]time.Duration(nil), c.latencies...)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

		p50 := sorted[len(sorted)/2]
		p90 := sorted[int(float64(len(sorted))*0.9)]

		fmt.Fprintln(w, "\033[1;36m[ LATENCY (Reachable Profiles) ]\033[0m")
		fmt.Fprintf(w, "  Avg Duration:\t%v\n", average(sorted))
		fmt.Fprintf(w, "  p50 (Median):\t%v\n", p50)
		fmt.Fprintf(w, "  p90 (Slowest 10%%):\t%v\n", p90)

		recTimeout := p90 + (500 * time.Millisecond)
		fmt.Fprintf(w, "  💡 Recommendation:\tSet 'check.timeout' to ~%s (Current: %s)\n", recTimeout.Round(time.Second), currentTimeout)
		fmt.Fprintln(w, "")
	}

	fmt.Fprintln(w, "\033[1;36m[ RETRY EFFICIENCY ]\033[0m")
	if c.totalSuccess > 0 {
		fmt.Fprintf(w, "  Reachable:\t%d\n", c.totalSuccess)
		for i := 0; i <= currentRetries; i++ {
			count := c.successByAttempt[i]
			pct := float64(count) / float64(c.totalSuccess) * 100
			fmt.Fprintf(w, "  Succeeded on Try %d:\t%d (%.1f%%)\n", i+1, count, pct)
		}
	} else {
		fmt.Fprintln(w, "  No reachable profiles.")
	}
	fmt.Fprintln(w, "")

	fmt.Fprintln(w, "\033[1;36m[ ERRORS ]\033[0m")
	fmt.Fprintf(w, "  Total Failures:\t%d\n", c.totalErrors)

	categories := make([]string, 0, len(c.errorCounts))
	for k := range c.errorCounts {
		categories = append(categories, k)
	}
	sort.Strings(categories)
	for _, k := range categories {
		fmt.Fprintf(w, "  %s:\t%d\n", k, c.errorCounts[k])
	}

	w.Flush()
}

func average(d []time.Duration) time.Duration {
	if len(d) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range d {
		sum += v
	}
	return time.Duration(int64(sum) / int64(len(d)))
}
