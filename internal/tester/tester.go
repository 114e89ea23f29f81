// Package tester probes proxy profiles by sending a request through each one.
package tester

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"proxyswitch/internal/config"
	"proxyswitch/internal/metrics"
	"proxyswitch/internal/model"
)

var ErrNoHost = errors.New("profile has no host")

type Tester struct {
	cfg config.CheckConfig
}

type Result struct {
	Profile model.Profile
	Latency time.Duration
	Err     error
}

func New(cfg config.CheckConfig) *Tester {
	return &Tester{cfg: cfg}
}

// MakeClient returns a client that always goes through p, sending its
// credentials up front.
func (t *Tester) MakeClient(p model.Profile) *http.Client {
	proxyURL := &url.URL{Scheme: "http", Host: net.JoinHostPort(p.Host, strconv.Itoa(p.Port))}
	if p.HasCredentials() {
		proxyURL.User = url.UserPassword(p.Username, p.Password)
	}
	return &http.Client{
		Transport: &http.Transport{
			Proxy: http.ProxyURL(proxyURL),
			DialContext: (&net.Dialer{
				Timeout: t.cfg.Timeout,
			}).DialContext,
			ResponseHeaderTimeout: t.cfg.Timeout,
			DisableKeepAlives:     true,
		},
		Timeout: t.cfg.Timeout,
	}
}

// Check sends one GET to the echo URL through p, retrying per config.
func (t *Tester) Check(ctx context.Context, p model.Profile, mc *metrics.Collector) Result {
	res := Result{Profile: p}
	if !p.Usable() {
		res.Err = ErrNoHost
		return res
	}

	client := t.MakeClient(p)
	for i := 0; i <= t.cfg.Retries; i++ {
		d, err := t.doCheck(ctx, client)
		if err == nil {
			if mc != nil {
				mc.RecordSuccess(i, d)
			}
			res.Latency = d
			res.Err = nil
			return res
		}
		res.Err = err
		if mc != nil {
			mc.RecordFailure(err)
		}
		if i < t.cfg.Retries {
			select {
			case <-ctx.Done():
				return res
			case <-time.After(200 * time.Millisecond):
			}
		}
	}
	return res
}

func (t *Tester) doCheck(ctx context.Context, client *http.Client) (time.Duration, error) {
	ctx, cancel := context.WithTimeout(ctx, t.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.cfg.EchoURL, nil)
	if err != nil {
		return 0, err
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	elapsed := time.Since(start)

	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		return 0, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return elapsed, nil
}

// CheckAll probes every profile concurrently. Results keep the input order.
func (t *Tester) CheckAll(ctx context.Context, profiles []model.Profile, mc *metrics.Collector) []Result {
	results := make([]Result, len(profiles))
	var wg sync.WaitGroup
	for i, p := range profiles {
		wg.Add(1)
		go func(i int, p model.Profile) {
			defer wg.Done()
			results[i] = t.Check(ctx, p, mc)
		}(i, p)
	}
	wg.Wait()
	return results
}

// FindFirstAlive races all usable profiles and returns the first one whose
// check succeeds.
func (t *Tester) FindFirstAlive(ctx context.Context, profiles []model.Profile) (model.Profile, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	winChan := make(chan model.Profile, 1)
	var wg sync.WaitGroup

	for _, p := range profiles {
		if !p.Usable() {
			continue
		}
		wg.Add(1)
		go func(p model.Profile) {
			defer wg.Done()
			if res := t.Check(ctx, p, nil); res.Err == nil {
				select {
				case winChan <- p:
					cancel()
				default:
				}
			}
		}(p)
	}

	go func() {
		wg.Wait()
		close(winChan)
	}()

	winner, ok := <-winChan
	if !ok {
		return model.Profile{}, fmt.Errorf("no reachable profile among %d", len(profiles))
	}
	return winner, nil
}
