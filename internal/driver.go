package tools

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// Runner executes one load-generation trial against target and returns
// the tool's plain-text report. Implementations must not interpret the
// report; a failed run simply produces a report the driver cannot parse.
type Runner func(ctx context.Context, requests, concurrency int, keepAlive bool, target string) (string, error)

// RunAB is the production Runner: it invokes ApacheBench and captures its
// report from stdout. A non-zero exit from ab is not an error here; the
// resulting report will be missing the metric fields and the driver
// aborts on that instead.
func RunAB(ctx context.Context, requests, concurrency int, keepAlive bool, target string) (string, error) {
	args := []string{
		"-n", strconv.Itoa(requests),
		"-c", strconv.Itoa(concurrency),
		"-d", "-S", "-q",
	}
	if keepAlive {
		args = append(args, "-k")
	}
	args = append(args, target)

	cmd := exec.CommandContext(ctx, "ab", args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		logrus.Debugf("ab %s exited with error: %v", target, err)
	}
	return out.String(), nil
}

// Driver runs the full benchmark suite: every configured endpoint at
// every concurrency level from 1 to MaxConcurrency, in order, one trial
// at a time.
type Driver struct {
	cfg BenchConfig
	run Runner
	fs  afero.Fs
	log *logrus.Logger
}

func NewDriver(cfg BenchConfig, log *logrus.Logger) *Driver {
	return &Driver{cfg: cfg, run: RunAB, fs: afero.NewOsFs(), log: log}
}

// Run drives every trial and returns the requests-per-second series (in
// thousands) and the time-per-request series (in milliseconds), both
// keyed by endpoint name in configured order. Any trial whose report is
// missing a metric aborts the whole run; there is no partial-results
// mode.
func (d *Driver) Run(ctx context.Context) (rps, tpr *Results, err error) {
	rps = NewResults()
	tpr = NewResults()

	for _, ep := range d.cfg.Endpoints {
		for c := 1; c <= d.cfg.MaxConcurrency; c++ {
			d.log.Infof("Benchmarking %s, %d/%d...", ep.Name, c, d.cfg.MaxConcurrency)

			report, err := d.trial(ctx, ep, c)
			if err != nil {
				return nil, nil, fmt.Errorf("endpoint %s, concurrency %d: %w", ep.Name, c, err)
			}

			r, err := ExtractMetric(report, FieldRequestsPerSecond)
			if err != nil {
				return nil, nil, fmt.Errorf("endpoint %s, concurrency %d: %w", ep.Name, c, err)
			}
			t, err := ExtractMetric(report, FieldTimePerRequest)
			if err != nil {
				return nil, nil, fmt.Errorf("endpoint %s, concurrency %d: %w", ep.Name, c, err)
			}

			// Requests per second is charted in thousands.
			rps.Append(ep.Name, r/1000)
			tpr.Append(ep.Name, t)
		}
	}

	return rps, tpr, nil
}

// trial runs one load-generation invocation and returns its report. The
// report passes through the scratch file on disk, which is removed again
// before trial returns, whether or not the caller manages to parse it.
func (d *Driver) trial(ctx context.Context, ep Endpoint, concurrency int) (string, error) {
	target := fmt.Sprintf("localhost:%d%s", ep.Port, d.cfg.Path)

	report, err := d.run(ctx, d.cfg.Requests, concurrency, d.cfg.KeepAlive, target)
	if err != nil {
		return "", fmt.Errorf("running load generator: %w", err)
	}

	if err := afero.WriteFile(d.fs, d.cfg.ScratchFile, []byte(report), 0o644); err != nil {
		return "", fmt.Errorf("writing scratch file: %w", err)
	}
	defer func() {
		if err := d.fs.Remove(d.cfg.ScratchFile); err != nil {
			d.log.Debugf("failed to remove scratch file %s: %v", d.cfg.ScratchFile, err)
		}
	}()

	data, err := afero.ReadFile(d.fs, d.cfg.ScratchFile)
	if err != nil {
		return "", fmt.Errorf("reading scratch file: %w", err)
	}
	return string(data), nil
}
