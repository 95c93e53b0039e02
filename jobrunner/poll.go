// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jobrunner

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Outcome is the per-shard state reported by a poll sweep.
type Outcome int

const (
	// Pending means the shard is still running.
	Pending Outcome = iota
	// Finished means the shard completed successfully.
	Finished
	// SoftFail means the aligner reported a recoverable
	// matrix-overflow condition; MxSize carries the required size.
	SoftFail
	// HardFail means the shard wrote to its stderr file; stderr is
	// only checked when Config.CheckStderr is set. A shard still
	// unfinished when the poll budget expires stays Pending.
	HardFail
)

// Mode selects how shard completion is recognized.
type Mode int

const (
	// AlignerMode recognizes a "# CPU time" success line or a
	// "Error: ... mxes need <N>" matrix-overflow line.
	AlignerMode Mode = iota
	// GenericMode recognizes a caller-supplied finished sentinel.
	GenericMode
)

// Shard describes one in-flight unit of work to poll.
type Shard struct {
	Name        string
	StdoutFile  string
	StderrFile  string
	FinishedStr string // used only in GenericMode
}

// Result is the outcome recorded for one shard by a poll sweep.
type Result struct {
	Outcome Outcome
	MxSize  float64
}

var mxOverflowRe = regexp.MustCompile(`^Error: .* mxes need ([0-9.]+)`)

const cpuTimePrefix = "# CPU time"

func lastLine(path string) (string, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, err
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	last := ""
	seen := false
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		last = line
		seen = true
	}
	if err := sc.Err(); err != nil {
		return "", false, err
	}
	return last, seen, nil
}

func checkShard(mode Mode, s Shard, checkStderr bool) (Result, error) {
	if checkStderr {
		fi, err := os.Stat(s.StderrFile)
		if err != nil && !os.IsNotExist(err) {
			return Result{}, err
		}
		if err == nil && fi.Size() > 0 {
			return Result{Outcome: HardFail}, nil
		}
	}

	last, seen, err := lastLine(s.StdoutFile)
	if err != nil {
		return Result{}, err
	}
	if !seen {
		return Result{Outcome: Pending}, nil
	}

	switch mode {
	case AlignerMode:
		if strings.HasPrefix(last, cpuTimePrefix) {
			return Result{Outcome: Finished}, nil
		}
		if m := mxOverflowRe.FindStringSubmatch(last); m != nil {
			sz, err := strconv.ParseFloat(m[1], 64)
			if err != nil {
				return Result{}, fmt.Errorf("jobrunner: poll: bad matrix size in %q: %w", last, err)
			}
			return Result{Outcome: SoftFail, MxSize: sz}, nil
		}
		return Result{Outcome: Pending}, nil
	case GenericMode:
		if last == s.FinishedStr {
			return Result{Outcome: Finished}, nil
		}
		return Result{Outcome: Pending}, nil
	default:
		return Result{}, fmt.Errorf("jobrunner: poll: unknown mode %d", mode)
	}
}

// Config parameterizes a poll run.
type Config struct {
	Mode         Mode
	CheckStderr  bool
	InitialDelay time.Duration
	Budget       time.Duration

	// Sleep is the delay function, injectable for tests; nil means
	// time.Sleep.
	Sleep func(time.Duration)
	// Now is the clock, injectable for tests; nil means time.Now.
	Now func() time.Time
}

// Summary is the overall poll result: whether every shard reached a
// terminal state before the budget elapsed, and the number that had.
type Summary struct {
	Finished    bool
	NumFinished int
}

const maxBackoff = 120 * time.Second

// Poll sweeps shards at exponentially increasing intervals, starting
// at cfg.InitialDelay and doubling each round up to maxBackoff, until
// every shard reaches a terminal state (Finished/SoftFail/HardFail) or
// cfg.Budget elapses, at which point it performs one final sweep
// before returning. Results are returned in shard
// order. If any shard is SoftFail or HardFail, Poll
// returns a non-nil error naming every failed shard with its
// stdout/stderr filenames, alongside the full result slice.
func Poll(shards []Shard, cfg Config) (Summary, []Result, error) {
	if len(shards) == 0 {
		return Summary{Finished: true}, nil, nil
	}
	sleep := cfg.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	results := make([]Result, len(shards))
	done := make([]bool, len(shards))
	delay := cfg.InitialDelay
	if delay <= 0 {
		delay = time.Second
	}
	deadline := now().Add(cfg.Budget)

	for {
		allDone := true
		for i, s := range shards {
			if done[i] {
				continue
			}
			r, err := checkShard(cfg.Mode, s, cfg.CheckStderr)
			if err != nil {
				return Summary{}, nil, fmt.Errorf("jobrunner: poll: shard %q: %w", s.Name, err)
			}
			results[i] = r
			if r.Outcome != Pending {
				done[i] = true
			} else {
				allDone = false
			}
		}

		numFinished := 0
		for _, d := range done {
			if d {
				numFinished++
			}
		}

		if allDone {
			return summarize(shards, results, true, numFinished)
		}
		if !now().Before(deadline) {
			return summarize(shards, results, false, numFinished)
		}

		sleep(delay)
		delay *= 2
		if delay > maxBackoff {
			delay = maxBackoff
		}
	}
}

func summarize(shards []Shard, results []Result, finished bool, numFinished int) (Summary, []Result, error) {
	s := Summary{Finished: finished, NumFinished: numFinished}
	var failed []string
	for i, r := range results {
		if r.Outcome == SoftFail || r.Outcome == HardFail {
			failed = append(failed, fmt.Sprintf("%s (stdout=%s stderr=%s)", shards[i].Name, shards[i].StdoutFile, shards[i].StderrFile))
		}
	}
	if len(failed) > 0 {
		return s, results, fmt.Errorf("jobrunner: poll: %d shard(s) failed: %s", len(failed), strings.Join(failed, "; "))
	}
	return s, results, nil
}
