package main

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"sort"
	"sync"

	"isoterrain/internal/terrain"
)

type paramSet struct {
	maxElevation int
	iterations   int
	policy       string
	smoothing    int
}

func (p paramSet) String() string {
	return fmt.Sprintf("max=%d iter=%d seeding=%s smooth=%d", p.maxElevation, p.iterations, p.policy, p.smoothing)
}

type scenarioResult struct {
	params paramSet
	stats  terrain.Stats
	grid   *terrain.Grid
	err    error
}

// score is the distance from the target roughness; lower is better.
func (r scenarioResult) score(target float64) float64 {
	return math.Abs(r.stats.Roughness - target)
}

type sweep struct {
	base    terrain.Config
	catalog *terrain.Catalog
	workers int
	target  float64
}

func grid(maxElevations, iterations, smoothing []int, policies []string) []paramSet {
	var sets []paramSet
	for _, max := range maxElevations {
		for _, iter := range iterations {
			for _, policy := range policies {
				for _, smooth := range smoothing {
					sets = append(sets, paramSet{maxElevation: max, iterations: iter, policy: policy, smoothing: smooth})
				}
			}
		}
	}
	return sets
}

// run generates one terrain per parameter set on a pool of workers and
// returns the results ranked by closeness to the target roughness.
func (s sweep) run(sets []paramSet) []scenarioResult {
	workers := s.workers
	if workers <= 0 {
		workers = 1
	}
	jobs := make(chan paramSet)
	results := make(chan scenarioResult)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// Catalogs are read-only during passes but each worker gets its
			// own copy so nothing is shared.
			catalog := s.catalog.Clone()
			for params := range jobs {
				results <- runScenario(s.base, catalog, params)
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	go func() {
		for _, params := range sets {
			jobs <- params
		}
		close(jobs)
	}()

	var all []scenarioResult
	for res := range results {
		all = append(all, res)
	}
	sort.Slice(all, func(i, j int) bool {
		a, b := all[i], all[j]
		if (a.err == nil) != (b.err == nil) {
			return a.err == nil
		}
		if sa, sb := a.score(s.target), b.score(s.target); sa != sb {
			return sa < sb
		}
		if a.stats.MaxHeight != b.stats.MaxHeight {
			return a.stats.MaxHeight > b.stats.MaxHeight
		}
		return a.params.String() < b.params.String()
	})
	return all
}

func runScenario(base terrain.Config, catalog *terrain.Catalog, params paramSet) scenarioResult {
	cfg := base
	cfg.MaxElevation = params.maxElevation
	cfg.ElevationIterations = params.iterations
	cfg.SeedPolicy = params.policy
	cfg.SmoothIterations = params.smoothing

	res := scenarioResult{params: params}
	session, err := terrain.NewSession(cfg, catalog, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		res.err = err
		return res
	}
	if err := session.Run(); err != nil {
		res.err = err
		return res
	}
	res.grid = session.Grid()
	res.stats = terrain.Summarize(res.grid)
	return res
}
