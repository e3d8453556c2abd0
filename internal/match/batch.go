package match

import "sync"

// ProcessPages matches every page against the candidate set and returns one
// result per page, in input order. Pages are independent, so they are scored
// on a bounded worker pool; each worker writes into its page's slot, which
// keeps the output order deterministic regardless of scheduling. The
// candidate slice is read-only for the duration of the run.
func (m *Matcher) ProcessPages(pages []OCRPage, candidates []Candidate) ([]MatchResult, BatchStats) {
	results := make([]MatchResult, len(pages))

	workers := m.cfg.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(pages) {
		workers = len(pages)
	}

	if workers <= 1 {
		for i, page := range pages {
			results[i] = m.MatchPage(page, candidates)
		}
		return results, summarize(results)
	}

	indexes := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				results[i] = m.MatchPage(pages[i], candidates)
			}
		}()
	}

	for i := range pages {
		indexes <- i
	}
	close(indexes)
	wg.Wait()

	return results, summarize(results)
}

func summarize(results []MatchResult) BatchStats {
	stats := BatchStats{TotalPages: len(results)}
	for _, result := range results {
		if result.Matched {
			stats.Matched++
		} else {
			stats.Unmatched++
		}
	}
	return stats
}
