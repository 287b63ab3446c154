package client

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

type reviewJob struct {
	idx  int
	item Item
}

// AttachReviews fetches reviews for every item with at most
// ReviewsConcurrency fetches in flight and returns the enriched items in
// the input order. Each item resolves independently: failures become
// warnings, ordered by item index, and never abort the remaining fetches.
func (c *Client) AttachReviews(ctx context.Context, items []Item) ([]Item, []string) {
	out := make([]Item, len(items))
	warningsAt := make([]string, len(items))

	if len(items) > 0 {
		jobs := make(chan reviewJob)
		var wg sync.WaitGroup

		workers := min(c.config.ReviewsConcurrency, len(items))
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for job := range jobs {
					out[job.idx], warningsAt[job.idx] = c.enrichItem(ctx, job.item)
				}
			}()
		}

		for i, item := range items {
			jobs <- reviewJob{idx: i, item: item}
		}
		close(jobs)
		wg.Wait()
	}

	warnings := []string{}
	for _, w := range warningsAt {
		if w != "" {
			warnings = append(warnings, w)
		}
	}

	return out, warnings
}

// enrichItem resolves the reviews for a single item. Items without an ID
// cannot be queried and keep an empty review list without touching the
// network.
func (c *Client) enrichItem(ctx context.Context, item Item) (Item, string) {
	item.Reviews = []json.RawMessage{}

	if item.ID == nil || *item.ID == "" {
		return item, ""
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			// Wait only fails when the context ends before a slot frees.
			reviewWarningsTotal.WithLabelValues("cancelled").Inc()
			return item, fmt.Sprintf("reviews for item %s: cancelled", *item.ID)
		}
	}

	reviewsInFlight.Inc()
	reviews, warning := c.FetchReviews(ctx, *item.ID)
	reviewsInFlight.Dec()

	item.Reviews = reviews
	return item, warning
}
