package tools

import (
	"sync"
)

// RunWithWorkers fans a job function out over a slice of inputs with at most
// maxWorkers running at once, and blocks until every job finishes.
func RunWithWorkers[T any](jobs []T, maxWorkers int, handler func(T)) {
	if maxWorkers < 1 {
		maxWorkers = 1
	}

	var wg sync.WaitGroup
	sem := make(chan struct{}, maxWorkers)

	for _, job := range jobs {
		wg.Add(1)
		sem <- struct{}{}

		go func(j T) {
			defer wg.Done()
			defer func() { <-sem }()

			handler(j)
		}(job)
	}

	wg.Wait()
}
