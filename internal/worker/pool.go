// Package worker splits a frame into row bands and renders them in parallel.
package worker

import (
	"context"
	"sync"
	"time"
)

// Band is a half-open range of raster rows [Y0, Y1).
type Band struct {
	Y0, Y1 int
}

// Rows is the number of rows in the band.
func (b Band) Rows() int { return b.Y1 - b.Y0 }

// Renderer renders one band. Distinct bands never share output pixels, so
// implementations may be called concurrently.
type Renderer interface {
	RenderBand(ctx context.Context, band Band) error
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(ctx context.Context, band Band) error

// RenderBand implements Renderer.
func (f RendererFunc) RenderBand(ctx context.Context, band Band) error { return f(ctx, band) }

// Task represents a single band render.
type Task struct {
	Band Band
}

// Result represents the outcome of a band render.
type Result struct {
	Task    Task
	Err     error
	Elapsed time.Duration
}

// ProgressFunc is called after each task completes.
type ProgressFunc func(completed, total, failed int)

// Config configures the worker pool.
type Config struct {
	Workers    int
	OnProgress ProgressFunc
}

// Pool renders bands with a fixed number of workers.
type Pool struct {
	workers    int
	onProgress ProgressFunc
}

// New creates a new worker pool.
func New(cfg Config) *Pool {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	return &Pool{
		workers:    workers,
		onProgress: cfg.OnProgress,
	}
}

// Workers returns the configured parallelism.
func (p *Pool) Workers() int {
	return p.workers
}

// Bands splits height rows into tasks of at least rowsPerBand rows, one
// task per band, in top-to-bottom order.
func Bands(height, rowsPerBand int) []Task {
	if height <= 0 {
		return nil
	}
	if rowsPerBand <= 0 {
		rowsPerBand = 1
	}

	tasks := make([]Task, 0, (height+rowsPerBand-1)/rowsPerBand)
	for y := 0; y < height; y += rowsPerBand {
		tasks = append(tasks, Task{Band: Band{Y0: y, Y1: min(y+rowsPerBand, height)}})
	}
	return tasks
}

// Split returns tasks for height rows sized so each worker gets a few bands.
func (p *Pool) Split(height int) []Task {
	perBand := height / (p.workers * 4)
	return Bands(height, max(perBand, 1))
}

// Run executes all tasks and returns results.
// The function blocks until all tasks complete or the context is cancelled;
// tasks not started before cancellation report ctx.Err().
func (p *Pool) Run(ctx context.Context, r Renderer, tasks []Task) []Result {
	if len(tasks) == 0 {
		return nil
	}

	taskCh := make(chan Task, len(tasks))
	resultCh := make(chan Result, len(tasks))

	var wg sync.WaitGroup
	for i := 0; i < min(p.workers, len(tasks)); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.worker(ctx, r, taskCh, resultCh)
		}()
	}

	for _, task := range tasks {
		taskCh <- task
	}
	close(taskCh)

	results := make([]Result, 0, len(tasks))
	done := make(chan struct{})

	go func() {
		var completed, failed int
		for result := range resultCh {
			results = append(results, result)

			completed++
			if result.Err != nil {
				failed++
			}
			if p.onProgress != nil {
				p.onProgress(completed, len(tasks), failed)
			}
		}
		close(done)
	}()

	wg.Wait()
	close(resultCh)
	<-done

	return results
}

// FirstError returns the first failed result's error, if any.
func FirstError(results []Result) error {
	for _, r := range results {
		if r.Err != nil {
			return r.Err
		}
	}
	return nil
}

func (p *Pool) worker(ctx context.Context, r Renderer, tasks <-chan Task, results chan<- Result) {
	for task := range tasks {
		if err := ctx.Err(); err != nil {
			results <- Result{Task: task, Err: err}
			continue
		}

		start := time.Now()
		err := r.RenderBand(ctx, task.Band)
		results <- Result{
			Task:    task,
			Err:     err,
			Elapsed: time.Since(start),
		}
	}
}
