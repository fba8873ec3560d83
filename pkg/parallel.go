package analysis

import "fmt"

// Chunk size for parallel histogram filling. Small enough to keep all
// workers busy on typical datasets, large enough to amortize channel traffic.
const fillChunkSize = 4096

type fillChunk struct {
	values  []float64
	weights []float64
}

func fillWorker(id int, nbins int, lo float64, hi float64, jobs <-chan fillChunk, results chan<- *Hist1D) {
	partial, _ := NewHist1D(nbins, lo, hi)
	defer func() {
		if r := recover(); r != nil {
			if logger != nil {
				logger.Error(fmt.Sprintf("fill worker %d recovered from panic: %v", id, r))
			}
			results <- partial
		}
	}()

	for chunk := range jobs {
		partial.FillSlice(chunk.values, chunk.weights)
	}
	results <- partial
}

func sendChunksToWorkers(values []float64, weights []float64, jobs chan<- fillChunk) {
	for start := 0; start < len(values); start += fillChunkSize {
		end := start + fillChunkSize
		if end > len(values) {
			end = len(values)
		}
		chunk := fillChunk{values: values[start:end]}
		if weights != nil {
			chunk.weights = weights[start:end]
		}
		jobs <- chunk
	}
	close(jobs)
}

// FillParallel fills the histogram from a value slice using a pool of workers,
// one partial histogram per worker, merged at the end. A nil weight slice
// means unit weights.
func (h *Hist1D) FillParallel(values []float64, weights []float64, numWorkers int) error {
	if weights != nil && len(weights) != len(values) {
		return &ErrLengthMismatch{What: "fill weights", Want: len(values), Got: len(weights)}
	}
	if numWorkers < 1 {
		numWorkers = 1
	}

	jobs := make(chan fillChunk, numWorkers)
	results := make(chan *Hist1D, numWorkers)

	for w := 1; w <= numWorkers; w++ {
		go fillWorker(w, h.NBins, h.Lo, h.Hi, jobs, results)
	}
	go sendChunksToWorkers(values, weights, jobs)

	for w := 0; w < numWorkers; w++ {
		partial := <-results
		if err := h.Add(partial); err != nil {
			return err
		}
	}
	return nil
}
