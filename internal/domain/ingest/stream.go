package ingest

import "iter"

// Map applies fn lazily to every value of seq. An error from seq or fn is
// yielded once and ends the sequence.
func Map[T, U any](seq iter.Seq2[T, error], fn func(T) (U, error)) iter.Seq2[U, error] {
	return func(yield func(U, error) bool) {
		var zero U
		for value, err := range seq {
			if err != nil {
				yield(zero, err)
				return
			}
			mapped, err := fn(value)
			if err != nil {
				yield(zero, err)
				return
			}
			if !yield(mapped, nil) {
				return
			}
		}
	}
}

// Batched groups seq into slices of at most size values. The trailing
// partial batch is yielded when seq ends cleanly; on error the buffered
// values are dropped and the error is yielded instead.
func Batched[T any](seq iter.Seq2[T, error], size int) iter.Seq2[[]T, error] {
	return func(yield func([]T, error) bool) {
		if size <= 0 {
			yield(nil, ErrInvalidBatchSize)
			return
		}

		batch := make([]T, 0, size)
		for value, err := range seq {
			if err != nil {
				yield(nil, err)
				return
			}
			batch = append(batch, value)
			if len(batch) < size {
				continue
			}
			if !yield(batch, nil) {
				return
			}
			batch = make([]T, 0, size)
		}

		if len(batch) > 0 {
			yield(batch, nil)
		}
	}
}
