package future

// All returns a future that resolves with every input value once all
// inputs resolve, or rejects with the first rejection observed. Input
// order is preserved in the result slice.
func All[T any](futures ...*Future[T]) *Future[[]T] {
	out := New[[]T]()

	go func() {
		results := make([]T, len(futures))
		for i, f := range futures {
			value, err := waitSettled(f)
			if err != nil {
				out.Reject(err)
				return
			}
			results[i] = value
		}
		out.Resolve(results)
	}()

	return out
}

// Any returns a future that settles the same way as the first input to
// settle. With no inputs it rejects immediately.
func Any[T any](futures ...*Future[T]) *Future[T] {
	out := New[T]()

	if len(futures) == 0 {
		out.Reject(ErrCanceled)
		return out
	}

	for _, f := range futures {
		go func(f *Future[T]) {
			value, err := waitSettled(f)
			if err != nil {
				out.Reject(err)
				return
			}
			out.Resolve(value)
		}(f)
	}

	return out
}

func waitSettled[T any](f *Future[T]) (T, error) {
	<-f.Done()
	value, _, err := f.TryResult()
	return value, err
}
