package domain

// Result is the outcome of a remote operation: exactly one of a success value
// or a *RemoteError. Workflows thread Results from step to step and stop at
// the first failure, which is handed back to the caller unchanged.
//
// A zero Result is neither; always build one with Success or Failure.
type Result[T any] struct {
	value T
	err   *RemoteError
	ok    bool
}

// Success wraps v. A nil pointer or an empty slice is still a success.
func Success[T any](v T) Result[T] {
	return Result[T]{value: v, ok: true}
}

// Failure wraps err. A nil err is replaced by an unknown error so a failed
// Result always carries a cause.
func Failure[T any](err *RemoteError) Result[T] {
	if err == nil {
		err = NewRemoteError(KindUnknown, "failure without cause")
	}
	return Result[T]{err: err}
}

// Failuref builds a Failure from a kind and a formatted message.
func Failuref[T any](kind ErrorKind, format string, args ...any) Result[T] {
	return Failure[T](Errorf(kind, format, args...))
}

func (r Result[T]) IsSuccess() bool { return r.ok }

func (r Result[T]) IsFailure() bool { return !r.ok }

// Value returns the success value, or the zero value on failure.
func (r Result[T]) Value() T { return r.value }

// Err returns the failure, or nil on success.
func (r Result[T]) Err() *RemoteError { return r.err }

// Unwrap converts the Result into Go's (value, error) convention. Only the
// caller-facing layer should need it.
func (r Result[T]) Unwrap() (T, error) {
	if !r.ok {
		var zero T
		return zero, r.err
	}
	return r.value, nil
}

// Map applies fn to a success value and passes a failure through untouched.
func Map[T, U any](r Result[T], fn func(T) U) Result[U] {
	if !r.ok {
		return Failure[U](r.err)
	}
	return Success(fn(r.value))
}

// MapList applies fn to every element of a successful list.
func MapList[T, U any](r Result[[]T], fn func(T) U) Result[[]U] {
	if !r.ok {
		return Failure[[]U](r.err)
	}
	out := make([]U, 0, len(r.value))
	for _, v := range r.value {
		out = append(out, fn(v))
	}
	return Success(out)
}

// FlatMap chains a Result-returning step after r.
func FlatMap[T, U any](r Result[T], fn func(T) Result[U]) Result[U] {
	if !r.ok {
		return Failure[U](r.err)
	}
	return fn(r.value)
}

// Recast re-types a failed Result. It panics on a success because there is
// no value to convert.
func Recast[U, T any](r Result[T]) Result[U] {
	if r.ok {
		panic("domain: Recast of a successful result")
	}
	return Failure[U](r.err)
}
