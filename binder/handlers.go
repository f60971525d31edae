package binder

import (
	"context"
	"fmt"
)

func argAs[T any](args []any, i int) T {
	v, _ := args[i].(T)
	return v
}

func checkArity(args []any, n int) error {
	if len(args) != n {
		return fmt.Errorf("handler expects %d arguments, got %d", n, len(args))
	}
	return nil
}

// Handler0 adapts a typed handler without parameters to a CallFunc.
func Handler0[R any](fn func(ctx context.Context) (R, error)) CallFunc {
	return func(ctx context.Context, args []any) (any, error) {
		if err := checkArity(args, 0); err != nil {
			return nil, err
		}
		return fn(ctx)
	}
}

// Handler1 adapts a typed one-parameter handler to a CallFunc.
func Handler1[A, R any](fn func(ctx context.Context, a A) (R, error)) CallFunc {
	return func(ctx context.Context, args []any) (any, error) {
		if err := checkArity(args, 1); err != nil {
			return nil, err
		}
		return fn(ctx, argAs[A](args, 0))
	}
}

// Handler2 adapts a typed two-parameter handler to a CallFunc.
func Handler2[A, B, R any](fn func(ctx context.Context, a A, b B) (R, error)) CallFunc {
	return func(ctx context.Context, args []any) (any, error) {
		if err := checkArity(args, 2); err != nil {
			return nil, err
		}
		return fn(ctx, argAs[A](args, 0), argAs[B](args, 1))
	}
}

// Handler3 adapts a typed three-parameter handler to a CallFunc.
func Handler3[A, B, C, R any](fn func(ctx context.Context, a A, b B, c C) (R, error)) CallFunc {
	return func(ctx context.Context, args []any) (any, error) {
		if err := checkArity(args, 3); err != nil {
			return nil, err
		}
		return fn(ctx, argAs[A](args, 0), argAs[B](args, 1), argAs[C](args, 2))
	}
}
