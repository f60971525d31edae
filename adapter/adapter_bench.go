package adapter

import (
	"context"
	"fmt"
	"testing"

	"github.com/iaconlabs/warpcore/router"
)

// RunSuiteBenchmarks measures lookup cost of a router.Registry implementation.
func RunSuiteBenchmarks(b *testing.B, factory func() router.Registry) {
	b.Run("Static/Simple", func(b *testing.B) {
		runLookupBenchmark(b, factory(), []string{"health"}, ContractAction("GET", "health"))
	})

	b.Run("Param/Single", func(b *testing.B) {
		runLookupBenchmark(b, factory(), []string{"user", "12345"}, ContractAction("GET", "user", router.Wildcard))
	})

	// 200 sibling routes: measures how lookups scale with the table size.
	b.Run("Table/Large", func(b *testing.B) {
		r := factory()
		for i := range 200 {
			if err := r.Add(ContractAction("GET", "r", fmt.Sprint(i), router.Wildcard)); err != nil {
				b.Fatal(err)
			}
		}
		runLookupBenchmark(b, r, []string{"r", "199", "x"})
	})
}

func runLookupBenchmark(b *testing.B, r router.Registry, path []string, actions ...router.RouterAction) {
	if err := r.Add(actions...); err != nil {
		b.Fatal(err)
	}
	ctx := context.Background()
	b.ReportAllocs()
	b.ResetTimer()
	for range b.N {
		if _, ok, _ := r.ActionFor(ctx, "GET", path); !ok {
			b.Fatal("route not found")
		}
	}
}
