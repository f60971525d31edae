package chiadapter

import (
	"testing"

	"github.com/iaconlabs/warpcore/adapter"
	"github.com/iaconlabs/warpcore/router"
)

func BenchmarkChi(b *testing.B) {
	adapter.RunSuiteBenchmarks(b, func() router.Registry {
		return New()
	})
}
