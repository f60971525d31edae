package muxadapter_test

import (
	"testing"

	"github.com/iaconlabs/warpcore/adapter"
	"github.com/iaconlabs/warpcore/adapter/muxadapter"
	"github.com/iaconlabs/warpcore/router"
)

func BenchmarkMux(b *testing.B) {
	adapter.RunSuiteBenchmarks(b, func() router.Registry {
		return muxadapter.New()
	})
}
