package covariance_test

import (
	"context"
	"strings"
	"testing"

	"github.com/katalvlaran/covar/covariance"
	"github.com/katalvlaran/covar/source"
)

func benchCompute(b *testing.B, n, d int) {
	in := randomCSV(1, n, d)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := covariance.ComputeReader(strings.NewReader(in)); err != nil {
			b.Fatal(err)
		}
	}
}

func benchComputeParallel(b *testing.B, n, d, workers int) {
	in := randomCSV(1, n, d)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := covariance.ComputeParallel(context.Background(),
			source.Lines(strings.NewReader(in)),
			covariance.WithWorkers(workers),
			covariance.WithBatchSize(512),
		)
		if err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCompute_N10k_D16(b *testing.B)         { benchCompute(b, 10_000, 16) }
func BenchmarkCompute_N2k_D128(b *testing.B)         { benchCompute(b, 2_000, 128) }
func BenchmarkComputeParallel_N10k_D16(b *testing.B) { benchComputeParallel(b, 10_000, 16, 4) }
func BenchmarkComputeParallel_N2k_D128(b *testing.B) { benchComputeParallel(b, 2_000, 128, 4) }
