package target

import (
	"fmt"
	"testing"
)

// setupBenchRegistry creates a registry pre-populated with n targets.
func setupBenchRegistry(b *testing.B, n int) *Registry {
	b.Helper()
	reg := NewRegistry(KindIntensity)
	for i := 0; i < n; i++ {
		reg.Register(fmt.Sprintf("https://10.0.%d.%d/lighting", i/256, i%256), "tok", fmt.Sprintf("Light %d", i))
	}
	return reg
}

func BenchmarkRegistryRegisterOrRead_Hit(b *testing.B) {
	reg := setupBenchRegistry(b, 100)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		reg.RegisterOrRead("https://10.0.0.50/lighting", "tok", "")
	}
}

func BenchmarkRegistryRegisterOrRead_Parallel(b *testing.B) {
	reg := setupBenchRegistry(b, 100)

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			reg.RegisterOrRead("https://10.0.0.50/lighting", "tok", "")
		}
	})
}

func BenchmarkRegistryUpdate_Parallel(b *testing.B) {
	reg := setupBenchRegistry(b, 100)

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		v := 0.0
		for pb.Next() {
			reg.Update("https://10.0.0.50/lighting", v)
			v++
		}
	})
}

func BenchmarkRegistrySnapshot(b *testing.B) {
	reg := setupBenchRegistry(b, 100)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = reg.Snapshot()
	}
}
