// Package target provides the concurrent registry of monitored lighting
// device endpoints.
//
// A target is one device endpoint, identified by its fully-qualified URL.
// The proxy keeps two independent registries, one per Kind:
//
//   - KindIntensity: ".../lighting" endpoints reporting a fractional intensity
//   - KindScene: ".../scene" endpoints reporting the active scene index
//
// # Lifecycle
//
// Targets are onboarded lazily. The first front-end query for an unknown URL
// registers it and answers with Sentinel; the poller then refreshes its value
// in the background and later queries are served from the cache:
//
//	intensities := target.NewRegistry(target.KindIntensity)
//	v := intensities.RegisterOrRead("https://10.0.0.5/api", token, "Hall")
//	// v == target.Sentinel on the first call, the cached value afterwards
//
// Records are never removed. Only the value changes after creation; the
// token and display name are fixed by the first registration.
//
// # Thread Safety
//
// A Registry is safe for concurrent use. Keys live in a sync.Map and each
// record stores its value in an atomic word, so readers and writers of
// unrelated keys never contend on a shared lock.
package target
