// Package command executes one-shot controller commands on behalf of the
// proxy's callers.
//
// Today that is scene recall: a caller names a scene controller and a scene
// number, the Service normalises the URL the same way the target registry
// does, issues a single PUT through the lighting client and records an
// audit entry. The HTTP API, the MQTT command topic and the CLI all go
// through the same Service so their behaviour cannot drift.
//
// Scene recall deliberately does not touch the scene registry. The sync
// engine picks up the new active scene on its next pass.
package command
