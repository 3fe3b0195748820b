// Package audit records and queries the proxy's command audit trail.
//
// Only operator commands are audited (scene recalls from HTTP, MQTT or the
// CLI). Polled target values are never written here.
//
// Writes go through a Recorder, which queues entries on a bounded channel
// and writes them serially so request handlers never wait on SQLite. When
// the queue is full the entry is dropped and a warning logged.
package audit
