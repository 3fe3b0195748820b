// Package cli implements the graylogic-proxy command line.
//
// Commands:
//
//	serve       run the proxy: sync engine, HTTP API and optional integrations
//	probe       fetch and decode one controller endpoint
//	scene set   recall a scene on a controller
//	token       mint an operator JWT for the management API
//	version     print build information
//
// serve is the composition root. It is the only place registries, the
// controller client and the optional MQTT, InfluxDB and SQLite integrations
// are constructed; everything else receives them as dependencies.
package cli
