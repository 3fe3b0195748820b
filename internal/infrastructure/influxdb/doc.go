// Package influxdb records polled target values in InfluxDB.
//
// It wraps the official influxdb-client-go v2 library. Every successful
// poll becomes one point in the "target_value" measurement, giving a value
// history per controller that the in-memory registry does not keep.
//
// # Usage
//
//	client, err := influxdb.Connect(ctx, cfg.InfluxDB)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	client.WriteTargetValue(influxdb.TargetSample{
//	    Kind: "scene", ID: id, Name: "Lobby", Value: 3, Changed: true, At: time.Now(),
//	})
//
// # Thread Safety
//
// All methods are safe for concurrent use. Writes are batched according to
// influxdb.batch_size and influxdb.flush_interval and never block the
// polling loop; asynchronous write errors go to the SetOnError callback.
package influxdb
