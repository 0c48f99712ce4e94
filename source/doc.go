// Package source reads and writes bsonskema dynamic values as JSON and YAML.
//
// Documents keep their key order. MongoDB Extended JSON wrappers ($oid,
// $numberDecimal, $numberLong, $numberInt, $numberDouble, $undefined) are
// recognized on input and produced on output, so values of every kind survive a
// text round trip. Plain numbers map to Int32, Int64 or Double by shape.
package source
