// Package bsonskema provides:
//
// - Bidirectional schemas between the dynamic document model (package value) and
//   typed Go values (Decode/Encode/CanDecode)
// - A deterministic decode protocol: ordered branches, first commit wins
// - A stable error model via Issues (path, code, message) and ConfigError for
//   builder mistakes
// - Options: schema-attached side data (required-ness, index hints, validation)
//   collected by a traversal that survives cyclic schema graphs
//
// Design policy:
// - Keep the public contracts in the root package; put schema implementations
//   and their builders under dsl/.
// - Place the value model under value/, JSON/YAML bridges under source/, codec
//   helpers under codec/ and the CLI under cmd/bsonskema.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	s := dsl.Object[User]().Constructor(...).Add(...).MustBuild()
//	u, err := s.Decode(doc)
//	out, err := s.Encode(u)
//	idx := bsonskema.StaticValues(s, bsonskema.Index)
package bsonskema
