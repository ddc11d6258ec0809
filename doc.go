// Package deencode reverse engineers encoding errors ("mojibake").
//
// It explores what happens to a string that is encoded with one character
// set and decoded with another, again and again: from the input every engine
// may produce an encoding, every engine then decodes each encoding, and so
// on. The result is a tree that alternates encodings and decodings and
// always ends on a decoding.
//
// # Architecture Overview
//
//	deencode/        Tree model, builder, deduplicator, Deencode entry point
//	├── engine/      Engine interface, built-in engines, registry, wasm plugins
//	├── render/      Box-drawing, JSON and CBOR output
//	├── config/      Layered configuration (file, .env, environment)
//	├── errors/      Structured error types
//	└── cmd/         deencode command line tool
//
// # Quick Start
//
//	engines := engine.Default()
//
//	tree, err := deencode.Deencode("Clément", engines, 1)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	strs, _ := tree.Deduplicate()
//	fmt.Println(strs) // [Clément ClÃ©ment ...]
//
//	fmt.Println(render.Text(tree, render.Style{}))
//
// # Size
//
// The builder does not share work between identical sub-paths. With n
// engines and encoding depth d the tree may hold n + n^2 + ... + n^(2d)
// nodes, so keep both small; Deencode rejects sizes above DefaultMaxNodes
// unless WithMaxNodes says otherwise. Deduplicate then removes repeated
// outputs, keeping the first in engine order.
//
// # Thread Safety
//
// Engines are stateless and may be shared. A Tree is owned by its caller:
// Deduplicate mutates it in place and must not race with readers.
package deencode
