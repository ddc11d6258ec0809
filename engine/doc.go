// Package engine provides the encode/decode transforms explored by deencode.
//
// An Engine is a named, stateless pair of functions between text and bytes.
// Encode is partial: it reports false when a rune falls outside the engine's
// repertoire. Decode is total: bytes the engine cannot interpret become
// U+FFFD, because observing that garbage is the point of the exploration.
//
// # Built-in Engines
//
//	Constructor   Name                         Backing
//	──────────────────────────────────────────────────────────────────────
//	UTF8          UTF-8                        x/text/encoding/unicode
//	Latin1        Latin-1 / Codepage 1252      x/text/encoding/charmap
//	Latin2        Latin-2 / Codepage 1250      x/text/encoding/charmap
//	CP1253        Codepage 1253                x/text/encoding/charmap
//	CP1254        ISO 8859-9 / Codepage 1254   x/text/encoding/charmap
//	CP1255        ISO 8859-8 / Codepage 1255   x/text/encoding/charmap
//	Mixed816BE    mixed UTF-8/UTF-16BE         hand-rolled (Mixed816)
//	Mixed816LE    mixed UTF-8/UTF-16LE         hand-rolled (Mixed816)
//	UTF7          UTF-7                        go-imap/utf7 (RFC 3501)
//
// Constructors return fresh values; there are no package-level engine
// instances. Default returns the list used by the command line tool.
//
// # Registry
//
// Registry resolves configuration keys ("utf8", "latin1", "mixed816le", ...)
// to engines, keeping the order the caller asks for. The order matters:
// deduplication keeps the output of whichever engine comes first.
//
// # Plugins
//
// WazeroEngine runs an engine compiled to a core WebAssembly module under
// wazero. See WazeroEngine for the ABI.
package engine
