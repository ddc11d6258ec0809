// Package render presents deencoding trees.
//
// Text draws a tree with box drawings through lipgloss. JSON and CBOR
// serialize the same Document, and Export dispatches on a Format with
// optional zstd compression:
//
//	tree, _ := deencode.Deencode("Clément", engine.Default(), 1)
//	strs, bytes := tree.Deduplicate()
//
//	fmt.Println(render.Text(tree, render.Style{}))
//	_ = render.Export(os.Stdout, tree, render.FormatJSON, render.CompressionNone, render.Style{})
//	_ = render.ExportAlphabet(os.Stdout, strs, bytes, render.FormatText, render.CompressionNone)
package render
