// Package pkg provides the core libraries for regmap register map compilation.
//
// # Overview
//
// Regmap turns XML descriptions of hardware components and memory maps into
// fully placed register maps: every field gets a bit range, every register a
// word address, every peripheral a base address. The pkg directory is
// organized into five areas:
//
//  1. [space] - The interval allocator that assigns locations
//  2. [document] - Lossless XML parsing with source positions
//  3. [model] - Element kinds, attribute schemas, and elaboration
//  4. [compile] - Whole-directory compilation driver
//  5. [render] - Tree, list, and JSON output
//
// # Architecture
//
// The typical data flow through regmap:
//
//	XML sources
//	     |
//	 document.Parse          tag tree with line numbers
//	     |
//	 model.Elaborate*        placed element tree
//	     |
//	 compile.Compile         components bound into memory maps
//	     |
//	 render.Write*           listings and JSON
//
// Errors from every stage carry a structured code and a source location;
// see [rmerr]. Build metadata lives in [buildinfo].
//
// [space]: github.com/hdlutil/regmap/pkg/space
// [document]: github.com/hdlutil/regmap/pkg/document
// [model]: github.com/hdlutil/regmap/pkg/model
// [compile]: github.com/hdlutil/regmap/pkg/compile
// [render]: github.com/hdlutil/regmap/pkg/render
// [rmerr]: github.com/hdlutil/regmap/pkg/rmerr
// [buildinfo]: github.com/hdlutil/regmap/pkg/buildinfo
package pkg
