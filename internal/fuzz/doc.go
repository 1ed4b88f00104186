// Package fuzztests houses Go fuzz harnesses for the front end
// (source -> lexer -> parser). They guard the structural guarantees on
// arbitrary input: no panics, no hangs, exact round-trip and consistent
// spans.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests
