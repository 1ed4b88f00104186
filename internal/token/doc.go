// Package token defines lexical token kinds and trivia grouping for PL/SQL scripts.
// Invariants:
//   - Token.Text is the exact source text of the token (no case folding).
//   - Token.Span matches Text exactly (Start..End).
//   - Whitespace, newlines and comments are trivia: after AttachTrivia they are
//     carried by the neighbouring significant token in Leading/Trailing and never
//     appear in the significant stream.
//   - Reserved words can never be identifiers; keywords can.
//   - Built-in type names such as NUMBER or VARCHAR2 are reserved words,
//     PLS_INTEGER and friends are keywords.
package token
