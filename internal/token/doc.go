// Package token defines the lexical vocabulary of the Auto language:
// token kinds, the token structure, and the keyword table.
package token
