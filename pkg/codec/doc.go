// Package codec packs and decodes the scalar values that make up a
// filterbank header.
//
// # Wire Format
//
// Every scalar is written in one of two layouts:
//
//	Text:    [Length(4)][UTF-8 bytes]
//	Number:  [fixed width bytes]
//
// The length prefix is an unsigned 32-bit integer in the same byte order as
// the rest of the stream. Numbers take the width of their Format: integers
// 1, 2, 4 or 8 bytes (signed or unsigned), floats 4 or 8 bytes. A Format
// without an explicit width is semantic and resolves to 8 bytes.
//
// Scalars follow the standard struct sizes, where the C long that int64
// formats map to ("i8", "l", and the semantic int) is 4 bytes. Only the long
// long codes "q" and "Q" pack an integer in 8 bytes. This is the sigproc
// filterbank header layout:
//
//	telescope_id = 1  ->  [12]["telescope_id"][01 00 00 00]
//	tsamp = 6.4e-5    ->  [5]["tsamp"][8 byte double]
//
// Array elements are not scalars and always use the full width.
//
// # Byte Order
//
// A Format carries its own ByteOrder; NativeOrder means the host's order.
// An OrderDirective is applied on top when the format is resolved:
//
//	OrderKeep    leave the format's order alone
//	OrderLittle  force little-endian
//	OrderBig     force big-endian
//	OrderSwap    flip whatever the format currently has
//
// Callers that only know "swap or not" use SwapDirective.
//
// # Values
//
// Value is a tagged variant (Null, Integer, Float, Text). Packing never
// inspects Go types at runtime: the Value's Kind and the requested Format
// fully determine the encoding. When no Format is given the Value's own kind
// picks one (FormatOf).
//
// # Errors
//
// Decode returns ErrShortRead when the stream ends before a value is
// complete, and ErrInvalidText when a length-prefixed text is not UTF-8 or
// its length exceeds MaxTextLen. Header decoding relies on the latter to
// detect a stream written in the other byte order.
package codec
