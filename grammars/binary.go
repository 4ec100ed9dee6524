package grammars

import (
	"github.com/dhamidi/combo"
	"github.com/dhamidi/combo/binary"
)

// TZifFields are the labels of the counts in a TZif header, in file order.
var TZifFields = []string{"isutcnt", "isstdcnt", "leapcnt", "timecnt", "typecnt", "charcnt"}

// TZifHeader parses the 44-byte header of an RFC 8536 time zone file. The
// magic, version and reserved bytes are checked or skipped; the result is
// the six counts as uint64 values, labeled with TZifFields.
func TZifHeader() combo.Parser {
	parsers := []combo.Parser{
		commit(combo.Ignore(binary.Literal([]byte("TZif"))), "TZif magic"),
		// NUL for version 1, otherwise an ASCII digit
		combo.Ignore(combo.OneOf(binary.Bits(8), uint64(0), uint64('2'), uint64('3'), uint64('4'))),
		combo.Ignore(binary.Bytes(15)),
	}
	for _, name := range TZifFields {
		parsers = append(parsers, combo.Label(binary.Uint(32, binary.BigEndian), name))
	}
	return combo.Chain(parsers...)
}
