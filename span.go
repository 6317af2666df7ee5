package cellang

import "sort"

// Span is a half-open source range, reported in 1-based line/column pairs
// for diagnostics. It plays the role fex_span.c's pointer-keyed hash table
// plays in the original C source -- recording where in the input text a
// compiled form came from -- but is implemented as ordinary byte offsets
// resolved against a line index, the way the teacher's pos.go/LineIndex
// does it, rather than as a hash table keyed by cons-cell address.
type Span struct {
	Start, End int
	StartLine, StartCol int
	EndLine, EndCol int
}

// LineIndex resolves a byte offset to a 1-based line/column pair in
// O(log n) via binary search over cached line-start offsets, adapted
// from the teacher's pos.go LineIndex.
type LineIndex struct {
	input      string
	lineStarts []int
}

func NewLineIndex(input string) *LineIndex {
	starts := []int{0}
	for i := 0; i < len(input); i++ {
		if input[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{input: input, lineStarts: starts}
}

// LocationAt returns the 1-based (line, column) of byte offset pos.
func (li *LineIndex) LocationAt(pos int) (line, col int) {
	line = sort.Search(len(li.lineStarts), func(i int) bool {
		return li.lineStarts[i] > pos
	})
	lineStart := li.lineStarts[line-1]
	return line, pos - lineStart + 1
}

// Span resolves a [start,end) byte range to a full Span.
func (li *LineIndex) Span(start, end int) Span {
	sl, sc := li.LocationAt(start)
	el, ec := li.LocationAt(end)
	return Span{Start: start, End: end, StartLine: sl, StartCol: sc, EndLine: el, EndCol: ec}
}

// SpanTable is the enable/disable switch and per-node bookkeeping the
// surface compiler consults when Config.EnableSpans is set, mirroring
// fex_span_set_enabled/fex_record_span/fex_lookup_span. It is keyed by
// AST node identity (the Value itself, which for a boxed node is the
// address of its cell) exactly like fex_span.c's pointer-keyed hash
// table, just using a Go map instead of a fixed 8192-bucket
// open-addressing table. Exported so package compiler (C11) can record
// spans for the nodes it builds without reaching into Context internals.
type SpanTable struct {
	Enabled bool
	spans   map[Value]Span
}

func NewSpanTable(enabled bool) *SpanTable {
	return &SpanTable{Enabled: enabled, spans: map[Value]Span{}}
}

func (st *SpanTable) Record(v Value, sp Span) {
	if !st.Enabled {
		return
	}
	st.spans[v] = sp
}

func (st *SpanTable) Lookup(v Value) (Span, bool) {
	if !st.Enabled {
		return Span{}, false
	}
	sp, ok := st.spans[v]
	return sp, ok
}
