// Package sink provides in-process consumers that plug into a reduction
// through transduce.Into.
//
// Each sink implements transduce.Sink and, where it owns its initial
// state, transduce.Opener:
//
//	counts, err := transduce.TransduceStart(
//		transduce.Map[map[string]int](strings.ToLower),
//		transduce.Into[map[string]int, string](sink.Counter[string]{}),
//		slices.Values(words),
//	)
//
// Chan is a bounded queue whose Close makes it reject further items, which
// stops the feeding reduction instead of failing it.
package sink
