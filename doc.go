// Package unionize builds tagged unions ("sum types") from a flat schema.
//
// A schema maps tags to payload types. Build turns it into a Bundle holding,
// per tag, a constructor and a predicate, plus the operators that dispatch on
// the tag: Match, the casters (Bundle.As / Member.As), Transform and Update.
//
//   - Variants are immutable field maps carrying the discriminant.
//   - Merged mode (default) flattens payload fields next to the discriminant;
//     WithValue selects nested mode, where the payload sits under one field.
//   - Dispatch is one map lookup by tag.
//   - Errors are Issues (JSON Pointer, code, message) except cast mismatches,
//     which are *CastError.
//
// Design policy:
//   - Keep only public APIs in the root package; put helpers under internal/.
//   - Schema files live in schemafile/, the CLI in cmd/unionize.
//   - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	var (
//	    X   = unionize.Of[int]("x")
//	    Y   = unionize.Of[string]("y")
//	    Foo = unionize.MustBuild(unionize.Record(X, Y), unionize.WithTag("flim"), unionize.WithValue("flam"))
//	    x   = X.MustBind(Foo)
//	)
//
//	v := x.New(3) // {"flim":"x","flam":3}
//	n, err := unionize.MatchOn(Foo, v,
//	    unionize.On(X, func(n int) int { return n + 9 }),
//	    unionize.On(Y, func(s string) int { return len(s) }),
//	)
//
// Exhaustiveness: Match rejects case sets that leave a tag without a case
// unless a Default is given, so an unhandled tag is reported when the matcher
// is built, not when a variant happens to reach it.
package unionize
