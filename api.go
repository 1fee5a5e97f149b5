package lisp

// RunSource takes a `source` string and a `cfg` configuration, builds
// a fresh one-shot context around it, evaluates every top-level form
// under the supervised protocol, and tears the context down again. It
// is the single-call convenience entry point for host code that has
// no need of a long-lived Context — analogous to the teacher's
// one-shot GrammarFromBytes/GrammarFromFile helpers, generalized here
// from a parse-only operation to the full create/setup/eval/destroy
// lifecycle spec.md §4.1 describes.
func RunSource(source string, cfg *Config) (string, error) {
	ctx, err := NewContext(cfg)
	if err != nil {
		return "", err
	}
	defer ctx.Close()

	if err := ctx.SetupEnvironment(); err != nil {
		return "", err
	}

	result, err := ctx.EvalProgramSupervised(source)
	if err != nil {
		return "", err
	}
	return ctx.Print(result), nil
}
