package bsonskema

// IssueAt creates an Issue at the given path with provided code and hint.
// This is a convenience helper to improve readability at call sites with many parameters.
func IssueAt(p Path, code, hint string, cause error) Issue {
	return p.Issue(code, hint, cause)
}

// Prefix rewrites err so that every issue path is nested under seg. Errors that
// are not Issues are wrapped into a single issue with the given fallback code.
func Prefix(err error, seg string, fallbackCode string) error {
	if err == nil {
		return nil
	}
	iss, ok := AsIssues(err)
	if !ok {
		out := NewIssue(fallbackCode, err.Error(), err)
		out[0].Path = seg
		return out
	}
	out := make(Issues, len(iss))
	for i, it := range iss {
		it.Path = JoinPath(seg, it.Path)
		out[i] = it
	}
	return out
}
