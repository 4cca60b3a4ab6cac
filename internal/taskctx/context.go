// Package taskctx describes the set of files a task is asked to look at and
// the reason it is being run.
package taskctx

// Kind discriminates why a task is being run.
type Kind int

const (
	// KindRun is an explicit run over the tracked files of a project.
	KindRun Kind = iota
	// KindPreCommit runs over the files staged for the next commit.
	KindPreCommit
	// KindCommitMsg runs while a commit message is being validated.
	KindCommitMsg
)

func (k Kind) String() string {
	switch k {
	case KindRun:
		return "run"
	case KindPreCommit:
		return "pre-commit"
	case KindCommitMsg:
		return "commit-msg"
	default:
		return "unknown"
	}
}

// Context is an immutable run context.
type Context struct {
	kind  Kind
	files Files
}

// NewRunContext builds an explicit-run context.
func NewRunContext(files Files) Context {
	return Context{kind: KindRun, files: files}
}

// NewPreCommitContext builds a context for the files staged for commit.
func NewPreCommitContext(files Files) Context {
	return Context{kind: KindPreCommit, files: files}
}

// NewCommitMsgContext builds a commit-msg hook context. Tasks that only look
// at files reject it.
func NewCommitMsgContext(files Files) Context {
	return Context{kind: KindCommitMsg, files: files}
}

func (c Context) Kind() Kind { return c.kind }

// Files returns the context's files. Filtering returns new collections, so
// callers cannot change what other tasks see.
func (c Context) Files() Files { return c.files }
