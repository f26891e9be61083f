// Package repair detects and rewrites broken markup inside test case text.
//
// Each family (markdown references, attachment links, HTML tags) has a
// matcher that rewrites a single string. A Repairer wraps a matcher and
// reports a three-way Result so callers can tell an absent leaf from an
// unchanged one and from a changed one.
package repair

import (
	"fmt"
	"sort"

	"qcr/internal/domain"
)

// Outcome classifies the result of repairing one leaf
type Outcome int

const (
	// Absent means the leaf was missing or empty; nothing was examined
	Absent Outcome = iota
	// Unchanged means no pattern matched
	Unchanged
	// Changed means Result.Value holds the repaired text
	Changed
)

func (o Outcome) String() string {
	switch o {
	case Absent:
		return "absent"
	case Unchanged:
		return "unchanged"
	case Changed:
		return "changed"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// Result is the repair result for one leaf. Value is only set when Outcome
// is Changed.
type Result struct {
	Outcome Outcome
	Value   string
}

// Changed reports whether the leaf was rewritten
func (r Result) Changed() bool {
	return r.Outcome == Changed
}

// Repairer repairs one family of broken markup
type Repairer interface {
	Name() string
	Repair(t domain.Text) Result
}

// Rewriter rewrites a non-empty string and reports whether any pattern matched
type Rewriter interface {
	Rewrite(s string) (string, bool)
}

// Strategy names
const (
	StrategyReferences  = "references"
	StrategyAttachments = "attachments"
	StrategyHTML        = "html"
)

// Options configures strategy construction
type Options struct {
	// Extension is the file extension whose image-style references are
	// turned into links (references strategy only)
	Extension string
}

type strategy struct {
	name     string
	rewriter Rewriter
}

// NewStrategy wraps a rewriter into a named Repairer
func NewStrategy(name string, rw Rewriter) Repairer {
	return &strategy{name: name, rewriter: rw}
}

func (s *strategy) Name() string {
	return s.name
}

func (s *strategy) Repair(t domain.Text) Result {
	text, ok := t.Get()
	if !ok || text == "" {
		return Result{Outcome: Absent}
	}
	out, matched := s.rewriter.Rewrite(text)
	if !matched || out == text {
		return Result{Outcome: Unchanged}
	}
	return Result{Outcome: Changed, Value: out}
}

// RepairString is a shorthand for repairing a present string
func RepairString(r Repairer, s string) Result {
	return r.Repair(domain.Some(s))
}

var constructors = map[string]func(Options) Repairer{
	StrategyReferences: func(o Options) Repairer {
		return NewStrategy(StrategyReferences, NewReferenceMatcher(o.Extension))
	},
	StrategyAttachments: func(Options) Repairer {
		return NewStrategy(StrategyAttachments, NewAttachmentMatcher())
	},
	StrategyHTML: func(Options) Repairer {
		return NewStrategy(StrategyHTML, NewHTMLMatcher())
	},
}

// New builds the named strategy
func New(name string, opts Options) (Repairer, error) {
	ctor, ok := constructors[name]
	if !ok {
		return nil, fmt.Errorf("unknown repair strategy %q (known: %v)", name, Names())
	}
	return ctor(opts), nil
}

// Names lists the registered strategy names
func Names() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
