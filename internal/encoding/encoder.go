// Package encoding provides the deterministic categorical encoders used to
// turn team, map, and mode names into the integer codes the classifier was
// trained on. Codes are assigned by sorted lexicographic order of the
// vocabulary, so the same vocabulary always reproduces the same codes. That
// determinism is load-bearing: a persisted model's feature indices are
// meaningless under any other assignment.
package encoding

import (
	"fmt"
	"sort"
)

// UnknownCategoryError reports an encode attempt for a name outside the
// fixed vocabulary.
type UnknownCategoryError struct {
	Kind string
	Name string
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("unknown %s category: %q", e.Kind, e.Name)
}

// InvalidCodeError reports a decode attempt for a code outside 0..n-1.
type InvalidCodeError struct {
	Kind string
	Code int
	Size int
}

func (e *InvalidCodeError) Error() string {
	return fmt.Sprintf("invalid %s code %d (vocabulary size %d)", e.Kind, e.Code, e.Size)
}

// LabelEncoder is a closed, immutable bidirectional mapping between names
// and dense integer codes. There is no online vocabulary growth: the set is
// fixed at Fit time and never mutated.
type LabelEncoder struct {
	// Kind names the vocabulary ("team", "map", "mode") for error messages.
	Kind string `json:"kind"`
	// Classes is the sorted vocabulary; a name's code is its index here.
	Classes []string `json:"classes"`

	index map[string]int
}

// Fit builds an encoder over the given vocabulary. Duplicates are collapsed
// and the result is independent of input order.
func Fit(kind string, vocabulary []string) *LabelEncoder {
	seen := make(map[string]struct{}, len(vocabulary))
	classes := make([]string, 0, len(vocabulary))
	for _, name := range vocabulary {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		classes = append(classes, name)
	}
	sort.Strings(classes)

	enc := &LabelEncoder{Kind: kind, Classes: classes}
	enc.buildIndex()
	return enc
}

func (e *LabelEncoder) buildIndex() {
	e.index = make(map[string]int, len(e.Classes))
	for i, name := range e.Classes {
		e.index[name] = i
	}
}

// Encode maps a name to its integer code.
func (e *LabelEncoder) Encode(name string) (int, error) {
	if e.index == nil {
		e.buildIndex()
	}
	code, ok := e.index[name]
	if !ok {
		return 0, &UnknownCategoryError{Kind: e.Kind, Name: name}
	}
	return code, nil
}

// Decode maps a code back to its name.
func (e *LabelEncoder) Decode(code int) (string, error) {
	if code < 0 || code >= len(e.Classes) {
		return "", &InvalidCodeError{Kind: e.Kind, Code: code, Size: len(e.Classes)}
	}
	return e.Classes[code], nil
}

// Contains reports whether the name is part of the vocabulary.
func (e *LabelEncoder) Contains(name string) bool {
	if e.index == nil {
		e.buildIndex()
	}
	_, ok := e.index[name]
	return ok
}

// Size returns the vocabulary size.
func (e *LabelEncoder) Size() int {
	return len(e.Classes)
}
