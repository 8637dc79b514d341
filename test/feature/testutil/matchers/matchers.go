package matchers

import (
	"encoding/json"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
)

var registry = map[string]Matcher{}

// Matcher compares command output with an expectation from a feature file.
// It returns nil on match and a mismatch description otherwise.
type Matcher func(actual string, expected string) error

type MatcherError struct {
	actual   string
	expected string
}

func (me MatcherError) Error() string {
	if strings.Contains(me.actual, "\n") || strings.Contains(me.expected, "\n") {
		return fmt.Sprintf("output does not match\nExpected:\n%s\nBut was:\n%s\n", me.expected, me.actual)
	}
	return fmt.Sprintf("output '%s' does not match '%s'", me.actual, me.expected)
}

// JSONMatcherError points at the first path where documents diverge.
type JSONMatcherError struct {
	MatcherError
	path []string
}

func (jme JSONMatcherError) Error() string {
	return fmt.Sprintf("json mismatch at '%s'\nExpected:\n%s\nBut was:\n%s\n", strings.Join(jme.path, "."), jme.expected, jme.actual)
}

// RegexpMatcher succeeds when expected matches anywhere in actual.
func RegexpMatcher(actual string, expected string) error {
	re, err := regexp.Compile(expected)
	if err != nil {
		return fmt.Errorf("bad pattern %q: %w", expected, err)
	}
	if !re.MatchString(actual) {
		return &MatcherError{actual, expected}
	}
	return nil
}

// LinesMatcher succeeds when every non-empty expected line occurs in actual
// in the same relative order.
func LinesMatcher(actual string, expected string) error {
	rest := actual
	for _, line := range strings.Split(expected, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		idx := strings.Index(rest, line)
		if idx < 0 {
			return &MatcherError{actual, expected}
		}
		rest = rest[idx+len(line):]
	}
	return nil
}

// subset reports the path of the first element of e missing from a. Arrays
// match when the expected items appear in actual in order, gaps allowed.
func subset(a, e any, path []string) []string {
	switch ev := e.(type) {
	case nil:
		if a != nil {
			return path
		}
	case map[string]any:
		av, ok := a.(map[string]any)
		if !ok {
			return path
		}
		for k, v := range ev {
			got, ok := av[k]
			if !ok {
				return append(path, k)
			}
			if miss := subset(got, v, append(path, k)); miss != nil {
				return miss
			}
		}
	case []any:
		av, ok := a.([]any)
		if !ok {
			return path
		}
		j := 0
		for i, v := range ev {
			for j < len(av) && subset(av[j], v, nil) != nil {
				j++
			}
			if j == len(av) {
				return append(path, strconv.Itoa(i))
			}
			j++
		}
	default:
		if !reflect.DeepEqual(a, e) {
			return path
		}
	}
	return nil
}

func decodePair(actual, expected string) (any, any, error) {
	var a, e any
	if err := json.Unmarshal([]byte(actual), &a); err != nil {
		return nil, nil, fmt.Errorf("output is not valid json: %w", err)
	}
	if err := json.Unmarshal([]byte(expected), &e); err != nil {
		return nil, nil, fmt.Errorf("expectation is not valid json: %w", err)
	}
	return a, e, nil
}

// JSONMatcher succeeds when actual contains every field and array item of
// expected.
func JSONMatcher(actual string, expected string) error {
	a, e, err := decodePair(actual, expected)
	if err != nil {
		return err
	}
	if miss := subset(a, e, []string{""}); miss != nil {
		return &JSONMatcherError{MatcherError{actual, expected}, miss}
	}
	return nil
}

// JSONExactlyMatcher ignores formatting and key order only.
func JSONExactlyMatcher(actual string, expected string) error {
	a, e, err := decodePair(actual, expected)
	if err != nil {
		return err
	}
	if !reflect.DeepEqual(a, e) {
		return &MatcherError{actual, expected}
	}
	return nil
}

func GetMatcher(name string) (Matcher, error) {
	if matcher, ok := registry[name]; ok {
		return matcher, nil
	}
	return nil, fmt.Errorf("no such matcher: %s", name)
}

func RegisterMatcher(name string, matcher Matcher) {
	if _, ok := registry[name]; ok {
		panic(fmt.Sprintf("matcher %s already exists", name))
	}
	registry[name] = matcher
}

func init() {
	RegisterMatcher("regexp", RegexpMatcher)
	RegisterMatcher("lines", LinesMatcher)
	RegisterMatcher("json", JSONMatcher)
	RegisterMatcher("json_exactly", JSONExactlyMatcher)
}
