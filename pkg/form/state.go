package form

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// State holds the values of one form mount keyed by dotted paths, together
// with per-field error messages and form-level messages. All accessors return
// copies.
type State struct {
	mu         sync.RWMutex
	values     map[string]any
	errors     map[string][]string
	formErrors []string
}

// NewState seeds the state with prefilled values.
func NewState(prefill map[string]any) *State {
	return &State{
		values: cloneValues(prefill),
		errors: make(map[string][]string),
	}
}

// Values returns a deep copy of the current values.
func (s *State) Values() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneValues(s.values)
}

// Value resolves a dotted path.
func (s *State) Value(path string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := getPath(s.values, path)
	if !ok {
		return nil, false
	}
	return deepCopy(value), true
}

// Set writes a value using a dotted path, creating intermediate maps/slices
// as needed.
func (s *State) Set(path string, value any) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("form: empty path")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.values == nil {
		s.values = make(map[string]any)
	}
	return setPath(s.values, path, deepCopy(value))
}

// Len reports the number of entries of the repeatable group at path.
func (s *State) Len(path string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := getPath(s.values, path)
	if !ok {
		return 0
	}
	items, _ := value.([]any)
	return len(items)
}

// Append adds item to the repeatable group at path and returns its index.
func (s *State) Append(path string, item any) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.groupLocked(path)
	if err != nil {
		return -1, err
	}
	items = append(items, deepCopy(item))
	if err := setPath(s.values, path, items); err != nil {
		return -1, err
	}
	return len(items) - 1, nil
}

// Remove deletes the entry at index from the repeatable group at path. Errors
// attached to entries of the group are dropped since their indices shift.
func (s *State) Remove(path string, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.groupLocked(path)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(items) {
		return fmt.Errorf("%w: %s[%d]", ErrIndexOutOfRange, path, index)
	}
	next := make([]any, 0, len(items)-1)
	next = append(next, items[:index]...)
	next = append(next, items[index+1:]...)
	if err := setPath(s.values, path, next); err != nil {
		return err
	}

	prefix := path + "."
	for key := range s.errors {
		if strings.HasPrefix(key, prefix) {
			delete(s.errors, key)
		}
	}
	return nil
}

func (s *State) groupLocked(path string) ([]any, error) {
	if s.values == nil {
		s.values = make(map[string]any)
	}
	value, ok := getPath(s.values, path)
	if !ok || value == nil {
		return []any{}, nil
	}
	items, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotRepeatable, path)
	}
	return items, nil
}

// Errors returns a copy of the per-field errors.
func (s *State) Errors() map[string][]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneErrors(s.errors)
}

// ErrorsFor returns the messages attached to path.
func (s *State) ErrorsFor(path string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.errors[path]...)
}

// SetErrors replaces the messages of path. Empty messages clear it.
func (s *State) SetErrors(path string, messages ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setErrorsLocked(path, messages)
}

func (s *State) setErrorsLocked(path string, messages []string) {
	if s.errors == nil {
		s.errors = make(map[string][]string)
	}
	normalized := normalizeMessages(messages)
	if len(normalized) == 0 {
		delete(s.errors, path)
		return
	}
	s.errors[path] = normalized
}

// ClearErrors drops the errors of the given paths, or every error (form-level
// included) when called without arguments.
func (s *State) ClearErrors(paths ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(paths) == 0 {
		s.errors = make(map[string][]string)
		s.formErrors = nil
		return
	}
	for _, path := range paths {
		delete(s.errors, path)
	}
}

// FormErrors returns messages not attached to any field.
func (s *State) FormErrors() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.formErrors...)
}

// AddFormErrors appends form-level messages, dropping duplicates.
func (s *State) AddFormErrors(messages ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.formErrors = MergeFormErrors(s.formErrors, messages...)
}

// Apply merges a mapped error payload. Fields present in the mapping have
// their messages replaced; every other field is left untouched.
func (s *State) Apply(mapping ErrorMapping) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for path, messages := range mapping.Fields {
		s.setErrorsLocked(path, messages)
	}
	if len(mapping.Form) > 0 {
		s.formErrors = MergeFormErrors(s.formErrors, mapping.Form...)
	}
}

func cloneValues(src map[string]any) map[string]any {
	out := make(map[string]any, len(src))
	for k, v := range src {
		out[k] = deepCopy(v)
	}
	return out
}

func cloneErrors(src map[string][]string) map[string][]string {
	out := make(map[string][]string, len(src))
	for k, v := range src {
		out[k] = append([]string(nil), v...)
	}
	return out
}

func deepCopy(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		clone := make(map[string]any, len(typed))
		for k, v := range typed {
			clone[k] = deepCopy(v)
		}
		return clone
	case []any:
		clone := make([]any, len(typed))
		for i, v := range typed {
			clone[i] = deepCopy(v)
		}
		return clone
	case []map[string]any:
		clone := make([]any, len(typed))
		for i, v := range typed {
			clone[i] = deepCopy(v)
		}
		return clone
	case []string:
		clone := make([]any, len(typed))
		for i, v := range typed {
			clone[i] = v
		}
		return clone
	default:
		return typed
	}
}

func getPath(root map[string]any, path string) (any, bool) {
	if root == nil || path == "" {
		return nil, false
	}
	current := any(root)
	segments := strings.Split(path, ".")
	for _, segment := range segments {
		switch node := current.(type) {
		case map[string]any:
			next, ok := node[segment]
			if !ok {
				return nil, false
			}
			current = next
		case []any:
			idx, err := strconv.Atoi(segment)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, false
			}
			current = node[idx]
		default:
			return nil, false
		}
	}
	return current, true
}

func setPath(root map[string]any, path string, value any) error {
	segments := strings.Split(path, ".")
	return setSegments(root, segments, value, path)
}

// setSegments walks maps and slices, growing slices when an index points past
// their end. Slices are written back into their parent since append may
// reallocate.
func setSegments(node map[string]any, segments []string, value any, path string) error {
	key := segments[0]
	if len(segments) == 1 {
		node[key] = value
		return nil
	}

	next := segments[1]
	if idx, err := strconv.Atoi(next); err == nil {
		if idx < 0 {
			return fmt.Errorf("form: negative index in path %q", path)
		}
		items, _ := node[key].([]any)
		if len(items) <= idx {
			items = append(items, make([]any, idx+1-len(items))...)
		}
		if len(segments) == 2 {
			items[idx] = value
			node[key] = items
			return nil
		}
		child, ok := items[idx].(map[string]any)
		if !ok || child == nil {
			child = make(map[string]any)
			items[idx] = child
		}
		node[key] = items
		return setSegments(child, segments[2:], value, path)
	}

	child, ok := node[key].(map[string]any)
	if !ok || child == nil {
		child = make(map[string]any)
		node[key] = child
	}
	return setSegments(child, segments[1:], value, path)
}
