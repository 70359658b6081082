package domain

import (
	"fmt"
	"regexp"
	"sort"

	apperrors "github.com/allisson/orchestrator/internal/errors"
	"github.com/allisson/orchestrator/internal/workflow"
)

var processKeyRegex = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_.\-]*$`)

// Subject is one entity a process instance is started for.
type Subject struct {
	ID   string
	Data map[string]any
}

// EligibilityFunc decides whether a subject may start the process. The reason is recorded
// on SKIPPED entries.
type EligibilityFunc func(subject Subject) (eligible bool, reason string)

// VariablesFunc builds the engine variables of a subject.
type VariablesFunc func(subject Subject) workflow.Variables

// BusinessKeyFunc derives the engine business key of a subject.
type BusinessKeyFunc func(subject Subject) string

// Descriptor describes how to start one workflow process. Nil functions fall back to the
// defaults: every subject is eligible, each data field becomes a variable and the business
// key is the process key.
type Descriptor struct {
	Key         string
	Eligible    EligibilityFunc
	Variables   VariablesFunc
	BusinessKey BusinessKeyFunc
}

// AlwaysEligible accepts every subject.
func AlwaysEligible(Subject) (bool, string) {
	return true, ""
}

// DataVariables wraps each data field of the subject as an untyped variable.
func DataVariables(subject Subject) workflow.Variables {
	variables := make(workflow.Variables, len(subject.Data))
	for name, value := range subject.Data {
		variables[name] = workflow.Variable{Value: value}
	}
	return variables
}

func (d Descriptor) withDefaults() Descriptor {
	if d.Eligible == nil {
		d.Eligible = AlwaysEligible
	}
	if d.Variables == nil {
		d.Variables = DataVariables
	}
	if d.BusinessKey == nil {
		key := d.Key
		d.BusinessKey = func(Subject) string { return key }
	}
	return d
}

// Registry maps process keys to descriptors. It is immutable after construction.
type Registry struct {
	descriptors map[string]Descriptor
}

// NewRegistry validates the descriptors and builds a registry.
func NewRegistry(descriptors ...Descriptor) (*Registry, error) {
	registry := &Registry{descriptors: make(map[string]Descriptor, len(descriptors))}
	for _, descriptor := range descriptors {
		if !processKeyRegex.MatchString(descriptor.Key) {
			return nil, apperrors.Wrap(ErrInvalidDescriptor, fmt.Sprintf("process key %q", descriptor.Key))
		}
		if _, exists := registry.descriptors[descriptor.Key]; exists {
			return nil, apperrors.Wrap(ErrDuplicateProcessKey, descriptor.Key)
		}
		registry.descriptors[descriptor.Key] = descriptor.withDefaults()
	}
	return registry, nil
}

// NewRegistryFromKeys registers a default descriptor for each key.
func NewRegistryFromKeys(keys []string) (*Registry, error) {
	descriptors := make([]Descriptor, 0, len(keys))
	for _, key := range keys {
		descriptors = append(descriptors, Descriptor{Key: key})
	}
	return NewRegistry(descriptors...)
}

// Lookup returns the descriptor of key, or ErrUnknownProcess.
func (r *Registry) Lookup(key string) (Descriptor, error) {
	descriptor, ok := r.descriptors[key]
	if !ok {
		return Descriptor{}, ErrUnknownProcess
	}
	return descriptor, nil
}

// Keys returns the registered process keys in sorted order.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.descriptors))
	for key := range r.descriptors {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
