package typechecker

import "sort"

// Environment is the flat, global binding space of one checking run.
// Variables keep the type of their first assignment; functions are written
// once.
type Environment struct {
	variables map[string]Type
	functions map[string]FunctionSignature
}

// NewEnvironment returns an empty environment.
func NewEnvironment() *Environment {
	return &Environment{
		variables: make(map[string]Type),
		functions: make(map[string]FunctionSignature),
	}
}

func (e *Environment) LookupVariable(name string) (Type, bool) {
	typ, ok := e.variables[name]
	return typ, ok
}

// BindVariable records the type of a variable on first assignment. It
// reports false if the name is already bound.
func (e *Environment) BindVariable(name string, typ Type) bool {
	if _, exists := e.variables[name]; exists {
		return false
	}
	e.variables[name] = typ
	return true
}

func (e *Environment) LookupFunction(name string) (FunctionSignature, bool) {
	sig, ok := e.functions[name]
	if !ok {
		return FunctionSignature{}, false
	}
	return sig.clone(), true
}

// RegisterFunction inserts a signature. It reports false when the name has
// already been registered, leaving the existing entry untouched.
func (e *Environment) RegisterFunction(name string, sig FunctionSignature) bool {
	if _, exists := e.functions[name]; exists {
		return false
	}
	e.functions[name] = sig.clone()
	return true
}

// VariableBinding is one entry of a Variables snapshot.
type VariableBinding struct {
	Name string
	Type Type
}

// FunctionBinding is one entry of a Functions snapshot.
type FunctionBinding struct {
	Name      string
	Signature FunctionSignature
}

// Variables returns the bound variables sorted by name.
func (e *Environment) Variables() []VariableBinding {
	out := make([]VariableBinding, 0, len(e.variables))
	for name, typ := range e.variables {
		out = append(out, VariableBinding{Name: name, Type: typ})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Functions returns the registered functions sorted by name.
func (e *Environment) Functions() []FunctionBinding {
	out := make([]FunctionBinding, 0, len(e.functions))
	for name, sig := range e.functions {
		out = append(out, FunctionBinding{Name: name, Signature: sig.clone()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
