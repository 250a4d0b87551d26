package typechecker

import (
	"easyhue/compiler-go/pkg/ast"
)

func (c *Checker) checkFunctionDefinition(def *ast.FunctionDefinition) error {
	name := def.Name()
	if name == "" {
		return newError(InvalidNode, def, "function definition without a name")
	}
	if _, exists := c.env.LookupFunction(name); exists {
		return newError(DuplicateDefinition, def.ID, "function '%s' is already defined", name)
	}

	sig, err := c.signatureOf(def)
	if err != nil {
		return err
	}
	// Registering before the body is visited allows recursive calls.
	c.env.RegisterFunction(name, sig)

	c.pushFunction(name, sig)
	defer c.popFunction()

	for i, param := range def.Params {
		if err := c.bindParameter(name, param, sig.Params[i]); err != nil {
			return err
		}
	}
	return c.checkBlock(def.Body, "function '"+name+"'")
}

// bindParameter puts a parameter into the shared variable table. A name that
// is already bound must carry exactly the declared type, otherwise the body
// would see the older binding instead of the signature.
func (c *Checker) bindParameter(fn string, param *ast.Parameter, typ Type) error {
	paramName := param.Name.Name
	existing, bound := c.env.LookupVariable(paramName)
	if !bound {
		c.env.BindVariable(paramName, typ)
		return nil
	}
	if !typesEqual(existing, typ) {
		return newError(TypeMismatch, param, "parameter '%s' of function '%s' is declared %s but variable '%s' is already %s; parameters share the program's variables and must match exactly", paramName, fn, typeName(typ), paramName, typeName(existing))
	}
	return nil
}

func (c *Checker) signatureOf(def *ast.FunctionDefinition) (FunctionSignature, error) {
	name := def.Name()
	sig := FunctionSignature{Params: make([]Type, 0, len(def.Params))}
	seen := make(map[string]struct{}, len(def.Params))
	for idx, param := range def.Params {
		if param == nil || param.Name == nil || param.Name.Name == "" {
			return FunctionSignature{}, newError(InvalidNode, def, "parameter %d of function '%s' has no name", idx+1, name)
		}
		paramName := param.Name.Name
		if _, dup := seen[paramName]; dup {
			return FunctionSignature{}, newError(DuplicateDefinition, param, "parameter '%s' of function '%s' is declared twice", paramName, name)
		}
		seen[paramName] = struct{}{}
		if param.Annotation == nil {
			return FunctionSignature{}, newError(InvalidNode, param, "parameter '%s' of function '%s' has no type annotation", paramName, name)
		}
		typ, ok := TypeFromAnnotation(param.Annotation)
		if !ok {
			return FunctionSignature{}, newError(InvalidNode, param.Annotation, "unknown type '%s' for parameter '%s'", param.Annotation.Name, paramName)
		}
		sig.Params = append(sig.Params, typ)
	}
	if def.ReturnType != nil {
		typ, ok := TypeFromAnnotation(def.ReturnType)
		if !ok {
			return FunctionSignature{}, newError(InvalidNode, def.ReturnType, "unknown return type '%s' for function '%s'", def.ReturnType.Name, name)
		}
		sig.Return = typ
	}
	return sig, nil
}

func (c *Checker) checkReturnStatement(ret *ast.ReturnStatement) error {
	current, ok := c.currentFunction()
	if !ok {
		return newError(InvalidNode, ret, "return outside of a function")
	}
	var valueType Type
	if !ast.IsNil(ret.Value) {
		typ, err := c.checkExpression(ret.Value)
		if err != nil {
			return err
		}
		if typ == nil {
			return newError(TypeMismatch, ret.Value, "cannot return a call with no return value")
		}
		valueType = typ
	}

	expected := current.signature.Return
	if Assignable(expected, valueType) {
		return nil
	}
	switch {
	case expected == nil:
		return newError(TypeMismatch, ret, "function '%s' has no return type but returns %s", current.name, typeName(valueType))
	case valueType == nil:
		return newError(TypeMismatch, ret, "function '%s' must return %s", current.name, typeName(expected))
	default:
		return newError(TypeMismatch, ret, "cannot return %s from function '%s' with return type %s", typeName(valueType), current.name, typeName(expected))
	}
}

func (c *Checker) checkFunctionCall(call *ast.FunctionCall) (Type, error) {
	if call.Callee == nil || call.Callee.Name == "" {
		return nil, newError(InvalidNode, call, "function call without a callee name")
	}
	name := call.Callee.Name
	sig, ok := c.env.LookupFunction(name)
	if !ok {
		return nil, newError(UndefinedReference, call.Callee, "function '%s' is not defined", name)
	}

	argTypes := make([]Type, len(call.Arguments))
	for i, arg := range call.Arguments {
		if ast.IsNil(arg) {
			return nil, newError(InvalidNode, call, "argument %d of call to '%s' is missing", i+1, name)
		}
		typ, err := c.checkExpression(arg)
		if err != nil {
			return nil, err
		}
		argTypes[i] = typ
	}
	if len(argTypes) != len(sig.Params) {
		return nil, newError(TypeMismatch, call, "function '%s' expects %d argument(s), got %d", name, len(sig.Params), len(argTypes))
	}
	for i, param := range sig.Params {
		if !Assignable(param, argTypes[i]) {
			return nil, newError(TypeMismatch, call.Arguments[i], "argument %d of '%s': cannot use %s as %s", i+1, name, typeName(argTypes[i]), typeName(param))
		}
	}
	return sig.Return, nil
}
