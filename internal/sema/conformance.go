package sema

import "autoc/internal/diag"

// checkConformances verifies every `as Spec` claim: the type must
// define each signature the spec names, with matching arity and
// parameter/return types. Failures name the offending method.
func (b *binder) checkConformances() {
	for _, ty := range b.mod.Types {
		for _, spec := range ty.Conforms {
			b.checkConformance(ty, spec)
		}
	}
}

func (b *binder) checkConformance(ty *TypeInfo, spec *SpecInfo) bool {
	ok := true
	for _, want := range spec.Methods {
		m, found := ty.Method(want.Name)
		if !found {
			b.errorf(diag.SemaSpecNotSatisfied, ty.Decl.Name.Pos,
				ty.Name+" does not satisfy "+spec.Name+": missing method "+want.Name)
			ok = false
			continue
		}
		if !m.Sig.Matches(want) {
			b.errorf(diag.SemaSpecMethodMismatch, m.Decl.Sig.Name.Pos,
				ty.Name+"."+m.Name+" does not match "+spec.Name+"."+want.Name+
					": have "+renderSig(m.Sig)+", want "+renderSig(want))
			ok = false
		}
	}
	return ok
}

// Satisfies reports structural conformance without emitting
// diagnostics. Delegation uses it to validate the member side.
func Satisfies(ty *TypeInfo, spec *SpecInfo) bool {
	for _, want := range spec.Methods {
		m, found := ty.Method(want.Name)
		if !found || !m.Sig.Matches(want) {
			return false
		}
	}
	return true
}

func renderSig(sig MethodSig) string {
	s := sig.Name + "("
	for i, p := range sig.Params {
		if i > 0 {
			s += ", "
		}
		s += p.String()
	}
	s += ")"
	if !sig.Ret.IsUnit() {
		s += " " + sig.Ret.String()
	}
	return s
}
