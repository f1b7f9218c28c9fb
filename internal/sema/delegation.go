package sema

import "autoc/internal/diag"

// expandDelegations turns every `has member MemberType for Spec`
// clause into one bridge per spec method: a forwarder on the
// composite that calls the member's implementation. Multiple clauses
// produce independent bridge sets; routing is by member identity, so
// no ambiguity is possible.
func (b *binder) expandDelegations() {
	for _, ty := range b.mod.Types {
		for _, del := range ty.Decl.Delegations {
			spec, ok := b.mod.specsByName[del.Spec.Text]
			if !ok {
				b.errorf(diag.SemaNotASpec, del.Spec.Pos, del.Spec.Text+" is not a spec")
				continue
			}
			memberType, ok := b.mod.typesByName[del.Type.Name.Text]
			if !ok {
				b.errorf(diag.SemaBadDelegationTarget, del.Type.Pos,
					"delegation member type "+del.Type.Name.Text+" is not a declared type")
				continue
			}
			if !Satisfies(memberType, spec) {
				b.errorf(diag.SemaBadDelegationTarget, del.Pos,
					memberType.Name+" does not provide the methods of "+spec.Name)
				continue
			}

			// The member behaves like a field of the composite.
			ty.Fields = append(ty.Fields, FieldInfo{
				Name: del.Member.Text,
				Type: &Type{Kind: TypeStruct, Name: memberType.Name},
			})

			for _, m := range spec.Methods {
				b.mod.Bridges = append(b.mod.Bridges, Bridge{
					Composite:  ty,
					Member:     del.Member.Text,
					MemberType: memberType,
					Spec:       spec,
					Method:     m,
				})
			}
		}
	}
}

// bridgeFor finds the delegated method m on composite ty, if any
// `has` clause routes it.
func (b *binder) bridgeFor(ty *TypeInfo, method string) (Bridge, bool) {
	for _, br := range b.mod.Bridges {
		if br.Composite == ty && br.Method.Name == method {
			return br, true
		}
	}
	return Bridge{}, false
}
