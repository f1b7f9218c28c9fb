package cgen

import "autoc/internal/sema"

// emitTagDef lowers one tag (possibly a specialization under env) to
// its discriminant enum, payload union and constructor set. Unit
// variants get a placeholder byte so the union is never empty.
func (e *emitter) emitTagDef(tag *sema.TagInfo, env map[string]*sema.Type, name string) {
	saved := e.typeEnv
	e.typeEnv = env
	defer func() { e.typeEnv = saved }()

	e.linef("typedef enum {")
	for i, v := range tag.Variants {
		comma := ","
		if i == len(tag.Variants)-1 {
			comma = ""
		}
		e.linef("    %s%s", enumMember(name, v.Name), comma)
	}
	e.linef("} %s_Kind;", name)
	e.linef("")

	e.linef("struct %s {", name)
	e.linef("    %s_Kind kind;", name)
	e.linef("    union {")
	for _, v := range tag.Variants {
		if v.Unit {
			e.linef("        uint8_t %s;", v.Name)
		} else {
			e.linef("        %s%s;", spaced(e.cTypeOf(v.Payload)), v.Name)
		}
	}
	e.linef("    } as;")
	e.linef("};")
	e.linef("")

	for _, v := range tag.Variants {
		if v.Unit {
			e.linef("static inline %s %s_%s(void) {", name, name, v.Name)
			e.linef("    %s v = { .kind = %s };", name, enumMember(name, v.Name))
			e.linef("    return v;")
			e.linef("}")
		} else {
			e.linef("static inline %s %s_%s(%spayload) {", name, name, v.Name, spaced(e.cTypeOf(v.Payload)))
			e.linef("    %s v = { .kind = %s };", name, enumMember(name, v.Name))
			e.linef("    v.as.%s = payload;", v.Name)
			e.linef("    return v;")
			e.linef("}")
		}
		e.linef("")
	}
}
