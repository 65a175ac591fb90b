package model

// Kind identifies the closed set of element kinds a document can contain.
// Description tags are not a kind: their text folds into the parent's
// paragraph list during elaboration.
type Kind int

const (
	KindComponent Kind = iota
	KindRegister
	KindField
	KindEnum
	KindArray
	KindInstance
	KindMemoryMap
)

func (k Kind) String() string {
	switch k {
	case KindComponent:
		return "component"
	case KindRegister:
		return "register"
	case KindField:
		return "field"
	case KindEnum:
		return "enum"
	case KindArray:
		return "array"
	case KindInstance:
		return "instance"
	case KindMemoryMap:
		return "memorymap"
	}
	return "unknown"
}

// tagKind maps a tag name onto its kind. For array tags the second result
// names the kind of element the array repeats.
func tagKind(name string) (kind, elem Kind, ok bool) {
	switch name {
	case "component":
		return KindComponent, 0, true
	case "register":
		return KindRegister, 0, true
	case "field":
		return KindField, 0, true
	case "enum":
		return KindEnum, 0, true
	case "instance":
		return KindInstance, 0, true
	case "memorymap":
		return KindMemoryMap, 0, true
	case "registerarray":
		return KindArray, KindRegister, true
	case "fieldarray":
		return KindArray, KindField, true
	case "instancearray":
		return KindArray, KindInstance, true
	}
	return 0, 0, false
}

// isDescTag reports whether a tag supplies description text rather than a
// placed element.
func isDescTag(name string) bool {
	return name == "desc" || name == "description"
}

// childAllowed reports whether a child of kind ck (with array element kind
// ce) may appear under parent n.
func childAllowed(n *Node, ck, ce Kind) bool {
	switch n.Kind {
	case KindComponent:
		return ck == KindRegister || (ck == KindArray && ce == KindRegister)
	case KindRegister:
		return ck == KindField || (ck == KindArray && ce == KindField)
	case KindField:
		return ck == KindEnum
	case KindMemoryMap:
		return ck == KindInstance || (ck == KindArray && ce == KindInstance)
	case KindArray:
		return ck == n.Array().Elem
	}
	return false
}

// allowsText reports whether free text directly inside a tag of this kind
// becomes a description paragraph. Arrays are pure repetition containers and
// take no text.
func (k Kind) allowsText() bool {
	return k != KindArray
}
