package basil

// Kind identifies the structural shape of a Type (spec.md §3 DATA MODEL).
type Kind int

const (
	KInvalid Kind = iota

	// Primitive kinds.
	KInt
	KFloat
	KDouble
	KBool
	KChar
	KString
	KSymbol
	KType
	KVoid
	KAny
	KError
	KUndefined
	KModule

	// Composite kinds.
	KList
	KArray
	KTuple
	KUnion
	KIntersect
	KStruct
	KDict
	KFunction
	KNamed

	// Meta kind.
	KTVar

	// Phase kind.
	KRuntime
)

func (k Kind) String() string {
	switch k {
	case KInvalid:
		return "invalid"
	case KInt:
		return "Int"
	case KFloat:
		return "Float"
	case KDouble:
		return "Double"
	case KBool:
		return "Bool"
	case KChar:
		return "Char"
	case KString:
		return "String"
	case KSymbol:
		return "Symbol"
	case KType:
		return "Type"
	case KVoid:
		return "Void"
	case KAny:
		return "Any"
	case KError:
		return "Error"
	case KUndefined:
		return "Undefined"
	case KModule:
		return "Module"
	case KList:
		return "List"
	case KArray:
		return "Array"
	case KTuple:
		return "Tuple"
	case KUnion:
		return "Union"
	case KIntersect:
		return "Intersect"
	case KStruct:
		return "Struct"
	case KDict:
		return "Dict"
	case KFunction:
		return "Function"
	case KNamed:
		return "Named"
	case KTVar:
		return "TVar"
	case KRuntime:
		return "Runtime"
	default:
		return "?"
	}
}

// LikeNumber reports whether values of this primitive kind widen among one
// another (spec.md §3 coercion: "numeric widening").
func (k Kind) LikeNumber() bool {
	return k == KInt || k == KFloat || k == KDouble
}
