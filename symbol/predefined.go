package symbol

// Predefined symbols used throughout the grouper, evaluator and builtins.
// Mirrors the teacher's symbol/predefined_symbols.go convention of
// pre-interning frequently used names as package-level vars, but drawn from
// Basil's fixed punctuation/operator/keyword set (spec.md §3, §4.6) instead
// of GQL's table-schema field names.
var (
	Comma       = Intern(",")
	Pipe        = Intern("|")
	ColonColon  = Intern("::")
	Assign      = Intern("=")
	Colon       = Intern(":")
	With        = Intern("with")
	CaseArrow   = Intern("=>")
	Of          = Intern("of")
	ArrayKw     = Intern("array")
	ListKw      = Intern("list")
	Quote       = Intern("quote")
	Splice      = Intern("splice")
	Eval        = Intern("eval")
	Meta        = Intern("meta")
	Def         = Intern("def")
	Extern      = Intern("extern")
	Annotated   = Intern("annotated")
	Lambda      = Intern("lambda")
	Do          = Intern("do")
	Import      = Intern("import")
	Module      = Intern("module")
	Use         = Intern("use")
	At          = Intern("at")
	Dot         = Intern(".")
	If          = Intern("if")
	Else        = Intern("else")
	Then        = Intern("then")
	While       = Intern("while")
	Matches     = Intern("matches")
	Match       = Intern("match")
	Plus        = Intern("+")
	Minus       = Intern("-")
	Star        = Intern("*")
	Slash       = Intern("/")
	Percent     = Intern("%")
	Lt          = Intern("<")
	Le          = Intern("<=")
	Gt          = Intern(">")
	Ge          = Intern(">=")
	Eq          = Intern("==")
	Ne          = Intern("!=")
	And         = Intern("and")
	Or          = Intern("or")
	Xor         = Intern("xor")
	Not         = Intern("not")
	Head        = Intern("head")
	Tail        = Intern("tail")
	Length      = Intern("length")
	Find        = Intern("find")
	Arrow       = Intern("->")
	Question    = Intern("?")
	Just        = Intern("just")
	Typeof      = Intern("typeof")
	Is          = Intern("is")
	SubtypeTest = Intern(":>")
	Self        = Intern("self")
	Underscore  = Intern("_")
)

func init() {
	MarkPreInternedSymbols()
}
