package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка - на первое время
	UnknownCode Code = 0

	// Scope / symbol / usage (1000-1999)
	SymInfo              Code = 1000
	SymRedefinition      Code = 1001
	SymFinalOverride     Code = 1002
	SymRefinementKind    Code = 1003
	SymRefinementMods    Code = 1004
	SymDuplicateImport   Code = 1005
	SymDuplicateCtor     Code = 1006
	SymDuplicateDtor     Code = 1007
	SymExportConflict    Code = 1008
	SymDuplicateAccessor Code = 1009

	// Desugaring (2000-2999)
	DsgInfo              Code = 2000
	DsgDuplicateModifier Code = 2001

	// Validation (3000-3999)
	ValInfo                Code = 3000
	ValIllegalModifier     Code = 3001
	ValAmbiguousModifier   Code = 3002
	ValDuplicateModifier   Code = 3003
	ValUselessModifier     Code = 3004
	ValExternTraits        Code = 3005
	ValExternMember        Code = 3006
	ValExternBody          Code = 3007
	ValThisParamPlacement  Code = 3008
	ValIllegalCtor         Code = 3009
	ValIllegalDtor         Code = 3010
	ValStaticCtor          Code = 3011
	ValStaticDtor          Code = 3012
	ValIfaceMethodBody     Code = 3013
	ValIfaceStaticMethod   Code = 3014
	ValIfaceNonPublic      Code = 3015
	ValMissingBody         Code = 3016
	ValStaticAbstract      Code = 3017
	ValFinalAbstract       Code = 3018
	ValPrivateAbstract     Code = 3019
	ValIfaceVariable       Code = 3020
	ValRequireNotLiteral   Code = 3021
	ValDuplicateLabel      Code = 3022
	ValGotoUndefined       Code = 3023
	ValGotoUnreachable     Code = 3024
	ValBreakUndefinedLabel Code = 3025
	ValBreakLabelPosition  Code = 3026
	ValBreakOutside        Code = 3027
	ValContinueOutside     Code = 3028
	ValReturnOutside       Code = 3029
	ValYieldOutside        Code = 3030
	ValInvalidAssignTarget Code = 3031
	ValSuperCallOutside    Code = 3032
	ValSuperCallPosition   Code = 3033
	ValThisInSuperCall     Code = 3034
	ValSuspiciousSelf      Code = 3035
	ValDictInExpression    Code = 3036
	ValEnumInIface         Code = 3037

	// Resolution (4000-4999)
	ResInfo            Code = 4000
	ResUndefinedSymbol Code = 4001
	ResPrivateAccess   Code = 4002
	ResUnreachableVar  Code = 4003
	ResLookupBug       Code = 4004
	ResNotAClass       Code = 4005
	ResNotAnIface      Code = 4006
	ResNotATrait       Code = 4007
	ResTraitNoMember   Code = 4008
	ResInvalidNewType  Code = 4009
	ResInvalidCastType Code = 4010
	ResThisOutside     Code = 4011
	ResSuperOutside    Code = 4012
	ResSelfOutside     Code = 4013
	ResRequireNotConst Code = 4014
	ResEnumNotConst    Code = 4015
	ResAbstractFinal   Code = 4016
	ResMissingImpl     Code = 4017
	ResNonStatic       Code = 4018
	ResDirectMember    Code = 4019
	ResSuperCtor       Code = 4020
	ResInvalidAssign   Code = 4021
	ResConstAssign     Code = 4022
	ResInvalidType     Code = 4023
	ResCyclicInherit   Code = 4024

	// Reduction (5000-5999)
	RedInfo           Code = 5000
	RedDivisionByZero Code = 5001
	RedIllegalOffset  Code = 5002
	RedOffsetType     Code = 5003
	RedOffsetRange    Code = 5004
	RedSubstitution   Code = 5005
	RedEngineConst    Code = 5006
	RedDictKey        Code = 5007

	// IO / loading (6000-6999)
	IOInfo           Code = 6000
	IOLoadFailed     Code = 6001
	IODecodeFailed   Code = 6002
	IORequireMissing Code = 6003
	IORequireCycle   Code = 6004

	// Observability (7000-7999)
	ObsInfo    Code = 7000
	ObsTimings Code = 7001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:          "Unknown error",
		SymInfo:              "Symbol information",
		SymRedefinition:      "Redefinition of symbol",
		SymFinalOverride:     "Override of final symbol",
		SymRefinementKind:    "Refinement type mismatch",
		SymRefinementMods:    "Refinement modifier mismatch",
		SymDuplicateImport:   "Duplicate import",
		SymDuplicateCtor:     "Duplicate constructor",
		SymDuplicateDtor:     "Duplicate destructor",
		SymExportConflict:    "Conflicting export",
		SymDuplicateAccessor: "Duplicate accessor",

		DsgInfo:              "Desugar information",
		DsgDuplicateModifier: "Duplicate modifier in nested group",

		ValInfo:                "Validation information",
		ValIllegalModifier:     "Illegal modifier",
		ValAmbiguousModifier:   "Ambiguous modifier",
		ValDuplicateModifier:   "Duplicate modifier",
		ValUselessModifier:     "Modifier has no effect",
		ValExternTraits:        "Extern declaration with traits",
		ValExternMember:        "Invalid member in extern declaration",
		ValExternBody:          "Extern function with body",
		ValThisParamPlacement:  "This-parameter outside of constructor",
		ValIllegalCtor:         "Illegal constructor declaration",
		ValIllegalDtor:         "Illegal destructor declaration",
		ValStaticCtor:          "Static constructor",
		ValStaticDtor:          "Static destructor",
		ValIfaceMethodBody:     "Interface method with body",
		ValIfaceStaticMethod:   "Static interface method",
		ValIfaceNonPublic:      "Non-public interface method",
		ValMissingBody:         "Function without body",
		ValStaticAbstract:      "Abstract static method",
		ValFinalAbstract:       "Abstract final method",
		ValPrivateAbstract:     "Abstract private method",
		ValIfaceVariable:       "Variable inside interface",
		ValRequireNotLiteral:   "Require path is not a literal",
		ValDuplicateLabel:      "Duplicate label",
		ValGotoUndefined:       "Goto to undefined label",
		ValGotoUnreachable:     "Goto to unreachable label",
		ValBreakUndefinedLabel: "Break/continue of undefined label",
		ValBreakLabelPosition:  "Break/continue of label from invalid position",
		ValBreakOutside:        "Break outside of loop/switch",
		ValContinueOutside:     "Continue outside of loop/switch",
		ValReturnOutside:       "Return outside of function",
		ValYieldOutside:        "Yield outside of function",
		ValInvalidAssignTarget: "Invalid assignment target",
		ValSuperCallOutside:    "Super-call outside of constructor",
		ValSuperCallPosition:   "Super-call is not the first statement",
		ValThisInSuperCall:     "Access to this inside super-call",
		ValSuspiciousSelf:      "Suspicious use of self",
		ValDictInExpression:    "Dict literal inside expression",
		ValEnumInIface:         "Enum inside interface",

		ResInfo:            "Resolution information",
		ResUndefinedSymbol: "Access to undefined symbol",
		ResPrivateAccess:   "Access to private symbol",
		ResUnreachableVar:  "Variable is not yet accessible",
		ResLookupBug:       "Lookup failure",
		ResNotAClass:       "Not a class",
		ResNotAnIface:      "Not an interface",
		ResNotATrait:       "Not a trait",
		ResTraitNoMember:   "Trait has no such member",
		ResInvalidNewType:  "Invalid type in new-expression",
		ResInvalidCastType: "Invalid type in cast",
		ResThisOutside:     "this outside of class",
		ResSuperOutside:    "super outside of class",
		ResSelfOutside:     "self outside of class",
		ResRequireNotConst: "Require path is not constant",
		ResEnumNotConst:    "Enum value is not constant",
		ResAbstractFinal:   "Class is abstract and final",
		ResMissingImpl:     "Missing interface implementation",
		ResNonStatic:       "Invalid static access",
		ResDirectMember:    "Direct member access on trait or interface",
		ResSuperCtor:       "Invalid constructor forwarding",
		ResInvalidAssign:   "Invalid assignment target",
		ResConstAssign:     "Assignment to constant",
		ResInvalidType:     "Not a valid type",
		ResCyclicInherit:   "Cyclic inheritance",

		RedInfo:           "Reduction information",
		RedDivisionByZero: "Division by zero",
		RedIllegalOffset:  "Illegal offset target",
		RedOffsetType:     "Illegal offset type",
		RedOffsetRange:    "Offset out of range",
		RedSubstitution:   "Non-constant string substitution",
		RedEngineConst:    "Engine constant not defined here",
		RedDictKey:        "Illegal dictionary key",

		IOInfo:           "IO information",
		IOLoadFailed:     "Failed to load unit",
		IODecodeFailed:   "Failed to decode unit",
		IORequireMissing: "Required unit not found",
		IORequireCycle:   "Units require each other",

		ObsInfo:    "Observability information",
		ObsTimings: "Pipeline timings",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("SYM%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("DSG%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("VAL%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("RES%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("RED%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 7000 && ic < 8000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
