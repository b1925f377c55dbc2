package ast

import "fmt"

// Kind tags every node variant. The set is closed: passes switch over it
// exhaustively and treat anything else as a bug.
type Kind uint8

const (
	KindInvalid Kind = iota

	// declarations
	KindUnit
	KindModule
	KindBlock
	KindClassDecl
	KindTraitDecl
	KindIfaceDecl
	KindNestedMods
	KindFnDecl
	KindCtorDecl
	KindDtorDecl
	KindGetterDecl
	KindSetterDecl
	KindParam
	KindThisParam
	KindRestParam
	KindVarDecl
	KindVarItem
	KindEnumDecl
	KindUseDecl
	KindUseAlias
	KindUseUnpack
	KindRequireDecl
	KindLabelDecl
	KindAliasDecl
	KindTraitUse
	KindTraitUseItem

	// statements
	KindDoStmt
	KindIfStmt
	KindElifClause
	KindElseClause
	KindForStmt
	KindForInStmt
	KindWhileStmt
	KindTryStmt
	KindCatchClause
	KindFinallyClause
	KindSwitchStmt
	KindCaseClause
	KindCaseLabel
	KindGotoStmt
	KindBreakStmt
	KindContinueStmt
	KindReturnStmt
	KindThrowStmt
	KindPrintStmt
	KindAssertStmt
	KindExprStmt
	KindTestStmt
	KindNativeStmt

	// expressions
	KindBinExpr
	KindCheckExpr
	KindCastExpr
	KindUpdateExpr
	KindAssignExpr
	KindMemberExpr
	KindOffsetExpr
	KindCondExpr
	KindCallExpr
	KindNamedArg
	KindRestArg
	KindYieldExpr
	KindUnaryExpr
	KindNewExpr
	KindDelExpr
	KindTupleExpr
	KindParenExpr
	KindFnExpr

	// literals and leaves
	KindIntLit
	KindFloatLit
	KindStrLit
	KindKStrLit
	KindRegexpLit
	KindArrLit
	KindObjLit
	KindObjPair
	KindNullLit
	KindTrueLit
	KindFalseLit
	KindThisExpr
	KindSuperExpr
	KindSelfExpr
	KindEngineConst
	KindTypeID
	KindIdent
	KindName

	kindCount
)

var kindNames = [...]string{
	KindInvalid:       "invalid",
	KindUnit:          "unit",
	KindModule:        "module",
	KindBlock:         "block",
	KindClassDecl:     "class_decl",
	KindTraitDecl:     "trait_decl",
	KindIfaceDecl:     "iface_decl",
	KindNestedMods:    "nested_mods",
	KindFnDecl:        "fn_decl",
	KindCtorDecl:      "ctor_decl",
	KindDtorDecl:      "dtor_decl",
	KindGetterDecl:    "getter_decl",
	KindSetterDecl:    "setter_decl",
	KindParam:         "param",
	KindThisParam:     "this_param",
	KindRestParam:     "rest_param",
	KindVarDecl:       "var_decl",
	KindVarItem:       "var_item",
	KindEnumDecl:      "enum_decl",
	KindUseDecl:       "use_decl",
	KindUseAlias:      "use_alias",
	KindUseUnpack:     "use_unpack",
	KindRequireDecl:   "require_decl",
	KindLabelDecl:     "label_decl",
	KindAliasDecl:     "alias_decl",
	KindTraitUse:      "trait_use",
	KindTraitUseItem:  "trait_use_item",
	KindDoStmt:        "do_stmt",
	KindIfStmt:        "if_stmt",
	KindElifClause:    "elif_clause",
	KindElseClause:    "else_clause",
	KindForStmt:       "for_stmt",
	KindForInStmt:     "for_in_stmt",
	KindWhileStmt:     "while_stmt",
	KindTryStmt:       "try_stmt",
	KindCatchClause:   "catch_clause",
	KindFinallyClause: "finally_clause",
	KindSwitchStmt:    "switch_stmt",
	KindCaseClause:    "case_clause",
	KindCaseLabel:     "case_label",
	KindGotoStmt:      "goto_stmt",
	KindBreakStmt:     "break_stmt",
	KindContinueStmt:  "continue_stmt",
	KindReturnStmt:    "return_stmt",
	KindThrowStmt:     "throw_stmt",
	KindPrintStmt:     "print_stmt",
	KindAssertStmt:    "assert_stmt",
	KindExprStmt:      "expr_stmt",
	KindTestStmt:      "test_stmt",
	KindNativeStmt:    "native_stmt",
	KindBinExpr:       "bin_expr",
	KindCheckExpr:     "check_expr",
	KindCastExpr:      "cast_expr",
	KindUpdateExpr:    "update_expr",
	KindAssignExpr:    "assign_expr",
	KindMemberExpr:    "member_expr",
	KindOffsetExpr:    "offset_expr",
	KindCondExpr:      "cond_expr",
	KindCallExpr:      "call_expr",
	KindNamedArg:      "named_arg",
	KindRestArg:       "rest_arg",
	KindYieldExpr:     "yield_expr",
	KindUnaryExpr:     "unary_expr",
	KindNewExpr:       "new_expr",
	KindDelExpr:       "del_expr",
	KindTupleExpr:     "tuple_expr",
	KindParenExpr:     "paren_expr",
	KindFnExpr:        "fn_expr",
	KindIntLit:        "int_lit",
	KindFloatLit:      "float_lit",
	KindStrLit:        "str_lit",
	KindKStrLit:       "kstr_lit",
	KindRegexpLit:     "regexp_lit",
	KindArrLit:        "arr_lit",
	KindObjLit:        "obj_lit",
	KindObjPair:       "obj_pair",
	KindNullLit:       "null_lit",
	KindTrueLit:       "true_lit",
	KindFalseLit:      "false_lit",
	KindThisExpr:      "this_expr",
	KindSuperExpr:     "super_expr",
	KindSelfExpr:      "self_expr",
	KindEngineConst:   "engine_const",
	KindTypeID:        "type_id",
	KindIdent:         "ident",
	KindName:          "name",
}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Valid reports whether k names a real node variant.
func (k Kind) Valid() bool { return k > KindInvalid && k < kindCount }

// NumKinds is the number of node variants, KindInvalid excluded.
const NumKinds = int(kindCount) - 1
