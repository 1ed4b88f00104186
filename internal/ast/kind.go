package ast

// Kind tags every node variant.
type Kind uint8

const (
	KindInvalid Kind = iota

	// units
	KindScript
	KindPackageSpec
	KindPackageBody
	KindRoutineUnit
	KindObjectType
	KindNestedTableType
	KindSynonym
	KindOpaqueUnit
	KindPassthrough
	KindAnonymousBlock
	KindSQLPlusCommand
	KindDirective
	KindEmptyUnit
	KindErrorUnit

	// parts
	KindCreatePrefix
	KindTerminator
	KindProperty
	KindParamList
	KindParameter
	KindRoutineHeading
	KindRecordField
	KindLabel
	KindArgList
	KindArgument
	KindExceptionHandler
	KindElsif
	KindCaseWhen
	KindCaseStmtWhen

	// declarations
	KindSubtypeDecl
	KindRecordTypeDecl
	KindCollectionTypeDecl
	KindRefCursorTypeDecl
	KindTypeDecl
	KindRoutineDecl
	KindPragmaDecl
	KindCursorDecl
	KindVariableDecl
	KindConstantDecl
	KindExceptionDecl
	KindAttributeDecl
	KindSkippedDecl

	// statements
	KindBlock
	KindLabeledStmt
	KindAssignment
	KindLoop
	KindForLoop
	KindWhileLoop
	KindCaseStmt
	KindIf
	KindOpen
	KindClose
	KindFetch
	KindForall
	KindExit
	KindRaise
	KindReturn
	KindPipeRow
	KindNullStmt
	KindSQL
	KindCall

	// expressions
	KindLiteral
	KindBind
	KindSubstitution
	KindSQLAttribute
	KindParen
	KindUnary
	KindCaseExpr
	KindTypedLiteral
	KindNull
	KindTreat
	KindNew
	KindReference
	KindInvocation
	KindBinary
	KindInList
	KindLike
	KindBetween
	KindIsNull
	KindSubquery

	// type expressions
	KindNamedType
	KindIntervalType
	KindTimestampType
	KindRefType
	KindTableType

	// restrictions
	KindLengthRestriction
	KindPrecisionRestriction
	KindRangeRestriction
)

var kindNames = [...]string{
	KindInvalid:              "Invalid",
	KindScript:               "Script",
	KindPackageSpec:          "PackageSpec",
	KindPackageBody:          "PackageBody",
	KindRoutineUnit:          "RoutineUnit",
	KindObjectType:           "ObjectType",
	KindNestedTableType:      "NestedTableType",
	KindSynonym:              "Synonym",
	KindOpaqueUnit:           "OpaqueUnit",
	KindPassthrough:          "Passthrough",
	KindAnonymousBlock:       "AnonymousBlock",
	KindSQLPlusCommand:       "SQLPlusCommand",
	KindDirective:            "Directive",
	KindEmptyUnit:            "EmptyUnit",
	KindErrorUnit:            "ErrorUnit",
	KindCreatePrefix:         "CreatePrefix",
	KindTerminator:           "Terminator",
	KindProperty:             "Property",
	KindParamList:            "ParamList",
	KindParameter:            "Parameter",
	KindRoutineHeading:       "RoutineHeading",
	KindRecordField:          "RecordField",
	KindLabel:                "Label",
	KindArgList:              "ArgList",
	KindArgument:             "Argument",
	KindExceptionHandler:     "ExceptionHandler",
	KindElsif:                "Elsif",
	KindCaseWhen:             "CaseWhen",
	KindCaseStmtWhen:         "CaseStmtWhen",
	KindSubtypeDecl:          "SubtypeDecl",
	KindRecordTypeDecl:       "RecordTypeDecl",
	KindCollectionTypeDecl:   "CollectionTypeDecl",
	KindRefCursorTypeDecl:    "RefCursorTypeDecl",
	KindTypeDecl:             "TypeDecl",
	KindRoutineDecl:          "RoutineDecl",
	KindPragmaDecl:           "PragmaDecl",
	KindCursorDecl:           "CursorDecl",
	KindVariableDecl:         "VariableDecl",
	KindConstantDecl:         "ConstantDecl",
	KindExceptionDecl:        "ExceptionDecl",
	KindAttributeDecl:        "AttributeDecl",
	KindSkippedDecl:          "SkippedDecl",
	KindBlock:                "Block",
	KindLabeledStmt:          "LabeledStmt",
	KindAssignment:           "Assignment",
	KindLoop:                 "Loop",
	KindForLoop:              "ForLoop",
	KindWhileLoop:            "WhileLoop",
	KindCaseStmt:             "CaseStmt",
	KindIf:                   "If",
	KindOpen:                 "Open",
	KindClose:                "Close",
	KindFetch:                "Fetch",
	KindForall:               "Forall",
	KindExit:                 "Exit",
	KindRaise:                "Raise",
	KindReturn:               "Return",
	KindPipeRow:              "PipeRow",
	KindNullStmt:             "NullStmt",
	KindSQL:                  "SQL",
	KindCall:                 "Call",
	KindLiteral:              "Literal",
	KindBind:                 "Bind",
	KindSubstitution:         "Substitution",
	KindSQLAttribute:         "SQLAttribute",
	KindParen:                "Paren",
	KindUnary:                "Unary",
	KindCaseExpr:             "CaseExpr",
	KindTypedLiteral:         "TypedLiteral",
	KindNull:                 "Null",
	KindTreat:                "Treat",
	KindNew:                  "New",
	KindReference:            "Reference",
	KindInvocation:           "Invocation",
	KindBinary:               "Binary",
	KindInList:               "InList",
	KindLike:                 "Like",
	KindBetween:              "Between",
	KindIsNull:               "IsNull",
	KindSubquery:             "Subquery",
	KindNamedType:            "NamedType",
	KindIntervalType:         "IntervalType",
	KindTimestampType:        "TimestampType",
	KindRefType:              "RefType",
	KindTableType:            "TableType",
	KindLengthRestriction:    "LengthRestriction",
	KindPrecisionRestriction: "PrecisionRestriction",
	KindRangeRestriction:     "RangeRestriction",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(?)"
}
