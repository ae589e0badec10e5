package hbxjs

// Runtime symbol table.  The emitted code calls these identifiers; their
// meaning is fixed by the runtime library.  Names follow the $_ convention
// for functions and $-prefixed locals for per-component plumbing.
const (
	// element / component construction
	SymTag              = "$_tag"
	SymComponent        = "$_c"
	SymDynamicComponent = "$_dc"
	SymArgs             = "$_args"
	SymEmptyDOMProps    = "$_edp"
	SymGetArgs          = "$_GET_ARGS"
	SymGetFW            = "$_GET_FW"
	SymGetSlots         = "$_GET_SLOTS"
	SymFinalize         = "$_FIN"

	// control flow
	SymIf        = "$_if"
	SymEach      = "$_each"
	SymEachSync  = "$_eachSync"
	SymUCW       = "$_ucw"
	SymSlot      = "$_slot"
	SymInElement = "$_inElement"

	// built-in helpers
	SymEq              = "$_eq"
	SymNot             = "$_not"
	SymOr              = "$_or"
	SymAnd             = "$_and"
	SymIfHelper        = "$_ifHelper"
	SymHash            = "$_hash"
	SymFn              = "$_fn"
	SymHasBlock        = "$_hasBlock"
	SymHasBlockParams  = "$_hasBlockParams"
	SymDebugger        = "$_debugger"
	SymComponentHelper = "$_componentHelper"
	SymHelperHelper    = "$_helperHelper"
	SymModifierHelper  = "$_modifierHelper"
	SymStyle           = "$_style"

	// name resolution
	SymMaybeHelper   = "$_maybeHelper"
	SymMaybeModifier = "$_maybeModifier"

	// args plumbing and locals
	SymArgsProperty = "$args"
	SymLocalFW      = "$fw"
	SymLocalSlots   = "$slots"
	SymNoop         = "$noop"
	SymIndex        = "$index"
	SymScopeKey     = "$_scope"
	SymEvalKey      = "$_eval"

	// namespace providers
	SymSVGProvider  = "$_svgProvider"
	SymMathProvider = "$_mathProvider"
	SymHTMLProvider = "$_htmlProvider"
)

// ArgsAlias is the expression reaching the current component's arguments
// object.  @x resolves to ArgsAlias + ".x" (or a computed member when the
// name is not identifier-safe).
const ArgsAlias = "this[" + SymArgsProperty + "]"

// Event channel names understood by the runtime.
const (
	EventOnCreated   = "oncreated"
	EventTextContent = "textContent"
)

// internal helper-name markers.  The handler markers produced by the
// visitor never collide with template-level helper names because of the $:
// prefix; markerElement is the template-level element helper name itself.
const (
	markerElement   = "element"
	markerOnCreated = "$:oncreated"
	markerOnHandler = "$:on"
	markerModifier  = "$:modifier"
)

// PureFunctions lists runtime calls that are side-effect free; the
// serializer annotates them with /*#__PURE__*/ when asked to.
var PureFunctions = map[string]bool{
	SymTag:              true,
	SymComponent:        true,
	SymDynamicComponent: true,
	SymArgs:             true,
	SymHash:             true,
	SymFn:               true,
	SymEq:               true,
	SymNot:              true,
	SymOr:               true,
	SymAnd:              true,
	SymIfHelper:         true,
}

// BuiltInHelpers maps template-level helper names to their runtime symbols.
// The component/helper/modifier keywords are dispatched separately because
// their call shape differs (positional array + named object).
var BuiltInHelpers = map[string]string{
	"if":               SymIfHelper,
	"eq":               SymEq,
	"not":              SymNot,
	"or":               SymOr,
	"and":              SymAnd,
	"hash":             SymHash,
	"fn":               SymFn,
	"has-block":        SymHasBlock,
	"has-block-params": SymHasBlockParams,
	"debugger":         SymDebugger,
}

// keywordHelpers are the contextual-lookup keywords with the
// sym([positional], {named}) call shape.
var keywordHelpers = map[string]string{
	"component": SymComponentHelper,
	"helper":    SymHelperHelper,
	"modifier":  SymModifierHelper,
}

// reactiveSet marks the built-ins whose positional arguments defer
// evaluation of nested helpers with a () => wrapper.
var reactiveSet = map[string]bool{
	"if":  true,
	"eq":  true,
	"not": true,
	"or":  true,
	"and": true,
}

// IsBuiltInHelperName reports whether name resolves to a runtime built-in
// when it is not shadowed by a local binding.
func IsBuiltInHelperName(name string) bool {
	if _, ok := BuiltInHelpers[name]; ok {
		return true
	}
	if _, ok := keywordHelpers[name]; ok {
		return true
	}
	return name == "unless"
}
