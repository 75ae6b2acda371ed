package msl

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gogpu/spvmsl/spirv"
)

// Location value marking a member diverted out of the stage_in block.
const unknownLocation = 0xFFFFFFFF

// Textual references used for synthesized interface variables.
const (
	stageInVarName      = "in"
	stageOutVarName     = "out"
	stageUniformVarName = "uniforms"
	samplerNameSuffix   = "Smplr"
)

// memberKey identifies one member of one struct type.
type memberKey struct {
	typeID spirv.Id
	index  int
}

// resourceIndexCounters auto-assigns Metal resource slots when no
// binding table entry matches.
type resourceIndexCounters struct {
	buffer  uint32
	texture uint32
	sampler uint32
}

// Compiler translates one parsed SPIR-V module into MSL source. A
// Compiler owns and mutates its module and must not be shared across
// goroutines; construct one instance per module.
type Compiler struct {
	module  *spirv.Module
	options Options

	vtxAttrsByLocation map[uint32]*VertexAttrBinding
	resourceBindings   []*ResourceBinding

	// Instance-scoped rewrite state. Survives emission restarts.
	stageInVarID       spirv.Id
	stageOutVarID      spirv.Id
	stageUniformsVarID spirv.Id

	nonStageInInputVarIDs map[uint32]spirv.Id
	structMemberPadding   map[memberKey]uint32
	functionGlobalVars    map[spirv.Id][]spirv.Id
	spvFuncImpls          map[spvFuncImpl]bool

	activeInterfaceVars  map[spirv.Id]bool
	activeInputBuiltins  map[spirv.BuiltIn]bool
	activeOutputBuiltins map[spirv.BuiltIn]bool

	needsVertexIdxArg   bool
	needsInstanceIdxArg bool
	qualPosVarName      string

	pragmaLines map[string]bool
	headerLines []string

	// Pass-scoped emission state. Cleared by reset at the top of each
	// emission iteration.
	out    strings.Builder
	indent int

	expressions       map[spirv.Id]string
	forcedTemporaries map[spirv.Id]bool
	declaredStructs   map[spirv.Id]bool
	resultTypes       map[spirv.Id]spirv.Id
	samplerForID      map[spirv.Id]spirv.Id
	needTranspose     map[spirv.Id]bool
	exprBackingVar    map[spirv.Id]spirv.Id
	packedType        map[spirv.Id]spirv.Id
	loadSources       map[spirv.Id]spirv.Id
	emittedFunctions  map[spirv.Id]bool

	nextResourceIndex resourceIndexCounters

	processingEntryPoint bool
	currentFunction      *spirv.Function
	forceRecompile       bool
	previousOpcode       spirv.Op
}

// NewCompiler creates a compiler for the module.
func NewCompiler(module *spirv.Module, options Options) *Compiler {
	if options.LangVersion.Major == 0 {
		options.LangVersion = Version1_2
	}
	return &Compiler{
		module:             module,
		options:            options,
		vtxAttrsByLocation: make(map[uint32]*VertexAttrBinding),
	}
}

// SetVertexAttrs installs the vertex attribute table.
func (c *Compiler) SetVertexAttrs(attrs []*VertexAttrBinding) {
	c.vtxAttrsByLocation = make(map[uint32]*VertexAttrBinding, len(attrs))
	for _, va := range attrs {
		c.vtxAttrsByLocation[va.Location] = va
	}
}

// SetResourceBindings installs the resource binding table.
func (c *Compiler) SetResourceBindings(bindings []*ResourceBinding) {
	c.resourceBindings = bindings
}

// Compile runs the rewrite passes once, then iterates emission until
// no pass requests a recompile. Numeric formatting always follows the
// classic C locale: Go's strconv is locale-independent.
func (c *Compiler) Compile() (source string, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(*Error); ok {
				source, err = "", e
				return
			}
			panic(r)
		}
	}()

	m := c.module
	if m == nil || m.EntryPoint == 0 || m.Function(m.EntryPoint) == nil {
		return "", NewError(ErrInvalidModule, "module has no entry point function")
	}

	c.nonStageInInputVarIDs = make(map[uint32]spirv.Id)
	c.structMemberPadding = make(map[memberKey]uint32)
	c.functionGlobalVars = make(map[spirv.Id][]spirv.Id)
	c.spvFuncImpls = make(map[spvFuncImpl]bool)
	c.pragmaLines = make(map[string]bool)
	c.headerLines = nil

	c.replaceIllegalNames()
	c.updateActiveInterface()
	c.preprocessOpCodes()

	c.qualPosVarName = ""
	c.stageInVarID = c.addInterfaceBlock(spirv.StorageClassInput)
	c.stageOutVarID = c.addInterfaceBlock(spirv.StorageClassOutput)
	c.stageUniformsVarID = c.addInterfaceBlock(spirv.StorageClassUniformConstant)

	c.localizeGlobalVariables()
	c.extractGlobalVariablesFromFunctions()

	c.markPackableStructs()

	if c.options.ResolveSpecializedArrayLengths {
		c.resolveSpecializedArrayLengths()
	}

	passCount := 0
	for {
		if passCount >= 3 {
			return "", NewError(ErrCompilationOverflow, "over 3 compilation loops detected, must be a bug")
		}

		c.reset()

		c.emitHeader()
		c.emitSpecializationConstants()
		c.emitResources()
		c.emitCustomFunctions()
		c.emitFunction(m.Function(m.EntryPoint))

		passCount++
		if !c.forceRecompile {
			break
		}
	}

	return c.out.String(), nil
}

// reset clears pass-scoped emission state at the top of each
// iteration of the emit loop.
func (c *Compiler) reset() {
	c.out.Reset()
	c.indent = 0
	c.expressions = make(map[spirv.Id]string)
	c.forcedTemporaries = make(map[spirv.Id]bool)
	c.declaredStructs = make(map[spirv.Id]bool)
	c.resultTypes = make(map[spirv.Id]spirv.Id)
	c.samplerForID = make(map[spirv.Id]spirv.Id)
	c.needTranspose = make(map[spirv.Id]bool)
	c.exprBackingVar = make(map[spirv.Id]spirv.Id)
	c.packedType = make(map[spirv.Id]spirv.Id)
	c.loadSources = make(map[spirv.Id]spirv.Id)
	c.emittedFunctions = make(map[spirv.Id]bool)
	c.nextResourceIndex = resourceIndexCounters{}
	c.forceRecompile = false
	c.processingEntryPoint = false
	c.currentFunction = nil
	c.previousOpcode = spirv.OpNop
}

// internalError aborts the compile with an internal error.
func (c *Compiler) internalError(format string, args ...any) {
	panic(Errorf(ErrInternalError, format, args...))
}

// fail aborts the compile with the given error kind.
func (c *Compiler) fail(kind ErrorKind, format string, args ...any) {
	panic(Errorf(kind, format, args...))
}

// Output helpers

//nolint:goprintffuncname
func (c *Compiler) write(format string, args ...any) {
	if len(args) == 0 {
		c.out.WriteString(format)
	} else {
		fmt.Fprintf(&c.out, format, args...)
	}
}

//nolint:goprintffuncname
func (c *Compiler) statement(format string, args ...any) {
	c.writeIndent()
	c.write(format, args...)
	c.out.WriteByte('\n')
}

func (c *Compiler) writeIndent() {
	for i := 0; i < c.indent; i++ {
		c.out.WriteString("    ")
	}
}

func (c *Compiler) beginScope() {
	c.statement("{")
	c.indent++
}

func (c *Compiler) endScope() {
	if c.indent > 0 {
		c.indent--
	}
	c.statement("}")
}

// addPragmaLine registers a pragma for the output header.
func (c *Compiler) addPragmaLine(line string) {
	c.pragmaLines[line] = true
}

// addHeaderLine registers an extra include for the output header.
func (c *Compiler) addHeaderLine(line string) {
	for _, h := range c.headerLines {
		if h == line {
			return
		}
	}
	c.headerLines = append(c.headerLines, line)
}

// emitHeader writes the pragma block, includes and namespace using.
func (c *Compiler) emitHeader() {
	if len(c.pragmaLines) > 0 {
		lines := make([]string, 0, len(c.pragmaLines))
		for l := range c.pragmaLines {
			lines = append(lines, l)
		}
		sort.Strings(lines)
		for _, l := range lines {
			c.statement(l)
		}
		c.statement("")
	}

	c.statement("#include <metal_stdlib>")
	c.statement("#include <simd/simd.h>")

	for _, h := range c.headerLines {
		c.statement(h)
	}

	c.statement("")
	c.statement("using namespace metal;")
	c.statement("")
}

// toName resolves the textual reference for an Id. Inside the entry
// function a qualified alias, if set, takes priority so flattened
// interface members resolve to their block reference.
func (c *Compiler) toName(id spirv.Id) string {
	if c.processingEntryPoint {
		if qual := c.module.Meta(id).QualifiedAlias; qual != "" {
			return qual
		}
	}
	return c.module.Name(id)
}

// entryPointName returns the (possibly renamed) entry function name.
func (c *Compiler) entryPointName() string {
	return c.module.Name(c.module.EntryPoint)
}

// sortedBufferIndices returns the keys of the non-stage-in input
// variable map in ascending buffer order.
func (c *Compiler) sortedBufferIndices() []uint32 {
	keys := make([]uint32, 0, len(c.nonStageInInputVarIDs))
	for k := range c.nonStageInInputVarIDs {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
